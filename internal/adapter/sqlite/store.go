// Package sqlite keeps recent station snapshots in a local SQLite file so
// the service can serve the last known good data after a restart or while
// the upstream API is down.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	_ "modernc.org/sqlite"
)

// DefaultRetain is how many snapshots are kept when the caller passes zero.
const DefaultRetain = 10

var initStatements = []string{
	`PRAGMA journal_mode=WAL`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		source     TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_stations (
		snapshot_seq INTEGER NOT NULL,
		idx          INTEGER NOT NULL,
		lat          REAL NOT NULL,
		lon          REAL NOT NULL,
		aqi          REAL NOT NULL,
		name         TEXT NOT NULL,
		PRIMARY KEY (snapshot_seq, idx)
	)`,
}

// Store implements domain.SnapshotStore and domain.StationSource.
type Store struct {
	db     *sql.DB
	retain int
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(ctx context.Context, path string, retain int, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, stmt := range initStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init snapshot db: %w", err)
		}
	}

	if retain <= 0 {
		retain = DefaultRetain
	}
	logger.Info("snapshot store opened", "path", path, "retain", retain)
	return &Store{db: db, retain: retain, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores the snapshot and prunes all but the newest ones.
func (s *Store) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, fetched_at) VALUES (?, ?, ?)`,
		snap.ID, snap.Source, snap.FetchedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot seq: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_stations (snapshot_seq, idx, lat, lon, aqi, name) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range snap.Stations {
		if _, err := stmt.ExecContext(ctx, seq, i, st.Lat, st.Lon, st.AQI, st.Name); err != nil {
			return fmt.Errorf("insert station %d: %w", i, err)
		}
	}

	pruned, err := s.prune(ctx, tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved",
		"snapshot_id", snap.ID,
		"source", snap.Source,
		"stations", len(snap.Stations),
		"pruned", pruned,
	)
	return nil
}

func (s *Store) prune(ctx context.Context, tx *sql.Tx) (int64, error) {
	const keep = `SELECT seq FROM snapshots ORDER BY seq DESC LIMIT ?`

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshot_stations WHERE snapshot_seq NOT IN (`+keep+`)`, s.retain); err != nil {
		return 0, fmt.Errorf("prune stations: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE seq NOT IN (`+keep+`)`, s.retain)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// LatestSnapshot returns the most recently saved snapshot, or
// domain.ErrNoSnapshot when the store is empty.
func (s *Store) LatestSnapshot(ctx context.Context) (domain.Snapshot, error) {
	var (
		snap      domain.Snapshot
		seq       int64
		fetchedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT seq, id, source, fetched_at FROM snapshots ORDER BY seq DESC LIMIT 1`,
	).Scan(&seq, &snap.ID, &snap.Source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrNoSnapshot
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query latest snapshot: %w", err)
	}

	if snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse fetched_at %q: %w", fetchedAt, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT lat, lon, aqi, name FROM snapshot_stations WHERE snapshot_seq = ? ORDER BY idx`, seq)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	snap.Stations = []domain.Sample{}
	for rows.Next() {
		var st domain.Sample
		if err := rows.Scan(&st.Lat, &st.Lon, &st.AQI, &st.Name); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan station: %w", err)
		}
		snap.Stations = append(snap.Stations, st)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("iterate stations: %w", err)
	}
	return snap, nil
}

// Stations returns the stations of the latest snapshot, so the store can
// sit in a source chain.
func (s *Store) Stations(ctx context.Context) ([]domain.Sample, error) {
	snap, err := s.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Stations, nil
}

// Count returns how many snapshots are stored.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count snapshots: %w", err)
	}
	return n, nil
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
