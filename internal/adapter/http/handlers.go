package http

import (
	"math"
	"net/http"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	"github.com/couchcryptid/aqi-surface/internal/surface"
)

type snapshotInfo struct {
	ID        string    `json:"snapshot_id"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Stations  int       `json:"stations"`
}

func infoOf(s domain.Snapshot) snapshotInfo {
	return snapshotInfo{ID: s.ID, Source: s.Source, FetchedAt: s.FetchedAt, Stations: len(s.Stations)}
}

// handleAir serves the current station list as [{lat,lon,aqi,name}].
func (s *Server) handleAir(w http.ResponseWriter, _ *http.Request) {
	snap := s.svc.Snapshot()
	if snap.Empty() {
		writeError(w, s.logger, domain.ErrNoData)
		return
	}
	writeJSON(w, http.StatusOK, snap.Stations)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Refresh(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, infoOf(snap))
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	p, err := gridParams(r.URL.Query(), s.svc.DefaultParams())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, err := s.svc.Grid(r.Context(), p)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeEncoded(w, r, s.logger, res.Grid)
}

type layersResponse struct {
	SnapshotID string            `json:"snapshot_id"`
	Params     domain.GridParams `json:"params"`
	FogOpacity *float64          `json:"fog_opacity,omitempty"`
	Layers     []surface.Layer   `json:"layers"`
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := gridParams(q, s.svc.DefaultParams())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	zoom, err := optionalFloat(q, "zoom")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, err := s.svc.Grid(r.Context(), p)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	out := layersResponse{
		SnapshotID: res.SnapshotID,
		Params:     res.Params,
		Layers:     surface.Layers(res.Grid),
	}
	if out.Layers == nil {
		out.Layers = []surface.Layer{}
	}
	if zoom != nil {
		fog := surface.FogOpacity(*zoom)
		out.FogOpacity = &fog
	}
	writeEncoded(w, r, s.logger, out)
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err := coordParam(q, "lat")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	lon, err := coordParam(q, "lon")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	p, err := gridParams(q, s.svc.DefaultParams())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	res, err := s.svc.Point(r.Context(), lat, lon, p)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type stationRow struct {
	Rank   int                   `json:"rank"`
	Name   string                `json:"name"`
	AQI    int                   `json:"aqi"`
	Bucket domain.SeverityBucket `json:"bucket"`
	Color  string                `json:"color"`
	Lat    float64               `json:"lat"`
	Lon    float64               `json:"lon"`
}

type stationsResponse struct {
	Query    string       `json:"query,omitempty"`
	Count    int          `json:"count"`
	Stations []stationRow `json:"stations"`
}

// handleStations serves the ranked, searchable station table.
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	if snap.Empty() {
		writeError(w, s.logger, domain.ErrNoData)
		return
	}

	query := r.URL.Query().Get("q")
	ranked := domain.RankStations(snap.Stations, query)
	rows := make([]stationRow, len(ranked))
	for i, st := range ranked {
		// Only the displayed value is rounded; the bucket follows the raw reading.
		b := domain.BucketFor(st.AQI)
		rows[i] = stationRow{
			Rank:   i + 1,
			Name:   st.Name,
			AQI:    int(math.Floor(st.AQI + 0.5)),
			Bucket: b,
			Color:  b.Color(),
			Lat:    st.Lat,
			Lon:    st.Lon,
		}
	}
	writeJSON(w, http.StatusOK, stationsResponse{Query: query, Count: len(rows), Stations: rows})
}

type summaryResponse struct {
	snapshotInfo
	Params       domain.GridParams `json:"params"`
	StationStats domain.Summary    `json:"station_stats"`
	GridStats    domain.Summary    `json:"grid_stats"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := gridParams(r.URL.Query(), s.svc.DefaultParams())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	res, err := s.svc.Grid(r.Context(), p)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		snapshotInfo: infoOf(res.Snapshot),
		Params:       res.Params,
		StationStats: surface.SummarizeSamples(res.Snapshot.Stations),
		GridStats:    res.Summary,
	})
}
