package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Surface is the service behind the API.
type Surface interface {
	sharedobs.ReadinessChecker
	Snapshot() domain.Snapshot
	DefaultParams() domain.GridParams
	Refresh(ctx context.Context) (domain.Snapshot, error)
	Grid(ctx context.Context, p domain.GridParams) (*domain.GridResult, error)
	Point(ctx context.Context, lat, lon float64, p domain.GridParams) (domain.PointResult, error)
}

// Server exposes the AQI surface API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        Surface
	logger     *slog.Logger
}

// NewServer creates an HTTP server with every route registered. An empty
// corsOrigins list allows all origins.
func NewServer(addr string, svc Surface, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(svc)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/air", s.handleAir).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/grid", s.handleGrid).Methods(http.MethodGet)
	api.HandleFunc("/layers", s.handleLayers).Methods(http.MethodGet)
	api.HandleFunc("/point", s.handlePoint).Methods(http.MethodGet)
	api.HandleFunc("/stations", s.handleStations).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	handler := handlers.CORS(
		handlers.AllowedOrigins(corsOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Accept", "Content-Type"}),
	)(handlers.CompressHandler(r))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
