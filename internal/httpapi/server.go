package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/httpapi/middleware"
	"github.com/guthdx/statuswatch/internal/scheduler"
	"github.com/guthdx/statuswatch/internal/status"
)

const availableEndpoints = "Status API - Available endpoints: " +
	"GET /api/status, GET /api/history/{service_id}, POST /api/checks/run, GET /healthz, GET /metrics"

// Server is the serving path: aggregated status and bounded history for
// the dashboard, plus the keyed manual check trigger. It is stateless
// between requests.
type Server struct {
	Logger    *zap.Logger
	Agg       *status.Aggregator
	Scheduler *scheduler.Scheduler
	AdminKeys middleware.Keys
	RateRPM   int
	RateBurst int
}

func NewServer(l *zap.Logger, agg *status.Aggregator, sched *scheduler.Scheduler, keys middleware.Keys, rateRPM, rateBurst int) *Server {
	return &Server{
		Logger:    l,
		Agg:       agg,
		Scheduler: sched,
		AdminKeys: keys,
		RateRPM:   rateRPM,
		RateBurst: rateBurst,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	// the dashboard is served from another origin; GET + preflight must
	// pass from anywhere
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(s.RateRPM, s.RateBurst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/history/{serviceID}", s.handleHistory)
	r.With(middleware.RequireAdmin(s.AdminKeys)).Post("/api/checks/run", s.handleRunChecks)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(availableEndpoints))
	})
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ov, err := s.Agg.Snapshot(r.Context())
	if err != nil {
		s.Logger.Error("status_snapshot_error", zap.Error(err))
		s.writeError(w, "Failed to fetch status data", err)
		return
	}
	// probe cycles run on a 10-minute cadence; a short cache is safe
	w.Header().Set("Cache-Control", "public, max-age=60")
	s.writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	serviceID := domain.ServiceID(chi.URLParam(r, "serviceID"))
	history, err := s.Agg.History(r.Context(), serviceID)
	if err != nil {
		s.Logger.Error("history_error",
			zap.String("service_id", string(serviceID)), zap.Error(err))
		s.writeError(w, "Failed to fetch history data", err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"serviceId": serviceID,
		"history":   history,
	})
}

// handleRunChecks runs one full cycle synchronously. Administrative only;
// the dashboard never calls it.
func (s *Server) handleRunChecks(w http.ResponseWriter, r *http.Request) {
	stats := s.Scheduler.RunCycle(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "completed",
		"stats":  stats,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("response_encode_error", zap.Error(err))
	}
}

// writeError surfaces a serving-path failure as a structured 500 without
// leaking anything beyond the message string.
func (s *Server) writeError(w http.ResponseWriter, label string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   label,
		"message": err.Error(),
	})
}
