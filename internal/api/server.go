// Package api provides the HTTP API server for comparison runs.
// Uses chi router, tollbooth rate limiting, and Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sudo-tiz/dns-compare-go/internal/config"
	"github.com/sudo-tiz/dns-compare-go/internal/metrics"
	"github.com/sudo-tiz/dns-compare-go/internal/models"
	"github.com/sudo-tiz/dns-compare-go/internal/tasks"
)

// Server wraps chi router with task queue client for async comparison runs.
type Server struct {
	router      *chi.Mux
	config      *config.Config
	tasksClient tasks.ClientInterface
}

// NewServer configures middleware stack: tollbooth, chi logging, panic recovery.
func NewServer(cfg *config.Config) *Server {
	s := &Server{router: chi.NewRouter(), config: cfg}

	// Tollbooth rate limiter with configurable IP source (RemoteAddr, X-Forwarded-For, etc.)
	// Only enable if RequestsPerSecond > 0 (0 = disabled)
	if cfg.RateLimiting.RequestsPerSecond > 0 {
		lmt := tollbooth.NewLimiter(
			float64(cfg.GetRateLimitRequestsPerSecond()),
			&limiter.ExpirableOptions{DefaultExpirationTTL: 10 * time.Minute},
		)
		lmt.SetBurst(cfg.GetRateLimitBurstSize())

		ipSource := os.Getenv("RATE_LIMIT_IP_SOURCE")
		if ipSource == "" {
			ipSource = "RemoteAddr"
		}
		lmt.SetIPLookup(limiter.IPLookup{Name: ipSource, IndexFromRight: 0})
		lmt.SetMessage(`{"error":"rate limit exceeded"}`)
		lmt.SetMessageContentType("application/json")

		s.router.Use(func(next http.Handler) http.Handler {
			return tollbooth.HTTPMiddleware(lmt)(next)
		})
	}

	// Chi middleware for logging, recovery, request ID, real IP
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)

	s.router.Post("/compare", s.handleCompare)
	s.router.Get("/tasks/{taskID}", s.handleGetTaskStatus)
	s.router.Get("/health", s.handleHealthCheck)
	s.router.Head("/health", s.handleHealthCheck)
	s.router.Get("/metrics", s.handleMetrics)

	return s
}

// SetTasksClient injects task queue client (Asynq or in-memory).
func (s *Server) SetTasksClient(c tasks.ClientInterface) { s.tasksClient = c }

// Router exposes chi.Mux for testing.
func (s *Server) Router() http.Handler { return s.router }

// Run starts HTTP server with config-driven timeouts.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.GetServerReadTimeout()) * time.Second,
		WriteTimeout: time.Duration(s.config.GetServerWriteTimeout()) * time.Second,
		IdleTimeout:  time.Duration(s.config.GetServerIdleTimeout()) * time.Second,
	}
	return srv.ListenAndServe()
}

// handleCompare submits a comparison run for asynchronous processing
// @Summary Submit comparison task
// @Description Enqueue a primary/secondary nameserver comparison. Returns a task ID that can be polled.
// @Tags Compare
// @Accept json
// @Produce json
// @Param request body models.CompareRequest true "Comparison parameters"
// @Success 200 {object} models.TaskResponse "Task accepted and enqueued"
// @Failure 400 {object} models.ErrorResponse "Invalid request or missing parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 503 {object} models.ErrorResponse "No workers available"
// @Router /compare [post]
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	metrics.APIRequestsTotal.WithLabelValues("compare").Inc()

	// Config resolvers fill in omitted targets before validation.
	if req.Primary == "" {
		req.Primary = s.config.GetPrimary()
	}
	if req.Secondary == "" {
		req.Secondary = s.config.GetSecondary()
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxEntries := s.config.GetMaxEntriesPerReq()
	if len(req.Entries) > maxEntries {
		respondError(w, http.StatusBadRequest, "too many entries for this server")
		return
	}

	if s.tasksClient == nil {
		respondError(w, http.StatusInternalServerError, "tasks client not configured")
		return
	}

	// Check worker availability - only Asynq mode needs this
	if asynqClient, ok := s.tasksClient.(*tasks.Client); ok {
		if !asynqClient.HasActiveWorkers(r.Context()) {
			respondError(w, http.StatusServiceUnavailable, "no workers available - tasks cannot be processed")
			return
		}
	}

	id, err := s.tasksClient.EnqueueCompare(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, models.TaskResponse{TaskID: id, Message: "comparison enqueued"})
}

// handleGetTaskStatus retrieves the status and result of a submitted task
// @Summary Get task status and result
// @Description Retrieve the status and result of a previously submitted comparison task
// @Tags Tasks
// @Produce json
// @Param taskID path string true "Task ID"
// @Success 200 {object} models.TaskStatusResponse "Task found"
// @Failure 404 {object} models.ErrorResponse "Task not found"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /tasks/{taskID} [get]
func (s *Server) handleGetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	if s.tasksClient == nil {
		respondError(w, http.StatusInternalServerError, "tasks client not configured")
		return
	}
	status, err := s.tasksClient.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		if err.Error() == "not found" {
			respondError(w, http.StatusNotFound, "task not found")
		} else {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	metrics.APIResultPollsTotal.Inc()

	respondJSON(w, http.StatusOK, status)
}

// handleHealthCheck returns degraded if Asynq workers unavailable
// @Summary Health check
// @Description Check if the API service is running and workers are available
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Service is healthy or degraded"
// @Router /health [get]
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{Status: "ok"}

	if asynqClient, ok := s.tasksClient.(*tasks.Client); ok {
		if !asynqClient.HasActiveWorkers(r.Context()) {
			health.Status = "degraded"
			health.Warning = "no active workers detected"
		}
	}

	if health.Status == "degraded" {
		respondJSON(w, http.StatusServiceUnavailable, health)
		return
	}

	respondJSON(w, http.StatusOK, health)
}

// handleMetrics exposes Prometheus metrics
// @Summary Prometheus metrics
// @Description Expose application metrics in Prometheus format
// @Tags System
// @Produce text/plain
// @Success 200 {string} string "Prometheus metrics"
// @Router /metrics [get]
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
