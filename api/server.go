// Package api provides the HTTP REST API server for cninsight.
//
// It exposes endpoints for downloading company statements, listing stored
// companies and report periods, and running ratio analyses.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/junyangz/cninsight/internal/analysis"
	"github.com/junyangz/cninsight/internal/config"
	"github.com/junyangz/cninsight/internal/service"
	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	facade *service.Facade
	log    zerolog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, facade *service.Facade, log zerolog.Logger) *Server {
	srv := &Server{
		cfg:    cfg,
		facade: facade,
		log:    log,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/companies", s.handleCompanies)
		r.Route("/companies/{code}", func(r chi.Router) {
			r.Get("/periods", s.handlePeriods)
			r.Post("/download", s.handleDownload)
			r.Get("/analysis", s.handleAnalysis)
		})

		r.Get("/analysis/kinds", s.handleKinds)
	})

	return r
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": "dev",
		},
	})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.facade.Companies(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if companies == nil {
		companies = []models.CompanyID{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: companies})
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	code := models.CompanyID(chi.URLParam(r, "code"))
	periods, err := s.facade.Periods(r.Context(), code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]string, 0, len(periods))
	for _, p := range periods {
		out = append(out, p.String())
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	code := models.CompanyID(chi.URLParam(r, "code"))

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	report, err := s.facade.DownloadAll(ctx, code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	code := models.CompanyID(chi.URLParam(r, "code"))

	kindStr := r.URL.Query().Get("kind")
	if kindStr == "" {
		kindStr = string(analysis.KindProfitability)
	}
	kind, err := analysis.ParseKind(kindStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	from, err := parsePeriodParam(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; use YYYY-MM-DD")
		return
	}
	to, err := parsePeriodParam(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; use YYYY-MM-DD")
		return
	}

	var baselines analysis.Baselines
	if kind == analysis.KindPeer {
		baselines = analysis.DefaultBaselines()
	}

	results, err := s.facade.RunAnalysis(r.Context(), code, from, to, kind, baselines)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"company": code,
			"name":    s.facade.CompanyName(r.Context(), code),
			"kind":    kind,
			"results": results,
		},
	})
}

func (s *Server) handleKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: analysis.Kinds()})
}

// writeDomainError maps domain errors to HTTP status codes: bad company
// codes are client errors, missing data is 404, upstream faults are 502.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var invalid *source.InvalidIdentifierError
	var insufficient *source.InsufficientDataError
	var unavailable *source.SourceUnavailableError

	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &insufficient):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &unavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parsePeriodParam(s string) (models.ReportPeriod, error) {
	if s == "" {
		return models.ReportPeriod{}, nil
	}
	return models.ParsePeriod(s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
