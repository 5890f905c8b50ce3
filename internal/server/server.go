// Package server exposes the geolore operations over HTTP for the map UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/geolore/internal/model"
)

const maxRequestBytes = 1 << 20

// Core is the set of operations served
type Core interface {
	ResolveEntity(ctx context.Context, featureName string, category model.Category, feature model.Feature) model.WikiResult
	FallbackStats(feature model.Feature, category model.Category, maxStats int) []model.Stat
	FetchEvents(ctx context.Context, month, day int) ([]model.HistoricalEvent, error)
	EntityCard(ctx context.Context, feature model.Feature) model.EntityCard
}

// Server serves Core over a chi router
type Server struct {
	core     Core
	router   *chi.Mux
	cfg      model.ServerConfig
	statsMax int
	logger   *slog.Logger
}

// New creates a server; statsMax is the fallback-stats default when the
// request names none.
func New(core Core, cfg model.ServerConfig, statsMax int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if statsMax <= 0 {
		statsMax = 3
	}

	s := &Server{core: core, cfg: cfg, statsMax: statsMax, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/entity", s.handleEntity)
		r.Post("/wiki", s.handleWiki)
		r.Post("/fallback-stats", s.handleFallbackStats)
		r.Get("/events/{month}/{day}", s.handleEvents)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	feature, ok := decodeFeature(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.core.EntityCard(r.Context(), feature))
}

func (s *Server) handleWiki(w http.ResponseWriter, r *http.Request) {
	feature, ok := decodeFeature(w, r)
	if !ok {
		return
	}
	category := model.ParseCategory(string(feature.Category))
	writeJSON(w, http.StatusOK, s.core.ResolveEntity(r.Context(), feature.DisplayName(), category, feature))
}

func (s *Server) handleFallbackStats(w http.ResponseWriter, r *http.Request) {
	feature, ok := decodeFeature(w, r)
	if !ok {
		return
	}
	maxStats := queryInt(r, "max", s.statsMax)
	if maxStats <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("max must be positive"))
		return
	}
	category := model.ParseCategory(string(feature.Category))
	writeJSON(w, http.StatusOK, s.core.FallbackStats(feature, category, maxStats))
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	month, err1 := strconv.Atoi(chi.URLParam(r, "month"))
	day, err2 := strconv.Atoi(chi.URLParam(r, "day"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, errors.New("month and day must be integers"))
		return
	}

	evs, err := s.core.FetchEvents(r.Context(), month, day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func decodeFeature(w http.ResponseWriter, r *http.Request) (model.Feature, bool) {
	var feature model.Feature
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&feature); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode feature: %w", err))
		return feature, false
	}
	return feature, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
