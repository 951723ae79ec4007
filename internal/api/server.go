package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/vaheed/airlog/internal/db"
	"github.com/vaheed/airlog/internal/ingest"
	"github.com/vaheed/airlog/internal/models"
	"github.com/vaheed/airlog/internal/version"
	"github.com/vaheed/airlog/internal/window"
)

//go:embed openapi.json templates/*.html
var assets embed.FS

// readAsset is swapped in tests.
var readAsset = assets.ReadFile

// maxBody caps a sensor payload; real ones are well under 200 bytes.
const maxBody = 64 << 10

var dashboard = template.Must(template.New("index.html").Funcs(sprig.FuncMap()).ParseFS(assets, "templates/index.html"))

type Server struct {
	log       *slog.Logger
	db        *db.DB
	recorder  *ingest.Recorder
	windows   *window.Aggregator
	dbTimeout time.Duration
}

func New(l *slog.Logger, d *db.DB, loc *time.Location, dbTimeout time.Duration) *Server {
	store := models.NewStore(d.DB)
	if dbTimeout <= 0 {
		dbTimeout = 2 * time.Second
	}
	return &Server{
		log:       l,
		db:        d,
		recorder:  ingest.NewRecorder(l, store),
		windows:   window.NewAggregator(l, store, loc),
		dbTimeout: dbTimeout,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.withAccessLog)
	r.Use(instrument)
	r.Use(recoverer)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeError(w, http.StatusNotFound, "not found") })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { writeError(w, http.StatusMethodNotAllowed, "method") })

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)
	r.Get("/version", s.handleVersion)
	r.Get("/openapi.json", s.handleOpenAPI)
	r.Handle("/metrics", promHandler())

	r.With(middleware.RequestSize(maxBody)).Post("/log", s.handleLog)
	r.Get("/data", s.handleData)
	r.Get("/", s.handleDashboard)
	return r
}

// recoverer ensures handler panics don't crash the server; returns 500 JSON
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				writeError(w, http.StatusInternalServerError, "internal")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withAccessLog logs method, path, status code, duration and request id for every request
func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		defer func() {
			s.log.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.code),
				slog.String("remote", r.RemoteAddr),
				slog.String("request_id", id),
				slog.String("duration", time.Since(start).String()))
		}()
		next.ServeHTTP(sw, r)
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, version.Get("airlog"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.dbTimeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "db not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	b, err := readAsset("openapi.json")
	if err != nil {
		s.log.Error("read openapi document", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		s.log.Warn("write openapi document", slog.String("error", err.Error()))
	}
}

func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// MustMigrate applies the schema; used at startup and by tests
func (s *Server) MustMigrate(ctx context.Context) {
	if err := s.db.Migrate(ctx); err != nil {
		panic(err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
