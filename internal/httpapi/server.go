package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MimeLyc/srtrans/internal/jobs"
	"github.com/MimeLyc/srtrans/internal/persistence"
	"github.com/MimeLyc/srtrans/pkg/log"
)

type batchRunner interface {
	Current() *jobs.Board
	Start(ctx context.Context, folder string) (string, error)
}

type historyReader interface {
	ListBatches(ctx context.Context, limit int) ([]persistence.BatchRecord, error)
	GetBatch(ctx context.Context, id string) (*persistence.BatchRecord, bool, error)
}

// Server exposes batch status, history and on-demand runs over HTTP.
type Server struct {
	runner  batchRunner
	history historyReader

	// batches started over HTTP outlive the request that started them
	baseCtx        context.Context
	allowedOrigins []string
	streamInterval time.Duration

	router *chi.Mux
	server *http.Server
}

type Option func(*Server)

func WithBaseContext(ctx context.Context) Option {
	return func(s *Server) {
		s.baseCtx = ctx
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithStreamInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.streamInterval = d
		}
	}
}

func NewServer(runner batchRunner, history historyReader, opts ...Option) *Server {
	s := &Server{
		runner:         runner,
		history:        history,
		baseCtx:        context.Background(),
		streamInterval: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("HTTP API listening on %s", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(corsOptions(s.allowedOrigins)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/files", s.handleListFiles)

		r.Get("/batches", s.handleListBatches)
		r.Post("/batches", s.handleStartBatch)
		r.Get("/batches/current", s.handleCurrentBatch)
		r.Get("/batches/current/stream", s.handleBatchStream)
		r.Get("/batches/{id}", s.handleGetBatch)
	})
	s.router = r
}

func corsOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}
