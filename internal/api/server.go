package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/docchat/internal/config"
	"github.com/dgallion1/docchat/internal/match"
	"github.com/dgallion1/docchat/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server for docchat.
type Server struct {
	router       chi.Router
	builder      *pipeline.Builder
	orchestrator *pipeline.Orchestrator
	engines      map[match.Mode]*match.Engine
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(builder *pipeline.Builder, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		builder:      builder,
		orchestrator: orch,
		engines: map[match.Mode]*match.Engine{
			match.ModeLexical: match.NewEngine(match.ModeLexical, cfg.MatchThreshold, cfg.MatchTopK),
			match.ModeFuzzy:   match.NewEngine(match.ModeFuzzy, cfg.MatchThreshold, cfg.MatchTopK),
		},
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Endpoints behind the API key when one is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/chat", s.handleChat)
		r.Post("/cache/build", s.handleBuildCache)
		r.Get("/cache/build/{jobID}/status", s.handleBuildStatus)
		r.Get("/documents", s.handleListDocuments)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// engine picks the matcher for a per-request mode override, falling back to
// the configured default.
func (s *Server) engine(mode string) *match.Engine {
	switch mode {
	case "lexical":
		return s.engines[match.ModeLexical]
	case "fuzzy":
		return s.engines[match.ModeFuzzy]
	default:
		return s.engines[match.Mode(s.cfg.MatchMode)]
	}
}
