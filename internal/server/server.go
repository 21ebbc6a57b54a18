package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/tsukuyomi/internal/config"
	"github.com/nao1215/tsukuyomi/internal/database"
	"github.com/nao1215/tsukuyomi/internal/fractal"
	"github.com/nao1215/tsukuyomi/internal/pipeline"
	"github.com/nao1215/tsukuyomi/internal/render"
	"github.com/nao1215/tsukuyomi/internal/tracker"
)

// shutdownTimeout bounds graceful shutdown. In-flight delay sleeps are
// cancelled with the base context, so draining is quick.
const shutdownTimeout = 5 * time.Second

// Server is the trap HTTP server.
// It owns the request pipeline and the optional tracking store and hit log.
type Server struct {
	// cfg is the normalized trap configuration.
	cfg *config.Config

	// logger receives structured request and lifecycle logs.
	logger *slog.Logger

	// deriver produces tokens; the sitemap handlers use it directly.
	deriver *fractal.Deriver

	// pipeline is the per-request step sequence.
	pipeline *pipeline.Pipeline

	// renderer formats pages and the stats view.
	renderer *render.Renderer

	// store is the in-memory tracker; nil when tracking is disabled.
	store *tracker.Store

	// db is the persistent hit log; nil when persistence is disabled.
	db *database.HitDB

	// httpServer is the underlying listener.
	httpServer *http.Server
}

// New builds a Server from a normalized configuration.
// If cfg.DBDir is set, the hit database is opened (and created) there.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	deriver := fractal.NewDeriver(cfg.Salt)
	renderer := render.NewRenderer(cfg.RichContent)

	var store *tracker.Store
	if cfg.TrackingEnabled {
		store = tracker.NewStore(
			tracker.WithCapacity(cfg.TrackingCapacity),
			tracker.WithRecentTokens(cfg.RecentTokens),
		)
	}

	var db *database.HitDB
	if cfg.DBDir != "" {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open hit database: %w", err)
		}
	}

	p := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(
		pipeline.NewResolveStep(deriver),
		pipeline.NewFoldStep(cfg.MaxDepth, cfg.CycleLength),
		pipeline.NewTrackStep(store),
		pipeline.NewExpandStep(fractal.NewExpander(deriver, cfg.Branching)),
		pipeline.NewLocateStep(fractal.NewSynthesizer()),
		pipeline.NewRenderStep(renderer),
		pipeline.NewDelayStep(fractal.NewDelayPolicy(cfg.DelayMin, cfg.DelayMax, cfg.DelayAfterDepth)),
		pipeline.NewHitLogStep(db),
	)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		deriver:  deriver,
		pipeline: p,
		renderer: renderer,
		store:    store,
		db:       db,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// router builds the chi router. Unmatched paths fall through to the trap.
func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleTrap)
	r.Get("/page/{depth}/{token}", s.handleTrap)
	r.Get("/robots.txt", s.handleRobots)
	r.Get("/sitemap-index.xml", s.handleSitemapIndex)
	r.Get("/sitemap-{page}.xml", s.handleSitemap)
	r.Get("/stats", s.handleStats)
	r.NotFound(s.handleTrap)

	return r
}

// Handler returns the HTTP handler, for tests driving the server through
// httptest without a real listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("trap serving",
			"addr", s.cfg.Addr,
			"branching", s.cfg.Branching,
			"max_depth", s.cfg.MaxDepth,
			"cycle_length", s.cfg.CycleLength,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Close releases the server's resources. Safe to call after Run returns.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
