package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"blog-backend/internal/auth"
	"blog-backend/internal/config"
	"blog-backend/internal/posts"
)

type Server struct {
	cfg      *config.Config
	posts    *posts.Service
	accounts *auth.Accounts
	verifier *auth.Verifier
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics
}

func New(cfg *config.Config, postSvc *posts.Service, accounts *auth.Accounts, verifier *auth.Verifier, logger *slog.Logger) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		cfg:      cfg,
		posts:    postSvc,
		accounts: accounts,
		verifier: verifier,
		log:      logger,
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID) // add unique id to each request context
	r.Use(middleware.RealIP)    // add request RemoteAddr to X-Real-IP
	r.Use(middleware.Logger)    // log start and end of each request
	r.Use(middleware.Recoverer) // recover and log from panic, return 500
	r.Use(s.metrics.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.HandleRegister)
			r.Post("/login", s.HandleLogin)
		})

		r.Route("/posts", func(r chi.Router) {
			// public routes
			r.Get("/", s.GetAllPosts)

			// protected routes
			r.Group(func(r chi.Router) {
				r.Use(s.verifier.Middleware(), s.RequireIdentity)
				r.Get("/my-posts", s.GetMyPosts)
				r.Post("/", s.HandleCreatePost)
			})

			r.Route("/{postID}", func(r chi.Router) {
				r.Use(PostCtx)
				r.Get("/", s.GetPost)
				r.Group(func(r chi.Router) {
					r.Use(s.verifier.Middleware(), s.RequireIdentity)
					r.Put("/", s.HandleEditPost)
					r.Delete("/", s.HandleDeletePost)
				})
			})
		})
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           otelhttp.NewHandler(s.Routes(), "blog-backend"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server running", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
