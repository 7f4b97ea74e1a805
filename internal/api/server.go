// Package api implements the HTTP server for the schema viewer: the
// Salesforce OAuth flow, the schema describe endpoints the frontend
// calls, and server-side diagram generation.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	"github.com/Jaganpro/sf-schema-viewer/pkg/config"
	"github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
	"github.com/Jaganpro/sf-schema-viewer/pkg/session"
)

// sessionCookie is the name of the session ID cookie.
const sessionCookie = "session_id"

// Server wires the HTTP surface together. It owns no request state; all
// per-user data lives in the session store.
type Server struct {
	cfg      *config.Config
	logger   *log.Logger
	sessions session.Store
	states   session.StateStore
	oauth    *salesforce.OAuthClient
	cache    cache.Cache
	keyer    cache.Keyer
	runner   *pipeline.Runner
}

// NewServer creates a server from its dependencies. Nil cache or keyer
// fall back to the no-op implementations.
func NewServer(cfg *config.Config, logger *log.Logger, sessions session.Store, states session.StateStore, store cache.Cache) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if store == nil {
		store = cache.NewNullCache()
	}
	keyer := cache.NewDefaultKeyer()

	return &Server{
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		states:   states,
		oauth: salesforce.NewOAuthClient(salesforce.OAuthConfig{
			ClientID:     cfg.Salesforce.ClientID,
			ClientSecret: cfg.Salesforce.ClientSecret,
			RedirectURI:  cfg.Salesforce.CallbackURL,
			LoginURL:     cfg.Salesforce.LoginURL,
		}, nil),
		cache:  store,
		keyer:  keyer,
		runner: pipeline.NewRunner(store, keyer, logger),
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handleLogin)
		r.Get("/callback", s.handleCallback)
		r.Get("/status", s.handleAuthStatus)
		r.Post("/logout", s.handleLogout)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/objects", s.handleListObjects)
		r.Get("/objects/{name}/describe", s.handleDescribeObject)
		r.Post("/objects/describe", s.handleDescribeBatch)
		r.Get("/versions", s.handleAPIVersions)
		r.Post("/diagram", s.handleDiagram)
		r.Route("/datacloud", func(r chi.Router) {
			r.Get("/status", s.handleDataCloudStatus)
			r.Get("/entities", s.handleDataCloudEntities)
			r.Get("/entities/{name}/describe", s.handleDataCloudDescribeEntity)
			r.Post("/entities/describe", s.handleDataCloudDescribeBatch)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// sfClient builds a per-request Salesforce client from the session,
// scoping the cache to the session's org so schema never leaks across
// orgs.
func (s *Server) sfClient(sess *session.Session, apiVersion string) (*salesforce.Client, error) {
	if apiVersion == "" {
		apiVersion = s.cfg.Salesforce.APIVersion
	}
	keyer := cache.NewScopedKeyer(s.keyer, sess.CacheScope())
	return salesforce.NewClient(sess.InstanceURL, sess.AccessToken,
		salesforce.WithAPIVersion(apiVersion),
		salesforce.WithCache(s.cache, keyer),
		salesforce.WithLogger(s.logger))
}
