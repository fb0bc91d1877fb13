package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/gatekeeper/internal/api/http/handler"
	"github.com/dtroode/gatekeeper/internal/api/http/middleware"
	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/model"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	authService    handler.AuthService
	resolver       model.IdentityResolver
	contextManager model.ContextManager
	sessionName    string
	excludedPaths  []string
	metrics        http.Handler
	sessionAuth    *handler.SessionAuth
	logger         *logger.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithSessionAuth serves the in-memory session login and logout routes.
func WithSessionAuth(h *handler.SessionAuth) Option {
	return func(r *Router) {
		r.sessionAuth = h
	}
}

// New creates new HTTP Router instance. metrics may be nil, in which case
// /metrics is not served.
func New(
	authService handler.AuthService,
	resolver model.IdentityResolver,
	contextManager model.ContextManager,
	sessionName string,
	excludedPaths []string,
	metrics http.Handler,
	logger *logger.Logger,
	opts ...Option,
) *Router {
	r := &Router{
		authService:    authService,
		resolver:       resolver,
		contextManager: contextManager,
		sessionName:    sessionName,
		excludedPaths:  excludedPaths,
		metrics:        metrics,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register builds the handler serving every route.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.resolver, r.contextManager, r.excludedPaths, r.sessionName, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		chimw.Recoverer,
		logging.Handle,
		middleware.Metrics,
		authenticate.Handle,
	)
	mux.NotFound(handler.NotFound)

	authHandler := handler.NewAuth(r.authService, r.sessionName, r.logger)
	userHandler := handler.NewUser(r.contextManager)

	mux.Get("/", authHandler.Index)
	mux.Get("/status", handler.Status)
	if r.metrics != nil {
		mux.Method(http.MethodGet, "/metrics", r.metrics)
	}

	mux.Post("/users", authHandler.Register)
	mux.Get("/users/me", userHandler.Me)

	mux.Route("/sessions", func(sr chi.Router) {
		sr.Post("/", authHandler.Login)
		sr.Delete("/", authHandler.Logout)
	})

	mux.Get("/profile", authHandler.Profile)

	mux.Route("/reset_password", func(rr chi.Router) {
		rr.Post("/", authHandler.ResetPasswordToken)
		rr.Put("/", authHandler.UpdatePassword)
	})

	if r.sessionAuth != nil {
		mux.Route("/auth_session", func(ar chi.Router) {
			ar.Post("/login", r.sessionAuth.Login)
			ar.Delete("/logout", r.sessionAuth.Logout)
		})
	}

	return mux
}
