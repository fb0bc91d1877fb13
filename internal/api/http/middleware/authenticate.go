package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/model"
)

// Authenticate resolves the caller of every non-excluded request and
// stores the user in the request context.
type Authenticate struct {
	resolver       model.IdentityResolver
	contextManager model.ContextManager
	excludedPaths  []string
	cookieName     string
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	resolver model.IdentityResolver,
	contextManager model.ContextManager,
	excludedPaths []string,
	cookieName string,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		resolver:       resolver,
		contextManager: contextManager,
		excludedPaths:  excludedPaths,
		cookieName:     cookieName,
		logger:         logger,
	}
}

// Handle answers 401 when a protected request carries no credentials and
// 403 when its credentials resolve to no user.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !RequireAuth(r.URL.Path, m.excludedPaths) {
			next.ServeHTTP(w, r)
			return
		}

		if !m.hasCredentials(r) {
			writeStatus(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, ok := m.resolver.ResolveIdentity(r)
		if !ok {
			m.logger.Info("Authenticate middleware: credentials rejected",
				"path", r.URL.Path)
			writeStatus(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
	})
}

func (m *Authenticate) hasCredentials(r *http.Request) bool {
	if r.Header.Get("Authorization") != "" {
		return true
	}
	_, err := r.Cookie(m.cookieName)
	return err == nil
}

// RequireAuth reports whether path needs authentication. Paths are compared
// with a trailing slash appended; an excluded entry ending in "*" matches
// every path starting with its prefix.
func RequireAuth(path string, excludedPaths []string) bool {
	if path == "" || len(excludedPaths) == 0 {
		return true
	}

	path = withSlash(path)
	for _, excluded := range excludedPaths {
		if prefix, ok := strings.CutSuffix(excluded, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return false
			}
			continue
		}
		if withSlash(excluded) == path {
			return false
		}
	}

	return true
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
