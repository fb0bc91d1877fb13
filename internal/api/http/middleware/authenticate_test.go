package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apiContext "github.com/dtroode/gatekeeper/internal/api/http/context"
	"github.com/dtroode/gatekeeper/internal/mocks"
	"github.com/dtroode/gatekeeper/internal/model"
	"github.com/dtroode/gatekeeper/internal/testutil"
)

func TestRequireAuth(t *testing.T) {
	excluded := []string{"/api/v1/status/", "/api/v1/unauthorized", "/api/v1/stat*"}

	tests := []struct {
		name     string
		path     string
		excluded []string
		want     bool
	}{
		{name: "empty path", path: "", excluded: excluded, want: true},
		{name: "no excluded paths", path: "/api/v1/status", excluded: nil, want: true},
		{name: "exact match", path: "/api/v1/status/", excluded: excluded, want: false},
		{name: "missing trailing slash", path: "/api/v1/status", excluded: excluded, want: false},
		{name: "entry without trailing slash", path: "/api/v1/unauthorized/", excluded: excluded, want: false},
		{name: "wildcard prefix", path: "/api/v1/stats", excluded: excluded, want: false},
		{name: "protected path", path: "/api/v1/users", excluded: excluded, want: true},
		{name: "sub path is not excluded", path: "/users/me", excluded: []string{"/users"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireAuth(tt.path, tt.excluded))
		})
	}
}

func TestAuthenticate_Handle(t *testing.T) {
	user := model.User{ID: 9, Email: "a@b.c"}

	tests := []struct {
		name       string
		path       string
		prepare    func(r *http.Request)
		resolved   *bool
		wantStatus int
		wantUser   bool
	}{
		{
			name:       "excluded path skips resolution",
			path:       "/status",
			wantStatus: http.StatusOK,
		},
		{
			name:       "no credentials",
			path:       "/users/me",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected credentials",
			path:       "/users/me",
			prepare:    func(r *http.Request) { r.SetBasicAuth("a@b.c", "wrong") },
			resolved:   new(bool),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "session cookie resolves",
			path:       "/users/me",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session_id", Value: "sid"}) },
			resolved:   func() *bool { b := true; return &b }(),
			wantStatus: http.StatusOK,
			wantUser:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := mocks.NewIdentityResolver(t)
			if tt.resolved != nil {
				resolver.On("ResolveIdentity", mock.Anything).Return(user, *tt.resolved)
			}
			cm := apiContext.NewManager()

			var gotUser bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := cm.GetUserFromContext(r.Context())
				gotUser = ok
				if ok {
					assert.Equal(t, user.ID, got.ID)
				}
				w.WriteHeader(http.StatusOK)
			})

			m := NewAuthenticate(resolver, cm, []string{"/status"}, "session_id", testutil.MakeNoopLogger())

			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.prepare != nil {
				tt.prepare(r)
			}
			rec := httptest.NewRecorder()
			m.Handle(next).ServeHTTP(rec, r)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantStatus >= http.StatusBadRequest {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			}
		})
	}
}
