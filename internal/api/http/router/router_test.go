package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apiContext "github.com/dtroode/gatekeeper/internal/api/http/context"
	"github.com/dtroode/gatekeeper/internal/api/http/handler"
	"github.com/dtroode/gatekeeper/internal/basicauth"
	"github.com/dtroode/gatekeeper/internal/metrics"
	"github.com/dtroode/gatekeeper/internal/model"
	"github.com/dtroode/gatekeeper/internal/repository/memory"
	"github.com/dtroode/gatekeeper/internal/security"
	"github.com/dtroode/gatekeeper/internal/service"
	"github.com/dtroode/gatekeeper/internal/session"
	"github.com/dtroode/gatekeeper/internal/testutil"
)

var excluded = []string{"/", "/status", "/metrics", "/users", "/sessions", "/profile", "/reset_password", "/auth_session/login"}

type app struct {
	handler http.Handler
	auth    *service.Auth
}

func newApp(t *testing.T, resolver func(store *memory.UserRepository, auth *service.Auth) model.IdentityResolver) app {
	t.Helper()
	store := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	auth := service.NewAuth(store, hasher, security.UUIDTokens{}, testutil.MakeNoopLogger())

	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	r := New(auth, resolver(store, auth), apiContext.NewManager(), service.DefaultSessionName, excluded, metrics.Handler(reg), testutil.MakeNoopLogger())
	return app{handler: r.Register(), auth: auth}
}

func (a app) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)
	return rec
}

func form(method, target string, values url.Values) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func sessionResolver(_ *memory.UserRepository, auth *service.Auth) model.IdentityResolver {
	return auth
}

func TestRouter_SessionFlow(t *testing.T) {
	a := newApp(t, sessionResolver)

	rec := a.do(httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())

	creds := url.Values{"email": {"bob@me.com"}, "password": {"mySuperPwd"}}
	rec = a.do(form(http.MethodPost, "/users", creds))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(form(http.MethodPost, "/sessions", creds))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	cookie := cookies[0]

	rec = a.do(httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: "forged"})
	rec = a.do(r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.AddCookie(cookie)
	rec = a.do(r)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"bob@me.com"`)

	r = httptest.NewRequest(http.MethodDelete, "/sessions", nil)
	r.AddCookie(cookie)
	rec = a.do(r)
	require.Equal(t, http.StatusFound, rec.Code)

	rec = a.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.AddCookie(cookie)
	rec = a.do(r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_BasicAuth(t *testing.T) {
	a := newApp(t, func(store *memory.UserRepository, _ *service.Auth) model.IdentityResolver {
		return basicauth.NewExtractor(store, security.NewBcryptHasher(bcrypt.MinCost), testutil.MakeNoopLogger())
	})

	rec := a.do(form(http.MethodPost, "/users", url.Values{"email": {"bob@me.com"}, "password": {"pwd"}}))
	require.Equal(t, http.StatusOK, rec.Code)

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.SetBasicAuth("bob@me.com", "pwd")
	rec = a.do(r)
	require.Equal(t, http.StatusOK, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.SetBasicAuth("bob@me.com", "nope")
	rec = a.do(r)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.SetBasicAuth("bob@me.com", "pwd")
	rec = a.do(r)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ResetPasswordAndMetrics(t *testing.T) {
	a := newApp(t, sessionResolver)

	rec := a.do(form(http.MethodPost, "/users", url.Values{"email": {"bob@me.com"}, "password": {"old"}}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(form(http.MethodPost, "/reset_password", url.Values{"email": {"bob@me.com"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reset_token")

	rec = a.do(form(http.MethodPut, "/reset_password", url.Values{"email": {"bob@me.com"}, "reset_token": {"bogus"}, "new_password": {"new"}}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gatekeeper_http_requests_total")
	assert.Contains(t, rec.Body.String(), "gatekeeper_reset_tokens_total")
}

func TestRouter_InMemorySessions(t *testing.T) {
	store := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	auth := service.NewAuth(store, hasher, security.UUIDTokens{}, testutil.MakeNoopLogger())
	manager := session.NewManager(store, "_my_session_id")
	sessionAuth := handler.NewSessionAuth(manager, store, hasher, manager.CookieName(), testutil.MakeNoopLogger())

	r := New(auth, manager, apiContext.NewManager(), manager.CookieName(), excluded, nil, testutil.MakeNoopLogger(),
		WithSessionAuth(sessionAuth))
	a := app{handler: r.Register(), auth: auth}

	creds := url.Values{"email": {"bob@me.com"}, "password": {"pwd"}}
	rec := a.do(form(http.MethodPost, "/users", creds))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(form(http.MethodPost, "/auth_session/login", creds))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookies[0])
	rec = a.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"bob@me.com"`)

	req = httptest.NewRequest(http.MethodDelete, "/auth_session/logout", nil)
	req.AddCookie(cookies[0])
	rec = a.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(cookies[0])
	rec = a.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
