package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	before := promtest.ToFloat64(LoginAttempts.WithLabelValues(ResultFailure))
	RecordLogin(false)
	assert.Equal(t, before+1, promtest.ToFloat64(LoginAttempts.WithLabelValues(ResultFailure)))

	before = promtest.ToFloat64(Sessions.WithLabelValues("created"))
	RecordSessionCreated()
	assert.Equal(t, before+1, promtest.ToFloat64(Sessions.WithLabelValues("created")))

	before = promtest.ToFloat64(ResetTokens.WithLabelValues("consumed"))
	RecordResetTokenConsumed()
	assert.Equal(t, before+1, promtest.ToFloat64(ResetTokens.WithLabelValues("consumed")))

	before = promtest.ToFloat64(HTTPRequests.WithLabelValues("GET", "/status", "200"))
	RecordHTTPRequest("GET", "/status", http.StatusOK, time.Millisecond)
	assert.Equal(t, before+1, promtest.ToFloat64(HTTPRequests.WithLabelValues("GET", "/status", "200")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)
	RecordRegistration(true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gatekeeper_registrations_total")
}
