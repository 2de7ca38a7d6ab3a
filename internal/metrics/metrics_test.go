package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestCounts(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/templates", "200"))
	ObserveRequest("GET", "/templates", http.StatusOK, 12*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/templates", "200")))
}

func TestUploadAndDeniedCounters(t *testing.T) {
	Upload("story", "ok")
	Denied("not_found_or_unauthorized")
	assert.GreaterOrEqual(t, testutil.ToFloat64(uploads.WithLabelValues("story", "ok")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(authFailures.WithLabelValues("not_found_or_unauthorized")), 1.0)
}

func TestHandlerServesRegistry(t *testing.T) {
	InvitationCreated()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "undangan_invitations_created_total")
}
