package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequestDefaultsRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveRequest("GET", "", http.StatusNotFound, 10*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	assert.Equal(t, before+1, after)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(gameSessions.WithLabelValues("true"))
	GameSessionSubmitted(true)
	assert.Equal(t, before+1, testutil.ToFloat64(gameSessions.WithLabelValues("true")))

	before = testutil.ToFloat64(postEvents.WithLabelValues("like_toggled"))
	LikeToggled()
	assert.Equal(t, before+1, testutil.ToFloat64(postEvents.WithLabelValues("like_toggled")))
}

func TestTrackInFlight(t *testing.T) {
	done := TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesFamilyMetrics(t *testing.T) {
	FamilyCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "familyhub_families_events_total"))
}
