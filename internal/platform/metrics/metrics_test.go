package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(http.StatusOK, 10*time.Millisecond)
	c.Record(http.StatusBadGateway, 30*time.Millisecond)
	c.Record(http.StatusTooManyRequests, 0)
	c.RecordStoreCall("list", false, 5*time.Millisecond)
	c.RecordStoreCall("list", true, 5*time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, uint64(3), snap["requestsTotal"])
	assert.Equal(t, uint64(1), snap["errorsTotal"])
	assert.Equal(t, uint64(1), snap["rateLimitedTotal"])
	assert.InDelta(t, 13.33, snap["avgDurationMs"], 0.01)

	stores := snap["store"].(map[string]storeStats)
	assert.Equal(t, storeStats{Calls: 2, Failures: 1, DurationMs: 10}, stores["list"])
}

func TestCollectorHandler(t *testing.T) {
	c := New()
	c.RecordStoreCall("create", false, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body, "store")
	assert.EqualValues(t, 0, body["requestsTotal"])
}
