package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector keeps process-wide counters for HTTP traffic and payroll store
// calls.
type Collector struct {
	started         time.Time
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	mu     sync.Mutex
	stores map[string]*storeStats
}

type storeStats struct {
	Calls      uint64 `json:"calls"`
	Failures   uint64 `json:"failures"`
	DurationMs uint64 `json:"durationMs"`
}

func New() *Collector {
	return &Collector{started: time.Now(), stores: map[string]*storeStats{}}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == http.StatusTooManyRequests {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordStoreCall counts one call to the payroll store by operation name.
func (c *Collector) RecordStoreCall(op string, failed bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.stores[op]
	if !ok {
		stats = &storeStats{}
		c.stores[op] = stats
	}
	stats.Calls++
	if failed {
		stats.Failures++
	}
	stats.DurationMs += uint64(duration.Milliseconds())
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}

	c.mu.Lock()
	stores := make(map[string]storeStats, len(c.stores))
	for op, stats := range c.stores {
		stores[op] = *stats
	}
	c.mu.Unlock()

	return map[string]any{
		"uptimeSeconds":    int64(time.Since(c.started).Seconds()),
		"requestsTotal":    total,
		"errorsTotal":      atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal": atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"store":            stores,
	}
}

// Handler serves the snapshot as JSON.
func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	})
}
