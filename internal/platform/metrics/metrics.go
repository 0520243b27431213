package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// SlowRequest is the duration above which a request counts as slow.
const SlowRequest = time.Second

// Collector keeps process-wide request counters. It satisfies the
// middleware's RequestRecorder.
type Collector struct {
	startedAt       time.Time
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	rateLimited     atomic.Uint64
	slowRequests    atomic.Uint64
	totalDurationMs atomic.Uint64
	maxDurationMs   atomic.Uint64
}

func New() *Collector {
	return &Collector{startedAt: time.Now()}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	switch {
	case status == http.StatusTooManyRequests:
		c.rateLimited.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	if duration >= SlowRequest {
		c.slowRequests.Add(1)
	}

	ms := uint64(max(duration.Milliseconds(), 0))
	c.totalDurationMs.Add(ms)
	for {
		current := c.maxDurationMs.Load()
		if ms <= current || c.maxDurationMs.CompareAndSwap(current, ms) {
			break
		}
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"uptimeSeconds":     int64(time.Since(c.startedAt).Seconds()),
		"requestsTotal":     total,
		"clientErrorsTotal": c.clientErrors.Load(),
		"serverErrorsTotal": c.serverErrors.Load(),
		"rateLimitedTotal":  c.rateLimited.Load(),
		"slowRequestsTotal": c.slowRequests.Load(),
		"avgDurationMs":     avg,
		"maxDurationMs":     c.maxDurationMs.Load(),
		"totalDurationMs":   totalMs,
	}
}
