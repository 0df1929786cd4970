package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

// Collector keeps coarse request counters for the /metrics endpoint.
// Everything is atomic so the middleware never contends on a lock.
type Collector struct {
	requests    atomic.Uint64
	errors      atomic.Uint64
	rateLimited atomic.Uint64
	durationMs  atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= http.StatusInternalServerError {
		c.errors.Add(1)
	}
	if status == http.StatusTooManyRequests {
		c.rateLimited.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

type Snapshot struct {
	RequestsTotal    uint64  `json:"requestsTotal"`
	ErrorsTotal      uint64  `json:"errorsTotal"`
	RateLimitedTotal uint64  `json:"rateLimitedTotal"`
	AvgDurationMs    float64 `json:"avgDurationMs"`
	TotalDurationMs  uint64  `json:"totalDurationMs"`
}

func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		RequestsTotal:    c.requests.Load(),
		ErrorsTotal:      c.errors.Load(),
		RateLimitedTotal: c.rateLimited.Load(),
		TotalDurationMs:  c.durationMs.Load(),
	}
	if snap.RequestsTotal > 0 {
		snap.AvgDurationMs = float64(snap.TotalDurationMs) / float64(snap.RequestsTotal)
	}
	return snap
}
