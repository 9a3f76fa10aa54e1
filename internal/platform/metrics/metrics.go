package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector counts served requests. It is safe for concurrent use.
type Collector struct {
	totalRequests   atomic.Uint64
	clientErrors    atomic.Uint64
	serverErrors    atomic.Uint64
	rateLimited     atomic.Uint64
	totalDurationMs atomic.Uint64

	mu       sync.Mutex
	byMethod map[string]uint64
}

type Snapshot struct {
	RequestsTotal     uint64            `json:"requestsTotal"`
	ClientErrorsTotal uint64            `json:"clientErrorsTotal"`
	ServerErrorsTotal uint64            `json:"serverErrorsTotal"`
	RateLimitedTotal  uint64            `json:"rateLimitedTotal"`
	AvgDurationMs     float64           `json:"avgDurationMs"`
	ByMethod          map[string]uint64 `json:"byMethod"`
}

func New() *Collector {
	return &Collector{byMethod: map[string]uint64{}}
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
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
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))

	c.mu.Lock()
	c.byMethod[method]++
	c.mu.Unlock()
}

func (c *Collector) Snapshot() Snapshot {
	total := c.totalRequests.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(c.totalDurationMs.Load()) / float64(total)
	}
	c.mu.Lock()
	byMethod := make(map[string]uint64, len(c.byMethod))
	for method, n := range c.byMethod {
		byMethod[method] = n
	}
	c.mu.Unlock()
	return Snapshot{
		RequestsTotal:     total,
		ClientErrorsTotal: c.clientErrors.Load(),
		ServerErrorsTotal: c.serverErrors.Load(),
		RateLimitedTotal:  c.rateLimited.Load(),
		AvgDurationMs:     avg,
		ByMethod:          byMethod,
	}
}
