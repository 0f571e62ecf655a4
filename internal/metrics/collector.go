// Package metrics accumulates request and tool execution counters and
// exposes Prometheus, dashboard, and health views of them.
package metrics

import (
	"sync"
	"time"
)

const (
	// windowCap bounds the rolling response-time window.
	windowCap = 1000

	// windowMaxAge is how long a rolling entry survives before the
	// periodic sweep prunes it.
	windowMaxAge = time.Hour

	// sweepInterval is how often the rolling window is pruned.
	sweepInterval = 60 * time.Second
)

// Recorder forwards collector observations to an external metrics
// backend. The OpenTelemetry implementation lives in the
// observability package; a nil Recorder disables forwarding.
type Recorder interface {
	RecordCounter(name string, value int64, labels map[string]string)
	RecordHistogram(name string, value float64, labels map[string]string)
}

// ResponseSample is one rolling-window entry for a served request.
type ResponseSample struct {
	DurationMs float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Status     int       `json:"status"`
}

// ToolStats holds cumulative per-tool execution counters. Counters only
// increase for the process lifetime; they are not subject to the daily
// window rollover.
type ToolStats struct {
	Total           int64     `json:"total"`
	Success         int64     `json:"success"`
	Errors          int64     `json:"errors"`
	TotalDurationMs float64   `json:"total_duration_ms"`
	LastExecution   time.Time `json:"last_execution"`
	LastError       string    `json:"last_error,omitempty"`
}

// SuccessRate returns the percentage of successful executions.
func (s ToolStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.Total) * 100
}

// AvgDurationMs returns the mean execution duration.
func (s ToolStats) AvgDurationMs() float64 {
	if s.Total == 0 {
		return 0
	}
	return s.TotalDurationMs / float64(s.Total)
}

// requestCounters aggregates served-request counts.
type requestCounters struct {
	total       int64
	byMethod    map[string]int64
	success     int64
	clientError int64
	serverError int64
}

// Collector is the process-wide metrics sink. A single instance is
// owned by the application root and passed by reference to the
// coordinator and server; independent instances can coexist in tests.
type Collector struct {
	mu        sync.Mutex
	enabled   bool
	startedAt time.Time

	requests requestCounters
	window   []ResponseSample
	tools    map[string]*ToolStats

	recorder Recorder
	now      func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// Option customizes a Collector.
type Option func(*Collector)

// WithRecorder forwards observations to an external backend.
func WithRecorder(r Recorder) Option {
	return func(c *Collector) { c.recorder = r }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// Disabled creates a collector whose health view reports disabled.
// Recording still works so callers need no conditionals.
func Disabled() *Collector {
	c := NewCollector()
	c.enabled = false
	return c
}

// NewCollector creates an enabled collector. Call Start to run the
// periodic window sweep and the daily rollover.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		enabled: true,
		now:     time.Now,
		tools:   make(map[string]*ToolStats),
		stop:    make(chan struct{}),
	}
	c.requests.byMethod = make(map[string]int64)
	for _, opt := range opts {
		opt(c)
	}
	c.startedAt = c.now()
	return c
}

// RecordRequest counts one served request and appends it to the
// rolling response-time window. 4xx statuses count as client errors,
// 5xx as server errors, everything else as success.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	durationMs := float64(duration.Milliseconds())
	now := c.now()

	c.mu.Lock()
	c.requests.total++
	c.requests.byMethod[method]++
	switch {
	case status >= 500:
		c.requests.serverError++
	case status >= 400:
		c.requests.clientError++
	default:
		c.requests.success++
	}

	c.window = append(c.window, ResponseSample{
		DurationMs: durationMs,
		Timestamp:  now,
		Path:       path,
		Method:     method,
		Status:     status,
	})
	if len(c.window) > windowCap {
		c.window = c.window[len(c.window)-windowCap:]
	}
	c.mu.Unlock()

	if c.recorder != nil {
		labels := map[string]string{"method": method, "status": statusClass(status)}
		c.recorder.RecordCounter("relay.requests", 1, labels)
		c.recorder.RecordHistogram("relay.request.duration", durationMs, labels)
	}
}

// RecordToolExecution updates a tool's cumulative counters. The outcome
// is always recorded after the call finished, so counters never reflect
// an in-flight execution.
func (c *Collector) RecordToolExecution(toolName string, success bool, duration time.Duration, execErr error) {
	durationMs := float64(duration.Milliseconds())

	c.mu.Lock()
	stats, ok := c.tools[toolName]
	if !ok {
		stats = &ToolStats{}
		c.tools[toolName] = stats
	}
	stats.Total++
	stats.TotalDurationMs += durationMs
	stats.LastExecution = c.now()
	if success {
		stats.Success++
	} else {
		stats.Errors++
		if execErr != nil {
			stats.LastError = execErr.Error()
		}
	}
	c.mu.Unlock()

	if c.recorder != nil {
		status := "success"
		if !success {
			status = "error"
		}
		labels := map[string]string{"tool": toolName, "status": status}
		c.recorder.RecordCounter("relay.tool.calls", 1, labels)
		c.recorder.RecordHistogram("relay.tool.duration", durationMs, labels)
	}
}

// ToolUsageStats returns a snapshot of every tool's cumulative
// counters, keyed by tool name.
func (c *Collector) ToolUsageStats() map[string]ToolStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]ToolStats, len(c.tools))
	for name, stats := range c.tools {
		out[name] = *stats
	}
	return out
}

// Start runs the periodic sweep (pruning rolling entries older than one
// hour every minute) and the daily rollover (clearing the rolling
// window at local midnight; cumulative counters persist). It blocks
// until Stop is called or the channel is closed.
func (c *Collector) Start() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	nextRollover := nextMidnight(c.now())
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now()
			c.pruneWindow(now)
			if !now.Before(nextRollover) {
				c.resetWindow()
				nextRollover = nextMidnight(now)
			}
		}
	}
}

// Stop ends the background sweep. Safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// pruneWindow drops rolling entries older than the max age.
func (c *Collector) pruneWindow(now time.Time) {
	cutoff := now.Add(-windowMaxAge)

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.window[:0]
	for _, sample := range c.window {
		if sample.Timestamp.After(cutoff) {
			kept = append(kept, sample)
		}
	}
	c.window = kept
}

// resetWindow clears the rolling window only; cumulative request and
// tool counters are never reset.
func (c *Collector) resetWindow() {
	c.mu.Lock()
	c.window = nil
	c.mu.Unlock()
}

func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
