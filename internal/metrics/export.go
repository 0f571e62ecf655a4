package metrics

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

// Health evaluation thresholds.
const (
	healthHeapLimitBytes   = 500 * 1024 * 1024
	healthErrorRateLimit   = 5.0
	healthAvgResponseLimit = 5000.0
	healthRecentSamples    = 10
)

// dashboardSampleLimit caps the samples included in the dashboard view.
const dashboardSampleLimit = 100

// ToolSummary is the dashboard view of one tool.
type ToolSummary struct {
	Executions    int64   `json:"executions"`
	Errors        int64   `json:"errors"`
	SuccessRate   float64 `json:"success_rate"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// Dashboard is the JSON view of recent activity.
type Dashboard struct {
	UptimeSeconds float64                `json:"uptime_seconds"`
	TotalRequests int64                  `json:"total_requests"`
	ErrorRate     float64                `json:"error_rate"`
	ResponseTimes []ResponseSample       `json:"response_times"`
	Tools         map[string]ToolSummary `json:"tools"`
}

// ExportMetrics renders the collector in the requested format:
// "prometheus" (text exposition), "json" (dashboard view), or
// "health" (threshold evaluation).
func (c *Collector) ExportMetrics(format string) (any, error) {
	switch strings.ToLower(format) {
	case "prometheus":
		return c.PrometheusText(), nil
	case "json":
		return c.DashboardData(), nil
	case "health":
		return c.HealthMetrics(), nil
	default:
		return nil, fmt.Errorf("unsupported metrics format: %s", format)
	}
}

// PrometheusText renders the Prometheus text exposition: uptime,
// request and error counters, response-time percentiles, per-tool
// execution counters, and process memory gauges.
func (c *Collector) PrometheusText() string {
	c.mu.Lock()
	uptime := c.now().Sub(c.startedAt).Seconds()
	req := requestCounters{
		total:       c.requests.total,
		success:     c.requests.success,
		clientError: c.requests.clientError,
		serverError: c.requests.serverError,
		byMethod:    make(map[string]int64, len(c.requests.byMethod)),
	}
	for m, n := range c.requests.byMethod {
		req.byMethod[m] = n
	}
	durations := make([]float64, len(c.window))
	for i, sample := range c.window {
		durations[i] = sample.DurationMs
	}
	tools := make(map[string]ToolStats, len(c.tools))
	for name, stats := range c.tools {
		tools[name] = *stats
	}
	c.mu.Unlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var b strings.Builder
	b.WriteString("# HELP relay_uptime_seconds Time since the collector started.\n")
	b.WriteString("# TYPE relay_uptime_seconds gauge\n")
	fmt.Fprintf(&b, "relay_uptime_seconds %.3f\n", uptime)

	b.WriteString("# HELP relay_requests_total Served requests by type.\n")
	b.WriteString("# TYPE relay_requests_total counter\n")
	fmt.Fprintf(&b, "relay_requests_total{type=\"all\"} %d\n", req.total)
	fmt.Fprintf(&b, "relay_requests_total{type=\"success\"} %d\n", req.success)
	methods := sortedKeys(req.byMethod)
	for _, method := range methods {
		fmt.Fprintf(&b, "relay_requests_total{method=%q} %d\n", method, req.byMethod[method])
	}

	b.WriteString("# HELP relay_errors_total Request errors by class.\n")
	b.WriteString("# TYPE relay_errors_total counter\n")
	fmt.Fprintf(&b, "relay_errors_total{class=\"4xx\"} %d\n", req.clientError)
	fmt.Fprintf(&b, "relay_errors_total{class=\"5xx\"} %d\n", req.serverError)

	b.WriteString("# HELP relay_response_time_ms Response time percentiles over the rolling window.\n")
	b.WriteString("# TYPE relay_response_time_ms gauge\n")
	for _, pct := range []int{50, 95, 99} {
		fmt.Fprintf(&b, "relay_response_time_ms{quantile=\"%d\"} %.3f\n", pct, Percentile(durations, pct))
	}

	b.WriteString("# HELP relay_tool_executions_total Tool executions by outcome.\n")
	b.WriteString("# TYPE relay_tool_executions_total counter\n")
	b.WriteString("# HELP relay_tool_duration_ms_total Cumulative tool execution time.\n")
	b.WriteString("# TYPE relay_tool_duration_ms_total counter\n")
	for _, name := range sortedStatKeys(tools) {
		stats := tools[name]
		fmt.Fprintf(&b, "relay_tool_executions_total{tool=%q,outcome=\"success\"} %d\n", name, stats.Success)
		fmt.Fprintf(&b, "relay_tool_executions_total{tool=%q,outcome=\"error\"} %d\n", name, stats.Errors)
		fmt.Fprintf(&b, "relay_tool_duration_ms_total{tool=%q} %.3f\n", name, stats.TotalDurationMs)
	}

	b.WriteString("# HELP relay_memory_bytes Process memory gauges.\n")
	b.WriteString("# TYPE relay_memory_bytes gauge\n")
	fmt.Fprintf(&b, "relay_memory_bytes{kind=\"heap_alloc\"} %d\n", memStats.HeapAlloc)
	fmt.Fprintf(&b, "relay_memory_bytes{kind=\"heap_sys\"} %d\n", memStats.HeapSys)
	fmt.Fprintf(&b, "relay_memory_bytes{kind=\"sys\"} %d\n", memStats.Sys)

	return b.String()
}

// DashboardData returns the JSON dashboard view: the most recent
// response-time samples (up to 100), per-tool summaries, and the
// computed request error rate.
func (c *Collector) DashboardData() Dashboard {
	c.mu.Lock()
	defer c.mu.Unlock()

	samples := c.window
	if len(samples) > dashboardSampleLimit {
		samples = samples[len(samples)-dashboardSampleLimit:]
	}
	recent := make([]ResponseSample, len(samples))
	copy(recent, samples)

	tools := make(map[string]ToolSummary, len(c.tools))
	for name, stats := range c.tools {
		tools[name] = ToolSummary{
			Executions:    stats.Total,
			Errors:        stats.Errors,
			SuccessRate:   stats.SuccessRate(),
			AvgDurationMs: stats.AvgDurationMs(),
		}
	}

	return Dashboard{
		UptimeSeconds: c.now().Sub(c.startedAt).Seconds(),
		TotalRequests: c.requests.total,
		ErrorRate:     c.errorRateLocked(),
		ResponseTimes: recent,
		Tools:         tools,
	}
}

// HealthMetrics checks heap usage, request error rate, and the average
// of the last 10 response times against fixed thresholds. It reports
// healthy when none trip and warning with the specific issues
// otherwise. A disabled collector reports disabled.
func (c *Collector) HealthMetrics() types.HealthStatus {
	c.mu.Lock()
	enabled := c.enabled
	errorRate := c.errorRateLocked()
	recent := c.window
	if len(recent) > healthRecentSamples {
		recent = recent[len(recent)-healthRecentSamples:]
	}
	var avgRecent float64
	if len(recent) > 0 {
		var sum float64
		for _, sample := range recent {
			sum += sample.DurationMs
		}
		avgRecent = sum / float64(len(recent))
	}
	c.mu.Unlock()

	if !enabled {
		return types.Disabled()
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	var issues []string
	if memStats.HeapAlloc > healthHeapLimitBytes {
		issues = append(issues, fmt.Sprintf("heap usage %d bytes exceeds %d", memStats.HeapAlloc, healthHeapLimitBytes))
	}
	if errorRate > healthErrorRateLimit {
		issues = append(issues, fmt.Sprintf("error rate %.2f%% exceeds %.0f%%", errorRate, healthErrorRateLimit))
	}
	if avgRecent > healthAvgResponseLimit {
		issues = append(issues, fmt.Sprintf("average response time %.0fms exceeds %.0fms", avgRecent, healthAvgResponseLimit))
	}

	if len(issues) > 0 {
		return types.Warning(issues...)
	}
	return types.Healthy()
}

// Uptime returns the time since the collector started.
func (c *Collector) Uptime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Sub(c.startedAt)
}

// errorRateLocked computes the request error rate percentage. Callers
// must hold c.mu.
func (c *Collector) errorRateLocked() float64 {
	if c.requests.total == 0 {
		return 0
	}
	errors := c.requests.clientError + c.requests.serverError
	return float64(errors) / float64(c.requests.total) * 100
}

// Percentile computes the pct-th percentile of values by sorting and
// indexing at ceil(N*pct/100)-1. Returns 0 for an empty slice.
func Percentile(values []float64, pct int) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Ceil(float64(len(sorted))*float64(pct)/100)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStatKeys(m map[string]ToolStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
