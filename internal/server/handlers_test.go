package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/config"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/executor"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/metrics"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/pipeline"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/schema"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool/builtins"
)

func testServer(t *testing.T) (*Server, *metrics.Collector) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := tool.NewRegistry(logger)
	require.NoError(t, registry.Register(builtins.EchoTool()))
	require.NoError(t, registry.Register(&tool.Definition{
		Name:        "adder",
		Description: "Adds two numbers.",
		Parameters: schema.Object(map[string]schema.Field{
			"a": schema.Number("first"),
			"b": schema.Number("second"),
		}, "a", "b"),
		Handler: func(ctx context.Context, params map[string]any, opts tool.Options) (map[string]any, error) {
			a, _ := params["a"].(float64)
			b, _ := params["b"].(float64)
			return map[string]any{"sum": a + b}, nil
		},
	}))

	collector := metrics.NewCollector()
	exec := executor.New(registry, collector, pipeline.Deps{
		Limiter: pipeline.NewFixedWindowLimiter(),
		Logger:  logger,
	}, executor.DefaultConfig(), logger)

	return New(config.ServerConfig{Address: ":0"}, exec, collector, logger), collector
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleExecute(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/execute", map[string]any{
		"tool":       "adder",
		"parameters": map[string]any{"a": 2, "b": 3},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp executeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, float64(5), resp.Result["sum"])
}

func TestHandleExecuteErrors(t *testing.T) {
	s, _ := testServer(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown tool",
			body:       map[string]any{"tool": "ghost"},
			wantStatus: http.StatusNotFound,
			wantCode:   "TOOL_NOT_FOUND",
		},
		{
			name:       "validation failure",
			body:       map[string]any{"tool": "adder", "parameters": map[string]any{"a": 1}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "missing tool name",
			body:       map[string]any{"parameters": map[string]any{}},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/v1/execute", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp executeResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleExecuteMethodNotAllowed(t *testing.T) {
	s, _ := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/execute", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleBatch(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/batch", map[string]any{
		"calls": []map[string]any{
			{"tool": "adder", "parameters": map[string]any{"a": 1, "b": 1}},
			{"tool": "adder", "parameters": map[string]any{"a": 1}},
			{"tool": "adder", "parameters": map[string]any{"a": 2, "b": 2}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []batchEntryResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.Contains(t, resp.Results[1].Error, "VALIDATION_FAILED")
	assert.True(t, resp.Results[2].Success)
	assert.Equal(t, float64(4), resp.Results[2].Result["sum"])
}

func TestHandleCapabilities(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/capabilities", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var caps executor.Capabilities
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &caps))
	assert.Equal(t, []string{"adder", "echo"}, caps.Capabilities)
	assert.True(t, caps.Features.BatchExecution)
}

func TestHandleMetricsFormats(t *testing.T) {
	s, _ := testServer(t)

	// Generate some traffic first.
	doRequest(t, s, http.MethodPost, "/api/v1/execute", map[string]any{
		"tool": "adder", "parameters": map[string]any{"a": 1, "b": 2},
	})

	t.Run("json default", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/metrics", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var dashboard metrics.Dashboard
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dashboard))
		assert.GreaterOrEqual(t, dashboard.TotalRequests, int64(1))
	})

	t.Run("prometheus", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/metrics?format=prometheus", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "relay_uptime_seconds")
	})

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/metrics?format=health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "state")
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/v1/metrics?format=xml", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	s, _ := testServer(t)

	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestRequestMetricsRecorded(t *testing.T) {
	s, collector := testServer(t)

	doRequest(t, s, http.MethodGet, "/health", nil)
	doRequest(t, s, http.MethodPost, "/api/v1/execute", map[string]any{"tool": "ghost"})

	d := collector.DashboardData()
	assert.Equal(t, int64(2), d.TotalRequests)
	assert.InDelta(t, 50.0, d.ErrorRate, 0.001)
}
