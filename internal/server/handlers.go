package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jgtolentino/pulser-mcp-sub000/internal/executor"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/tool"
	"github.com/jgtolentino/pulser-mcp-sub000/internal/types"
)

type executeRequest struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Options    map[string]any `json:"options,omitempty"`
}

type executeResponse struct {
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Cached  bool           `json:"cached,omitempty"`
	Error   *errorBody     `json:"error,omitempty"`
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type batchRequest struct {
	Calls      []executeRequest `json:"calls"`
	Concurrent bool             `json:"concurrent,omitempty"`
}

type batchEntryResponse struct {
	Tool    string         `json:"tool,omitempty"`
	Success bool           `json:"success"`
	Result  map[string]any `json:"result,omitempty"`
	Cached  bool           `json:"cached,omitempty"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, types.NewError(types.VALIDATION_FAILED, "invalid request body"))
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, types.NewError(types.VALIDATION_FAILED, "tool name is required"))
		return
	}

	result, err := s.exec.ExecuteTool(r.Context(), req.Tool, req.Parameters, tool.Options(req.Options))
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, executeResponse{
		Success: true,
		Result:  result.Output,
		Cached:  result.Cached,
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, types.NewError(types.VALIDATION_FAILED, "invalid request body"))
		return
	}

	calls := make([]executor.BatchCall, len(req.Calls))
	for i, c := range req.Calls {
		calls[i] = executor.BatchCall{
			Tool:       c.Tool,
			Parameters: c.Parameters,
			Options:    tool.Options(c.Options),
		}
	}

	entries, err := s.exec.ExecuteBatch(r.Context(), calls, req.Concurrent)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	out := make([]batchEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = batchEntryResponse{
			Tool:    entry.Tool,
			Success: entry.Success,
			Result:  entry.Result,
			Cached:  entry.Cached,
			Error:   entry.Error,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.exec.Capabilities())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	payload, err := s.collector.ExportMetrics(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if text, ok := payload.(string); ok {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.collector.DashboardData())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	health := s.collector.HealthMetrics()
	status := http.StatusOK
	if health.State == types.HealthStateWarning {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// statusForError maps relay error codes to HTTP statuses.
func statusForError(err error) int {
	switch types.CodeOf(err) {
	case types.TOOL_NOT_FOUND:
		return http.StatusNotFound
	case types.VALIDATION_FAILED, types.BATCH_SIZE_EXCEEDED, types.BATCHING_DISABLED:
		return http.StatusBadRequest
	case types.RATE_LIMIT_EXCEEDED:
		return http.StatusTooManyRequests
	case types.EXECUTION_TIMEOUT:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorBodyOf(err error) *errorBody {
	var relayErr *types.RelayError
	if errors.As(err, &relayErr) {
		return &errorBody{
			Code:      string(relayErr.Code),
			Message:   relayErr.Message,
			Retryable: relayErr.Retryable,
		}
	}
	return &errorBody{Code: string(types.HANDLER_ERROR), Message: err.Error()}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, executeResponse{Success: false, Error: errorBodyOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
