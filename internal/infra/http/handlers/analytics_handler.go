package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/infra/integration/vapi"
)

type CallLogGateway interface {
	ListCalls(assistantID string, limit int) ([]vapi.Call, error)
}

type AnalyticsHandler struct {
	Gateway CallLogGateway
}

func NewAnalyticsHandler(gateway CallLogGateway) *AnalyticsHandler {
	return &AnalyticsHandler{Gateway: gateway}
}

type CallStats struct {
	TotalCalls           int            `json:"totalCalls"`
	TotalDurationSeconds float64        `json:"totalDurationSeconds"`
	AvgDurationSeconds   float64        `json:"avgDurationSeconds"`
	EndedReasons         map[string]int `json:"endedReasons"`
}

// HandleCallStats: GET /api/analytics/calls?agentId=...&limit=...
// Agrega o log de chamadas da Vapi; nada é persistido do nosso lado.
func (h *AnalyticsHandler) HandleCallStats(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agentId")
	if agentID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "agentId is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	calls, err := h.Gateway.ListCalls(agentID, limit)
	if err != nil {
		middleware.RecordIntegrationError("vapi")
		writeErrorResponse(w, http.StatusInternalServerError, "UPSTREAM_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summarizeCalls(calls))
}

func summarizeCalls(calls []vapi.Call) CallStats {
	stats := CallStats{EndedReasons: map[string]int{}}

	for _, call := range calls {
		stats.TotalCalls++
		stats.TotalDurationSeconds += call.DurationSeconds()
		if call.EndedReason != "" {
			stats.EndedReasons[call.EndedReason]++
		}
	}

	if stats.TotalCalls > 0 {
		stats.AvgDurationSeconds = stats.TotalDurationSeconds / float64(stats.TotalCalls)
	}

	return stats
}
