package handlers

import (
	"log"
	"net/http"

	"github.com/xavierca1/atende-ai/internal/infra/integration/vapi"
	"github.com/xavierca1/atende-ai/internal/usecase"
)

type DashboardHandler struct {
	Onboarding *usecase.OnboardingService
	Agents     VoiceAgentGateway
	Calls      CallLogGateway
}

func NewDashboardHandler(onboarding *usecase.OnboardingService, agents VoiceAgentGateway, calls CallLogGateway) *DashboardHandler {
	return &DashboardHandler{Onboarding: onboarding, Agents: agents, Calls: calls}
}

type dashboardResponse struct {
	Submission any             `json:"submission"`
	Agent      *vapi.Assistant `json:"agent,omitempty"`
	CallStats  *CallStats      `json:"callStats,omitempty"`
}

// HandleGet: GET /api/dashboard?agentId=...&submissionId=... — a visão
// que a página de dashboard renderiza: submissão + config viva do agente
// + resumo das chamadas. Agente e analytics são melhor-esforço; a
// submissão é obrigatória.
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	agentID := r.URL.Query().Get("agentId")
	submissionID := r.URL.Query().Get("submissionId")

	sub, err := h.Onboarding.Get(r.Context(), submissionID)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	response := dashboardResponse{Submission: sub}

	if agentID != "" {
		if agent, err := h.Agents.GetAssistant(agentID); err == nil {
			response.Agent = agent
		} else {
			log.Printf("dashboard: agent fetch failed: %v", err)
		}

		if calls, err := h.Calls.ListCalls(agentID, 100); err == nil {
			stats := summarizeCalls(calls)
			response.CallStats = &stats
		} else {
			log.Printf("dashboard: call log fetch failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, response)
}
