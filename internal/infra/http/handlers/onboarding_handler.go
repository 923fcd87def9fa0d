package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/usecase"
)

type OnboardingHandler struct {
	Service    *usecase.OnboardingService
	CompleteUC *usecase.CompleteOnboardingUseCase
}

func NewOnboardingHandler(service *usecase.OnboardingService, completeUC *usecase.CompleteOnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{Service: service, CompleteUC: completeUC}
}

// HandleStart: POST /api/onboarding
func (h *OnboardingHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var input usecase.StartOnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	sub, err := h.Service.Start(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordSubmissionCreated()
	writeJSON(w, http.StatusCreated, sub)
}

// HandleGet: GET /api/onboarding/{id}
func (h *OnboardingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// HandleList: GET /api/onboarding?status=completed&limit=20
func (h *OnboardingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.Service.List(r.Context(), r.URL.Query().Get("status"), limit)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subs)
}

type attachAgentRequest struct {
	SubmissionID string  `json:"submissionId"`
	AgentID      string  `json:"agentId"`
	AgentName    *string `json:"agentName"`
	IsMock       *bool   `json:"isMock"`
}

// HandleAttachAgent: POST /api/onboarding/agent — callback do passo de
// provisionamento. Amarra o agente e promove pending -> agent_ready.
func (h *OnboardingHandler) HandleAttachAgent(w http.ResponseWriter, r *http.Request) {
	var req attachAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	if req.SubmissionID == "" || req.AgentID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "submissionId and agentId are required")
		return
	}

	sub, err := h.Service.Update(r.Context(), req.SubmissionID, usecase.UpdateSubmissionInput{
		AgentID:   &req.AgentID,
		AgentName: req.AgentName,
		IsMock:    req.IsMock,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// HandleComplete: POST /api/onboarding/complete — captura de email, o
// passo mais cheio de guardas do funil.
func (h *OnboardingHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var input usecase.CompleteOnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	output, err := h.CompleteUC.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordOnboardingCompleted()
	writeJSON(w, http.StatusOK, output)
}
