package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/infra/integration/vapi"
)

// VoiceAgentGateway: o recorte da API da Vapi que o dashboard usa.
type VoiceAgentGateway interface {
	GetAssistant(id string) (*vapi.Assistant, error)
	CreateAssistant(input vapi.CreateAssistantInput) (*vapi.Assistant, error)
	UpdateAssistant(id string, input vapi.UpdateAssistantInput) (*vapi.Assistant, error)
	DeleteAssistant(id string) error
	ListAssistants() ([]vapi.Assistant, error)
	ListVoices() ([]vapi.Voice, error)
}

// AgentHandler é um proxy fino: valida, repassa, traduz erro. A
// configuração do agente mora na Vapi, não no nosso banco.
type AgentHandler struct {
	Gateway VoiceAgentGateway
}

func NewAgentHandler(gateway VoiceAgentGateway) *AgentHandler {
	return &AgentHandler{Gateway: gateway}
}

func (h *AgentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Gateway.ListAssistants()
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}

func (h *AgentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	agent, err := h.Gateway.GetAssistant(chi.URLParam(r, "id"))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (h *AgentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input vapi.CreateAssistantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}
	if input.Name == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "name is required")
		return
	}

	agent, err := h.Gateway.CreateAssistant(input)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, agent)
}

func (h *AgentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input vapi.UpdateAssistantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	agent, err := h.Gateway.UpdateAssistant(chi.URLParam(r, "id"), input)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

func (h *AgentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Gateway.DeleteAssistant(chi.URLParam(r, "id")); err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AgentHandler) HandleListVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := h.Gateway.ListVoices()
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

func (h *AgentHandler) upstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, vapi.ErrAssistantNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "AGENT_NOT_FOUND", "agent not found")
		return
	}
	middleware.RecordIntegrationError("vapi")
	writeErrorResponse(w, http.StatusInternalServerError, "UPSTREAM_ERROR", err.Error())
}
