package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/http/handlers"
	"github.com/xavierca1/atende-ai/internal/usecase"
)

// MockSubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Insert(ctx context.Context, s *entity.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, id string, patch entity.SubmissionPatch) (*entity.Submission, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) List(ctx context.Context, status string, limit int) ([]*entity.Submission, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateCompleted(ctx context.Context, id, email string, event *entity.OutboxEvent) (*entity.Submission, error) {
	args := m.Called(ctx, id, email, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Submission), args.Error(1)
}

func newOnboardingHandler(repo *MockSubmissionRepository) *handlers.OnboardingHandler {
	return handlers.NewOnboardingHandler(
		usecase.NewOnboardingService(repo),
		usecase.NewCompleteOnboardingUseCase(repo),
	)
}

// ============ TESTES DO HANDLER ============

func TestHandleStartSuccess(t *testing.T) {
	repo := new(MockSubmissionRepository)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{"companyUrl": "https://clinica-sorriso.com.br"})
	req := httptest.NewRequest("POST", "/api/onboarding", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleStart(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var sub entity.Submission
	json.NewDecoder(w.Body).Decode(&sub)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, entity.StatusPending, sub.Status)
}

func TestHandleStartInvalidJSON(t *testing.T) {
	handler := newOnboardingHandler(new(MockSubmissionRepository))

	req := httptest.NewRequest("POST", "/api/onboarding", bytes.NewReader([]byte("{{")))
	w := httptest.NewRecorder()

	handler.HandleStart(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	json.NewDecoder(w.Body).Decode(&body)
	assert.Equal(t, "INVALID_JSON", body["code"])
}

func TestHandleStartValidationError(t *testing.T) {
	repo := new(MockSubmissionRepository)
	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{"companyUrl": "not a url"})
	req := httptest.NewRequest("POST", "/api/onboarding", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleStart(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code          string   `json:"code"`
		MissingFields []string `json:"missingFields"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, usecase.CodeValidation, resp.Code)
	assert.Contains(t, resp.MissingFields, "companyUrl")
	repo.AssertNotCalled(t, "Insert")
}

func TestHandleGetNotFound(t *testing.T) {
	repo := new(MockSubmissionRepository)
	repo.On("FindByID", mock.Anything, "sub-999").Return(nil, entity.ErrSubmissionNotFound)

	handler := newOnboardingHandler(repo)

	req := httptest.NewRequest("GET", "/api/onboarding/sub-999", nil)

	chiCtx := chi.NewRouteContext()
	chiCtx.URLParams.Add("id", "sub-999")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))

	w := httptest.NewRecorder()

	handler.HandleGet(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAttachAgentMissingFields(t *testing.T) {
	repo := new(MockSubmissionRepository)
	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{"submissionId": "sub-1"})
	req := httptest.NewRequest("POST", "/api/onboarding/agent", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleAttachAgent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, "MISSING_FIELDS", resp["code"])
	repo.AssertNotCalled(t, "Update")
}

func TestHandleAttachAgentPromotes(t *testing.T) {
	repo := new(MockSubmissionRepository)

	pending := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", Status: entity.StatusPending}
	repo.On("FindByID", mock.Anything, "sub-1").Return(pending, nil)

	agentID := "agent-7"
	ready := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", AgentID: &agentID, Status: entity.StatusAgentReady}
	repo.On("Update", mock.Anything, "sub-1", mock.Anything).Return(ready, nil)

	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]any{"submissionId": "sub-1", "agentId": "agent-7", "isMock": false})
	req := httptest.NewRequest("POST", "/api/onboarding/agent", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleAttachAgent(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var sub entity.Submission
	json.NewDecoder(w.Body).Decode(&sub)
	assert.Equal(t, entity.StatusAgentReady, sub.Status)
}

func TestHandleCompleteSuccess(t *testing.T) {
	repo := new(MockSubmissionRepository)

	agentID := "agent-7"
	ready := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", AgentID: &agentID, Status: entity.StatusAgentReady}
	repo.On("FindByID", mock.Anything, "sub-1").Return(ready, nil)
	repo.On("UpdateCompleted", mock.Anything, "sub-1", "ana@example.com", mock.Anything).Return(ready, nil)

	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{
		"email":        "ana@example.com",
		"agentId":      "agent-7",
		"submissionId": "sub-1",
	})
	req := httptest.NewRequest("POST", "/api/onboarding/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleComplete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp usecase.CompleteOnboardingOutput
	json.NewDecoder(w.Body).Decode(&resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "/dashboard?agentId=agent-7&submissionId=sub-1", resp.DashboardURL)
}

func TestHandleCompleteAgentMismatch(t *testing.T) {
	repo := new(MockSubmissionRepository)

	agentID := "agent-7"
	ready := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", AgentID: &agentID, Status: entity.StatusAgentReady}
	repo.On("FindByID", mock.Anything, "sub-1").Return(ready, nil)

	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{
		"email":        "ana@example.com",
		"agentId":      "agent-errado",
		"submissionId": "sub-1",
	})
	req := httptest.NewRequest("POST", "/api/onboarding/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleComplete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	json.NewDecoder(w.Body).Decode(&resp)
	assert.Equal(t, usecase.CodeAgentMismatch, resp["code"])
	repo.AssertNotCalled(t, "UpdateCompleted")
}

func TestHandleCompleteInvalidTransitionIsConflict(t *testing.T) {
	repo := new(MockSubmissionRepository)

	agentID := "agent-7"
	done := &entity.Submission{ID: "sub-1", CompanyURL: "https://x.com", AgentID: &agentID, Status: entity.StatusCompleted}
	repo.On("FindByID", mock.Anything, "sub-1").Return(done, nil)

	handler := newOnboardingHandler(repo)

	body, _ := json.Marshal(map[string]string{
		"email":        "outra@example.com",
		"agentId":      "agent-7",
		"submissionId": "sub-1",
	})
	req := httptest.NewRequest("POST", "/api/onboarding/complete", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleComplete(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
