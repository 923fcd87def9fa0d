package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
)

var secret = []byte("test-secret")

const provisionToken = "provision-token-teste"

func gateWithNext(t *testing.T) (http.Handler, *bool, *string) {
	t.Helper()
	called := false
	seenUserID := ""

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seenUserID = middleware.UserID(r)
		w.WriteHeader(http.StatusOK)
	})

	gate := middleware.NewSessionGate(secret, provisionToken)
	return gate.Middleware(next), &called, &seenUserID
}

func TestGateRedirectsAnonymousPage(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusFound, w.Code)
	// destino preservado pro pós-login
	assert.Equal(t, "/login?from=%2Fdashboard", w.Header().Get("Location"))
}

func TestGateRejectsAnonymousAPIWithJSON(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	assert.Equal(t, "authentication required", body["error"])
}

func TestGateDropsInvalidCookie(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "rabisco-que-nao-e-jwt"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusFound, w.Code)

	dropped := false
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			dropped = true
		}
	}
	assert.True(t, dropped, "cookie inválido tem que ser apagado")
}

func TestGateRejectsExpiredToken(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	token, err := middleware.GenerateToken("user-1", secret, -time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestGateAllowsValidSession(t *testing.T) {
	handler, called, seenUserID := gateWithNext(t)

	token, err := middleware.GenerateToken("user-1", secret, time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/billing/checkout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", *seenUserID)
}

func TestGateLetsPublicPathsThrough(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/"},
		{"GET", "/health"},
		{"GET", "/metrics"},
		{"POST", "/api/auth/login"},
		{"POST", "/api/onboarding"},
		{"POST", "/api/onboarding/complete"},
		{"POST", "/api/bookings"},
		{"GET", "/api/availability"},
		{"POST", "/api/billing/webhook"},
	}

	for _, tc := range cases {
		handler, called, _ := gateWithNext(t)

		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.True(t, *called, "rota pública %s %s não pode ser barrada", tc.method, tc.path)
	}
}

// As leituras dos recursos do funil não são públicas: listagem e detalhe
// de submissões carregam email capturado, e agendamentos são do dono.
func TestGateBlocksAnonymousReadsOfFunnelResources(t *testing.T) {
	cases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/onboarding"},
		{"GET", "/api/onboarding/sub-123"},
		{"GET", "/api/bookings"},
	}

	for _, tc := range cases {
		handler, called, _ := gateWithNext(t)

		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.False(t, *called, "%s %s não pode passar sem sessão", tc.method, tc.path)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestGateAcceptsProvisionCallbackWithToken(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	req := httptest.NewRequest("POST", middleware.CallbackPath, nil)
	req.Header.Set(middleware.CallbackTokenHeader, provisionToken)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, *called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRejectsProvisionCallbackWithBadToken(t *testing.T) {
	for _, token := range []string{"", "token-errado"} {
		handler, called, _ := gateWithNext(t)

		req := httptest.NewRequest("POST", middleware.CallbackPath, nil)
		if token != "" {
			req.Header.Set(middleware.CallbackTokenHeader, token)
		}
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.False(t, *called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestGateForwardsLoggedInVisitorFromLogin(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	token, err := middleware.GenerateToken("user-1", secret, time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, *called)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.DashboardPath, w.Header().Get("Location"))
}

func TestGateShowsLoginToAnonymous(t *testing.T) {
	handler, called, _ := gateWithNext(t)

	req := httptest.NewRequest("GET", "/login", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, *called)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := middleware.GenerateToken("user-42", secret, time.Hour)
	assert.NoError(t, err)

	claims, err := middleware.ParseToken(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)

	// segredo errado não passa
	_, err = middleware.ParseToken(token, []byte("outro-segredo"))
	assert.Error(t, err)
}
