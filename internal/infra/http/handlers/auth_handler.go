package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Users    entity.UserRepositoryInterface
	Secret   []byte
	TokenTTL time.Duration

	// IssueToken assina o JWT da sessão. Substituível em teste.
	IssueToken func(userID string) (string, error)
}

func NewAuthHandler(users entity.UserRepositoryInterface, secret []byte) *AuthHandler {
	h := &AuthHandler{
		Users:    users,
		Secret:   secret,
		TokenTTL: 24 * time.Hour,
	}
	h.IssueToken = func(userID string) (string, error) {
		return middleware.GenerateToken(userID, h.Secret, h.TokenTTL)
	}
	return h
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "email is invalid")
		return
	}
	if len(req.Password) < 8 {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "password must have at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to hash password")
		return
	}

	user := &entity.User{
		ID:                 uuid.New().String(),
		Email:              req.Email,
		PasswordHash:       string(hash),
		SubscriptionStatus: "none",
	}

	if err := h.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			writeErrorResponse(w, http.StatusConflict, "USER_EXISTS", "a user with this email already exists")
			return
		}
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to create user")
		return
	}

	if err := h.issueSession(w, user.ID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "SESSION_ERROR", "failed to issue session")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		// Mesma resposta pra email inexistente e senha errada.
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeErrorResponse(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	if err := h.issueSession(w, user.ID); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "SESSION_ERROR", "failed to issue session")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// issueSession grava o cookie de sessão. Falha na assinatura do token
// vira erro pro caller: registrar/logar sem cookie confundiria o cliente
// com um sucesso que não autentica nada.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) error {
	token, err := h.IssueToken(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.TokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
