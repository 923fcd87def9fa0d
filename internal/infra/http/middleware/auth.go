package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	SessionCookie = "atende_session"
	LoginPath     = "/login"
	DashboardPath = "/dashboard"

	// CallbackPath é o endpoint que o pipeline de provisionamento chama
	// quando o agente fica pronto; autentica por token, não por sessão.
	CallbackPath        = "/api/onboarding/agent"
	CallbackTokenHeader = "X-Provision-Token"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

type ctxKey int

const userIDKey ctxKey = 0

// UserID devolve o usuário autenticado que o SessionGate colocou no
// contexto. Vazio em rota pública.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func GenerateToken(userID string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	return token.SignedString(secret)
}

func ParseToken(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// SessionGate intercepta toda rota não pública: sem cookie redireciona
// pro login guardando o destino em ?from=, cookie inválido é apagado,
// cookie válido segue. Quem já está logado e bate no /login vai direto
// pro dashboard. O callback de provisionamento entra por token próprio.
type SessionGate struct {
	Secret        []byte
	CallbackToken string
}

func NewSessionGate(secret []byte, callbackToken string) *SessionGate {
	return &SessionGate{Secret: secret, CallbackToken: callbackToken}
}

var publicPrefixes = []string{
	"/api/auth/",
	"/api/billing/webhook",
}

var publicExact = []string{
	"/",
	LoginPath,
	"/health",
	"/metrics",
}

// publicRoutes: rotas públicas por método. O funil pré-login e os
// tool-calls que o agente de voz faz durante a ligação. As listagens e
// leituras desses mesmos recursos ficam atrás da sessão.
var publicRoutes = map[string][]string{
	http.MethodPost: {"/api/onboarding", "/api/onboarding/complete", "/api/bookings"},
	http.MethodGet:  {"/api/availability"},
}

func isPublic(method, path string) bool {
	for _, p := range publicExact {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, p := range publicRoutes[method] {
		if path == p {
			return true
		}
	}
	return false
}

func (g *SessionGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Token do pipeline de provisionamento. Sem token configurado ou
		// com token errado, o callback cai no fluxo de sessão normal.
		if path == CallbackPath && g.CallbackToken != "" {
			header := r.Header.Get(CallbackTokenHeader)
			if subtle.ConstantTimeCompare([]byte(header), []byte(g.CallbackToken)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
		}

		if isPublic(r.Method, path) {
			// Visitante logado no /login é mandado pra frente, evita
			// loop de re-login.
			if path == LoginPath {
				if cookie, err := r.Cookie(SessionCookie); err == nil {
					if _, err := ParseToken(cookie.Value, g.Secret); err == nil {
						http.Redirect(w, r, DashboardPath, http.StatusFound)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			g.deny(w, r, false)
			return
		}

		claims, err := ParseToken(cookie.Value, g.Secret)
		if err != nil {
			// Assinatura ou expiração inválida: o cookie não serve mais.
			g.deny(w, r, true)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *SessionGate) deny(w http.ResponseWriter, r *http.Request, dropCookie bool) {
	if dropCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}

	// API responde JSON; página navegável redireciona preservando o
	// destino original.
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
		return
	}

	target := LoginPath + "?from=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}
