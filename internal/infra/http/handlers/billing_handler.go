package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/xavierca1/atende-ai/internal/entity"
	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/infra/integration/stripe"
)

type PaymentGateway interface {
	CreateCustomer(input stripe.CreateCustomerInput) (string, error)
	CreateCheckoutSession(input stripe.CheckoutSessionInput) (*stripe.CheckoutSession, error)
}

type BillingHandler struct {
	Users   entity.UserRepositoryInterface
	Gateway PaymentGateway
	// WebhookSecret assina os eventos que o Stripe manda de volta.
	WebhookSecret string
	PriceID       string
	AppBaseURL    string
}

func NewBillingHandler(users entity.UserRepositoryInterface, gateway PaymentGateway) *BillingHandler {
	return &BillingHandler{
		Users:         users,
		Gateway:       gateway,
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		PriceID:       os.Getenv("STRIPE_PRICE_ID"),
		AppBaseURL:    os.Getenv("APP_BASE_URL"),
	}
}

// HandleCheckout: POST /api/billing/checkout (rota autenticada). Garante
// o customer no gateway, persiste o id e devolve a URL do checkout.
func (h *BillingHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
		return
	}

	user, err := h.Users.FindByID(r.Context(), userID)
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		return
	}

	gatewayID := user.GatewayCustomerID
	if gatewayID == "" {
		gatewayID, err = h.Gateway.CreateCustomer(stripe.CreateCustomerInput{Email: user.Email})
		if err != nil {
			middleware.RecordIntegrationError("stripe")
			writeErrorResponse(w, http.StatusInternalServerError, "UPSTREAM_ERROR", err.Error())
			return
		}
		if err := h.Users.SetGatewayCustomerID(r.Context(), user.ID, gatewayID); err != nil {
			writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to persist gateway customer")
			return
		}
	}

	session, err := h.Gateway.CreateCheckoutSession(stripe.CheckoutSessionInput{
		CustomerID: gatewayID,
		PriceID:    h.PriceID,
		SuccessURL: h.AppBaseURL + "/dashboard?checkout=success",
		CancelURL:  h.AppBaseURL + "/dashboard?checkout=cancelled",
	})
	if err != nil {
		middleware.RecordIntegrationError("stripe")
		writeErrorResponse(w, http.StatusInternalServerError, "UPSTREAM_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

// HandleWebhook: POST /api/billing/webhook. Só aceita evento com
// assinatura válida; evento de cliente desconhecido é 200 mesmo assim
// pro Stripe não ficar reenviando.
func (h *BillingHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "could not read request body")
		return
	}

	event, err := stripe.ConstructWebhookEvent(payload, r.Header.Get("Stripe-Signature"), h.WebhookSecret)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_SIGNATURE", "webhook signature verification failed")
		return
	}

	status, ok := subscriptionStatusForEvent(event.Type)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	var object struct {
		Customer string `json:"customer"`
	}
	if err := json.Unmarshal(event.Data.Object, &object); err != nil || object.Customer == "" {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_PAYLOAD", "event object has no customer")
		return
	}

	user, err := h.Users.FindByGatewayCustomerID(r.Context(), object.Customer)
	if err != nil {
		log.Printf("webhook for unknown gateway customer %s", object.Customer)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.Users.UpdateSubscriptionStatus(r.Context(), user.ID, status); err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to update subscription")
		return
	}

	log.Printf("subscription of %s moved to %s (%s)", user.Email, status, event.Type)
	w.WriteHeader(http.StatusOK)
}

func subscriptionStatusForEvent(eventType string) (string, bool) {
	switch eventType {
	case "checkout.session.completed":
		return "active", true
	case "invoice.payment_failed":
		return "past_due", true
	case "customer.subscription.deleted":
		return "canceled", true
	}
	return "", false
}
