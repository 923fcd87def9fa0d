package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/xavierca1/atende-ai/internal/infra/http/middleware"
	"github.com/xavierca1/atende-ai/internal/usecase"
)

type BookingHandler struct {
	Service *usecase.BookingService
}

func NewBookingHandler(service *usecase.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

// HandleCreate: POST /api/bookings — chamado pelo tool-call do agente de
// voz durante a ligação.
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateBookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON payload")
		return
	}

	booking, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordBookingCreated()
	writeJSON(w, http.StatusCreated, booking)
}

// HandleList: GET /api/bookings?agentId=...
func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	bookings, err := h.Service.List(r.Context(), r.URL.Query().Get("agentId"), limit)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

// HandleAvailability: GET /api/availability?agentId=...&date=YYYY-MM-DD
func (h *BookingHandler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Service.Availability(
		r.Context(),
		r.URL.Query().Get("agentId"),
		r.URL.Query().Get("date"),
	)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, slots)
}
