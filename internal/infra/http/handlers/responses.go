package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/xavierca1/atende-ai/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error         string   `json:"error"`
	Code          string   `json:"code,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeUsecaseError traduz a taxonomia do usecase pra HTTP. Erro de
// domínio expõe a mensagem; erro técnico é logado e sai genérico com a
// mensagem capturada (nunca stack, nunca query).
func writeUsecaseError(w http.ResponseWriter, err error) {
	if domainErr, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeInvalidTransition:
			status = http.StatusConflict
		}
		writeJSON(w, status, errorBody{
			Error:         domainErr.Message,
			Code:          domainErr.Code,
			MissingFields: domainErr.Fields,
		})
		return
	}

	if techErr, ok := err.(*usecase.TechnicalError); ok {
		log.Printf("technical error [%s]: %s", techErr.Code, techErr.Message)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: techErr.Message, Code: techErr.Code})
		return
	}

	log.Printf("unhandled error: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
