package usecase

// DomainError: o caller errou (entrada inválida, recurso inexistente,
// transição proibida). Vira 4xx na borda HTTP.
type DomainError struct {
	Code    string
	Message string
	Fields  []string // campos ofensores, quando for validação
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: infraestrutura falhou (banco, fila, API externa).
// Vira 5xx na borda HTTP.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "SUBMISSION_NOT_FOUND"
	CodeAgentMismatch     = "AGENT_MISMATCH"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeConflict          = "UPDATE_CONFLICT"
	CodeDatabase          = "DATABASE_ERROR"
)

func newValidationError(errs []ValidationError) *DomainError {
	fields := make([]string, 0, len(errs))
	msg := "validation failed: "
	for i, e := range errs {
		fields = append(fields, e.Field)
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{Code: CodeValidation, Message: msg, Fields: fields}
}
