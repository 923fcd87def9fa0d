package usecase

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateStartOnboardingInput(input StartOnboardingInput) []ValidationError {
	var errors []ValidationError

	raw := strings.TrimSpace(input.CompanyURL)
	if raw == "" {
		errors = append(errors, ValidationError{"companyUrl", "is required"})
	} else if !isValidURL(raw) {
		errors = append(errors, ValidationError{"companyUrl", "must be a valid http(s) URL"})
	}

	return errors
}

func ValidateCompleteOnboardingInput(input CompleteOnboardingInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.AgentID) == "" {
		errors = append(errors, ValidationError{"agentId", "is required"})
	}

	if strings.TrimSpace(input.SubmissionID) == "" {
		errors = append(errors, ValidationError{"submissionId", "is required"})
	}

	return errors
}

func ValidateCreateBookingInput(input CreateBookingInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Customer) == "" {
		errors = append(errors, ValidationError{"customer", "is required"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.Service) == "" {
		errors = append(errors, ValidationError{"service", "is required"})
	}

	if strings.TrimSpace(input.AgentID) == "" {
		errors = append(errors, ValidationError{"agentId", "is required"})
	}

	if strings.TrimSpace(input.StartsAt) == "" {
		errors = append(errors, ValidationError{"startsAt", "is required"})
	} else if !isValidDateTime(input.StartsAt) {
		errors = append(errors, ValidationError{"startsAt", "must be an ISO8601 datetime"})
	}

	return errors
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 10 && len(cleaned) <= 13
}

func isValidDateTime(raw string) bool {
	if _, err := time.Parse(time.RFC3339, raw); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339Nano, raw)
	return err == nil
}
