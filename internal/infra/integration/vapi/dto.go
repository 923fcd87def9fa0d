package vapi

import "time"

// Assistant é a configuração de um agente de voz hospedado na Vapi.
type Assistant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FirstMessage string    `json:"firstMessage,omitempty"`
	SystemPrompt string    `json:"systemPrompt,omitempty"`
	Voice        Voice     `json:"voice"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
	Name     string `json:"name,omitempty"`
}

type CreateAssistantInput struct {
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage,omitempty"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	Voice        *Voice `json:"voice,omitempty"`
}

// UpdateAssistantInput: só campos presentes vão no PATCH.
type UpdateAssistantInput struct {
	Name         *string `json:"name,omitempty"`
	FirstMessage *string `json:"firstMessage,omitempty"`
	SystemPrompt *string `json:"systemPrompt,omitempty"`
	Voice        *Voice  `json:"voice,omitempty"`
}

type Call struct {
	ID          string     `json:"id"`
	AssistantID string     `json:"assistantId"`
	Status      string     `json:"status"`
	EndedReason string     `json:"endedReason,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
}

// DurationSeconds: 0 para chamadas ainda abertas.
func (c Call) DurationSeconds() float64 {
	if c.StartedAt == nil || c.EndedAt == nil {
		return 0
	}
	return c.EndedAt.Sub(*c.StartedAt).Seconds()
}
