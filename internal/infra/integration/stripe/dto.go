package stripe

import "encoding/json"

type CreateCustomerInput struct {
	Email string
	Name  string
}

type CheckoutSessionInput struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WebhookEvent é o envelope verificado de um webhook do Stripe.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type customerResponse struct {
	ID string `json:"id"`
}
