package vapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client fala com a API de gestão de assistentes da Vapi.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.vapi.ai"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) GetAssistant(id string) (*Assistant, error) {
	var out Assistant
	if err := c.do("GET", "/assistant/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAssistant(input CreateAssistantInput) (*Assistant, error) {
	var out Assistant
	if err := c.do("POST", "/assistant", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAssistant(id string, input UpdateAssistantInput) (*Assistant, error) {
	var out Assistant
	if err := c.do("PATCH", "/assistant/"+url.PathEscape(id), input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAssistant(id string) error {
	return c.do("DELETE", "/assistant/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListAssistants() ([]Assistant, error) {
	var out []Assistant
	if err := c.do("GET", "/assistant", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListVoices() ([]Voice, error) {
	var out []Voice
	if err := c.do("GET", "/voice-library", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCalls(assistantID string, limit int) ([]Call, error) {
	path := "/call?assistantId=" + url.QueryEscape(assistantID)
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}

	var out []Call
	if err := c.do("GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal vapi request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAssistantNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("vapi returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
