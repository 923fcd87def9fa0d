package kommo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

func NewClient() *Client {
	return &Client{
		apiToken: os.Getenv("KOMMO_API_TOKEN"),
		baseURL:  os.Getenv("KOMMO_BASE_URL"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateLead registra o onboarding concluído no CRM: contato pelo email,
// lead amarrado no contato.
func (c *Client) CreateLead(input CreateLeadInput) (int, error) {
	if c.apiToken == "" || c.baseURL == "" {
		log.Println("⚠️ Kommo: API_TOKEN/BASE_URL não configurados")
		return 0, fmt.Errorf("kommo not configured")
	}

	contactID, err := c.findOrCreateContact(input)
	if err != nil {
		return 0, fmt.Errorf("failed to find/create contact: %w", err)
	}

	tag := "onboarding_completed"
	if input.IsMock {
		tag = "onboarding_demo"
	}

	leadData := []map[string]interface{}{
		{
			"name": fmt.Sprintf("%s - %s", input.CompanyURL, input.AgentName),
			"_embedded": map[string]interface{}{
				"tags": []map[string]interface{}{
					{"name": tag},
				},
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	var result struct {
		Embedded struct {
			Leads []struct {
				ID int `json:"id"`
			} `json:"leads"`
		} `json:"_embedded"`
	}

	if err := c.post("/leads", leadData, &result); err != nil {
		return 0, err
	}

	if len(result.Embedded.Leads) == 0 {
		return 0, fmt.Errorf("lead was not created")
	}

	leadID := result.Embedded.Leads[0].ID
	log.Printf("✅ Kommo: lead #%d criado para %s", leadID, input.Email)

	return leadID, nil
}

func (c *Client) findOrCreateContact(input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByEmail(input.Email)
	if err == nil && contactID > 0 {
		return contactID, nil
	}

	return c.createContact(input)
}

func (c *Client) findContactByEmail(email string) (int, error) {
	endpoint := fmt.Sprintf("%s/contacts?query=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return 0, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("contact lookup returned %d", resp.StatusCode)
	}

	var result struct {
		Embedded struct {
			Contacts []struct {
				ID int `json:"id"`
			} `json:"contacts"`
		} `json:"_embedded"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return 0, err
	}

	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}

	return 0, fmt.Errorf("contact not found")
}

func (c *Client) createContact(input CreateLeadInput) (int, error) {
	contactData := []map[string]interface{}{
		{
			"name": input.Email,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "EMAIL",
					"values": []map[string]interface{}{
						{"value": input.Email, "enum_code": "WORK"},
					},
				},
				{
					"field_code": "WEB",
					"values": []map[string]interface{}{
						{"value": input.CompanyURL},
					},
				},
			},
		},
	}

	var result struct {
		Embedded struct {
			Contacts []struct {
				ID int `json:"id"`
			} `json:"contacts"`
		} `json:"_embedded"`
	}

	if err := c.post("/contacts", contactData, &result); err != nil {
		return 0, err
	}

	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}

	return 0, fmt.Errorf("could not read created contact id")
}

func (c *Client) post(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("kommo returned %d: %s", resp.StatusCode, string(raw))
	}

	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
