// internal/infra/email/client.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainEmail "habit_reminder_service/internal/domain/email"
)

const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSClient implements the email.Sender interface against the EmailJS
// REST API. This keeps the application logic decoupled from the delivery
// provider's wire format.
type EmailJSClient struct {
	httpClient *http.Client
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
}

func NewEmailJSClient(serviceID, templateID, publicKey string) *EmailJSClient {
	return &EmailJSClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   defaultEndpoint,
		serviceID:  serviceID,
		templateID: templateID,
		publicKey:  publicKey,
	}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams map[string]any `json:"template_params"`
}

// Send posts one reminder to the EmailJS send endpoint. Any non-2xx response
// is an error; retrying is the caller's concern (and the reminder flow
// deliberately does not retry).
func (c *EmailJSClient) Send(ctx context.Context, r *domainEmail.Reminder) error {
	plural := ""
	if r.Plural {
		plural = "s"
	}

	var list strings.Builder
	for _, h := range r.Habits {
		list.WriteString("- ")
		list.WriteString(h.Name)
		if h.Description != "" {
			list.WriteString(": ")
			list.WriteString(h.Description)
		}
		list.WriteString("\n")
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:  c.serviceID,
		TemplateID: c.templateID,
		UserID:     c.publicKey,
		TemplateParams: map[string]any{
			"to_email":     r.ToEmail,
			"to_name":      r.ToName,
			"habit_count":  r.Count,
			"habit_plural": plural,
			"habit_list":   list.String(),
			"app_url":      r.AppURL,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling email API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
