// Package email forwards contact submissions to an EmailJS-compatible
// transactional relay.
//
// The relay is strictly a best-effort collaborator: the store's local copy
// of the message is always authoritative, and a delivery failure is a flag
// on the result, never a rollback. The core therefore keeps this client
// narrow — one Send, one Configured check — and lets the contact service
// decide what a failure means.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// defaultEndpoint is the EmailJS REST API.
const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// requestTimeout bounds a delivery attempt. One attempt, no retry — a slow
// relay delays only the submitting caller.
const requestTimeout = 10 * time.Second

// Config identifies the relay account and template. The bridge counts as
// configured only when all three identifying values are present and none is
// a placeholder left over from a template .env.
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	// Endpoint overrides the EmailJS URL; tests point it at a local server.
	Endpoint string
	// ToName appears as the recipient display name in the template.
	ToName string
}

// ContactForm is a submitted contact form, as the template expects it.
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Client sends contact emails through the configured relay.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.ToName == "" {
		cfg.ToName = "Admin Portfolio"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// isPlaceholder reports whether a config value is unset or still carries a
// template placeholder like "YOUR_SERVICE_ID".
func isPlaceholder(v string) bool {
	return v == "" || strings.HasPrefix(v, "YOUR_")
}

// Configured reports whether all three identifying values are usable.
// When false, Send refuses to attempt delivery and the caller records the
// message locally only.
func (c *Client) Configured() bool {
	return !isPlaceholder(c.cfg.ServiceID) &&
		!isPlaceholder(c.cfg.TemplateID) &&
		!isPlaceholder(c.cfg.PublicKey)
}

// payload is the EmailJS request body. template_params keys must match the
// variables declared in the remote template.
type payload struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
	ToName    string `json:"to_name"`
	ReplyTo   string `json:"reply_to"`
}

// Send makes exactly one delivery attempt. Callers treat any returned error
// as non-fatal — log it, flag it, move on.
func (c *Client) Send(ctx context.Context, form ContactForm) error {
	if !c.Configured() {
		return fmt.Errorf("email: relay is not configured")
	}

	body, err := json.Marshal(payload{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		UserID:     c.cfg.PublicKey,
		TemplateParams: templateParams{
			FromName:  form.Name,
			FromEmail: form.Email,
			Message:   form.Message,
			ToName:    c.cfg.ToName,
			ReplyTo:   form.Email,
		},
	})
	if err != nil {
		return fmt.Errorf("email: encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: sending: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// EmailJS returns a short text body describing the rejection.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email: relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	c.logger.Info("contact email delivered", slog.String("from", form.Email))
	return nil
}
