// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
// In a well-structured Go web app, code is organised into three layers:
//
//   Handler (HTTP layer)    → parses requests, writes responses
//   Service (Business layer) → validates, enforces rules, orchestrates
//   Repository/Store (Data)  → reads/writes persisted state
//
// The contact flow is the one place in this app where a single operation
// touches two backends: the local store (always) and the email relay
// (best-effort). That orchestration is exactly what a service layer is for —
// the handler shouldn't know that "submit a message" means two calls with
// different failure policies.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/adupont/portfolio/internal/apperror"
	"github.com/adupont/portfolio/internal/email"
	"github.com/adupont/portfolio/internal/model"
	"github.com/adupont/portfolio/internal/store"
)

// Validation constants.
const (
	MaxContactNameLength    = 100
	MaxContactEmailLength   = 254 // RFC 5321 upper bound for an address
	MaxContactMessageLength = 5000
)

// MessageStore is the slice of the store the contact service needs.
// Programming to this narrow interface keeps tests free of SQLite.
type MessageStore interface {
	AddMessage(ctx context.Context, name, emailAddr, message string) (*model.ContactMessage, error)
}

// Mailer is the outbound email bridge. The real implementation is
// email.Client; tests substitute a recorder.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, form email.ContactForm) error
}

// Compile-time checks that the production types satisfy the narrow
// interfaces this service is programmed against.
var (
	_ MessageStore = (*store.Store)(nil)
	_ Mailer       = (*email.Client)(nil)
)

// ContactService handles contact form submissions.
type ContactService struct {
	store  MessageStore
	mailer Mailer
	logger *slog.Logger
}

func NewContactService(store MessageStore, mailer Mailer, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// Submit validates a contact form, records it locally, and attempts one
// email delivery.
//
// FAILURE POLICY:
// The local record is authoritative. If the store write fails, the whole
// submission fails. If the email relay fails (or simply isn't configured),
// the submission still succeeds — the returned emailSent flag tells the
// caller whether a copy went out. Losing an email notification must never
// lose the message itself.
func (s *ContactService) Submit(ctx context.Context, name, emailAddr, message string) (msg *model.ContactMessage, emailSent bool, err error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	message = strings.TrimSpace(message)

	if name == "" {
		return nil, false, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxContactNameLength {
		return nil, false, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxContactNameLength))
	}
	if emailAddr == "" {
		return nil, false, apperror.ValidationFailed("email", "email is required")
	}
	if len(emailAddr) > MaxContactEmailLength || !looksLikeEmail(emailAddr) {
		return nil, false, apperror.ValidationFailed("email", "email address is not valid")
	}
	if message == "" {
		return nil, false, apperror.ValidationFailed("message", "message is required")
	}
	if len(message) > MaxContactMessageLength {
		return nil, false, apperror.ValidationFailed("message",
			fmt.Sprintf("message must be %d characters or less", MaxContactMessageLength))
	}

	msg, err = s.store.AddMessage(ctx, name, emailAddr, message)
	if err != nil {
		s.logger.Error("failed to record contact message",
			slog.String("from", emailAddr),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("recording contact message: %w", err)
	}

	if !s.mailer.Configured() {
		s.logger.Info("contact message recorded, email relay not configured",
			slog.String("id", msg.ID),
		)
		return msg, false, nil
	}

	if sendErr := s.mailer.Send(ctx, email.ContactForm{
		Name:    name,
		Email:   emailAddr,
		Message: message,
	}); sendErr != nil {
		// Non-fatal: the message is already saved.
		s.logger.Warn("contact email delivery failed",
			slog.String("id", msg.ID),
			slog.String("error", sendErr.Error()),
		)
		return msg, false, nil
	}

	return msg, true, nil
}

// looksLikeEmail is a sanity check, not RFC validation. The address is only
// ever echoed back into a reply-to header, so "has a user and a domain part"
// is enough to catch typos and junk.
func looksLikeEmail(addr string) bool {
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	return !strings.ContainsAny(addr, " \t\n")
}
