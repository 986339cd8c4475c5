package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/adupont/portfolio/internal/service"
	"github.com/adupont/portfolio/internal/store"
)

// ContactHandler exposes the public contact form and the admin inbox.
type ContactHandler struct {
	contacts *service.ContactService
	store    *store.Store
	logger   *slog.Logger
}

func NewContactHandler(contacts *service.ContactService, store *store.Store, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		store:    store,
		logger:   logger,
	}
}

// contactRequest is the public form body.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// contactResponse acknowledges a submission. emailSent tells the frontend
// whether a notification copy went out; the message itself is always saved.
type contactResponse struct {
	ID        string `json:"id"`
	EmailSent bool   `json:"emailSent"`
}

// HandleSubmit accepts a contact form submission.
//
// HTTP: POST /api/contact
// REQUEST BODY: {"name":"...","email":"...","message":"..."}
//
// A relay failure does not fail the request — the service records the
// message locally first and reports delivery through emailSent.
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid contact JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}

	msg, emailSent, err := h.contacts.Submit(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contactResponse{
		ID:        msg.ID,
		EmailSent: emailSent,
	})
}

// HandleListMessages — GET /api/admin/messages
func (h *ContactHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.store.Messages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleMarkRead — POST /api/admin/messages/{id}/read
// Marking an already-read message is idempotent; an unknown ID is 404.
func (h *ContactHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	msg, err := h.store.MarkMessageRead(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if msg == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: "message not found with id " + id})
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// HandleDeleteMessage — DELETE /api/admin/messages/{id}
func (h *ContactHandler) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteMessage(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
