package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adupont/portfolio/internal/email"
	"github.com/adupont/portfolio/internal/handler"
	"github.com/adupont/portfolio/internal/model"
	"github.com/adupont/portfolio/internal/service"
	"github.com/adupont/portfolio/internal/store"
)

// newContactHandler wires a real store and a real email client. With an
// empty email config the relay counts as unconfigured, so no test ever
// touches the network unless it supplies an endpoint.
func newContactHandler(t *testing.T, emailCfg email.Config) (*handler.ContactHandler, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	mailer := email.NewClient(emailCfg, testLogger())
	contacts := service.NewContactService(st, mailer, testLogger())
	return handler.NewContactHandler(contacts, st, testLogger()), st
}

func TestHandleSubmit(t *testing.T) {
	t.Run("valid submission without relay", func(t *testing.T) {
		h, st := newContactHandler(t, email.Config{})

		reqBody := `{"name":"Jeanne","email":"jeanne@example.com","message":"Bonjour !"}`
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleSubmit(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var body struct {
			ID        string `json:"id"`
			EmailSent bool   `json:"emailSent"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.NotEmpty(t, body.ID)
		assert.False(t, body.EmailSent, "no relay configured, no email sent")

		messages, err := st.Messages(context.Background())
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "Jeanne", messages[0].Name)
		assert.False(t, messages[0].Read)
	})

	t.Run("valid submission with relay", func(t *testing.T) {
		relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer relay.Close()

		h, _ := newContactHandler(t, email.Config{
			ServiceID:  "service_abc",
			TemplateID: "template_xyz",
			PublicKey:  "pk_123",
			Endpoint:   relay.URL,
		})

		reqBody := `{"name":"Jeanne","email":"jeanne@example.com","message":"Bonjour !"}`
		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()
		h.HandleSubmit(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var body struct {
			EmailSent bool `json:"emailSent"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.True(t, body.EmailSent)
	})

	t.Run("missing fields", func(t *testing.T) {
		h, st := newContactHandler(t, email.Config{})

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{"name":"Jeanne"}`))
		rr := httptest.NewRecorder()
		h.HandleSubmit(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		messages, err := st.Messages(context.Background())
		require.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		h, _ := newContactHandler(t, email.Config{})

		req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewBufferString(`{`))
		rr := httptest.NewRecorder()
		h.HandleSubmit(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMessageAdminHandlers(t *testing.T) {
	h, st := newContactHandler(t, email.Config{})

	msg, err := st.AddMessage(context.Background(), "Jeanne", "jeanne@example.com", "Bonjour")
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
		rr := httptest.NewRecorder()
		h.HandleListMessages(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var messages []model.ContactMessage
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&messages))
		require.Len(t, messages, 1)
		assert.Equal(t, msg.ID, messages[0].ID)
	})

	t.Run("mark read", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/messages/"+msg.ID+"/read", nil)
		req.SetPathValue("id", msg.ID)
		rr := httptest.NewRecorder()
		h.HandleMarkRead(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var updated model.ContactMessage
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&updated))
		assert.True(t, updated.Read)
	})

	t.Run("mark read unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/messages/nope/read", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()
		h.HandleMarkRead(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/messages/"+msg.ID, nil)
		req.SetPathValue("id", msg.ID)
		rr := httptest.NewRecorder()
		h.HandleDeleteMessage(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)

		messages, err := st.Messages(context.Background())
		require.NoError(t, err)
		assert.Empty(t, messages)
	})
}
