package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/portfolio/internal/models"
	"github.com/atinyakov/portfolio/internal/service"
)

// ContactService sends contact-form messages.
type ContactService interface {
	Send(ctx context.Context, m models.ContactMessage) error
}

// ContactHandler serves POST /api/contact-me.
type ContactHandler struct {
	Service ContactService
	Log     *zap.Logger
}

// Contact relays the form to the site owner by e-mail.
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeBody(r, &msg); err != nil {
		writeError(w, "fields missing")
		return
	}

	err := h.Service.Send(r.Context(), msg)
	switch {
	case errors.Is(err, service.ErrFieldsMissing):
		writeError(w, "fields missing")
	case err != nil:
		h.Log.Error("send contact mail", zap.Error(err))
		writeError(w, "Could not send email")
	default:
		writeMessage(w, "Successfully sent email.")
	}
}
