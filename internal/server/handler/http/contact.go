package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ContactService records contact-form submissions.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string)
}

// ContactHandler handles the public contact form.
type ContactHandler struct {
	ContactService ContactService

	validate *validator.Validate
}

// NewContactHandler constructs a ContactHandler with validation wired.
func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{ContactService: svc, validate: validator.New()}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// Contact handles POST /contact. Storage is best-effort; the sender
// always gets a friendly acknowledgement.
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Name, email, and message are required")
		return
	}

	h.ContactService.Submit(r.Context(), req.Name, req.Email, req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Your message has been received"})
}
