package handler

import (
	"net/http"

	"github.com/versflip/versflip/internal/api/apierr"
	"github.com/versflip/versflip/internal/api/middleware"
	"github.com/versflip/versflip/internal/api/response"
	"github.com/versflip/versflip/internal/services/auth"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// CreateGuest handles POST /api/v1/sessions/guest
func (h *SessionHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	session, err := h.authService.CreateGuestSession(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/sessions/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	h.authService.InvalidateSession(session.Token)
	response.NoContent(w)
}
