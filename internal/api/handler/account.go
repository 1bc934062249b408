package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/versflip/versflip/internal/api/apierr"
	"github.com/versflip/versflip/internal/api/middleware"
	"github.com/versflip/versflip/internal/api/request"
	"github.com/versflip/versflip/internal/api/response"
	"github.com/versflip/versflip/internal/services/auth"
)

// profileRefFormat builds the third-party profile link shown next to a
// linked display name. URL construction is an adapter concern; the core
// just stores the result.
const profileRefFormat = "https://www.roblox.com/users/profile?username=%s"

// AccountHandler handles account-related endpoints
type AccountHandler struct {
	authService *auth.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(authService *auth.Service) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// Register handles POST /api/v1/accounts/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Handle == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("handle is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Handle, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/accounts/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Handle == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("handle is required"))
		return
	}
	if req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Link handles POST /api/v1/identity/link
func (h *AccountHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req request.LinkIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Secret == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("secret is required"))
		return
	}

	var profileRef string
	if req.DisplayName != "" {
		profileRef = fmt.Sprintf(profileRefFormat, url.QueryEscape(req.DisplayName))
	}

	session, err := h.authService.LinkThirdParty(r.Context(), req.Secret, req.DisplayName, profileRef)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/accounts/me
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	account, err := h.authService.Account(r.Context(), session)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccountFromModel(account))
}
