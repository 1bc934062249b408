package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidHandle         = "INVALID_HANDLE"
	CodeInvalidPassword       = "INVALID_PASSWORD"
	CodeHandleTaken           = "HANDLE_TAKEN"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeNonPositiveStake      = "NON_POSITIVE_STAKE"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeInvalidIdentitySecret = "INVALID_IDENTITY_SECRET"
	CodeUnlinkedIdentity      = "UNLINKED_IDENTITY"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, model.ErrHandleTaken):
		return &httpError{http.StatusConflict, APIError{CodeHandleTaken, "Handle already taken"}}
	case errors.Is(err, model.ErrNonPositiveStake):
		return &httpError{http.StatusBadRequest, APIError{CodeNonPositiveStake, "Enter a positive stake"}}
	case errors.Is(err, model.ErrInsufficientBalance):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientBalance, "Not enough credits to cover that stake"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidHandle):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidHandle, "Handle must be at least 3 characters"}}
	case errors.Is(err, auth.ErrInvalidPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPassword, "Password must be at least 6 characters"}}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid handle or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrInvalidIdentitySecret):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidIdentitySecret, "Enter a valid identity secret"}}
	case errors.Is(err, auth.ErrUnlinkedIdentity):
		return &httpError{http.StatusNotFound, APIError{CodeUnlinkedIdentity, "No linked account for that secret; provide a display name to link"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
