package response

import (
	"fmt"
	"strings"

	"github.com/versflip/versflip/internal/model"
	"github.com/versflip/versflip/internal/services/auth"
)

// AuthResponse is the response for session-producing endpoints
type AuthResponse struct {
	SessionToken string `json:"session_token"`
	Handle       string `json:"handle,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	IsGuest      bool   `json:"is_guest"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		SessionToken: s.Token,
		Handle:       s.Handle,
		AccountID:    string(s.AccountID),
		IsGuest:      s.IsGuest(),
	}
}

// Account represents an account in API responses
type Account struct {
	ID                string `json:"id"`
	Handle            string `json:"handle"`
	Balance           int64  `json:"balance"`
	LinkedDisplayName string `json:"linked_display_name,omitempty"`
	LinkedProfileRef  string `json:"linked_profile_ref,omitempty"`
}

// AccountFromModel converts a model.Account to a response Account.
// Secret hashes never leave the core.
func AccountFromModel(a *model.Account) Account {
	account := Account{
		ID:      string(a.ID),
		Handle:  a.Handle,
		Balance: a.Balance,
	}
	if a.Linked != nil {
		account.LinkedDisplayName = a.Linked.DisplayName
		account.LinkedProfileRef = a.Linked.ProfileRef
	}
	return account
}

// BalanceResponse is the response for balance reads
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// WagerResponse is the response for a resolved wager
type WagerResponse struct {
	Risk        string   `json:"risk"`
	Path        []string `json:"path"`
	LandingSlot int      `json:"landing_slot"`
	Multiplier  float64  `json:"multiplier"`
	Payout      int64    `json:"payout"`
	Delta       int64    `json:"delta"`
	NewBalance  int64    `json:"new_balance"`
	Message     string   `json:"message"`
}

// WagerResponseFromModel converts a model.WagerResult, rendering the
// player-facing message: slot numbers are 1-based and the path reads
// left to right
func WagerResponseFromModel(r *model.WagerResult) WagerResponse {
	o := r.Outcome
	return WagerResponse{
		Risk:        string(o.Risk),
		Path:        o.Path,
		LandingSlot: o.LandingSlot,
		Multiplier:  o.Multiplier,
		Payout:      o.Payout,
		Delta:       o.Delta,
		NewBalance:  r.NewBalance,
		Message:     outcomeMessage(o),
	}
}

func outcomeMessage(o model.WagerOutcome) string {
	prefix := fmt.Sprintf("Plinko chip landed in slot %d at %.2fx. Path: %s.",
		o.LandingSlot+1, o.Multiplier, strings.Join(o.Path, " → "))

	switch {
	case o.Delta > 0:
		return fmt.Sprintf("%s Won %d F$.", prefix, o.Delta)
	case o.Delta == 0:
		return prefix + " Broke even."
	default:
		return fmt.Sprintf("%s Lost %d F$.", prefix, -o.Delta)
	}
}
