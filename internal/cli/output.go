package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case AccountInfo:
		o.printAccountInfo(v)
	case BalanceResult:
		o.printBalanceResult(v)
	case WagerResult:
		o.printWagerResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// AuthResult response type (matches API)
type AuthResult struct {
	SessionToken string `json:"session_token"`
	Handle       string `json:"handle,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	IsGuest      bool   `json:"is_guest"`
}

// AccountInfo response type
type AccountInfo struct {
	ID                string `json:"id"`
	Handle            string `json:"handle"`
	Balance           int64  `json:"balance"`
	LinkedDisplayName string `json:"linked_display_name,omitempty"`
	LinkedProfileRef  string `json:"linked_profile_ref,omitempty"`
}

// BalanceResult response type
type BalanceResult struct {
	Balance int64 `json:"balance"`
}

// WagerResult response type
type WagerResult struct {
	Risk        string   `json:"risk"`
	Path        []string `json:"path"`
	LandingSlot int      `json:"landing_slot"`
	Multiplier  float64  `json:"multiplier"`
	Payout      int64    `json:"payout"`
	Delta       int64    `json:"delta"`
	NewBalance  int64    `json:"new_balance"`
	Message     string   `json:"message"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAuthResult(a AuthResult) {
	if a.IsGuest {
		fmt.Println("Guest session created")
	} else {
		fmt.Printf("Account: %s (%s)\n", a.Handle, a.AccountID)
	}
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printAccountInfo(a AccountInfo) {
	fmt.Printf("Account: %s (%s)\n", a.Handle, a.ID)
	fmt.Printf("Balance: %d F$\n", a.Balance)
	if a.LinkedDisplayName != "" {
		fmt.Printf("Linked identity: %s\n", a.LinkedDisplayName)
	}
	if a.LinkedProfileRef != "" {
		fmt.Printf("Profile: %s\n", a.LinkedProfileRef)
	}
}

func (o *Output) printBalanceResult(b BalanceResult) {
	fmt.Printf("Balance: %d F$\n", b.Balance)
}

func (o *Output) printWagerResult(w WagerResult) {
	fmt.Println(w.Message)
	fmt.Printf("Balance: %d F$\n", w.NewBalance)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
