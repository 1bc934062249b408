package model

// RiskProfile selects a payout table for a wager
type RiskProfile string

// Known risk profiles. Anything else resolves with the balanced table.
const (
	RiskSafe     RiskProfile = "safe"
	RiskBalanced RiskProfile = "balanced"
	RiskRisky    RiskProfile = "risky"
)

// Step directions recorded in a wager's path
const (
	StepLeft  = "L"
	StepRight = "R"
)

// WagerOutcome is the transient result of resolving a single wager.
// It is never persisted; the delta is applied to the caller's balance
// source through the wallet service.
type WagerOutcome struct {
	Stake       int64
	Risk        RiskProfile // the profile actually used after defaulting
	Path        []string    // ordered step directions, display only
	LandingSlot int         // terminal position, indexes the payout table
	Multiplier  float64
	Payout      int64 // floor(stake * multiplier)
	Delta       int64 // payout - stake
}

// WagerResult pairs a resolved outcome with the balance it settled to
type WagerResult struct {
	Outcome    WagerOutcome
	NewBalance int64
}
