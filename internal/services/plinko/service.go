package plinko

import (
	"strings"

	"github.com/versflip/versflip/internal/dependencies/random"
	"github.com/versflip/versflip/internal/model"
)

// Board geometry. A chip falls through Rows peg rows into one of Slots
// bins; the payout tables below are indexed by bin.
const (
	Rows  = 8
	Slots = Rows + 1
)

// Payout multipliers per risk profile, indexed by landing slot.
// Symmetric about the center slot, non-increasing toward each edge.
var multipliers = map[model.RiskProfile][Slots]float64{
	model.RiskSafe:     {0.60, 0.75, 0.90, 1.05, 1.20, 1.05, 0.90, 0.75, 0.60},
	model.RiskBalanced: {0.25, 0.55, 0.85, 1.10, 2.50, 1.10, 0.85, 0.55, 0.25},
	model.RiskRisky:    {0.00, 0.35, 0.70, 1.00, 4.00, 1.00, 0.70, 0.35, 0.00},
}

// Service resolves wagers. It is a pure function of its inputs plus the
// injected random source: it performs no I/O and never mutates a balance;
// applying the resulting delta is the caller's job.
type Service struct {
	random random.Random
}

// New creates a new plinko resolution service
func New(random random.Random) *Service {
	return &Service{
		random: random,
	}
}

// Resolve validates the stake against the current balance and simulates
// one chip drop. The risk profile is matched case-insensitively; an
// unknown profile resolves with the balanced table rather than failing.
func (s *Service) Resolve(stake int64, risk model.RiskProfile, currentBalance int64) (*model.WagerOutcome, error) {
	if stake <= 0 {
		return nil, model.ErrNonPositiveStake
	}
	if stake > currentBalance {
		return nil, model.ErrInsufficientBalance
	}

	risk = model.RiskProfile(strings.ToLower(string(risk)))
	table, ok := multipliers[risk]
	if !ok {
		risk = model.RiskBalanced
		table = multipliers[risk]
	}

	// Random walk from the center slot, clamped at both edges: a step
	// that would leave the board keeps the position where it is.
	position := Slots / 2
	path := make([]string, 0, Rows)
	for i := 0; i < Rows; i++ {
		if s.random.Intn(2) == 0 {
			position--
			path = append(path, model.StepLeft)
		} else {
			position++
			path = append(path, model.StepRight)
		}
		if position < 0 {
			position = 0
		}
		if position > Slots-1 {
			position = Slots - 1
		}
	}

	multiplier := table[position]
	// Truncate the payout, not the delta
	payout := int64(float64(stake) * multiplier)

	return &model.WagerOutcome{
		Stake:       stake,
		Risk:        risk,
		Path:        path,
		LandingSlot: position,
		Multiplier:  multiplier,
		Payout:      payout,
		Delta:       payout - stake,
	}, nil
}
