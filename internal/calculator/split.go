package calculator

import (
	"fmt"
	"math"
)

// Epsilon is the rounding tolerance, in currency units, used throughout the
// split, balance, and settlement calculations.
const Epsilon = 0.01

// Policy selects the splitting strategy for an expense.
type Policy string

const (
	PolicyEqual      Policy = "equal"
	PolicyPercentage Policy = "percentage"
	PolicyCustom     Policy = "custom"
)

// SplitShare is the computed owed share for one member.
type SplitShare struct {
	MemberID   string
	Amount     float64
	Percentage float64 // set only for the percentage policy
}

// ComputeSplits computes each member's owed share of an expense.
//
// For the equal policy the amount is divided evenly. For the percentage
// policy overrides maps member ID to a percentage; the percentages must sum
// to 100 within Epsilon. For the custom policy overrides maps member ID to
// an absolute amount; the amounts must sum to the expense amount within
// Epsilon. The produced shares always sum to amount within Epsilon.
//
// ComputeSplits is a pure function of its inputs; callers persist the result
// as split rows.
func ComputeSplits(amount float64, policy Policy, memberIDs []string, overrides map[string]float64) ([]SplitShare, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("cannot split among zero members")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %.2f", amount)
	}

	switch policy {
	case PolicyEqual:
		share := amount / float64(len(memberIDs))
		splits := make([]SplitShare, len(memberIDs))
		for i, id := range memberIDs {
			splits[i] = SplitShare{MemberID: id, Amount: share}
		}
		return splits, nil

	case PolicyPercentage:
		var totalPct float64
		for _, id := range memberIDs {
			pct, ok := overrides[id]
			if !ok {
				return nil, fmt.Errorf("missing percentage for member %s", id)
			}
			if pct < 0 {
				return nil, fmt.Errorf("negative percentage for member %s", id)
			}
			totalPct += pct
		}
		if math.Abs(totalPct-100) > Epsilon {
			return nil, fmt.Errorf("percentages sum to %.2f, want 100", totalPct)
		}
		splits := make([]SplitShare, len(memberIDs))
		for i, id := range memberIDs {
			pct := overrides[id]
			splits[i] = SplitShare{MemberID: id, Amount: amount * pct / 100, Percentage: pct}
		}
		return splits, nil

	case PolicyCustom:
		var total float64
		for _, id := range memberIDs {
			amt, ok := overrides[id]
			if !ok {
				return nil, fmt.Errorf("missing amount for member %s", id)
			}
			if amt < 0 {
				return nil, fmt.Errorf("negative amount for member %s", id)
			}
			total += amt
		}
		if math.Abs(total-amount) > Epsilon {
			return nil, fmt.Errorf("custom amounts sum to %.2f, want %.2f", total, amount)
		}
		splits := make([]SplitShare, len(memberIDs))
		for i, id := range memberIDs {
			splits[i] = SplitShare{MemberID: id, Amount: overrides[id]}
		}
		return splits, nil

	default:
		return nil, fmt.Errorf("unknown split policy %q", policy)
	}
}
