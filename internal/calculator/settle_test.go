package calculator

import (
	"math"
	"testing"
)

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name         string
		balances     []MemberBalance
		validateFunc func(t *testing.T, transfers []Transfer)
	}{
		{
			name: "single debtor single creditor",
			balances: []MemberBalance{
				{MemberID: "a", Name: "Alice", Balance: 60.0},
				{MemberID: "b", Name: "Bob", Balance: -60.0},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 1 {
					t.Fatalf("got %d transfers, want 1", len(transfers))
				}
				tr := transfers[0]
				if tr.FromMemberID != "b" || tr.ToMemberID != "a" {
					t.Errorf("transfer %s -> %s, want b -> a", tr.FromMemberID, tr.ToMemberID)
				}
				if math.Abs(tr.Amount-60.0) > 0.01 {
					t.Errorf("amount = %v, want 60.0", tr.Amount)
				}
			},
		},
		{
			name: "largest debtor pairs with largest creditor first",
			balances: []MemberBalance{
				{MemberID: "a", Name: "Alice", Balance: 70.0},
				{MemberID: "b", Name: "Bob", Balance: 10.0},
				{MemberID: "c", Name: "Charlie", Balance: -50.0},
				{MemberID: "d", Name: "Dave", Balance: -30.0},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) == 0 {
					t.Fatal("got no transfers")
				}
				first := transfers[0]
				if first.FromMemberID != "c" || first.ToMemberID != "a" {
					t.Errorf("first transfer %s -> %s, want c -> a", first.FromMemberID, first.ToMemberID)
				}
				if math.Abs(first.Amount-50.0) > 0.01 {
					t.Errorf("first amount = %v, want 50.0", first.Amount)
				}
			},
		},
		{
			name: "settled group yields empty plan",
			balances: []MemberBalance{
				{MemberID: "a", Name: "Alice", Balance: 0},
				{MemberID: "b", Name: "Bob", Balance: 0.005},
				{MemberID: "c", Name: "Charlie", Balance: -0.005},
			},
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("got %d transfers, want 0", len(transfers))
				}
			},
		},
		{
			name:     "no balances yields empty plan",
			balances: nil,
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("got %d transfers, want 0", len(transfers))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers := PlanSettlements(tt.balances)
			if tt.validateFunc != nil {
				tt.validateFunc(t, transfers)
			}
		})
	}
}

// TestPlanSettlementsClearsBalances checks the core property of the planner:
// applying every suggested transfer brings every balance to zero, using at
// most one transfer fewer than the number of non-zero balances.
func TestPlanSettlementsClearsBalances(t *testing.T) {
	scenarios := [][]MemberBalance{
		{
			{MemberID: "a", Balance: 60.0},
			{MemberID: "b", Balance: -30.0},
			{MemberID: "c", Balance: -30.0},
		},
		{
			{MemberID: "a", Balance: 25.50},
			{MemberID: "b", Balance: 74.50},
			{MemberID: "c", Balance: -40.0},
			{MemberID: "d", Balance: -60.0},
		},
		{
			{MemberID: "a", Balance: 0.02},
			{MemberID: "b", Balance: -0.02},
		},
		{
			{MemberID: "a", Balance: 33.34},
			{MemberID: "b", Balance: -16.67},
			{MemberID: "c", Balance: -16.67},
		},
	}

	for _, balances := range scenarios {
		var nonZero int
		remaining := map[string]float64{}
		for _, b := range balances {
			remaining[b.MemberID] = b.Balance
			if math.Abs(b.Balance) > Epsilon {
				nonZero++
			}
		}

		transfers := PlanSettlements(balances)

		if nonZero > 0 && len(transfers) > nonZero-1 {
			t.Errorf("%d transfers for %d non-zero balances, want at most %d",
				len(transfers), nonZero, nonZero-1)
		}

		for _, tr := range transfers {
			if tr.Amount <= 0 {
				t.Errorf("non-positive transfer amount %v", tr.Amount)
			}
			remaining[tr.FromMemberID] += tr.Amount
			remaining[tr.ToMemberID] -= tr.Amount
		}
		for id, bal := range remaining {
			if math.Abs(bal) > Epsilon {
				t.Errorf("member %s left with balance %v after executing plan", id, bal)
			}
		}
	}
}

// Planner input is a copy; the caller's balances must not be mutated.
func TestPlanSettlementsDoesNotMutateInput(t *testing.T) {
	balances := []MemberBalance{
		{MemberID: "a", Balance: 50.0},
		{MemberID: "b", Balance: -50.0},
	}

	PlanSettlements(balances)

	if balances[0].Balance != 50.0 || balances[1].Balance != -50.0 {
		t.Errorf("input balances mutated: %+v", balances)
	}
}
