package calculator

import (
	"math"
	"testing"
)

func TestComputeBalances(t *testing.T) {
	members := []MemberRecord{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Charlie"},
	}

	tests := []struct {
		name         string
		expenses     []ExpenseRecord
		settlements  []SettlementRecord
		validateFunc func(t *testing.T, balances []MemberBalance)
	}{
		{
			name: "single expense split equally",
			expenses: []ExpenseRecord{
				{
					Amount: 90.0,
					Payers: []PayerRecord{{MemberID: "a", Amount: 90.0}},
					Splits: []SplitRecord{
						{MemberID: "a", Amount: 30.0},
						{MemberID: "b", Amount: 30.0},
						{MemberID: "c", Amount: 30.0},
					},
				},
			},
			validateFunc: func(t *testing.T, balances []MemberBalance) {
				byID := balancesByID(balances)
				// Alice paid 90, owes 30: +60. Bob and Charlie owe 30 each.
				if math.Abs(byID["a"].Balance-60.0) > 0.01 {
					t.Errorf("Alice balance = %v, want 60.0", byID["a"].Balance)
				}
				if math.Abs(byID["b"].Balance+30.0) > 0.01 {
					t.Errorf("Bob balance = %v, want -30.0", byID["b"].Balance)
				}
				if math.Abs(byID["c"].Balance+30.0) > 0.01 {
					t.Errorf("Charlie balance = %v, want -30.0", byID["c"].Balance)
				}
			},
		},
		{
			name: "multi-payer expense",
			expenses: []ExpenseRecord{
				{
					Amount: 100.0,
					Payers: []PayerRecord{
						{MemberID: "a", Amount: 60.0},
						{MemberID: "b", Amount: 40.0},
					},
					Splits: []SplitRecord{
						{MemberID: "a", Amount: 50.0},
						{MemberID: "b", Amount: 50.0},
					},
				},
			},
			validateFunc: func(t *testing.T, balances []MemberBalance) {
				byID := balancesByID(balances)
				if math.Abs(byID["a"].Balance-10.0) > 0.01 {
					t.Errorf("Alice balance = %v, want 10.0", byID["a"].Balance)
				}
				if math.Abs(byID["b"].Balance+10.0) > 0.01 {
					t.Errorf("Bob balance = %v, want -10.0", byID["b"].Balance)
				}
			},
		},
		{
			name: "legacy expense with paid_by only",
			expenses: []ExpenseRecord{
				{
					Amount: 40.0,
					PaidBy: "b",
					Splits: []SplitRecord{
						{MemberID: "a", Amount: 20.0},
						{MemberID: "b", Amount: 20.0},
					},
				},
			},
			validateFunc: func(t *testing.T, balances []MemberBalance) {
				byID := balancesByID(balances)
				if math.Abs(byID["b"].Paid-40.0) > 0.01 {
					t.Errorf("Bob paid = %v, want 40.0", byID["b"].Paid)
				}
				if math.Abs(byID["b"].Balance-20.0) > 0.01 {
					t.Errorf("Bob balance = %v, want 20.0", byID["b"].Balance)
				}
			},
		},
		{
			name: "settlement shifts balance but not paid or owes",
			expenses: []ExpenseRecord{
				{
					Amount: 90.0,
					Payers: []PayerRecord{{MemberID: "a", Amount: 90.0}},
					Splits: []SplitRecord{
						{MemberID: "a", Amount: 30.0},
						{MemberID: "b", Amount: 30.0},
						{MemberID: "c", Amount: 30.0},
					},
				},
			},
			settlements: []SettlementRecord{
				{FromMemberID: "b", ToMemberID: "a", Amount: 30.0},
			},
			validateFunc: func(t *testing.T, balances []MemberBalance) {
				byID := balancesByID(balances)
				if math.Abs(byID["b"].Balance) > 0.01 {
					t.Errorf("Bob balance = %v, want 0 after settling", byID["b"].Balance)
				}
				if math.Abs(byID["b"].Owes-30.0) > 0.01 {
					t.Errorf("Bob owes = %v, want 30.0 unchanged", byID["b"].Owes)
				}
				if math.Abs(byID["a"].Balance-30.0) > 0.01 {
					t.Errorf("Alice balance = %v, want 30.0", byID["a"].Balance)
				}
			},
		},
		{
			name:     "no records gives zero balances",
			expenses: nil,
			validateFunc: func(t *testing.T, balances []MemberBalance) {
				for _, b := range balances {
					if b.Balance != 0 || b.Paid != 0 || b.Owes != 0 {
						t.Errorf("%s balance = %+v, want all zero", b.Name, b)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances := ComputeBalances(members, tt.expenses, tt.settlements)

			if len(balances) != len(members) {
				t.Fatalf("got %d balances, want %d", len(balances), len(members))
			}

			// Every scenario must net to zero
			var sum float64
			for _, b := range balances {
				sum += b.Balance
			}
			if math.Abs(sum) > 0.01 {
				t.Errorf("balances sum to %v, want 0", sum)
			}

			if tt.validateFunc != nil {
				tt.validateFunc(t, balances)
			}
		})
	}
}

func TestComputeBalancesSortedByName(t *testing.T) {
	members := []MemberRecord{
		{ID: "1", Name: "Zoe"},
		{ID: "2", Name: "Alice"},
		{ID: "3", Name: "Mallory"},
	}

	balances := ComputeBalances(members, nil, nil)
	want := []string{"Alice", "Mallory", "Zoe"}
	for i, b := range balances {
		if b.Name != want[i] {
			t.Errorf("balances[%d].Name = %s, want %s", i, b.Name, want[i])
		}
	}
}

func TestComputeBalancesIdempotent(t *testing.T) {
	members := []MemberRecord{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
	}
	expenses := []ExpenseRecord{
		{
			Amount: 33.33,
			Payers: []PayerRecord{{MemberID: "a", Amount: 33.33}},
			Splits: []SplitRecord{
				{MemberID: "a", Amount: 16.665},
				{MemberID: "b", Amount: 16.665},
			},
		},
	}

	first := ComputeBalances(members, expenses, nil)
	second := ComputeBalances(members, expenses, nil)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("recomputation differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func balancesByID(balances []MemberBalance) map[string]MemberBalance {
	byID := make(map[string]MemberBalance, len(balances))
	for _, b := range balances {
		byID[b.MemberID] = b
	}
	return byID
}
