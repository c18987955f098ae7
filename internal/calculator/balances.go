package calculator

import "sort"

// MemberRecord identifies one group member for balance calculations.
type MemberRecord struct {
	ID   string
	Name string
}

// PayerRecord is one member's contribution toward an expense.
type PayerRecord struct {
	MemberID string
	Amount   float64
}

// SplitRecord is one member's owed share of an expense.
type SplitRecord struct {
	MemberID string
	Amount   float64
}

// ExpenseRecord carries the minimal expense information needed for balance
// calculations.
type ExpenseRecord struct {
	Amount float64
	// PaidBy is the primary payer, used when no explicit Payers exist
	// (expenses recorded before multi-payer support).
	PaidBy string
	Payers []PayerRecord
	Splits []SplitRecord
}

// SettlementRecord carries the minimal settlement information needed for
// balance calculations.
type SettlementRecord struct {
	FromMemberID string
	ToMemberID   string
	Amount       float64
}

// MemberBalance is the computed balance for one group member.
type MemberBalance struct {
	MemberID string
	Name     string
	Paid     float64 // total contributed across all expenses
	Owes     float64 // total owed across all split rows
	Balance  float64 // paid - owes, shifted toward zero by settlements
}

// ComputeBalances computes each member's net balance from the raw records.
//
// Per member: paid sums explicit payer contributions, falling back to the
// full expense amount for the PaidBy member when no payer rows exist; owes
// sums the member's split rows; settlements paid add to the balance
// (clearing debt) and settlements received subtract from it (clearing
// credit).
//
// The balances of all members always sum to zero (within Epsilon): every
// contribution and every share is drawn from, and returned to, the same
// closed pool. The result is sorted by member name so recomputation over
// the same records yields identical output.
func ComputeBalances(members []MemberRecord, expenses []ExpenseRecord, settlements []SettlementRecord) []MemberBalance {
	balances := make(map[string]*MemberBalance, len(members))
	for _, m := range members {
		balances[m.ID] = &MemberBalance{MemberID: m.ID, Name: m.Name}
	}

	for _, e := range expenses {
		if len(e.Payers) > 0 {
			for _, p := range e.Payers {
				if bal, ok := balances[p.MemberID]; ok {
					bal.Paid += p.Amount
				}
			}
		} else if bal, ok := balances[e.PaidBy]; ok {
			bal.Paid += e.Amount
		}

		for _, s := range e.Splits {
			if bal, ok := balances[s.MemberID]; ok {
				bal.Owes += s.Amount
			}
		}
	}

	// Settlements shift balance only: they are real transfers, not shares
	// of any expense, so Paid and Owes stay untouched. Paying one reduces
	// the payer's debt (balance rises toward zero) and the receiver's
	// credit (balance falls toward zero).
	for _, s := range settlements {
		if bal, ok := balances[s.FromMemberID]; ok {
			bal.Balance += s.Amount
		}
		if bal, ok := balances[s.ToMemberID]; ok {
			bal.Balance -= s.Amount
		}
	}

	result := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.Balance += bal.Paid - bal.Owes
		result = append(result, *bal)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}
