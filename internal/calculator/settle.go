package calculator

import (
	"math"
	"sort"
)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       float64
}

// PlanSettlements derives a short list of transfers that clears every
// balance.
//
// Greedy two-pointer netting: debtors (balance < −Epsilon) are ordered most
// negative first, creditors (balance > Epsilon) largest first, and each step
// transfers min(|debtor|, creditor) between the current pair, advancing past
// whichever side reaches zero. The result has at most one transfer fewer
// than the number of non-zero balances, and executing all of them brings
// every balance to zero.
//
// This is not a minimum-transaction solver; optimal debt netting is NP-hard
// and the greedy plan is short enough in practice. The plan is purely
// advisory until a caller records a settlement.
func PlanSettlements(balances []MemberBalance) []Transfer {
	var debtors, creditors []MemberBalance
	for _, b := range balances {
		switch {
		case b.Balance < -Epsilon:
			debtors = append(debtors, b)
		case b.Balance > Epsilon:
			creditors = append(creditors, b)
		}
	}

	sort.Slice(debtors, func(i, j int) bool { return debtors[i].Balance < debtors[j].Balance })
	sort.Slice(creditors, func(i, j int) bool { return creditors[i].Balance > creditors[j].Balance })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owed := -debtors[i].Balance
		due := creditors[j].Balance

		amount := math.Round(math.Min(owed, due)*100) / 100
		if amount > Epsilon {
			transfers = append(transfers, Transfer{
				FromMemberID: debtors[i].MemberID,
				ToMemberID:   creditors[j].MemberID,
				Amount:       amount,
			})
		}

		debtors[i].Balance += amount
		creditors[j].Balance -= amount

		if debtors[i].Balance > -Epsilon {
			i++
		}
		if creditors[j].Balance < Epsilon {
			j++
		}
	}

	return transfers
}
