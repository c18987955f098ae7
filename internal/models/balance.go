package models

// MemberBalance is the derived balance of one group member. It is never
// stored; the raw expense, payer, split, and settlement records are the
// source of truth and balances are recomputed from them on demand.
type MemberBalance struct {
	// MemberID identifies the member.
	MemberID string

	// Name is the member's display name, for presentation.
	Name string

	// Paid is the sum of this member's contributions across all expenses.
	Paid float64

	// Owes is the sum of this member's split shares across all expenses.
	Owes float64

	// Balance is paid minus owes, shifted by settlements: paying one
	// clears debt (balance rises toward zero), receiving one clears
	// credit (balance falls toward zero).
	// Positive means the member is owed money; negative means they owe.
	// The balances of all members in a group always sum to zero.
	Balance float64
}

// Transfer is a suggested payment from a debtor to a creditor. A list of
// transfers produced by the settlement planner clears every balance in the
// group if executed in full. Transfers are purely advisory until a caller
// records a Settlement.
type Transfer struct {
	// FromMemberID is the debtor.
	FromMemberID string

	// ToMemberID is the creditor.
	ToMemberID string

	// Amount is the suggested payment, rounded to two decimal places.
	Amount float64
}
