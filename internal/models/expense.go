package models

// SplitPolicy selects how an expense is divided among its participants.
// The three policies are pure calculation strategies chosen by tag, not
// objects with behavior.
type SplitPolicy string

const (
	// SplitEqual divides the amount evenly across the split members.
	SplitEqual SplitPolicy = "equal"
	// SplitPercentage divides by caller-supplied percentages summing to 100.
	SplitPercentage SplitPolicy = "percentage"
	// SplitCustom uses caller-supplied absolute amounts summing to the total.
	SplitCustom SplitPolicy = "custom"
)

// Valid reports whether p is one of the known split policies.
func (p SplitPolicy) Valid() bool {
	switch p {
	case SplitEqual, SplitPercentage, SplitCustom:
		return true
	}
	return false
}

// Expense represents a group expense together with its payer and split rows.
//
// An expense, its payers, and its splits are created and replaced as one
// atomic unit: an expense without at least one payer or without complete
// splits is invalid and is rejected before any row is written.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Amount is the total expense amount in the group currency. Positive.
	Amount float64

	// Description is the human-readable label (e.g., "Dinner", "Fuel").
	Description string

	// PaidBy is the primary payer's member ID. Kept for expenses recorded
	// before multi-payer support; when Payers rows exist they take
	// precedence for balance purposes.
	PaidBy string

	// SplitPolicy is how the amount is divided among the split rows.
	SplitPolicy SplitPolicy

	// Date is the Unix timestamp of when the expense was incurred.
	Date int64

	// Notes is optional free text.
	Notes string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Payers lists who actually contributed money and how much. The
	// contributions sum to Amount.
	Payers []ExpensePayer

	// Splits lists who owes what for this expense. The split amounts sum to
	// Amount within the rounding tolerance.
	Splits []ExpenseSplit
}

// ExpensePayer records one member's contribution toward an expense.
type ExpensePayer struct {
	// ExpenseID is the expense this contribution belongs to.
	ExpenseID string

	// MemberID is the contributing member.
	MemberID string

	// Amount is how much this member put in.
	Amount float64
}

// ExpenseSplit records one member's owed share of an expense.
type ExpenseSplit struct {
	// ExpenseID is the expense this share belongs to.
	ExpenseID string

	// MemberID is the member who owes this share.
	MemberID string

	// Amount is the owed share in the group currency.
	Amount float64

	// Percentage is the share percentage for percentage-policy expenses,
	// zero otherwise.
	Percentage float64

	// Paid marks shares the member has individually marked as paid off.
	Paid bool
}
