package models

// Settlement represents a recorded real-world payment between two group
// members. It reduces the payer's debt and the receiver's credit by Amount.
//
// Settlements are append-only: correcting one means deleting it (which
// reverses its effect) and, if linked, deleting the associated external
// transaction record.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromMemberID is the member who paid (debtor settling up).
	FromMemberID string

	// ToMemberID is the member who received payment (creditor being paid).
	ToMemberID string

	// Amount is the payment amount in the group currency.
	Amount float64

	// TransactionRef is an opaque reference to a linked record in the
	// user's broader transaction ledger, empty when no record was created.
	// The linked record is deleted together with this settlement.
	TransactionRef string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
