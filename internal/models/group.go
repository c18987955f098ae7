package models

// Group represents a shared-expense group.
//
// A group is owned exclusively by its creator: only the owner may mutate
// group metadata, remove members, edit or delete expenses, delete
// settlements, or mark the group settled.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// OwnerID is the user ID of the creator. The owner always has a
	// corresponding member row with IsCreator set.
	OwnerID string

	// Name is the display name of the group (e.g., "Goa Trip", "Roommates").
	Name string

	// Currency is the ISO currency code all amounts in this group share.
	Currency string

	// IsActive reports whether the group is open for use.
	IsActive bool

	// IsSettled marks a terminal state: once true, no new expenses or
	// settlements may be added. There is no transition back.
	IsSettled bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// Members is the participant list, populated on reads.
	Members []*Member
}

// Member represents one participant in a group.
//
// Names, and linked user identities when present, are unique within a group.
// Exactly one member per group has IsCreator set, and that member can never
// be removed.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// GroupID is the group this member belongs to.
	GroupID string

	// UserID optionally links this member to a registered user account.
	// Empty for members who were added by name only.
	UserID string

	// Name is the display name inside the group.
	Name string

	// IsCreator marks the group owner's own membership row.
	IsCreator bool

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64
}
