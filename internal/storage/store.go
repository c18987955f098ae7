// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateMember is returned when a member with the same name or
	// linked user already exists in the group.
	ErrDuplicateMember = errors.New("member already exists in group")

	// ErrMemberHasActivity is returned when deleting a member who still has
	// payer, split, or settlement rows. The check runs inside the delete
	// transaction so it cannot race with a concurrent insert.
	ErrMemberHasActivity = errors.New("member has ledger activity")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, Postgres,
// in-memory) without changing the service layer.
//
// Multi-row units are atomic: a group is created together with its creator
// member, and an expense is created or replaced together with all of its
// payer and split rows. Writes to a single group are serialized by the
// backend so the zero-sum balance invariant is never observably violated
// mid-flight.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group together with its creator member in
	// one atomic unit. IDs and timestamps are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error

	// GetGroup retrieves a group with its members, or ErrNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves the groups a user is a member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup updates group metadata and flags.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// AddMember adds a member to a group. Returns ErrDuplicateMember when
	// the name, or the linked user, is already present in the group.
	AddMember(ctx context.Context, member *models.Member) error

	// GetMember retrieves a member by ID, or ErrNotFound.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// DeleteMember removes a member. Returns ErrMemberHasActivity when the
	// member has any payer, split, or settlement rows; the check and the
	// delete are one transaction.
	DeleteMember(ctx context.Context, memberID string) error

	// CreateExpense persists an expense together with all of its payer and
	// split rows in one atomic unit.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with payers and splits, or ErrNotFound.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses for a group, with payers
	// and splits.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense replaces an expense and all of its payer and split rows
	// (delete-then-reinsert) in one transaction.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its payer and split rows.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID, or ErrNotFound.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves all settlements for a group.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
