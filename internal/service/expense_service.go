package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/calculator"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// PayerInput is one member's contribution toward a new or edited expense.
type PayerInput struct {
	MemberID string
	Amount   float64
}

// ExpenseInput carries the caller-supplied fields for creating or editing
// an expense. Splits are never supplied directly; they are always
// materialized from the policy so the completeness invariant holds by
// construction.
type ExpenseInput struct {
	Description string
	Amount      float64
	// PaidBy is the primary payer's member ID. Optional when Payers are
	// given; required otherwise.
	PaidBy string
	Policy models.SplitPolicy
	// SplitWith lists the member IDs sharing the expense. Empty means all
	// current group members.
	SplitWith []string
	// Overrides maps member ID to a percentage (percentage policy) or an
	// absolute amount (custom policy).
	Overrides map[string]float64
	// Payers lists explicit contributions. Their sum must equal Amount.
	Payers []PayerInput
	Date   int64
	Notes  string
}

// ExpenseService manages group expenses and their payer and split rows.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// AddExpense records a new expense. Any group member may add one. The
// expense, its payer rows, and its split rows are validated up front and
// written as one atomic unit.
func (s *ExpenseService) AddExpense(ctx context.Context, actorID, groupID string, input ExpenseInput) (*models.Expense, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsSettled {
		return nil, preconditionf("group is settled; no new expenses may be added")
	}

	expense, err := buildExpense(group, input)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	slog.Info("Expense added",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"policy", expense.SplitPolicy,
	)
	return expense, nil
}

// UpdateExpense replaces an expense's fields and recomputes its payer and
// split rows from scratch. Owner only.
func (s *ExpenseService) UpdateExpense(ctx context.Context, actorID, groupID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	group, err := requireOwner(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsSettled {
		return nil, preconditionf("group is settled; expenses can no longer change")
	}

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("expense not found")
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if existing.GroupID != group.ID {
		return nil, notFoundf("expense not found")
	}

	expense, err := buildExpense(group, input)
	if err != nil {
		return nil, err
	}
	expense.ID = existing.ID
	expense.GroupID = existing.GroupID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	slog.Info("Expense updated", "group_id", group.ID, "expense_id", expense.ID)
	return expense, nil
}

// DeleteExpense removes an expense and all of its rows. Owner only.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actorID, groupID, expenseID string) error {
	group, err := requireOwner(ctx, s.store, actorID, groupID)
	if err != nil {
		return err
	}
	if group.IsSettled {
		return preconditionf("group is settled; expenses can no longer change")
	}

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundf("expense not found")
		}
		return fmt.Errorf("failed to get expense: %w", err)
	}
	if existing.GroupID != group.ID {
		return notFoundf("expense not found")
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	slog.Info("Expense deleted", "group_id", group.ID, "expense_id", expenseID)
	return nil
}

// ListExpenses retrieves all expenses of a group, with payers and splits.
func (s *ExpenseService) ListExpenses(ctx context.Context, actorID, groupID string) ([]*models.Expense, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// buildExpense validates the input against the group and materializes the
// expense with its payer and split rows. No store call is made here, so a
// validation failure cannot leave partial state.
func buildExpense(group *models.Group, input ExpenseInput) (*models.Expense, error) {
	if input.Description == "" {
		return nil, validationf("expense description required")
	}
	if input.Amount <= 0 {
		return nil, validationf("expense amount must be positive")
	}
	if !input.Policy.Valid() {
		return nil, validationf("unknown split policy %q", input.Policy)
	}

	splitWith := input.SplitWith
	if len(splitWith) == 0 {
		for _, m := range group.Members {
			splitWith = append(splitWith, m.ID)
		}
	}
	for _, id := range splitWith {
		if memberByID(group, id) == nil {
			return nil, validationf("split member %s is not in the group", id)
		}
	}

	shares, err := calculator.ComputeSplits(input.Amount, calculator.Policy(input.Policy), splitWith, input.Overrides)
	if err != nil {
		return nil, validationf("invalid split: %v", err)
	}

	payers, paidBy, err := resolvePayers(group, input)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Amount:      input.Amount,
		Description: input.Description,
		PaidBy:      paidBy,
		SplitPolicy: input.Policy,
		Date:        input.Date,
		Notes:       input.Notes,
		Payers:      payers,
	}
	for _, share := range shares {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			MemberID:   share.MemberID,
			Amount:     share.Amount,
			Percentage: share.Percentage,
		})
	}
	return expense, nil
}

// resolvePayers validates the payer rows and determines the primary payer.
// Without explicit payers, PaidBy contributes the full amount.
func resolvePayers(group *models.Group, input ExpenseInput) ([]models.ExpensePayer, string, error) {
	if len(input.Payers) == 0 {
		if input.PaidBy == "" {
			return nil, "", validationf("expense requires a payer")
		}
		if memberByID(group, input.PaidBy) == nil {
			return nil, "", validationf("payer %s is not in the group", input.PaidBy)
		}
		payers := []models.ExpensePayer{{MemberID: input.PaidBy, Amount: input.Amount}}
		return payers, input.PaidBy, nil
	}

	var total float64
	payers := make([]models.ExpensePayer, 0, len(input.Payers))
	for _, p := range input.Payers {
		if memberByID(group, p.MemberID) == nil {
			return nil, "", validationf("payer %s is not in the group", p.MemberID)
		}
		if p.Amount <= 0 {
			return nil, "", validationf("payer contributions must be positive")
		}
		total += p.Amount
		payers = append(payers, models.ExpensePayer{MemberID: p.MemberID, Amount: p.Amount})
	}
	if math.Abs(total-input.Amount) > calculator.Epsilon {
		return nil, "", validationf("payer contributions sum to %.2f, want %.2f", total, input.Amount)
	}

	// Primary payer defaults to the largest contributor, for callers that
	// still read the single paid_by field.
	primary := input.PaidBy
	if primary == "" {
		var largest float64
		for _, p := range payers {
			if p.Amount > largest {
				largest = p.Amount
				primary = p.MemberID
			}
		}
	} else if memberByID(group, primary) == nil {
		return nil, "", validationf("payer %s is not in the group", primary)
	}

	return payers, primary, nil
}
