package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/calculator"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// SettlementInput carries the caller-supplied fields for recording a
// settlement.
type SettlementInput struct {
	FromMemberID string
	ToMemberID   string
	Amount       float64
	Note         string
	// LinkTransaction asks for a matching record in the user's broader
	// transaction ledger; the settlement keeps the returned reference.
	LinkTransaction bool
}

// SettlementService records and deletes settlements and serves the derived
// balance and settle-up views.
type SettlementService struct {
	store  storage.Store
	ledger ExternalLedger
}

// NewSettlementService creates a new SettlementService with the given
// storage backend and external transaction ledger.
func NewSettlementService(store storage.Store, ledger ExternalLedger) *SettlementService {
	if ledger == nil {
		ledger = NoopLedger{}
	}
	return &SettlementService{store: store, ledger: ledger}
}

// RecordSettlement records a real-world payment between two members. Any
// group member may record one. The amount is deliberately not cross-checked
// against the planner's suggestion: partial and overlapping settlements are
// allowed.
func (s *SettlementService) RecordSettlement(ctx context.Context, actorID, groupID string, input SettlementInput) (*models.Settlement, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsSettled {
		return nil, preconditionf("group is settled; no new settlements may be added")
	}

	if input.Amount <= 0 {
		return nil, validationf("settlement amount must be positive")
	}
	if input.FromMemberID == input.ToMemberID {
		return nil, validationf("a member cannot settle with themselves")
	}
	if memberByID(group, input.FromMemberID) == nil {
		return nil, validationf("paying member is not in the group")
	}
	if memberByID(group, input.ToMemberID) == nil {
		return nil, validationf("receiving member is not in the group")
	}

	settlement := &models.Settlement{
		GroupID:      group.ID,
		FromMemberID: input.FromMemberID,
		ToMemberID:   input.ToMemberID,
		Amount:       input.Amount,
		CreatedBy:    actorID,
		Note:         input.Note,
	}

	if input.LinkTransaction {
		ref, err := s.ledger.RecordTransfer(ctx, settlement)
		if err != nil {
			return nil, fmt.Errorf("failed to record external transaction: %w", err)
		}
		settlement.TransactionRef = ref
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		// Best effort: do not leave an orphaned external record behind.
		if settlement.TransactionRef != "" {
			if delErr := s.ledger.DeleteTransfer(ctx, settlement.TransactionRef); delErr != nil {
				slog.Error("Failed to roll back external transaction",
					"ref", settlement.TransactionRef, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	slog.Info("Settlement recorded",
		"group_id", group.ID,
		"settlement_id", settlement.ID,
		"from", settlement.FromMemberID,
		"to", settlement.ToMemberID,
		"amount", settlement.Amount,
	)
	return settlement, nil
}

// DeleteSettlement removes a settlement, reversing its effect on the
// balances. Owner only, and refused once the group is settled. A linked
// external transaction is deleted first, so a failure there leaves the
// settlement untouched.
func (s *SettlementService) DeleteSettlement(ctx context.Context, actorID, groupID, settlementID string) error {
	group, err := requireOwner(ctx, s.store, actorID, groupID)
	if err != nil {
		return err
	}
	if group.IsSettled {
		return preconditionf("group is settled; settlements can no longer change")
	}

	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundf("settlement not found")
		}
		return fmt.Errorf("failed to get settlement: %w", err)
	}
	if settlement.GroupID != group.ID {
		return notFoundf("settlement not found")
	}

	if settlement.TransactionRef != "" {
		if err := s.ledger.DeleteTransfer(ctx, settlement.TransactionRef); err != nil {
			return fmt.Errorf("failed to delete external transaction: %w", err)
		}
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	slog.Info("Settlement deleted", "group_id", group.ID, "settlement_id", settlementID)
	return nil
}

// ListSettlements retrieves all settlements of a group, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, actorID, groupID string) ([]*models.Settlement, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return settlements, nil
}

// Balances recomputes every member's balance from the raw records.
func (s *SettlementService) Balances(ctx context.Context, actorID, groupID string) ([]models.MemberBalance, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}

	computed, err := groupBalances(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	balances := make([]models.MemberBalance, len(computed))
	for i, b := range computed {
		balances[i] = models.MemberBalance{
			MemberID: b.MemberID,
			Name:     b.Name,
			Paid:     b.Paid,
			Owes:     b.Owes,
			Balance:  b.Balance,
		}
	}
	return balances, nil
}

// PlanSettlements derives the suggested transfers that would clear every
// outstanding balance. Purely advisory; nothing is written.
func (s *SettlementService) PlanSettlements(ctx context.Context, actorID, groupID string) ([]models.Transfer, error) {
	group, err := requireMembership(ctx, s.store, actorID, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := groupBalances(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	plan := calculator.PlanSettlements(balances)
	transfers := make([]models.Transfer, len(plan))
	for i, t := range plan {
		transfers[i] = models.Transfer{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       t.Amount,
		}
	}
	return transfers, nil
}
