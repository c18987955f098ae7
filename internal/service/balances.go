package service

import (
	"context"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/calculator"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// groupBalances recomputes the member balances of a group from its raw
// records. Balances are derived state: nothing here is cached, so a caller
// always sees the effect of the latest committed mutation.
func groupBalances(ctx context.Context, store storage.Store, group *models.Group) ([]calculator.MemberBalance, error) {
	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	memberRecords := make([]calculator.MemberRecord, len(group.Members))
	for i, m := range group.Members {
		memberRecords[i] = calculator.MemberRecord{ID: m.ID, Name: m.Name}
	}

	expenseRecords := make([]calculator.ExpenseRecord, len(expenses))
	for i, e := range expenses {
		record := calculator.ExpenseRecord{
			Amount: e.Amount,
			PaidBy: e.PaidBy,
		}
		for _, p := range e.Payers {
			record.Payers = append(record.Payers, calculator.PayerRecord{MemberID: p.MemberID, Amount: p.Amount})
		}
		for _, sp := range e.Splits {
			record.Splits = append(record.Splits, calculator.SplitRecord{MemberID: sp.MemberID, Amount: sp.Amount})
		}
		expenseRecords[i] = record
	}

	settlementRecords := make([]calculator.SettlementRecord, len(settlements))
	for i, s := range settlements {
		settlementRecords[i] = calculator.SettlementRecord{
			FromMemberID: s.FromMemberID,
			ToMemberID:   s.ToMemberID,
			Amount:       s.Amount,
		}
	}

	return calculator.ComputeBalances(memberRecords, expenseRecords, settlementRecords), nil
}

// memberByUser finds the member row linked to a user identity, or nil.
func memberByUser(group *models.Group, userID string) *models.Member {
	for _, m := range group.Members {
		if m.UserID != "" && m.UserID == userID {
			return m
		}
	}
	return nil
}

// memberByID finds a member of the group by member ID, or nil.
func memberByID(group *models.Group, memberID string) *models.Member {
	for _, m := range group.Members {
		if m.ID == memberID {
			return m
		}
	}
	return nil
}

// balanceOf returns the balance entry for a member, or a zero balance.
func balanceOf(balances []calculator.MemberBalance, memberID string) calculator.MemberBalance {
	for _, b := range balances {
		if b.MemberID == memberID {
			return b
		}
	}
	return calculator.MemberBalance{MemberID: memberID}
}
