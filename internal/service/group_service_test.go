package service

import (
	"context"
	"testing"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage/memory"
)

// seedGroup creates a group owned by "owner" with members Alice (the owner's
// row) and Bob, returning the store, the group, and the two member rows.
func seedGroup(t *testing.T) (storage.Store, *models.Group, *models.Member, *models.Member) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	store.CreateUser(ctx, &models.User{ID: "owner", Email: "alice@example.com", DisplayName: "Alice"})

	groups := NewGroupService(store)
	group, err := groups.CreateGroup(ctx, "owner", "Trip", "USD", "Alice")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	alice := group.Members[0]

	bob, err := groups.AddMember(ctx, "owner", group.ID, "Bob", "bob-user")
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	return store, group, alice, bob
}

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.CreateUser(ctx, &models.User{ID: "owner", Email: "alice@example.com", DisplayName: "Alice"})
	groups := NewGroupService(store)

	group, err := groups.CreateGroup(ctx, "owner", "Roommates", "", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Currency != "USD" {
		t.Errorf("currency: expected default USD, got %s", group.Currency)
	}
	if len(group.Members) != 1 {
		t.Fatalf("members: expected 1, got %d", len(group.Members))
	}
	if !group.Members[0].IsCreator {
		t.Error("expected the sole member to be the creator")
	}
	// Member name falls back to the owner's display name
	if group.Members[0].Name != "Alice" {
		t.Errorf("member name: expected Alice, got %s", group.Members[0].Name)
	}
}

func TestCreateGroupRequiresName(t *testing.T) {
	groups := NewGroupService(memory.New())
	_, err := groups.CreateGroup(context.Background(), "owner", "", "USD", "Alice")
	if KindOf(err) != KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestAddMemberDuplicateName(t *testing.T) {
	ctx := context.Background()
	store, group, _, _ := seedGroup(t)
	groups := NewGroupService(store)

	_, err := groups.AddMember(ctx, "owner", group.ID, "Bob", "")
	if KindOf(err) != KindValidation {
		t.Errorf("expected validation error for duplicate name, got %v", err)
	}
}

func TestAddMemberRequiresMembership(t *testing.T) {
	ctx := context.Background()
	store, group, _, _ := seedGroup(t)
	groups := NewGroupService(store)

	_, err := groups.AddMember(ctx, "stranger", group.ID, "Eve", "")
	if KindOf(err) != KindAuthorization {
		t.Errorf("expected authorization error, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	store, group, alice, bob := seedGroup(t)
	groups := NewGroupService(store)

	t.Run("non-owner cannot remove", func(t *testing.T) {
		err := groups.RemoveMember(ctx, "bob-user", group.ID, alice.ID)
		if KindOf(err) != KindAuthorization {
			t.Errorf("expected authorization error, got %v", err)
		}
	})

	t.Run("creator cannot be removed", func(t *testing.T) {
		err := groups.RemoveMember(ctx, "owner", group.ID, alice.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error, got %v", err)
		}
	})

	t.Run("member with expense history cannot be removed", func(t *testing.T) {
		expenses := NewExpenseService(store)
		_, err := expenses.AddExpense(ctx, "owner", group.ID, ExpenseInput{
			Description: "Dinner",
			Amount:      40.0,
			PaidBy:      alice.ID,
			Policy:      models.SplitEqual,
		})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}

		err = groups.RemoveMember(ctx, "owner", group.ID, bob.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error, got %v", err)
		}

		// Membership list must be unchanged after the refusal
		fresh, err := groups.GetGroup(ctx, "owner", group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(fresh.Members) != 2 {
			t.Errorf("members: expected 2 after refused removal, got %d", len(fresh.Members))
		}
	})

	t.Run("member without history is removed", func(t *testing.T) {
		carol, err := groups.AddMember(ctx, "owner", group.ID, "Carol", "")
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if err := groups.RemoveMember(ctx, "owner", group.ID, carol.ID); err != nil {
			t.Errorf("RemoveMember failed: %v", err)
		}
	})
}

func TestRemoveMemberWithSettlementHistory(t *testing.T) {
	ctx := context.Background()
	store, group, alice, bob := seedGroup(t)
	groups := NewGroupService(store)
	settlements := NewSettlementService(store, nil)

	recorded, err := settlements.RecordSettlement(ctx, "owner", group.ID, SettlementInput{
		FromMemberID: bob.ID,
		ToMemberID:   alice.ID,
		Amount:       10.0,
	})
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	// Removing either party would break the zero-sum of the books
	if err := groups.RemoveMember(ctx, "owner", group.ID, bob.ID); KindOf(err) != KindPrecondition {
		t.Errorf("expected precondition error for settlement payer, got %v", err)
	}

	if err := settlements.DeleteSettlement(ctx, "owner", group.ID, recorded.ID); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	if err := groups.RemoveMember(ctx, "owner", group.ID, bob.ID); err != nil {
		t.Errorf("RemoveMember after settlement delete failed: %v", err)
	}
}

func TestLeaveGroup(t *testing.T) {
	ctx := context.Background()
	store, group, alice, bob := seedGroup(t)
	groups := NewGroupService(store)
	expenses := NewExpenseService(store)

	t.Run("creator cannot leave", func(t *testing.T) {
		err := groups.LeaveGroup(ctx, "owner", group.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error, got %v", err)
		}
	})

	t.Run("member with outstanding balance cannot leave", func(t *testing.T) {
		expense, err := expenses.AddExpense(ctx, "owner", group.ID, ExpenseInput{
			Description: "Hotel",
			Amount:      100.0,
			PaidBy:      alice.ID,
			Policy:      models.SplitEqual,
		})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}

		err = groups.LeaveGroup(ctx, "bob-user", group.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error, got %v", err)
		}

		// Clean up for the next subtest
		if err := expenses.DeleteExpense(ctx, "owner", group.ID, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
	})

	t.Run("member with zero balance and no history leaves", func(t *testing.T) {
		if err := groups.LeaveGroup(ctx, "bob-user", group.ID); err != nil {
			t.Errorf("LeaveGroup failed: %v", err)
		}

		fresh, err := groups.GetGroup(ctx, "owner", group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		for _, m := range fresh.Members {
			if m.ID == bob.ID {
				t.Error("Bob still in group after leaving")
			}
		}
	})
}

func TestMarkSettled(t *testing.T) {
	ctx := context.Background()
	store, group, alice, bob := seedGroup(t)
	groups := NewGroupService(store)
	expenses := NewExpenseService(store)
	settlements := NewSettlementService(store, nil)

	_, err := expenses.AddExpense(ctx, "owner", group.ID, ExpenseInput{
		Description: "Fuel",
		Amount:      50.0,
		PaidBy:      alice.ID,
		Policy:      models.SplitEqual,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	t.Run("refuses while balances are outstanding", func(t *testing.T) {
		_, err := groups.MarkSettled(ctx, "owner", group.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error, got %v", err)
		}

		fresh, _ := groups.GetGroup(ctx, "owner", group.ID)
		if fresh.IsSettled {
			t.Error("group marked settled despite refusal")
		}
	})

	t.Run("non-owner cannot settle", func(t *testing.T) {
		_, err := groups.MarkSettled(ctx, "bob-user", group.ID)
		if KindOf(err) != KindAuthorization {
			t.Errorf("expected authorization error, got %v", err)
		}
	})

	var recorded *models.Settlement
	t.Run("settles once balances clear", func(t *testing.T) {
		var err error
		recorded, err = settlements.RecordSettlement(ctx, "owner", group.ID, SettlementInput{
			FromMemberID: bob.ID,
			ToMemberID:   alice.ID,
			Amount:       25.0,
		})
		if err != nil {
			t.Fatalf("RecordSettlement failed: %v", err)
		}

		settled, err := groups.MarkSettled(ctx, "owner", group.ID)
		if err != nil {
			t.Fatalf("MarkSettled failed: %v", err)
		}
		if !settled.IsSettled {
			t.Error("expected IsSettled true")
		}
	})

	t.Run("settled group refuses new expenses and settlements", func(t *testing.T) {
		_, err := expenses.AddExpense(ctx, "owner", group.ID, ExpenseInput{
			Description: "Late dinner",
			Amount:      10.0,
			PaidBy:      alice.ID,
			Policy:      models.SplitEqual,
		})
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error for expense, got %v", err)
		}

		_, err = settlements.RecordSettlement(ctx, "owner", group.ID, SettlementInput{
			FromMemberID: bob.ID,
			ToMemberID:   alice.ID,
			Amount:       1.0,
		})
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error for settlement, got %v", err)
		}

		_, err = groups.MarkSettled(ctx, "owner", group.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error for double settle, got %v", err)
		}

		// Deleting an existing settlement would unbalance the closed books
		err = settlements.DeleteSettlement(ctx, "owner", group.ID, recorded.ID)
		if KindOf(err) != KindPrecondition {
			t.Errorf("expected precondition error for settlement delete, got %v", err)
		}
	})
}

func TestGetGroupNotFound(t *testing.T) {
	groups := NewGroupService(memory.New())
	_, err := groups.GetGroup(context.Background(), "owner", "nonexistent")
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not-found error, got %v", err)
	}
}
