package sqlite

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "ledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	group := &models.Group{OwnerID: user.ID, Name: "Goa Trip", Currency: "INR"}
	creator := &models.Member{UserID: user.ID, Name: "Alice"}

	t.Run("CreateGroup creates group and creator member together", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group, creator); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if creator.ID == "" || !creator.IsCreator {
			t.Errorf("Expected creator member row, got %+v", creator)
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(retrieved.Members) != 1 {
			t.Fatalf("Expected 1 member, got %d", len(retrieved.Members))
		}
		if !retrieved.Members[0].IsCreator {
			t.Error("Expected the sole member to be the creator")
		}
	})

	t.Run("GetGroup returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddMember rejects duplicate names", func(t *testing.T) {
		bob := &models.Member{GroupID: group.ID, Name: "Bob"}
		if err := store.AddMember(ctx, bob); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		dup := &models.Member{GroupID: group.ID, Name: "Bob"}
		if err := store.AddMember(ctx, dup); !errors.Is(err, storage.ErrDuplicateMember) {
			t.Errorf("Expected ErrDuplicateMember, got %v", err)
		}
	})

	t.Run("AddMember rejects duplicate linked user", func(t *testing.T) {
		dup := &models.Member{GroupID: group.ID, UserID: user.ID, Name: "Alice Again"}
		if err := store.AddMember(ctx, dup); !errors.Is(err, storage.ErrDuplicateMember) {
			t.Errorf("Expected ErrDuplicateMember, got %v", err)
		}
	})

	t.Run("ListGroupsByUser returns the user's groups", func(t *testing.T) {
		groups, err := store.ListGroupsByUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("Expected the created group, got %+v", groups)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{OwnerID: "owner", Name: "Roommates", Currency: "USD"}
	creator := &models.Member{UserID: "owner", Name: "Alice"}
	if err := store.CreateGroup(ctx, group, creator); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	bob := &models.Member{GroupID: group.ID, Name: "Bob"}
	if err := store.AddMember(ctx, bob); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Amount:      60.0,
		Description: "Groceries",
		PaidBy:      creator.ID,
		SplitPolicy: models.SplitEqual,
		Payers:      []models.ExpensePayer{{MemberID: creator.ID, Amount: 60.0}},
		Splits: []models.ExpenseSplit{
			{MemberID: creator.ID, Amount: 30.0},
			{MemberID: bob.ID, Amount: 30.0},
		},
	}

	t.Run("CreateExpense writes expense with payer and split rows", func(t *testing.T) {
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(retrieved.Payers) != 1 {
			t.Errorf("Expected 1 payer row, got %d", len(retrieved.Payers))
		}
		if len(retrieved.Splits) != 2 {
			t.Errorf("Expected 2 split rows, got %d", len(retrieved.Splits))
		}
		var total float64
		for _, s := range retrieved.Splits {
			total += s.Amount
		}
		if math.Abs(total-retrieved.Amount) > 0.01 {
			t.Errorf("splits sum to %v, want %v", total, retrieved.Amount)
		}
	})

	t.Run("UpdateExpense replaces payer and split rows", func(t *testing.T) {
		updated := &models.Expense{
			ID:          expense.ID,
			GroupID:     group.ID,
			Amount:      80.0,
			Description: "Groceries and beer",
			PaidBy:      bob.ID,
			SplitPolicy: models.SplitCustom,
			Payers:      []models.ExpensePayer{{MemberID: bob.ID, Amount: 80.0}},
			Splits: []models.ExpenseSplit{
				{MemberID: creator.ID, Amount: 50.0},
				{MemberID: bob.ID, Amount: 30.0},
			},
		}
		if err := store.UpdateExpense(ctx, updated); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.Amount != 80.0 {
			t.Errorf("Amount = %v, want 80.0", retrieved.Amount)
		}
		if len(retrieved.Payers) != 1 || retrieved.Payers[0].MemberID != bob.ID {
			t.Errorf("Expected Bob as sole payer, got %+v", retrieved.Payers)
		}
		if len(retrieved.Splits) != 2 {
			t.Errorf("Expected 2 split rows after update, got %d", len(retrieved.Splits))
		}
	})

	t.Run("DeleteMember refuses while member has activity", func(t *testing.T) {
		err := store.DeleteMember(ctx, bob.ID)
		if !errors.Is(err, storage.ErrMemberHasActivity) {
			t.Errorf("Expected ErrMemberHasActivity, got %v", err)
		}

		// The member must still be there
		if _, err := store.GetMember(ctx, bob.ID); err != nil {
			t.Errorf("Member disappeared after refused delete: %v", err)
		}
	})

	t.Run("DeleteExpense cascades rows and frees the member", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}

		if err := store.DeleteMember(ctx, bob.ID); err != nil {
			t.Errorf("DeleteMember failed after expense removal: %v", err)
		}
	})

	t.Run("UpdateExpense returns ErrNotFound for unknown ID", func(t *testing.T) {
		missing := &models.Expense{ID: "nonexistent-id", Amount: 10.0}
		if err := store.UpdateExpense(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{OwnerID: "owner", Name: "Trip", Currency: "EUR"}
	creator := &models.Member{UserID: "owner", Name: "Alice"}
	if err := store.CreateGroup(ctx, group, creator); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	bob := &models.Member{GroupID: group.ID, Name: "Bob"}
	if err := store.AddMember(ctx, bob); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	settlement := &models.Settlement{
		GroupID:        group.ID,
		FromMemberID:   bob.ID,
		ToMemberID:     creator.ID,
		Amount:         25.0,
		TransactionRef: "txn-123",
		CreatedBy:      "owner",
		Note:           "cash",
	}

	if err := store.CreateSettlement(ctx, settlement); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	retrieved, err := store.GetSettlement(ctx, settlement.ID)
	if err != nil {
		t.Fatalf("GetSettlement failed: %v", err)
	}
	if retrieved.TransactionRef != "txn-123" {
		t.Errorf("TransactionRef = %q, want txn-123", retrieved.TransactionRef)
	}
	if retrieved.Note != "cash" {
		t.Errorf("Note = %q, want cash", retrieved.Note)
	}

	list, err := store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListSettlementsByGroup failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 settlement, got %d", len(list))
	}

	// A member on either side of a settlement cannot be deleted
	if err := store.DeleteMember(ctx, bob.ID); !errors.Is(err, storage.ErrMemberHasActivity) {
		t.Errorf("Expected ErrMemberHasActivity for settlement payer, got %v", err)
	}
	if err := store.DeleteMember(ctx, creator.ID); !errors.Is(err, storage.ErrMemberHasActivity) {
		t.Errorf("Expected ErrMemberHasActivity for settlement receiver, got %v", err)
	}

	if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	if _, err := store.GetSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	if err := store.DeleteMember(ctx, bob.ID); err != nil {
		t.Errorf("DeleteMember after settlement delete failed: %v", err)
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("bob@example.com", "Bob", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID = %s, want %s", byEmail.ID, user.ID)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("Email = %s, want %s", byID.Email, user.Email)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
