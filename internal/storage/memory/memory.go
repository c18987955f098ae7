// Package memory provides an in-memory implementation of the storage.Store
// interface, used in tests and for running the server without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with in-process maps. A single
// mutex serializes all writes, which trivially satisfies the per-group
// write-serialization requirement.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]*models.User
	groups      map[string]*models.Group
	members     map[string]*models.Member
	expenses    map[string]*models.Expense
	settlements map[string]*models.Settlement
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*models.User),
		groups:      make(map[string]*models.Group),
		members:     make(map[string]*models.Member),
		expenses:    make(map[string]*models.Expense),
		settlements: make(map[string]*models.Settlement),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// CreateUser stores a user.
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[u.ID] = &u
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetUserByID retrieves a user by ID.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// CreateGroup stores a group together with its creator member.
func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group, creator *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.IsActive = true

	creator.ID = uuid.New().String()
	creator.GroupID = group.ID
	creator.IsCreator = true
	creator.CreatedAt = group.CreatedAt

	g := *group
	g.Members = nil
	s.groups[g.ID] = &g
	m := *creator
	s.members[m.ID] = &m

	group.Members = []*models.Member{creator}
	return nil
}

// GetGroup retrieves a group with its members.
func (s *MemoryStore) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *g
	copied.Members = s.groupMembers(groupID)
	return &copied, nil
}

// ListGroupsByUser retrieves the groups a user belongs to, newest first.
func (s *MemoryStore) ListGroupsByUser(_ context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []*models.Group
	for _, m := range s.members {
		if m.UserID != userID {
			continue
		}
		if g, ok := s.groups[m.GroupID]; ok {
			copied := *g
			copied.Members = s.groupMembers(g.ID)
			groups = append(groups, &copied)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CreatedAt > groups[j].CreatedAt })
	return groups, nil
}

// UpdateGroup updates group metadata and flags.
func (s *MemoryStore) UpdateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.groups[group.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Name = group.Name
	existing.Currency = group.Currency
	existing.IsActive = group.IsActive
	existing.IsSettled = group.IsSettled
	return nil
}

// AddMember adds a member to a group, rejecting duplicates.
func (s *MemoryStore) AddMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.GroupID != member.GroupID {
			continue
		}
		if m.Name == member.Name || (member.UserID != "" && m.UserID == member.UserID) {
			return storage.ErrDuplicateMember
		}
	}

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	m := *member
	s.members[m.ID] = &m
	return nil
}

// GetMember retrieves a member by ID.
func (s *MemoryStore) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

// DeleteMember removes a member unless they have expense or settlement
// activity. The check and the delete happen under the same lock.
func (s *MemoryStore) DeleteMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[memberID]; !ok {
		return storage.ErrNotFound
	}

	for _, e := range s.expenses {
		if e.PaidBy == memberID {
			return storage.ErrMemberHasActivity
		}
		for _, p := range e.Payers {
			if p.MemberID == memberID {
				return storage.ErrMemberHasActivity
			}
		}
		for _, sp := range e.Splits {
			if sp.MemberID == memberID {
				return storage.ErrMemberHasActivity
			}
		}
	}
	for _, st := range s.settlements {
		if st.FromMemberID == memberID || st.ToMemberID == memberID {
			return storage.ErrMemberHasActivity
		}
	}

	delete(s.members, memberID)
	return nil
}

// CreateExpense stores an expense with its payer and split rows.
func (s *MemoryStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}
	for i := range expense.Payers {
		expense.Payers[i].ExpenseID = expense.ID
	}
	for i := range expense.Splits {
		expense.Splits[i].ExpenseID = expense.ID
	}

	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *MemoryStore) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyExpense(e), nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *MemoryStore) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expenses []*models.Expense
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			expenses = append(expenses, copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		if expenses[i].Date != expenses[j].Date {
			return expenses[i].Date > expenses[j].Date
		}
		return expenses[i].CreatedAt > expenses[j].CreatedAt
	})
	return expenses, nil
}

// UpdateExpense replaces an expense and its rows.
func (s *MemoryStore) UpdateExpense(_ context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.expenses[expense.ID]
	if !ok {
		return storage.ErrNotFound
	}
	expense.GroupID = existing.GroupID
	expense.CreatedAt = existing.CreatedAt
	for i := range expense.Payers {
		expense.Payers[i].ExpenseID = expense.ID
	}
	for i := range expense.Splits {
		expense.Splits[i].ExpenseID = expense.ID
	}
	s.expenses[expense.ID] = copyExpense(expense)
	return nil
}

// DeleteExpense removes an expense and its rows.
func (s *MemoryStore) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[expenseID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.expenses, expenseID)
	return nil
}

// CreateSettlement stores a settlement.
func (s *MemoryStore) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	copied := *settlement
	s.settlements[copied.ID] = &copied
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *MemoryStore) GetSettlement(_ context.Context, settlementID string) (*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settlements[settlementID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *st
	return &copied, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *MemoryStore) ListSettlementsByGroup(_ context.Context, groupID string) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var settlements []*models.Settlement
	for _, st := range s.settlements {
		if st.GroupID == groupID {
			copied := *st
			settlements = append(settlements, &copied)
		}
	}
	sort.Slice(settlements, func(i, j int) bool { return settlements[i].CreatedAt > settlements[j].CreatedAt })
	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *MemoryStore) DeleteSettlement(_ context.Context, settlementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settlements[settlementID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.settlements, settlementID)
	return nil
}

// groupMembers returns copies of a group's members sorted by name.
// Callers must hold the lock.
func (s *MemoryStore) groupMembers(groupID string) []*models.Member {
	var members []*models.Member
	for _, m := range s.members {
		if m.GroupID == groupID {
			copied := *m
			members = append(members, &copied)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

// copyExpense deep-copies an expense including its rows.
func copyExpense(e *models.Expense) *models.Expense {
	copied := *e
	copied.Payers = append([]models.ExpensePayer(nil), e.Payers...)
	copied.Splits = append([]models.ExpenseSplit(nil), e.Splits...)
	return &copied
}
