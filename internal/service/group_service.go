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

// GroupService manages group lifecycle: creation, membership, and closure.
// It enforces the ownership and balance guards before any mutation reaches
// the store, so a refused operation never leaves partial state behind.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group owned by the acting user, together with the
// owner's own member row. The two records are one atomic unit.
func (s *GroupService) CreateGroup(ctx context.Context, actorID, name, currency, memberName string) (*models.Group, error) {
	if name == "" {
		return nil, validationf("group name required")
	}
	if currency == "" {
		currency = "USD"
	}
	if memberName == "" {
		if user, err := s.store.GetUserByID(ctx, actorID); err == nil {
			memberName = user.DisplayName
		}
	}
	if memberName == "" {
		return nil, validationf("member name required")
	}

	group := &models.Group{
		OwnerID:  actorID,
		Name:     name,
		Currency: currency,
	}
	creator := &models.Member{
		UserID: actorID,
		Name:   memberName,
	}

	if err := s.store.CreateGroup(ctx, group, creator); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "owner_id", actorID)
	return group, nil
}

// GetGroup retrieves a group the acting user belongs to.
func (s *GroupService) GetGroup(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	return s.requireMembership(ctx, actorID, groupID)
}

// ListGroups retrieves the groups the acting user is a member of.
func (s *GroupService) ListGroups(ctx context.Context, actorID string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// AddMember adds a member to a group. Any group member may add; duplicate
// names and duplicate linked identities are rejected.
func (s *GroupService) AddMember(ctx context.Context, actorID, groupID, name, linkedUserID string) (*models.Member, error) {
	group, err := s.requireMembership(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, validationf("member name required")
	}

	member := &models.Member{
		GroupID: group.ID,
		UserID:  linkedUserID,
		Name:    name,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrDuplicateMember) {
			return nil, validationf("member %q already exists in group", name)
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	slog.Info("Member added", "group_id", group.ID, "member_id", member.ID, "name", name)
	return member, nil
}

// RemoveMember removes a member from a group. Owner only; the creator can
// never be removed, and a member with payer or split history must have
// their expenses deleted first.
func (s *GroupService) RemoveMember(ctx context.Context, actorID, groupID, memberID string) error {
	group, err := s.requireOwner(ctx, actorID, groupID)
	if err != nil {
		return err
	}

	member := memberByID(group, memberID)
	if member == nil {
		return notFoundf("member not found in group")
	}
	if member.IsCreator {
		return preconditionf("the group creator cannot be removed")
	}

	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		if errors.Is(err, storage.ErrMemberHasActivity) {
			return preconditionf("member %q has expense or settlement history; delete those records first", member.Name)
		}
		if errors.Is(err, storage.ErrNotFound) {
			return notFoundf("member not found in group")
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	slog.Info("Member removed", "group_id", group.ID, "member_id", memberID)
	return nil
}

// LeaveGroup removes the acting user's own membership. The creator cannot
// leave, and the member's balance must be settled to within the rounding
// tolerance.
func (s *GroupService) LeaveGroup(ctx context.Context, actorID, groupID string) error {
	group, err := s.requireMembership(ctx, actorID, groupID)
	if err != nil {
		return err
	}

	member := memberByUser(group, actorID)
	if member.IsCreator {
		return preconditionf("the group creator cannot leave the group")
	}

	balances, err := groupBalances(ctx, s.store, group)
	if err != nil {
		return err
	}
	if bal := balanceOf(balances, member.ID); math.Abs(bal.Balance) > calculator.Epsilon {
		return preconditionf("cannot leave with outstanding balance of %.2f", bal.Balance)
	}

	if err := s.store.DeleteMember(ctx, member.ID); err != nil {
		if errors.Is(err, storage.ErrMemberHasActivity) {
			// A zero balance is not enough: split and settlement history
			// must go too, or the remaining records would no longer sum
			// to zero.
			return preconditionf("cannot leave while expense or settlement history remains; delete those records first")
		}
		return fmt.Errorf("failed to leave group: %w", err)
	}

	slog.Info("Member left group", "group_id", group.ID, "member_id", member.ID)
	return nil
}

// MarkSettled marks a group as settled. Owner only; every member's balance
// must be within the rounding tolerance of zero. Settlement is terminal:
// a settled group accepts no further expenses or settlements.
func (s *GroupService) MarkSettled(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	group, err := s.requireOwner(ctx, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if group.IsSettled {
		return nil, preconditionf("group is already settled")
	}

	balances, err := groupBalances(ctx, s.store, group)
	if err != nil {
		return nil, err
	}
	for _, bal := range balances {
		if math.Abs(bal.Balance) > calculator.Epsilon {
			return nil, preconditionf("member %q still has a balance of %.2f", bal.Name, bal.Balance)
		}
	}

	group.IsSettled = true
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to mark group settled: %w", err)
	}

	slog.Info("Group settled", "group_id", group.ID)
	return group, nil
}

// requireMembership loads the group and verifies the acting user is one of
// its members.
func (s *GroupService) requireMembership(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	return requireMembership(ctx, s.store, actorID, groupID)
}

// requireOwner loads the group and verifies the acting user owns it.
func (s *GroupService) requireOwner(ctx context.Context, actorID, groupID string) (*models.Group, error) {
	return requireOwner(ctx, s.store, actorID, groupID)
}

// requireMembership loads a group and checks the actor belongs to it.
func requireMembership(ctx context.Context, store storage.Store, actorID, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("group not found")
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if memberByUser(group, actorID) == nil {
		return nil, authorizationf("you must be a member of this group")
	}
	return group, nil
}

// requireOwner loads a group and checks the actor is its owner.
func requireOwner(ctx context.Context, store storage.Store, actorID, groupID string) (*models.Group, error) {
	group, err := requireMembership(ctx, store, actorID, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != actorID {
		return nil, authorizationf("only the group owner may do this")
	}
	return group, nil
}
