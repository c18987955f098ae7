// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGroup persists a new group together with its creator member.
// The group and the member succeed or fail as one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error {
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, owner_id, name, currency, is_active, is_settled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.OwnerID, group.Name, group.Currency, group.IsActive, group.IsSettled, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMember(ctx, tx, creator); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	group.Members = []*models.Member{creator}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, currency, is_active, is_settled, created_at
		 FROM groups WHERE id = ?`,
		groupID,
	).Scan(&group.ID, &group.OwnerID, &group.Name, &group.Currency, &group.IsActive, &group.IsSettled, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.listMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroupsByUser retrieves the groups a user belongs to, newest first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.owner_id, g.name, g.currency, g.is_active, g.is_settled, g.created_at
		 FROM groups g
		 JOIN members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.OwnerID, &group.Name, &group.Currency,
			&group.IsActive, &group.IsSettled, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.listMembers(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}

	return groups, nil
}

// UpdateGroup updates group metadata and flags.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, currency = ?, is_active = ?, is_settled = ? WHERE id = ?`,
		group.Name, group.Currency, group.IsActive, group.IsSettled, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddMember adds a member to a group. Duplicate names, or duplicate linked
// users, within the group are rejected inside the insert transaction.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMember(ctx, tx, member); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertMember inserts a member row after checking in-transaction for a
// duplicate name or linked user.
func insertMember(ctx context.Context, tx *sql.Tx, member *models.Member) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members
		 WHERE group_id = ? AND (name = ? OR (user_id IS NOT NULL AND user_id = ?))`,
		member.GroupID, member.Name, member.UserID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check member uniqueness: %w", err)
	}
	if exists > 0 {
		return storage.ErrDuplicateMember
	}

	var userID interface{}
	if member.UserID != "" {
		userID = member.UserID
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO members (id, group_id, user_id, name, is_creator, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		member.ID, member.GroupID, userID, member.Name, member.IsCreator, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member := &models.Member{}
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, name, is_creator, created_at FROM members WHERE id = ?`,
		memberID,
	).Scan(&member.ID, &member.GroupID, &userID, &member.Name, &member.IsCreator, &member.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if userID.Valid {
		member.UserID = userID.String
	}
	return member, nil
}

// DeleteMember removes a member. The activity check and the delete run in
// the same transaction, so a concurrent expense or settlement insert for
// the member cannot slip between them.
func (s *SQLiteStore) DeleteMember(ctx context.Context, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var activity int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM expense_payers WHERE member_id = ?)
		      + (SELECT COUNT(*) FROM expense_splits WHERE member_id = ?)
		      + (SELECT COUNT(*) FROM expenses WHERE paid_by = ?)
		      + (SELECT COUNT(*) FROM settlements WHERE from_member_id = ? OR to_member_id = ?)`,
		memberID, memberID, memberID, memberID, memberID,
	).Scan(&activity)
	if err != nil {
		return fmt.Errorf("failed to check member activity: %w", err)
	}
	if activity > 0 {
		return storage.ErrMemberHasActivity
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = ?", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// listMembers retrieves all members of a group ordered by name.
func (s *SQLiteStore) listMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, name, is_creator, created_at
		 FROM members WHERE group_id = ? ORDER BY name`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		var userID sql.NullString
		if err := rows.Scan(&member.ID, &member.GroupID, &userID, &member.Name,
			&member.IsCreator, &member.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if userID.Valid {
			member.UserID = userID.String
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
