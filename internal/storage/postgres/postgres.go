// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface, for deployments that outgrow the embedded
// SQLite database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // postgres driver

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// Ensure PgStore implements storage.Store
var _ storage.Store = (*PgStore)(nil)

// schema contains the DDL to set up the database. Runs on startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    name TEXT NOT NULL,
    currency TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    is_settled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    user_id TEXT,
    name TEXT NOT NULL,
    is_creator BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    UNIQUE (group_id, name),
    UNIQUE (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    amount DOUBLE PRECISION NOT NULL,
    description TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    split_policy TEXT NOT NULL,
    expense_date BIGINT NOT NULL,
    notes TEXT,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_payers (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (expense_id, member_id)
);

CREATE TABLE IF NOT EXISTS expense_splits (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
    paid BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (expense_id, member_id)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
    from_member_id TEXT NOT NULL,
    to_member_id TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    transaction_ref TEXT,
    created_by TEXT NOT NULL,
    note TEXT,
    created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id);
CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id);
`

// PgStore implements storage.Store using PostgreSQL.
type PgStore struct {
	db *sql.DB
}

// New connects to the database described by the connection string (any
// form lib/pq accepts, e.g. a DATABASE_URL) and runs migrations.
func New(dsn string) (*PgStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &PgStore{db: db}, nil
}

// Close closes the database connection.
func (s *PgStore) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user.
func (s *PgStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *PgStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by ID.
func (s *PgStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PgStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at, updated_at
		 FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return user, nil
}

// CreateGroup persists a group together with its creator member in one
// transaction.
func (s *PgStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.Member) error {
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
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
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

// GetGroup retrieves a group with its members.
func (s *PgStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, currency, is_active, is_settled, created_at
		 FROM groups WHERE id = $1`,
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
func (s *PgStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.owner_id, g.name, g.currency, g.is_active, g.is_settled, g.created_at
		 FROM groups g
		 JOIN members m ON m.group_id = g.id
		 WHERE m.user_id = $1
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
func (s *PgStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = $1, currency = $2, is_active = $3, is_settled = $4 WHERE id = $5`,
		group.Name, group.Currency, group.IsActive, group.IsSettled, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	return requireAffected(res)
}

// AddMember adds a member to a group.
func (s *PgStore) AddMember(ctx context.Context, member *models.Member) error {
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

func insertMember(ctx context.Context, tx *sql.Tx, member *models.Member) error {
	var exists int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members
		 WHERE group_id = $1 AND (name = $2 OR (user_id IS NOT NULL AND user_id = $3))`,
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
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		member.ID, member.GroupID, userID, member.Name, member.IsCreator, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *PgStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member := &models.Member{}
	var userID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, user_id, name, is_creator, created_at FROM members WHERE id = $1`,
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

// DeleteMember removes a member, checking for expense and settlement
// activity inside the delete transaction.
func (s *PgStore) DeleteMember(ctx context.Context, memberID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var activity int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM expense_payers WHERE member_id = $1)
		      + (SELECT COUNT(*) FROM expense_splits WHERE member_id = $1)
		      + (SELECT COUNT(*) FROM expenses WHERE paid_by = $1)
		      + (SELECT COUNT(*) FROM settlements WHERE from_member_id = $1 OR to_member_id = $1)`,
		memberID,
	).Scan(&activity)
	if err != nil {
		return fmt.Errorf("failed to check member activity: %w", err)
	}
	if activity > 0 {
		return storage.ErrMemberHasActivity
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM members WHERE id = $1", memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PgStore) listMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, user_id, name, is_creator, created_at
		 FROM members WHERE group_id = $1 ORDER BY name`,
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

// CreateExpense persists an expense and its rows in one transaction.
func (s *PgStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, amount, description, paid_by, split_policy, expense_date, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		expense.ID, expense.GroupID, expense.Amount, expense.Description, expense.PaidBy,
		string(expense.SplitPolicy), expense.Date, nullable(expense.Notes), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertExpenseRows(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces the expense and all of its payer and split rows.
func (s *PgStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET amount = $1, description = $2, paid_by = $3, split_policy = $4, expense_date = $5, notes = $6
		 WHERE id = $7`,
		expense.Amount, expense.Description, expense.PaidBy, string(expense.SplitPolicy),
		expense.Date, nullable(expense.Notes), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_payers WHERE expense_id = $1", expense.ID); err != nil {
		return fmt.Errorf("failed to delete payer rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = $1", expense.ID); err != nil {
		return fmt.Errorf("failed to delete split rows: %w", err)
	}

	if err := insertExpenseRows(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertExpenseRows(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Payers {
		payer := &expense.Payers[i]
		payer.ExpenseID = expense.ID
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, member_id, amount) VALUES ($1, $2, $3)",
			payer.ExpenseID, payer.MemberID, payer.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer row: %w", err)
		}
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, amount, percentage, paid) VALUES ($1, $2, $3, $4, $5)",
			split.ExpenseID, split.MemberID, split.Amount, split.Percentage, split.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split row: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with payers and splits.
func (s *PgStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var notes sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, amount, description, paid_by, split_policy, expense_date, notes, created_at
		 FROM expenses WHERE id = $1`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Amount, &expense.Description, &expense.PaidBy,
		(*string)(&expense.SplitPolicy), &expense.Date, &notes, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if notes.Valid {
		expense.Notes = notes.String
	}

	if err := s.loadExpenseRows(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group with their rows.
func (s *PgStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, amount, description, paid_by, split_policy, expense_date, notes, created_at
		 FROM expenses WHERE group_id = $1 ORDER BY expense_date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var notes sql.NullString
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Amount, &expense.Description,
			&expense.PaidBy, (*string)(&expense.SplitPolicy), &expense.Date, &notes, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if notes.Valid {
			expense.Notes = notes.String
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadExpenseRows(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *PgStore) loadExpenseRows(ctx context.Context, expense *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount FROM expense_payers WHERE expense_id = $1 ORDER BY member_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get payer rows: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		payer := models.ExpensePayer{ExpenseID: expense.ID}
		if err := payerRows.Scan(&payer.MemberID, &payer.Amount); err != nil {
			return fmt.Errorf("failed to scan payer row: %w", err)
		}
		expense.Payers = append(expense.Payers, payer)
	}
	if err := payerRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate payer rows: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount, percentage, paid FROM expense_splits WHERE expense_id = $1 ORDER BY member_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get split rows: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		split := models.ExpenseSplit{ExpenseID: expense.ID}
		if err := splitRows.Scan(&split.MemberID, &split.Amount, &split.Percentage, &split.Paid); err != nil {
			return fmt.Errorf("failed to scan split row: %w", err)
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate split rows: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; payer and split rows cascade.
func (s *PgStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = $1", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res)
}

// CreateSettlement persists a new settlement.
func (s *PgStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_member_id, to_member_id, amount, transaction_ref, created_by, note, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		settlement.ID, settlement.GroupID, settlement.FromMemberID, settlement.ToMemberID,
		settlement.Amount, nullable(settlement.TransactionRef), settlement.CreatedBy,
		nullable(settlement.Note), settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *PgStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var ref, note sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount, transaction_ref, created_by, note, created_at
		 FROM settlements WHERE id = $1`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMemberID, &settlement.ToMemberID,
		&settlement.Amount, &ref, &settlement.CreatedBy, &note, &settlement.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if ref.Valid {
		settlement.TransactionRef = ref.String
	}
	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group.
func (s *PgStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_member_id, to_member_id, amount, transaction_ref, created_by, note, created_at
		 FROM settlements WHERE group_id = $1 ORDER BY created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var ref, note sql.NullString

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromMemberID, &settlement.ToMemberID,
			&settlement.Amount, &ref, &settlement.CreatedBy, &note, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		if ref.Valid {
			settlement.TransactionRef = ref.String
		}
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement by ID.
func (s *PgStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = $1", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps a zero-row result to ErrNotFound.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// nullable maps the empty string to NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
