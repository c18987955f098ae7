package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abdul037/yourwealthadvisor-sub001/internal/models"
	"github.com/abdul037/yourwealthadvisor-sub001/internal/storage"
)

// CreateExpense persists an expense together with its payer and split rows.
// The expense and all of its rows succeed or fail as one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
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
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
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
// The rows are deleted and reinserted so edits recompute from scratch.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, paid_by = ?, split_policy = ?, expense_date = ?, notes = ?
		 WHERE id = ?`,
		expense.Amount, expense.Description, expense.PaidBy, string(expense.SplitPolicy),
		expense.Date, nullable(expense.Notes), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_payers WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete payer rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
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

// insertExpenseRows inserts the payer and split rows for an expense.
func insertExpenseRows(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Payers {
		payer := &expense.Payers[i]
		payer.ExpenseID = expense.ID
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_payers (expense_id, member_id, amount) VALUES (?, ?, ?)",
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
			"INSERT INTO expense_splits (expense_id, member_id, amount, percentage, paid) VALUES (?, ?, ?, ?, ?)",
			split.ExpenseID, split.MemberID, split.Amount, split.Percentage, split.Paid,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split row: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including payers and splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var notes sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, amount, description, paid_by, split_policy, expense_date, notes, created_at
		 FROM expenses WHERE id = ?`,
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

// ListExpensesByGroup retrieves all expenses for a group, newest first,
// including payers and splits.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, amount, description, paid_by, split_policy, expense_date, notes, created_at
		 FROM expenses WHERE group_id = ? ORDER BY expense_date DESC, created_at DESC`,
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

// loadExpenseRows populates the payer and split rows of an expense.
func (s *SQLiteStore) loadExpenseRows(ctx context.Context, expense *models.Expense) error {
	payerRows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount FROM expense_payers WHERE expense_id = ? ORDER BY member_id",
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
		"SELECT member_id, amount, percentage, paid FROM expense_splits WHERE expense_id = ? ORDER BY member_id",
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
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
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
