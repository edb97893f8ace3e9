package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Dhruv1249/expense-server/internal/models"
)

// CreateExpense persists an expense together with its full split set in one
// transaction. An expense never exists with a partial split set.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, payer_id, description, amount, date, split_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PayerID, expense.Description,
		expense.Amount.String(), expense.Date, expense.SplitType, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Splits {
		split := &expense.Splits[i]

		var percentage interface{}
		if !split.Percentage.IsZero() {
			percentage = split.Percentage.String()
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO splits (expense_id, user_id, position, amount, percentage, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			expense.ID, split.UserID, i, split.Amount.String(), percentage, split.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID with its splits in creation order.
// Returns (nil, nil) if the expense does not exist.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, payer_id, description, amount, date, split_type, created_at
		 FROM expenses WHERE id = ?`,
		id,
	).Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description,
		&amount, &expense.Date, &expense.SplitType, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("failed to parse expense amount: %w", err)
	}

	if expense.Splits, err = s.loadSplits(ctx, expense.ID); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListGroupExpenses returns one page of the group's expenses, newest first,
// along with the total count of expenses in the group.
func (s *SQLiteStore) ListGroupExpenses(ctx context.Context, groupID string, page, pageSize int) ([]*models.Expense, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE group_id = ?`,
		groupID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	offset := (page - 1) * pageSize
	expenses, err := s.queryExpenses(ctx,
		`SELECT id, group_id, payer_id, description, amount, date, split_type, created_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY date DESC, created_at DESC, id
		 LIMIT ? OFFSET ?`,
		groupID, pageSize, offset,
	)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAllGroupExpenses returns every expense in the group, newest first.
func (s *SQLiteStore) ListAllGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, group_id, payer_id, description, amount, date, split_type, created_at
		 FROM expenses WHERE group_id = ?
		 ORDER BY date DESC, created_at DESC, id`,
		groupID,
	)
}

// ListUserExpenses returns every expense the user participates in, as payer
// or as a split holder.
func (s *SQLiteStore) ListUserExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, group_id, payer_id, description, amount, date, split_type, created_at
		 FROM expenses
		 WHERE payer_id = ?
		    OR id IN (SELECT expense_id FROM splits WHERE user_id = ?)
		 ORDER BY date DESC, created_at DESC, id`,
		userID, userID,
	)
}

// SettleSplit marks one split SETTLED. The update is keyed by
// (expense_id, user_id), so re-applying it to an already settled split
// rewrites SETTLED over SETTLED: a no-op, which makes the operation safe to
// retry and safe under concurrent callers.
func (s *SQLiteStore) SettleSplit(ctx context.Context, expenseID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE splits SET status = ? WHERE expense_id = ? AND user_id = ?`,
		models.SplitSettled, expenseID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to settle split: %w", err)
	}
	return nil
}

// SettlePendingInGroup marks every PENDING split in the group SETTLED with a
// single filtered update, so matching splits are never partially updated.
// Returns the number of splits transitioned.
func (s *SQLiteStore) SettlePendingInGroup(ctx context.Context, groupID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE splits SET status = ?
		 WHERE status = ?
		   AND expense_id IN (SELECT id FROM expenses WHERE group_id = ?)`,
		models.SplitSettled, models.SplitPending, groupID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to settle group splits: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected, nil
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description,
			&amount, &expense.Date, &expense.SplitType, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if expense.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse expense amount: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.Splits, err = s.loadSplits(ctx, expense.ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, expenseID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, amount, percentage, status FROM splits
		 WHERE expense_id = ? ORDER BY position`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		var amount string
		var percentage sql.NullString

		if err := rows.Scan(&split.UserID, &amount, &percentage, &split.Status); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if split.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse split amount: %w", err)
		}
		if percentage.Valid {
			if split.Percentage, err = decimal.NewFromString(percentage.String); err != nil {
				return nil, fmt.Errorf("failed to parse split percentage: %w", err)
			}
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}
