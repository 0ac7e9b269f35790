package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

// CreateTransaction inserts a transaction and returns the stored row with its
// assigned ID and creation timestamp.
func (s *SQLiteStorage) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	created := *txn
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.CreatedAt = time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, category_id, amount, note, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.OwnerID, created.CategoryID, created.Amount,
		created.Note, created.Date, created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	slog.Debug("created transaction",
		"id", created.ID,
		"category_id", created.CategoryID,
		"amount", created.Amount)
	return &created, nil
}

// DeleteTransaction removes a transaction owned by ownerID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// ListTransactions returns the owner's transactions ordered by economic date,
// newest first. Filter boundaries are inclusive.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, ownerID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, filter.StartDate, filter.EndDate)
	}

	query := `
		SELECT id, owner_id, category_id, amount, note, date, created_at
		FROM transactions
		WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}

	query += ` ORDER BY date DESC, created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.OwnerID, &txn.CategoryID, &txn.Amount,
			&txn.Note, &txn.Date, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "owner", ownerID, "count", len(txns))
	return txns, nil
}

// SumByCategory aggregates transaction counts and amounts per category ID for
// the owner within [start, end], both boundaries inclusive.
func (s *SQLiteStorage) SumByCategory(ctx context.Context, ownerID string, start, end time.Time) (map[string]service.CategorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, start, end)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id, COUNT(*), SUM(amount)
		FROM transactions
		WHERE owner_id = ? AND date >= ? AND date <= ?
		GROUP BY category_id`, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summary := make(map[string]service.CategorySummary)
	for rows.Next() {
		var categoryID string
		var cs service.CategorySummary
		if err := rows.Scan(&categoryID, &cs.Count, &cs.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summary[categoryID] = cs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category summary: %w", err)
	}

	return summary, nil
}
