package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/model"
)

const categoryColumns = `id, name, type, icon, color, owner_id, created_at`

func scanCategory(scanner interface{ Scan(...any) error }) (model.Category, error) {
	var cat model.Category
	var owner sql.NullString
	if err := scanner.Scan(&cat.ID, &cat.Name, &cat.Type, &cat.Icon, &cat.Color, &owner, &cat.CreatedAt); err != nil {
		return model.Category{}, err
	}
	if owner.Valid {
		cat.OwnerID = &owner.String
	}
	return cat, nil
}

// ListCategories returns the system defaults plus the owner's own categories,
// ordered by creation. This matches what a signed-in session sees.
func (s *SQLiteStorage) ListCategories(ctx context.Context, ownerID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id IS NULL OR owner_id = ?
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "owner", ownerID, "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// GetCategoryByName returns the owner-visible category with the given name,
// matched case-insensitively, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE (owner_id IS NULL OR owner_id = ?) AND name = ? COLLATE NOCASE
		ORDER BY owner_id IS NULL
		LIMIT 1`, ownerID, name)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory creates a new user-owned category. The caller's OwnerID must
// be set; system defaults are only ever created by migrations.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	if category.OwnerID == nil || *category.OwnerID == "" {
		return nil, fmt.Errorf("%w: missing owner", ErrInvalidCategory)
	}

	created := *category
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	created.CreatedAt = time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, icon, color, owner_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Name, string(created.Type), created.Icon, created.Color,
		*created.OwnerID, created.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateEntry, created.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created category", "name", created.Name, "id", created.ID)
	return &created, nil
}

// DeleteCategory removes a category owned by ownerID. System defaults have no
// owner to authorize the deletion against and are refused.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, ownerID, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(ownerID, "ownerID"); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	existing, err := s.GetCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsSystem() {
		return ErrSystemCategory
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	slog.Info("deleted category", "id", id)
	return nil
}
