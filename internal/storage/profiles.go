package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/model"
)

// GetProfile returns the profile with the given ID, or common.ErrNotFound.
func (s *SQLiteStorage) GetProfile(ctx context.Context, id string) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, email, full_name, avatar_url, billing_start_day
		FROM profiles
		WHERE id = ?`

	var profile model.UserProfile
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.AvatarURL, &profile.BillingStartDay,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: profile %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &profile, nil
}

// UpsertProfile inserts the profile if it does not exist and returns the
// stored row. Bootstrap after sign-in uses a single atomic upsert rather than
// a read-then-conditionally-write sequence; an existing row keeps its settings
// and only email is refreshed.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	startDay := profile.BillingStartDay
	if startDay == 0 {
		startDay = model.DefaultBillingStartDay
	}

	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, billing_start_day)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email`

	if _, err := s.db.ExecContext(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.AvatarURL, startDay); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	stored, err := s.GetProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	slog.Debug("upserted profile", "id", stored.ID)
	return stored, nil
}

// UpdateBillingStartDay changes the billing anchor day for a profile.
func (s *SQLiteStorage) UpdateBillingStartDay(ctx context.Context, id string, startDay int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if startDay < 1 || startDay > 31 {
		return fmt.Errorf("%w: billing start day must be between 1 and 31", ErrInvalidProfile)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET billing_start_day = ? WHERE id = ?`, startDay, id)
	if err != nil {
		return fmt.Errorf("failed to update billing start day: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: profile %s", common.ErrNotFound, id)
	}

	slog.Info("updated billing start day", "id", id, "start_day", startDay)
	return nil
}
