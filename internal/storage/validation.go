// Package storage provides the data persistence layer for the wallet application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/thucvanminh/mywallet/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidProfile     = errors.New("invalid profile")
	ErrSystemCategory     = errors.New("system categories cannot be deleted")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.OwnerID == "" {
		return fmt.Errorf("%w: missing owner ID", ErrInvalidTransaction)
	}
	if txn.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Amount < 0 || math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
		return fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidTransaction)
	}
	return nil
}

// validateCategory validates a category.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(cat.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	switch cat.Type {
	case model.CategoryTypeIncome, model.CategoryTypeExpense:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCategory, cat.Type)
	}
	if cat.Icon != "" && !model.ValidIcon(cat.Icon) {
		return fmt.Errorf("%w: unknown icon %q", ErrInvalidCategory, cat.Icon)
	}
	return nil
}

// validateProfile validates a user profile.
func validateProfile(profile *model.UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if profile.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidProfile)
	}
	if profile.Email == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidProfile)
	}
	return validateStartDay(profile.BillingStartDay)
}

// validateStartDay enforces the 1-31 billing start day range. Zero is allowed
// and treated as "unset" (defaults to 1 downstream).
func validateStartDay(day int) error {
	if day < 0 || day > 31 {
		return fmt.Errorf("%w: billing start day must be between 1 and 31", ErrInvalidProfile)
	}
	return nil
}
