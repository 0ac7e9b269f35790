// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/thucvanminh/mywallet/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// A nil boundary leaves that side of the range open.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Profile operations. UpsertProfile is a single atomic call so profile
	// bootstrap is not a read-then-conditionally-write race.
	GetProfile(ctx context.Context, id string) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *model.UserProfile) (*model.UserProfile, error)
	UpdateBillingStartDay(ctx context.Context, id string, startDay int) error

	// Category operations. ListCategories returns system defaults plus the
	// owner's own categories, ordered by creation.
	ListCategories(ctx context.Context, ownerID string) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, ownerID, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error

	// Transaction operations.
	CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
	ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]model.Transaction, error)
	SumByCategory(ctx context.Context, ownerID string, start, end time.Time) (map[string]CategorySummary, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// Extractor turns one encoded audio clip into candidate transactions. The call
// is a single blocking round trip; implementations live in internal/extract.
type Extractor interface {
	Extract(ctx context.Context, req ExtractionRequest) ([]Candidate, error)
}

// ExtractionRequest is the payload for one extraction round trip.
type ExtractionRequest struct {
	AudioBase64 string
	Categories  []string
	CurrentDate time.Time
}

// Candidate is one transaction proposed by the extraction service. Date and
// Note are optional; the pipeline fills defaults.
type Candidate struct {
	Date         time.Time
	Note         string
	CategoryName string
	Amount       float64
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
