// Package wallet holds the signed-in user's session state: the profile and
// the session-scoped category and transaction caches. The state object is
// constructed at sign-in and torn down at sign-out; nothing here is ambient
// or global.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thucvanminh/mywallet/internal/cycle"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

// Wallet is the per-session application state. Caches are mutated only by the
// owning session's own write confirmations; consumers re-sort by transaction
// date when rendering, so cache order only matters for same-instant ties.
type Wallet struct {
	store        service.Storage
	logger       *slog.Logger
	profile      *model.UserProfile
	categories   []model.Category
	transactions []model.Transaction
}

// SignIn bootstraps a session: the profile row is created through a single
// atomic upsert if absent (never read-then-insert), then the category and
// transaction caches are loaded.
func SignIn(ctx context.Context, store service.Storage, seed model.UserProfile, logger *slog.Logger) (*Wallet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	profile, err := store.UpsertProfile(ctx, &seed)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap profile: %w", err)
	}

	categories, err := store.ListCategories(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	transactions, err := store.ListTransactions(ctx, profile.ID, service.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	logger.Info("session started",
		"user", profile.ID,
		"categories", len(categories),
		"transactions", len(transactions))

	return &Wallet{
		store:        store,
		logger:       logger,
		profile:      profile,
		categories:   categories,
		transactions: transactions,
	}, nil
}

// SignOut tears the session state down. The wallet must not be used after.
func (w *Wallet) SignOut() {
	w.logger.Info("session ended", "user", w.profile.ID)
	w.profile = nil
	w.categories = nil
	w.transactions = nil
}

// Profile returns the signed-in user's profile.
func (w *Wallet) Profile() *model.UserProfile {
	return w.profile
}

// Categories returns the session's category cache: system defaults plus the
// user's own.
func (w *Wallet) Categories() []model.Category {
	return w.categories
}

// Transactions returns the session's transaction cache.
func (w *Wallet) Transactions() []model.Transaction {
	return w.transactions
}

// CreateTransaction writes through to the store and appends the confirmed row
// to the cache in submission order.
func (w *Wallet) CreateTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	txn.OwnerID = w.profile.ID
	created, err := w.store.CreateTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	w.transactions = append(w.transactions, *created)
	return created, nil
}

// DeleteTransaction removes a transaction from the store and the cache.
func (w *Wallet) DeleteTransaction(ctx context.Context, id string) error {
	if err := w.store.DeleteTransaction(ctx, w.profile.ID, id); err != nil {
		return err
	}
	for i, txn := range w.transactions {
		if txn.ID == id {
			w.transactions = append(w.transactions[:i], w.transactions[i+1:]...)
			break
		}
	}
	return nil
}

// CreateCategory writes through to the store and appends to the cache.
func (w *Wallet) CreateCategory(ctx context.Context, cat *model.Category) (*model.Category, error) {
	ownerID := w.profile.ID
	cat.OwnerID = &ownerID
	created, err := w.store.CreateCategory(ctx, cat)
	if err != nil {
		return nil, err
	}
	w.categories = append(w.categories, *created)
	return created, nil
}

// DeleteCategory removes a user-owned category from the store and the cache.
// System defaults are refused by the store.
func (w *Wallet) DeleteCategory(ctx context.Context, id string) error {
	if err := w.store.DeleteCategory(ctx, w.profile.ID, id); err != nil {
		return err
	}
	for i, cat := range w.categories {
		if cat.ID == id {
			w.categories = append(w.categories[:i], w.categories[i+1:]...)
			break
		}
	}
	return nil
}

// SetBillingStartDay updates the billing anchor on the store and the cached
// profile.
func (w *Wallet) SetBillingStartDay(ctx context.Context, startDay int) error {
	if err := w.store.UpdateBillingStartDay(ctx, w.profile.ID, startDay); err != nil {
		return err
	}
	w.profile.BillingStartDay = startDay
	return nil
}

// CurrentCycle computes the billing cycle containing now from the cached
// profile's start day.
func (w *Wallet) CurrentCycle(now time.Time) cycle.Cycle {
	return cycle.Compute(now, w.profile.StartDay())
}

// CycleTransactions returns the cached transactions falling inside the
// current billing cycle.
func (w *Wallet) CycleTransactions(now time.Time) []model.Transaction {
	return w.CurrentCycle(now).Filter(w.transactions)
}
