package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedProfile(t *testing.T, store *SQLiteStorage, id string) *model.UserProfile {
	t.Helper()

	profile, err := store.UpsertProfile(context.Background(), &model.UserProfile{
		ID:    id,
		Email: id + "@example.com",
	})
	require.NoError(t, err)
	return profile
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	categories, err := store.ListCategories(ctx, "anyone")
	require.NoError(t, err)
	require.Len(t, categories, 8)

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = cat.Name
		assert.True(t, cat.IsSystem(), "seeded category %s must be a system default", cat.Name)
	}
	assert.Contains(t, names, "Food & Dining")
	assert.Contains(t, names, "Salary")
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	categories, err := store.ListCategories(ctx, "anyone")
	require.NoError(t, err)
	assert.Len(t, categories, 8, "re-running migrations must not duplicate the seed")
}

func TestProfileBootstrap(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	profile, err := store.UpsertProfile(ctx, &model.UserProfile{
		ID:    "user-1",
		Email: "user@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, profile.BillingStartDay, "first sign-in defaults the billing start day")

	// A later sign-in refreshes email but keeps settings.
	require.NoError(t, store.UpdateBillingStartDay(ctx, "user-1", 15))

	again, err := store.UpsertProfile(ctx, &model.UserProfile{
		ID:    "user-1",
		Email: "renamed@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", again.Email)
	assert.Equal(t, 15, again.BillingStartDay, "upsert must not reset the billing start day")
}

func TestGetProfileNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetProfile(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateBillingStartDay(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	seedProfile(t, store, "user-1")

	require.NoError(t, store.UpdateBillingStartDay(ctx, "user-1", 31))

	profile, err := store.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 31, profile.BillingStartDay)

	err = store.UpdateBillingStartDay(ctx, "user-1", 0)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	err = store.UpdateBillingStartDay(ctx, "user-1", 32)
	assert.ErrorIs(t, err, ErrInvalidProfile)

	err = store.UpdateBillingStartDay(ctx, "nobody", 5)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCreateCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := "user-1"

	created, err := store.CreateCategory(ctx, &model.Category{
		Name:    "Pets",
		Type:    model.CategoryTypeExpense,
		Icon:    "Heart",
		Color:   "#ec4899",
		OwnerID: &owner,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.IsSystem())

	categories, err := store.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, categories, 9)

	// Another user does not see it.
	other, err := store.ListCategories(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, other, 8)
}

func TestCreateCategoryValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := "user-1"

	_, err := store.CreateCategory(ctx, &model.Category{
		Name: "No owner", Type: model.CategoryTypeExpense,
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = store.CreateCategory(ctx, &model.Category{
		Name: "Bad type", Type: "TRANSFER", OwnerID: &owner,
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = store.CreateCategory(ctx, &model.Category{
		Name: "Bad icon", Type: model.CategoryTypeExpense, Icon: "Rocketship", OwnerID: &owner,
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := "user-1"

	_, err := store.CreateCategory(ctx, &model.Category{
		Name: "Gym", Type: model.CategoryTypeExpense, OwnerID: &owner,
	})
	require.NoError(t, err)

	// Name uniqueness is per owner and case-insensitive.
	_, err = store.CreateCategory(ctx, &model.Category{
		Name: "GYM", Type: model.CategoryTypeExpense, OwnerID: &owner,
	})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	other := "user-2"
	_, err = store.CreateCategory(ctx, &model.Category{
		Name: "Gym", Type: model.CategoryTypeExpense, OwnerID: &other,
	})
	assert.NoError(t, err)
}

func TestGetCategoryByName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := "user-1"

	t.Run("case insensitive", func(t *testing.T) {
		cat, err := store.GetCategoryByName(ctx, owner, "transport")
		require.NoError(t, err)
		assert.Equal(t, "Transport", cat.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetCategoryByName(ctx, owner, "Yachts")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("user category shadows nothing but is found", func(t *testing.T) {
		created, err := store.CreateCategory(ctx, &model.Category{
			Name: "Gym", Type: model.CategoryTypeExpense, OwnerID: &owner,
		})
		require.NoError(t, err)

		found, err := store.GetCategoryByName(ctx, owner, "GYM")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestDeleteCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	owner := "user-1"

	t.Run("system categories are protected", func(t *testing.T) {
		err := store.DeleteCategory(ctx, owner, "c1")
		assert.ErrorIs(t, err, ErrSystemCategory)
	})

	t.Run("user category", func(t *testing.T) {
		created, err := store.CreateCategory(ctx, &model.Category{
			Name: "Temp", Type: model.CategoryTypeExpense, OwnerID: &owner,
		})
		require.NoError(t, err)

		require.NoError(t, store.DeleteCategory(ctx, owner, created.ID))

		_, err = store.GetCategoryByID(ctx, created.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("other user's category", func(t *testing.T) {
		created, err := store.CreateCategory(ctx, &model.Category{
			Name: "Private", Type: model.CategoryTypeExpense, OwnerID: &owner,
		})
		require.NoError(t, err)

		err = store.DeleteCategory(ctx, "user-2", created.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestCreateTransaction(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateTransaction(ctx, &model.Transaction{
		OwnerID:    "user-1",
		CategoryID: "c1",
		Amount:     12.5,
		Note:       "lunch",
		Date:       time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateTransactionValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateTransaction(ctx, &model.Transaction{
		CategoryID: "c1", Amount: 1, Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = store.CreateTransaction(ctx, &model.Transaction{
		OwnerID: "user-1", CategoryID: "c1", Amount: -5, Date: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = store.CreateTransaction(ctx, &model.Transaction{
		OwnerID: "user-1", CategoryID: "c1", Amount: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestListTransactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	for i, date := range dates {
		_, err := store.CreateTransaction(ctx, &model.Transaction{
			OwnerID:    "user-1",
			CategoryID: "c1",
			Amount:     float64(i + 1),
			Date:       date,
		})
		require.NoError(t, err)
	}
	_, err := store.CreateTransaction(ctx, &model.Transaction{
		OwnerID: "user-2", CategoryID: "c1", Amount: 99, Date: dates[0],
	})
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, "user-1", service.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 3)
		assert.Equal(t, float64(3), txns[0].Amount)
		assert.Equal(t, float64(1), txns[2].Amount)
	})

	t.Run("inclusive range", func(t *testing.T) {
		start := dates[0]
		end := dates[1]
		txns, err := store.ListTransactions(ctx, "user-1", service.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		assert.Len(t, txns, 2, "boundary dates belong to the range")
	})

	t.Run("limit", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, "user-1", service.TransactionFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, float64(3), txns[0].Amount)
	})

	t.Run("inverted range", func(t *testing.T) {
		start := dates[1]
		end := dates[0]
		_, err := store.ListTransactions(ctx, "user-1", service.TransactionFilter{
			StartDate: &start,
			EndDate:   &end,
		})
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("owner isolation", func(t *testing.T) {
		txns, err := store.ListTransactions(ctx, "user-2", service.TransactionFilter{})
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})
}

func TestDeleteTransaction(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateTransaction(ctx, &model.Transaction{
		OwnerID: "user-1", CategoryID: "c1", Amount: 5, Date: time.Now(),
	})
	require.NoError(t, err)

	err = store.DeleteTransaction(ctx, "user-2", created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.DeleteTransaction(ctx, "user-1", created.ID))

	err = store.DeleteTransaction(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSumByCategory(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	entries := []struct {
		category string
		amount   float64
		day      int
	}{
		{"c1", 10, 5},
		{"c1", 15, 10},
		{"c6", 1000, 1},
		{"c2", 8, 25}, // outside the queried range
	}
	for _, e := range entries {
		_, err := store.CreateTransaction(ctx, &model.Transaction{
			OwnerID:    "user-1",
			CategoryID: e.category,
			Amount:     e.amount,
			Date:       time.Date(2024, 3, e.day, 12, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	summary, err := store.SumByCategory(ctx, "user-1",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, summary, 2)
	assert.Equal(t, service.CategorySummary{Count: 2, Amount: 25}, summary["c1"])
	assert.Equal(t, service.CategorySummary{Count: 1, Amount: 1000}, summary["c6"])
}
