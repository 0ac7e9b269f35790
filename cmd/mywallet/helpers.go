package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/thucvanminh/mywallet/internal/config"
	"github.com/thucvanminh/mywallet/internal/extract"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/storage"
	"github.com/thucvanminh/mywallet/internal/wallet"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/mywallet/mywallet.db"
	}

	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initSession opens storage and signs the configured user in, bootstrapping
// the profile on first use.
func initSession(ctx context.Context) (*wallet.Wallet, *storage.SQLiteStorage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	userID := viper.GetString("session.user")
	if userID == "" {
		_ = store.Close()
		return nil, nil, fmt.Errorf("no user configured; set --user or MYWALLET_SESSION_USER")
	}

	email := viper.GetString("session.email")
	if email == "" {
		email = userID + "@local"
	}

	w, err := wallet.SignIn(ctx, store, model.UserProfile{
		ID:    userID,
		Email: email,
	}, slog.Default())
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return w, store, nil
}

// extractorConfig builds the extraction client configuration from viper.
func extractorConfig() extract.Config {
	return extract.Config{
		Provider:    viper.GetString("extraction.provider"),
		APIKey:      viper.GetString("extraction.api_key"),
		Model:       viper.GetString("extraction.model"),
		Endpoint:    viper.GetString("extraction.endpoint"),
		Timeout:     viper.GetDuration("extraction.timeout"),
		Temperature: viper.GetFloat64("extraction.temperature"),
	}
}
