package model

import "time"

// Transaction represents a single recorded income or expense.
type Transaction struct {
	Date       time.Time // economic date, distinct from CreatedAt
	CreatedAt  time.Time
	ID         string
	OwnerID    string
	CategoryID string
	Note       string
	Amount     float64 // non-negative, currency-agnostic
}
