package model

import "time"

// CategoryType indicates whether a category classifies income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "INCOME"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// Category is a named bucket classifying a transaction. A nil OwnerID marks a
// system default, which cannot be deleted by any user.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Type      CategoryType
	Icon      string
	Color     string
	OwnerID   *string
}

// IsSystem reports whether the category is a system default.
func (c *Category) IsSystem() bool {
	return c.OwnerID == nil
}

// AvailableIcons is the fixed set of symbolic icon names a category may use.
var AvailableIcons = []string{
	"Utensils", "Car", "ShoppingBag", "Film", "Zap", "Briefcase", "Laptop", "TrendingUp",
	"Home", "Gift", "Coffee", "Smartphone", "Wifi", "CreditCard", "DollarSign", "Heart",
}

// ValidIcon reports whether name is in the available icon set.
func ValidIcon(name string) bool {
	for _, icon := range AvailableIcons {
		if icon == name {
			return true
		}
	}
	return false
}

// DefaultCategories returns the system default categories seeded for every
// installation. IDs are stable so re-seeding is idempotent.
func DefaultCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Food & Dining", Type: CategoryTypeExpense, Icon: "Utensils", Color: "#ef4444"},
		{ID: "c2", Name: "Transport", Type: CategoryTypeExpense, Icon: "Car", Color: "#f97316"},
		{ID: "c3", Name: "Shopping", Type: CategoryTypeExpense, Icon: "ShoppingBag", Color: "#eab308"},
		{ID: "c4", Name: "Entertainment", Type: CategoryTypeExpense, Icon: "Film", Color: "#8b5cf6"},
		{ID: "c5", Name: "Bills & Utilities", Type: CategoryTypeExpense, Icon: "Zap", Color: "#64748b"},
		{ID: "c6", Name: "Salary", Type: CategoryTypeIncome, Icon: "Briefcase", Color: "#10b981"},
		{ID: "c7", Name: "Freelance", Type: CategoryTypeIncome, Icon: "Laptop", Color: "#06b6d4"},
		{ID: "c8", Name: "Investments", Type: CategoryTypeIncome, Icon: "TrendingUp", Color: "#3b82f6"},
	}
}
