// Package report aggregates transactions into the figures the dashboard and
// stats views show: cycle totals, per-category breakdowns, and a monthly
// income/expense overview.
package report

import (
	"sort"
	"time"

	"github.com/thucvanminh/mywallet/internal/cycle"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

// UnknownCategory is the display name for transactions whose category no
// longer exists. Dangling references are tolerated, not repaired.
const UnknownCategory = "Unknown"

// CategoryTotal is the aggregate for one category within a window.
type CategoryTotal struct {
	CategoryID string
	Name       string
	Type       model.CategoryType
	Count      int
	Amount     float64
}

// CycleSummary is the aggregate view of one billing cycle.
type CycleSummary struct {
	Cycle        cycle.Cycle
	ByCategory   []CategoryTotal
	TotalIncome  float64
	TotalExpense float64
	Count        int
}

// Net returns income minus expense for the cycle.
func (s *CycleSummary) Net() float64 {
	return s.TotalIncome - s.TotalExpense
}

// Summarize aggregates the transactions falling inside c. Transactions whose
// category cannot be found count as expenses under UnknownCategory.
func Summarize(c cycle.Cycle, txns []model.Transaction, categories []model.Category) *CycleSummary {
	byID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	totals := make(map[string]*CategoryTotal)
	summary := &CycleSummary{Cycle: c}

	for _, txn := range c.Filter(txns) {
		summary.Count++

		name := UnknownCategory
		catType := model.CategoryTypeExpense
		if cat, ok := byID[txn.CategoryID]; ok {
			name = cat.Name
			catType = cat.Type
		}

		if catType == model.CategoryTypeIncome {
			summary.TotalIncome += txn.Amount
		} else {
			summary.TotalExpense += txn.Amount
		}

		total, ok := totals[txn.CategoryID]
		if !ok {
			total = &CategoryTotal{CategoryID: txn.CategoryID, Name: name, Type: catType}
			totals[txn.CategoryID] = total
		}
		total.Count++
		total.Amount += txn.Amount
	}

	summary.ByCategory = make([]CategoryTotal, 0, len(totals))
	for _, total := range totals {
		summary.ByCategory = append(summary.ByCategory, *total)
	}
	sortTotals(summary.ByCategory)

	return summary
}

// SummarizeSums builds a cycle summary from per-category aggregates queried
// straight from the store, for callers that do not hold the transactions in
// memory.
func SummarizeSums(c cycle.Cycle, sums map[string]service.CategorySummary, categories []model.Category) *CycleSummary {
	byID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	summary := &CycleSummary{Cycle: c}
	for id, cs := range sums {
		name := UnknownCategory
		catType := model.CategoryTypeExpense
		if cat, ok := byID[id]; ok {
			name = cat.Name
			catType = cat.Type
		}

		if catType == model.CategoryTypeIncome {
			summary.TotalIncome += cs.Amount
		} else {
			summary.TotalExpense += cs.Amount
		}
		summary.Count += cs.Count

		summary.ByCategory = append(summary.ByCategory, CategoryTotal{
			CategoryID: id,
			Name:       name,
			Type:       catType,
			Count:      cs.Count,
			Amount:     cs.Amount,
		})
	}
	sortTotals(summary.ByCategory)

	return summary
}

// sortTotals orders breakdowns by amount descending, then name.
func sortTotals(totals []CategoryTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Amount != totals[j].Amount {
			return totals[i].Amount > totals[j].Amount
		}
		return totals[i].Name < totals[j].Name
	})
}

// MonthTotal is one bar of the monthly overview.
type MonthTotal struct {
	Year    int
	Month   time.Month
	Income  float64
	Expense float64
}

// MonthlyOverview aggregates income and expense per calendar month for the
// trailing months window ending at now's month, oldest first.
func MonthlyOverview(now time.Time, months int, txns []model.Transaction, categories []model.Category) []MonthTotal {
	if months <= 0 {
		return nil
	}

	byID := make(map[string]model.Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	// Anchor on the first of the current month so AddDate arithmetic never
	// skips short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	overview := make([]MonthTotal, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := anchor.AddDate(0, i-months+1, 0)
		overview[i] = MonthTotal{Year: m.Year(), Month: m.Month()}
		index[m.Format("2006-01")] = i
	}

	for _, txn := range txns {
		i, ok := index[txn.Date.Format("2006-01")]
		if !ok {
			continue
		}

		catType := model.CategoryTypeExpense
		if cat, ok := byID[txn.CategoryID]; ok {
			catType = cat.Type
		}

		if catType == model.CategoryTypeIncome {
			overview[i].Income += txn.Amount
		} else {
			overview[i].Expense += txn.Amount
		}
	}

	return overview
}
