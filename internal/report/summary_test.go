package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thucvanminh/mywallet/internal/cycle"
	"github.com/thucvanminh/mywallet/internal/model"
	"github.com/thucvanminh/mywallet/internal/service"
)

var summaryCategories = []model.Category{
	{ID: "c1", Name: "Food & Dining", Type: model.CategoryTypeExpense},
	{ID: "c2", Name: "Transport", Type: model.CategoryTypeExpense},
	{ID: "c6", Name: "Salary", Type: model.CategoryTypeIncome},
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	c := cycle.Compute(day(10), 1)

	txns := []model.Transaction{
		{ID: "t1", CategoryID: "c1", Amount: 20, Date: day(2)},
		{ID: "t2", CategoryID: "c1", Amount: 30, Date: day(5)},
		{ID: "t3", CategoryID: "c2", Amount: 10, Date: day(8)},
		{ID: "t4", CategoryID: "c6", Amount: 1000, Date: day(1)},
		{ID: "t5", CategoryID: "c1", Amount: 99, Date: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)}, // previous cycle
	}

	summary := Summarize(c, txns, summaryCategories)

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, float64(1000), summary.TotalIncome)
	assert.Equal(t, float64(60), summary.TotalExpense)
	assert.Equal(t, float64(940), summary.Net())

	require.Len(t, summary.ByCategory, 3)
	// Sorted by amount descending.
	assert.Equal(t, "Salary", summary.ByCategory[0].Name)
	assert.Equal(t, "Food & Dining", summary.ByCategory[1].Name)
	assert.Equal(t, 2, summary.ByCategory[1].Count)
	assert.Equal(t, float64(50), summary.ByCategory[1].Amount)
	assert.Equal(t, "Transport", summary.ByCategory[2].Name)
}

func TestSummarizeDanglingCategory(t *testing.T) {
	c := cycle.Compute(day(10), 1)

	txns := []model.Transaction{
		{ID: "t1", CategoryID: "deleted-cat", Amount: 42, Date: day(3)},
	}

	summary := Summarize(c, txns, summaryCategories)

	assert.Equal(t, float64(42), summary.TotalExpense, "dangling references count as expenses")
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, UnknownCategory, summary.ByCategory[0].Name)
}

func TestSummarizeSums(t *testing.T) {
	c := cycle.Compute(day(10), 1)

	sums := map[string]service.CategorySummary{
		"c1":          {Count: 2, Amount: 50},
		"c6":          {Count: 1, Amount: 1000},
		"deleted-cat": {Count: 1, Amount: 7},
	}

	summary := SummarizeSums(c, sums, summaryCategories)

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, float64(1000), summary.TotalIncome)
	assert.Equal(t, float64(57), summary.TotalExpense, "dangling references count as expenses")

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, "Salary", summary.ByCategory[0].Name)
	assert.Equal(t, "Food & Dining", summary.ByCategory[1].Name)
	assert.Equal(t, UnknownCategory, summary.ByCategory[2].Name)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(cycle.Compute(day(10), 1), nil, summaryCategories)

	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.Net())
	assert.Empty(t, summary.ByCategory)
}

func TestMonthlyOverview(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	txns := []model.Transaction{
		{CategoryID: "c6", Amount: 1000, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{CategoryID: "c1", Amount: 200, Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{CategoryID: "c1", Amount: 50, Date: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		{CategoryID: "c6", Amount: 1100, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{CategoryID: "c1", Amount: 9, Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)}, // before the window
	}

	overview := MonthlyOverview(now, 3, txns, summaryCategories)
	require.Len(t, overview, 3)

	assert.Equal(t, time.January, overview[0].Month)
	assert.Equal(t, float64(1000), overview[0].Income)
	assert.Equal(t, float64(200), overview[0].Expense)

	assert.Equal(t, time.February, overview[1].Month)
	assert.Equal(t, float64(50), overview[1].Expense)

	assert.Equal(t, time.March, overview[2].Month)
	assert.Equal(t, float64(1100), overview[2].Income)
}

func TestMonthlyOverviewAnchoredOnShortMonths(t *testing.T) {
	// March 31 minus one month must land in February, not skip it.
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	overview := MonthlyOverview(now, 2, nil, nil)
	require.Len(t, overview, 2)
	assert.Equal(t, time.February, overview[0].Month)
	assert.Equal(t, time.March, overview[1].Month)
}

func TestMonthlyOverviewInvalidWindow(t *testing.T) {
	assert.Nil(t, MonthlyOverview(time.Now(), 0, nil, nil))
	assert.Nil(t, MonthlyOverview(time.Now(), -2, nil, nil))
}
