// Package analytics computes aggregate spending statistics over the ledger:
// totals, per-category breakdowns, a top-3 ranking and time-normalized
// averages. Results are produced fresh per request and never persisted.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sandevgo/pennybot/internal/core"
	"github.com/shopspring/decimal"
)

type CategoryStat struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type CategoryRank struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

type TimeRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Result carries every statistic the advice flow needs. An empty filtered set
// yields HasData=false with all numeric fields zeroed, so downstream
// formatting never branches on nil.
type Result struct {
	TotalExpenses     decimal.Decimal         `json:"totalExpenses"`
	TransactionCount  int                     `json:"transactionCount"`
	CategoryBreakdown map[string]CategoryStat `json:"categoryBreakdown"`
	TopCategories     []CategoryRank          `json:"topCategories"`
	AverageDaily      decimal.Decimal         `json:"averageDaily"`
	AverageWeekly     decimal.Decimal         `json:"averageWeekly"`
	AverageMonthly    decimal.Decimal         `json:"averageMonthly"`
	TimeRange         TimeRange               `json:"timeRange"`
	HasData           bool                    `json:"hasData"`
}

const topCategoryLimit = 3

// Analyze filters records by the optional [start, end] bounds (inclusive,
// each independent of the other) and aggregates the remainder. Unparsable
// amounts count as zero rather than failing the whole analysis.
func Analyze(records []core.ExpenseRecord, start, end *time.Time) Result {
	filtered := filterByRange(records, start, end)
	if len(filtered) == 0 {
		return emptyResult(start, end)
	}

	total := decimal.Zero
	for _, rec := range filtered {
		total = total.Add(core.ParseAmount(rec.Amount))
	}

	breakdown, top := rankCategories(filtered, total)
	daily, weekly, monthly := timeAverages(total, filtered, start, end)

	return Result{
		TotalExpenses:     total,
		TransactionCount:  len(filtered),
		CategoryBreakdown: breakdown,
		TopCategories:     top,
		AverageDaily:      daily,
		AverageWeekly:     weekly,
		AverageMonthly:    monthly,
		TimeRange:         TimeRange{Start: start, End: end},
		HasData:           true,
	}
}

func emptyResult(start, end *time.Time) Result {
	return Result{
		TotalExpenses:     decimal.Zero,
		CategoryBreakdown: map[string]CategoryStat{},
		TopCategories:     []CategoryRank{},
		AverageDaily:      decimal.Zero,
		AverageWeekly:     decimal.Zero,
		AverageMonthly:    decimal.Zero,
		TimeRange:         TimeRange{Start: start, End: end},
		HasData:           false,
	}
}

func filterByRange(records []core.ExpenseRecord, start, end *time.Time) []core.ExpenseRecord {
	if start == nil && end == nil {
		return records
	}
	filtered := make([]core.ExpenseRecord, 0, len(records))
	for _, rec := range records {
		d := core.RecordDate(rec)
		if d.IsZero() {
			continue
		}
		if start != nil && d.Before(*start) {
			continue
		}
		if end != nil && d.After(*end) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered
}

func rankCategories(records []core.ExpenseRecord, total decimal.Decimal) (map[string]CategoryStat, []CategoryRank) {
	breakdown := make(map[string]CategoryStat)
	// map iteration order is random; remember first-seen order so that ties
	// rank stably
	order := make([]string, 0, len(core.Categories))

	for _, rec := range records {
		stat, ok := breakdown[rec.Category]
		if !ok {
			order = append(order, rec.Category)
		}
		stat.Total = stat.Total.Add(core.ParseAmount(rec.Amount))
		stat.Count++
		breakdown[rec.Category] = stat
	}

	sort.SliceStable(order, func(i, j int) bool {
		return breakdown[order[i]].Total.GreaterThan(breakdown[order[j]].Total)
	})

	hundred := decimal.NewFromInt(100)
	top := make([]CategoryRank, 0, topCategoryLimit)
	for _, cat := range order {
		if len(top) == topCategoryLimit {
			break
		}
		stat := breakdown[cat]
		pct := decimal.Zero
		if !total.IsZero() {
			pct = stat.Total.Div(total).Mul(hundred).Round(1)
		}
		top = append(top, CategoryRank{
			Category:   cat,
			Total:      stat.Total,
			Count:      stat.Count,
			Percentage: pct,
		})
	}
	return breakdown, top
}

// timeAverages normalizes the total over the analyzed span. The day span is
// the ceiling of end−start clamped at one day; week and month spans divide by
// 7 and 30 respectively, each clamped at one unit. An absent start falls back
// to the earliest record date in the filtered set, an absent end to now.
func timeAverages(total decimal.Decimal, records []core.ExpenseRecord, start, end *time.Time) (daily, weekly, monthly decimal.Decimal) {
	from := earliestDate(records)
	if start != nil {
		from = *start
	}
	to := time.Now().UTC()
	if end != nil {
		to = *end
	}

	days := int64(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		days = 1
	}

	one := decimal.NewFromInt(1)
	daySpan := decimal.NewFromInt(days)
	weekSpan := daySpan.Div(decimal.NewFromInt(7))
	if weekSpan.LessThan(one) {
		weekSpan = one
	}
	monthSpan := daySpan.Div(decimal.NewFromInt(30))
	if monthSpan.LessThan(one) {
		monthSpan = one
	}

	return total.Div(daySpan), total.Div(weekSpan), total.Div(monthSpan)
}

func earliestDate(records []core.ExpenseRecord) time.Time {
	var earliest time.Time
	for _, rec := range records {
		d := core.RecordDate(rec)
		if d.IsZero() {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if earliest.IsZero() {
		return time.Now().UTC()
	}
	return earliest
}
