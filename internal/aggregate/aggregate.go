// Package aggregate derives the summary views drawn by the dashboard charts.
// Every function is pure and total: bad cells are coerced, never reported.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/records"
)

const (
	UnknownKey         = "Unknown"
	DefaultMonthWindow = 6
	MonthLabelLayout   = "Jan 2006"
)

// Statuses are the pipeline labels counted by CountByStatus, in display order.
var Statuses = []string{"New", "Qualified", "Proposal", "Won", "Lost"}

type StatusCounts struct {
	Total     int            `json:"total"`
	PerStatus map[string]int `json:"per_status"`
}

// CountByStatus counts leads per known status. Leads with any other status
// only contribute to Total.
func CountByStatus(leads []models.Lead) StatusCounts {
	out := StatusCounts{Total: len(leads), PerStatus: make(map[string]int, len(Statuses))}
	for _, s := range Statuses {
		out.PerStatus[s] = 0
	}
	for _, l := range leads {
		if _, ok := out.PerStatus[l.Status]; ok {
			out.PerStatus[l.Status]++
		}
	}
	return out
}

// GroupCount returns one item per distinct key with the group size. Groups
// appear in the order their key is first seen. Only an empty key becomes
// Unknown; a whitespace key is a group of its own.
func GroupCount[T any](rows []T, key func(T) string) []models.Item {
	idx := map[string]int{}
	out := []models.Item{}
	for _, r := range rows {
		k := coalesce(key(r))
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, models.Item{Key: k})
		}
		out[i].Value++
	}
	return out
}

// GroupSum is GroupCount with the group value being the sum of value(row).
// value returns the raw cell; blank or non-numeric cells add 0.
func GroupSum[T any](rows []T, key func(T) string, value func(T) string) []models.Item {
	idx := map[string]int{}
	keys := []string{}
	sums := []decimal.Decimal{}
	for _, r := range rows {
		k := coalesce(key(r))
		i, ok := idx[k]
		if !ok {
			i = len(keys)
			idx[k] = i
			keys = append(keys, k)
			sums = append(sums, decimal.Zero)
		}
		sums[i] = sums[i].Add(decimal.NewFromFloat(records.Number(value(r))))
	}
	out := make([]models.Item, len(keys))
	for i, k := range keys {
		out[i] = models.Item{Key: k, Value: sums[i].InexactFloat64()}
	}
	return out
}

// MonthBuckets counts rows per calendar month over the window months ending
// with ref's month, oldest first. Rows whose date does not parse are skipped.
func MonthBuckets[T any](rows []T, date func(T) string, window int, ref time.Time) []models.Item {
	if window <= 0 {
		window = DefaultMonthWindow
	}
	loc := ref.Location()
	last := monthFloor(ref)
	first := last.AddDate(0, -(window - 1), 0)

	out := make([]models.Item, window)
	for i := range out {
		out[i].Key = first.AddDate(0, i, 0).Format(MonthLabelLayout)
	}
	for _, r := range rows {
		t, ok := records.Date(date(r), loc)
		if !ok {
			continue
		}
		i := monthsBetween(first, monthFloor(t))
		if i >= 0 && i < window {
			out[i].Value++
		}
	}
	return out
}

func monthFloor(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func coalesce(s string) string {
	if s == "" {
		return UnknownKey
	}
	return s
}
