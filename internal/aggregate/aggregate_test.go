package aggregate

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/leadpane/internal/models"
)

func byStatus(l models.Lead) string { return l.Status }
func byStage(l models.Lead) string  { return l.Stage }
func value(l models.Lead) string    { return l.EstimatedValue }
func created(l models.Lead) string  { return l.CreatedOn }

func TestCountByStatus(t *testing.T) {
	leads := []models.Lead{{Status: "New"}, {Status: "Won"}, {Status: "Won"}, {Status: "Lost"}}

	got := CountByStatus(leads)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, map[string]int{"New": 1, "Qualified": 0, "Proposal": 0, "Won": 2, "Lost": 1}, got.PerStatus)
}

func TestCountByStatusKeepsUnknownInTotal(t *testing.T) {
	leads := []models.Lead{{Status: "Nurture"}, {Status: ""}, {Status: "won"}, {Status: "Won"}}

	got := CountByStatus(leads)
	assert.Equal(t, len(leads), got.Total)
	assert.Equal(t, 1, got.PerStatus["Won"])
	assert.NotContains(t, got.PerStatus, "Nurture")

	assert.Equal(t, 0, CountByStatus(nil).Total)
	assert.Len(t, CountByStatus(nil).PerStatus, len(Statuses))
}

func TestGroupCount(t *testing.T) {
	leads := []models.Lead{{Status: "Won"}, {Status: ""}, {Status: "New"}, {Status: "Won"}, {Status: "  "}}

	got := GroupCount(leads, byStatus)
	assert.Equal(t, []models.Item{
		{Key: "Won", Value: 2},
		{Key: "Unknown", Value: 1},
		{Key: "New", Value: 1},
		{Key: "  ", Value: 1},
	}, got)

	assert.Empty(t, GroupCount([]models.Lead{}, byStatus))
}

func TestGroupCountSumsToLength(t *testing.T) {
	statuses := []string{"New", "Won", "", "Lost", "Custom", "New"}
	for n := 1; n <= 40; n++ {
		leads := make([]models.Lead, n)
		for i := range leads {
			leads[i].Status = statuses[(i*7)%len(statuses)]
		}
		total := 0.0
		seen := map[string]bool{}
		for _, it := range GroupCount(leads, byStatus) {
			require.False(t, seen[it.Key], "duplicate key %q", it.Key)
			seen[it.Key] = true
			total += it.Value
		}
		assert.Equal(t, float64(n), total, "n=%d", n)
	}
}

func TestGroupSumCoercesValues(t *testing.T) {
	leads := []models.Lead{
		{Stage: "Discovery", EstimatedValue: "100"},
		{Stage: "Discovery", EstimatedValue: ""},
		{Stage: "Discovery", EstimatedValue: "50"},
		{Stage: "Discovery", EstimatedValue: "abc"},
	}
	assert.Equal(t, []models.Item{{Key: "Discovery", Value: 150}}, GroupSum(leads, byStage, value))
}

func TestGroupSumAllBlank(t *testing.T) {
	leads := []models.Lead{{Stage: "Discovery"}, {Stage: "Proposal", EstimatedValue: "n/a"}, {EstimatedValue: " "}}

	got := GroupSum(leads, byStage, value)
	require.Len(t, got, 3)
	for _, it := range got {
		assert.Zero(t, it.Value, it.Key)
	}
	assert.Equal(t, "Unknown", got[2].Key)
}

func TestGroupSumDecimalPrecision(t *testing.T) {
	leads := []models.Lead{{Stage: "A", EstimatedValue: "0.1"}, {Stage: "A", EstimatedValue: "0.2"}}
	assert.Equal(t, 0.3, GroupSum(leads, byStage, value)[0].Value)
}

func TestMonthBuckets(t *testing.T) {
	ref := time.Date(2025, time.March, 18, 15, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{CreatedOn: "2025-03-01"},
		{CreatedOn: "2025-03-31"},
		{CreatedOn: "2024-10-05"},
		{CreatedOn: "2024-12-24 08:00"},
		{CreatedOn: "2024-09-30"}, // just outside the window
		{CreatedOn: "2025-04-01"}, // future
		{CreatedOn: "not a date"},
		{CreatedOn: ""},
	}

	got := MonthBuckets(leads, created, 6, ref)
	assert.Equal(t, []models.Item{
		{Key: "Oct 2024", Value: 1},
		{Key: "Nov 2024", Value: 0},
		{Key: "Dec 2024", Value: 1},
		{Key: "Jan 2025", Value: 0},
		{Key: "Feb 2025", Value: 0},
		{Key: "Mar 2025", Value: 2},
	}, got)
}

func TestMonthBucketsShape(t *testing.T) {
	ref := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{0, 1, 5, 50} {
		leads := make([]models.Lead, n)
		for i := range leads {
			leads[i].CreatedOn = fmt.Sprintf("2024-%02d-15", i%12+1)
		}
		got := MonthBuckets(leads, created, 6, ref)
		require.Len(t, got, 6)
		assert.Equal(t, "Aug 2024", got[0].Key)
		assert.Equal(t, "Jan 2025", got[5].Key)
		if n == 0 {
			for _, it := range got {
				assert.Zero(t, it.Value)
			}
		}
	}
}

func TestMonthBucketsDefaultWindow(t *testing.T) {
	ref := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	assert.Len(t, MonthBuckets([]models.Lead{}, created, 0, ref), DefaultMonthWindow)
	assert.Len(t, MonthBuckets([]models.Lead{}, created, 12, ref), 12)
}

func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	limit, offset := ClampLimitOffset(2, 1, len(rows))
	assert.Equal(t, []int{2, 3}, Paginate(rows, limit, offset))

	limit, offset = ClampLimitOffset(0, -3, len(rows))
	assert.Equal(t, rows, Paginate(rows, limit, offset))

	limit, offset = ClampLimitOffset(10, 9, len(rows))
	assert.Empty(t, Paginate(rows, limit, offset))

	assert.Equal(t, 7, AtoiDef("x", 7))
}
