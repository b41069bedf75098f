package records

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04"
)

// Workbooks count days from 1899-12-30 (the 1900 leap-year bug is folded in).
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Number coerces a cell to a float. Blank, non-numeric and non-finite cells are 0.
func Number(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Date parses a date cell in loc. It accepts ISO dates, "date hh:mm" stamps,
// RFC3339 and workbook serial day numbers.
func Date(cell string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{DateLayout, TimestampLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial < 2958466 {
		days := int(serial)
		y, m, d := excelEpoch.AddDate(0, 0, days).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// ID reads a positive integer id cell; anything else is 0.
func ID(cell string) int {
	f := Number(cell)
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// FormatNumber renders a value without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
