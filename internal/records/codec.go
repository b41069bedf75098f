package records

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/AngelCh415/leadpane/internal/models"
)

var (
	ErrFieldCount   = errors.New("wrong field count")
	ErrUnknownTable = errors.New("unknown table")
)

// RowError flags a row that could not be decoded. Row is the 1-based data row
// number (the header row is not counted).
type RowError struct {
	Table string
	Row   int
	Err   error
}

func (e RowError) Error() string { return fmt.Sprintf("%s row %d: %v", e.Table, e.Row, e.Err) }
func (e RowError) Unwrap() error { return e.Err }

func checkWidth(t TableDef, i int, row []string) *RowError {
	if len(row) == t.Width() {
		return nil
	}
	return &RowError{
		Table: t.Name,
		Row:   i + 1,
		Err:   fmt.Errorf("%w: got %d cells, want %d", ErrFieldCount, len(row), t.Width()),
	}
}

func DecodeLeads(rows [][]string) ([]models.Lead, []RowError) {
	out := make([]models.Lead, 0, len(rows))
	var bad []RowError
	for i, r := range rows {
		if e := checkWidth(Leads, i, r); e != nil {
			bad = append(bad, *e)
			continue
		}
		out = append(out, models.Lead{
			ID:             ID(r[0]),
			CreatedOn:      r[1],
			LastUpdated:    r[2],
			Owner:          r[3],
			Account:        r[4],
			Name:           r[5],
			Title:          r[6],
			Email:          r[7],
			Phone:          r[8],
			Location:       r[9],
			Source:         r[10],
			Priority:       r[11],
			Status:         r[12],
			Stage:          r[13],
			EstimatedValue: r[14],
			CloseDate:      r[15],
			Notes:          r[16],
		})
	}
	return out, bad
}

func EncodeLead(l models.Lead) []string {
	return []string{
		idCell(l.ID), l.CreatedOn, l.LastUpdated, l.Owner, l.Account, l.Name, l.Title, l.Email, l.Phone,
		l.Location, l.Source, l.Priority, l.Status, l.Stage, l.EstimatedValue, l.CloseDate, l.Notes,
	}
}

func DecodeActivities(rows [][]string) ([]models.Activity, []RowError) {
	out := make([]models.Activity, 0, len(rows))
	var bad []RowError
	for i, r := range rows {
		if e := checkWidth(Activities, i, r); e != nil {
			bad = append(bad, *e)
			continue
		}
		out = append(out, models.Activity{
			Timestamp: r[0],
			LeadID:    r[1],
			Owner:     r[2],
			Type:      r[3],
			Notes:     r[4],
			NextStep:  r[5],
			DueDate:   r[6],
		})
	}
	return out, bad
}

func EncodeActivity(a models.Activity) []string {
	return []string{a.Timestamp, a.LeadID, a.Owner, a.Type, a.Notes, a.NextStep, a.DueDate}
}

func DecodeAccounts(rows [][]string) ([]models.Account, []RowError) {
	out := make([]models.Account, 0, len(rows))
	var bad []RowError
	for i, r := range rows {
		if e := checkWidth(Accounts, i, r); e != nil {
			bad = append(bad, *e)
			continue
		}
		out = append(out, models.Account{
			ID:       ID(r[0]),
			Name:     r[1],
			Type:     r[2],
			Owner:    r[3],
			Location: r[4],
			Website:  r[5],
			Priority: r[6],
			Status:   r[7],
			Notes:    r[8],
		})
	}
	return out, bad
}

func EncodeAccount(a models.Account) []string {
	return []string{idCell(a.ID), a.Name, a.Type, a.Owner, a.Location, a.Website, a.Priority, a.Status, a.Notes}
}

func idCell(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
