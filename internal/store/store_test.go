package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/records"
)

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	m, err := s.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"leads", "activities", "accounts"}, m.Created)
	assert.Equal(t, records.SchemaVersion, m.ToVersion)

	again, err := s.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.False(t, again.Changed())

	rows, err := s.ReadAll(ctx, records.Leads)
	require.NoError(t, err)
	assert.Empty(t, rows)

	first := records.EncodeLead(models.Lead{ID: 1, Name: "Janet Price", Status: "New", EstimatedValue: "250"})
	second := records.EncodeLead(models.Lead{ID: 2, Name: "Omar Haddad", Status: "Won"})
	require.NoError(t, s.Append(ctx, records.Leads, first))
	require.NoError(t, s.Append(ctx, records.Leads, second))

	rows, err = s.ReadAll(ctx, records.Leads)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first, rows[0])
	assert.Equal(t, second, rows[1])

	leads, bad := records.DecodeLeads(rows)
	assert.Empty(t, bad)
	assert.Equal(t, "Omar Haddad", leads[1].Name)

	acts, err := s.ReadAll(ctx, records.Activities)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreRequiresSchema(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.ReadAll(context.Background(), records.Leads)
	assert.ErrorIs(t, err, ErrNotMigrated)
	assert.ErrorIs(t, s.Append(context.Background(), records.Leads, []string{"1"}), ErrNotMigrated)
}

func TestMemoryStoreCopiesRows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.EnsureSchema(ctx)
	require.NoError(t, err)

	row := []string{"a", "b", "c", "d", "e", "f", "g"}
	require.NoError(t, s.Append(ctx, records.Activities, row))
	row[0] = "mutated"

	rows, err := s.ReadAll(ctx, records.Activities)
	require.NoError(t, err)
	assert.Equal(t, "a", rows[0][0])
	rows[0][1] = "mutated"

	rows, err = s.ReadAll(ctx, records.Activities)
	require.NoError(t, err)
	assert.Equal(t, "b", rows[0][1])
}

func TestExcelStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crm.xlsx")
	s, err := OpenExcelStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close(context.Background()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leads", "Activities", "Accounts", schemaSheet}, f.GetSheetList())
	tables, err := f.GetTables("Leads")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "LeadsTable", tables[0].Name)

	header, err := f.GetCellValue("Leads", "O1")
	require.NoError(t, err)
	assert.Equal(t, "Est. Value ($)", header)

	visible, err := f.GetSheetVisible(schemaSheet)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestExcelStoreTableGrowsWithRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.xlsx")
	s, err := OpenExcelStore(path)
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx)
	require.NoError(t, err)
	for id := 1; id <= 3; id++ {
		require.NoError(t, s.Append(ctx, records.Leads, records.EncodeLead(models.Lead{ID: id, Name: "Lead"})))
	}
	require.NoError(t, s.Close(ctx))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	tables, err := f.GetTables("Leads")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "LeadsTable", tables[0].Name)
	assert.Equal(t, "A1:Q4", tables[0].Range)

	// untouched tables keep their single empty body row
	tables, err = f.GetTables("Activities")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:G2", tables[0].Range)
}

func TestExcelStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.xlsx")

	s, err := OpenExcelStore(path)
	require.NoError(t, err)
	_, err = s.EnsureSchema(ctx)
	require.NoError(t, err)
	// trailing blank cells are dropped by the reader and must come back padded
	row := records.EncodeActivity(models.Activity{Timestamp: "2025-02-01 09:00", LeadID: "3", Type: "Call"})
	require.NoError(t, s.Append(ctx, records.Activities, row))
	require.NoError(t, s.Close(ctx))

	s, err = OpenExcelStore(path)
	require.NoError(t, err)
	defer s.Close(ctx)

	m, err := s.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.False(t, m.Changed())
	assert.Equal(t, records.SchemaVersion, m.FromVersion)

	rows, err := s.ReadAll(ctx, records.Activities)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row, rows[0])
}

func TestExcelStoreAdoptsExistingWorkbook(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.xlsx")

	// a workbook that already has a Leads sheet with data but no table or version
	f := excelize.NewFile()
	_, err := f.NewSheet("Leads")
	require.NoError(t, err)
	header := append([]string(nil), records.Leads.Headers...)
	require.NoError(t, f.SetSheetRow("Leads", "A1", &header))
	data := []interface{}{3, "2025-01-15", "2025-01-15", "", "", "Janet Price"}
	require.NoError(t, f.SetSheetRow("Leads", "A2", &data))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	s, err := OpenExcelStore(path)
	require.NoError(t, err)
	defer s.Close(ctx)

	m, err := s.EnsureSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, m.FromVersion)
	assert.ElementsMatch(t, []string{"activities", "accounts"}, m.Created)

	rows, err := s.ReadAll(ctx, records.Leads)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	leads, bad := records.DecodeLeads(rows)
	require.Empty(t, bad)
	assert.Equal(t, 3, leads[0].ID)
	assert.Equal(t, "Janet Price", leads[0].Name)

	require.NoError(t, s.Append(ctx, records.Leads, records.EncodeLead(models.Lead{ID: 4, Name: "Omar Haddad"})))
	tables, err := s.f.GetTables("Leads")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:Q3", tables[0].Range)
}
