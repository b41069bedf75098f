package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/leadpane/internal/records"
)

const (
	schemaSheet  = "_schema"
	defaultSheet = "Sheet1"
	tableStyle   = "TableStyleMedium2"
)

// ExcelStore keeps the tables as named tables inside an xlsx workbook, one
// worksheet per table, saving after every write.
type ExcelStore struct {
	mu    sync.Mutex
	path  string
	f     *excelize.File
	fresh bool
}

// OpenExcelStore opens the workbook at path, or starts a new one that is
// written on the first EnsureSchema.
func OpenExcelStore(path string) (*ExcelStore, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &ExcelStore{path: path, f: excelize.NewFile(), fresh: true}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &ExcelStore{path: path, f: f}, nil
}

func (s *ExcelStore) EnsureSchema(_ context.Context) (Migration, error) {
	schema := records.Current()
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.schemaVersion()
	if err != nil {
		return Migration{}, err
	}
	m := Migration{FromVersion: from, ToVersion: schema.Version}
	firstCreated := ""
	resized := false
	for _, t := range schema.Tables {
		idx, err := s.f.GetSheetIndex(t.Sheet)
		if err != nil {
			return m, fmt.Errorf("ensure %s: %w", t.Name, err)
		}
		if idx == -1 {
			if _, err := s.f.NewSheet(t.Sheet); err != nil {
				return m, fmt.Errorf("create sheet %s: %w", t.Sheet, err)
			}
			headers := append([]string(nil), t.Headers...)
			if err := s.f.SetSheetRow(t.Sheet, "A1", &headers); err != nil {
				return m, fmt.Errorf("write %s headers: %w", t.Sheet, err)
			}
			if firstCreated == "" {
				firstCreated = t.Sheet
			}
			m.Created = append(m.Created, t.Name)
		}
		changed, err := s.ensureTable(t)
		if err != nil {
			return m, err
		}
		resized = resized || changed
	}
	if s.fresh {
		if err := s.f.DeleteSheet(defaultSheet); err != nil {
			return m, fmt.Errorf("drop %s: %w", defaultSheet, err)
		}
		s.fresh = false
	}
	if firstCreated != "" {
		if idx, err := s.f.GetSheetIndex(firstCreated); err == nil && idx != -1 {
			s.f.SetActiveSheet(idx)
		}
	}
	if err := s.setSchemaVersion(schema.Version); err != nil {
		return m, err
	}
	if m.Changed() || resized {
		if err := s.f.SaveAs(s.path); err != nil {
			return m, fmt.Errorf("save workbook: %w", err)
		}
	}
	return m, nil
}

func (s *ExcelStore) ensureTable(t records.TableDef) (bool, error) {
	rows, err := s.f.GetRows(t.Sheet)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", t.Sheet, err)
	}
	return s.fitTable(t, len(rows))
}

// fitTable makes the named table span the header and every row up to
// lastRow. A table needs one body row, so it never ends above row 2.
func (s *ExcelStore) fitTable(t records.TableDef, lastRow int) (bool, error) {
	last, err := excelize.CoordinatesToCellName(t.Width(), max(lastRow, 2))
	if err != nil {
		return false, err
	}
	ref := "A1:" + last
	tables, err := s.f.GetTables(t.Sheet)
	if err != nil {
		return false, fmt.Errorf("list tables on %s: %w", t.Sheet, err)
	}
	for _, tbl := range tables {
		if tbl.Name != t.Table {
			continue
		}
		if tbl.Range == ref {
			return false, nil
		}
		if err := s.f.DeleteTable(t.Table); err != nil {
			return false, fmt.Errorf("resize table %s: %w", t.Table, err)
		}
		break
	}
	if err := s.f.AddTable(t.Sheet, &excelize.Table{Range: ref, Name: t.Table, StyleName: tableStyle}); err != nil {
		return false, fmt.Errorf("add table %s: %w", t.Table, err)
	}
	return true, nil
}

func (s *ExcelStore) schemaVersion() (int, error) {
	idx, err := s.f.GetSheetIndex(schemaSheet)
	if err != nil || idx == -1 {
		return 0, err
	}
	v, err := s.f.GetCellValue(schemaSheet, "B1")
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	n, _ := strconv.Atoi(strings.TrimSpace(v))
	return n, nil
}

func (s *ExcelStore) setSchemaVersion(v int) error {
	idx, err := s.f.GetSheetIndex(schemaSheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		if _, err := s.f.NewSheet(schemaSheet); err != nil {
			return fmt.Errorf("create %s: %w", schemaSheet, err)
		}
		if err := s.f.SetSheetVisible(schemaSheet, false); err != nil {
			return fmt.Errorf("hide %s: %w", schemaSheet, err)
		}
	}
	row := []interface{}{"version", v}
	return s.f.SetSheetRow(schemaSheet, "A1", &row)
}

func (s *ExcelStore) rows(t records.TableDef) ([][]string, error) {
	idx, err := s.f.GetSheetIndex(t.Sheet)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, ErrNotMigrated
	}
	return s.f.GetRows(t.Sheet, excelize.Options{RawCellValue: true})
}

func (s *ExcelStore) ReadAll(_ context.Context, t records.TableDef) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(t)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.Name, err)
	}
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		if i == 0 || blank(r) {
			continue
		}
		// trailing empty cells are not returned by the reader
		for len(r) < t.Width() {
			r = append(r, "")
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *ExcelStore) Append(_ context.Context, t records.TableDef, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.rows(t)
	if err != nil {
		return fmt.Errorf("append %s: %w", t.Name, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, c := range row {
		values[i] = cellValue(c)
	}
	if err := s.f.SetSheetRow(t.Sheet, cell, &values); err != nil {
		return fmt.Errorf("append %s: %w", t.Name, err)
	}
	if _, err := s.fitTable(t, len(rows)+1); err != nil {
		return err
	}
	if err := s.f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (s *ExcelStore) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}

// cellValue writes canonical numbers as numeric cells so the workbook can
// sort and sum them; everything else stays text.
func cellValue(c string) interface{} {
	f, err := strconv.ParseFloat(c, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || records.FormatNumber(f) != c {
		return c
	}
	return f
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
