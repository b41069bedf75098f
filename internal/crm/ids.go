package crm

import (
	"context"

	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/records"
	"github.com/AngelCh415/leadpane/internal/store"
)

// NextLeadID returns one past the highest positive lead id, or 1.
func NextLeadID(leads []models.Lead) int {
	highest := 0
	for _, l := range leads {
		highest = max(highest, l.ID)
	}
	return highest + 1
}

// nextRowID scans the id column of raw rows. Rows of the wrong width still
// count so a malformed row can never cause an id to be reused.
func nextRowID(rows [][]string) int {
	highest := 0
	for _, r := range rows {
		if len(r) > 0 {
			highest = max(highest, records.ID(r[0]))
		}
	}
	return highest + 1
}

// appendWithID assigns the next id for t and appends the row built from it.
// Stores with their own allocator are trusted; otherwise the read and the
// append happen under writeMu.
func (s *Service) appendWithID(ctx context.Context, t records.TableDef, build func(id int) []string) (int, error) {
	if alloc, ok := s.st.(store.IDAllocator); ok {
		id, err := alloc.NextID(ctx, t)
		if err != nil {
			return 0, err
		}
		return id, s.st.Append(ctx, t, build(id))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	rows, err := s.st.ReadAll(ctx, t)
	if err != nil {
		return 0, err
	}
	id := nextRowID(rows)
	return id, s.st.Append(ctx, t, build(id))
}
