// Package store persists record rows. Rows are plain cell slices in header
// order; decoding into models happens in the records package.
package store

import (
	"context"
	"errors"

	"github.com/AngelCh415/leadpane/internal/records"
)

// ErrNotMigrated is returned when a table is used before EnsureSchema ran.
var ErrNotMigrated = errors.New("schema not applied")

type Store interface {
	// EnsureSchema creates every missing table with its header row and
	// records the schema version. Safe to call on every startup.
	EnsureSchema(ctx context.Context) (Migration, error)
	// ReadAll returns the data rows of a table in insertion order.
	ReadAll(ctx context.Context, t records.TableDef) ([][]string, error)
	Append(ctx context.Context, t records.TableDef, row []string) error
	Close(ctx context.Context) error
}

// IDAllocator is implemented by stores that hand out ids atomically, which
// makes them safe for several writers.
type IDAllocator interface {
	NextID(ctx context.Context, t records.TableDef) (int, error)
}

// Migration reports what EnsureSchema did.
type Migration struct {
	FromVersion int      `json:"from_version"`
	ToVersion   int      `json:"to_version"`
	Created     []string `json:"created"`
}

func (m Migration) Changed() bool { return len(m.Created) > 0 || m.FromVersion != m.ToVersion }
