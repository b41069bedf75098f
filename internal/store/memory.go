package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/AngelCh415/leadpane/internal/records"
)

type MemoryStore struct {
	mu      sync.RWMutex
	version int
	tables  map[string][][]string
	headers map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:  make(map[string][][]string),
		headers: make(map[string][]string),
	}
}

func (s *MemoryStore) EnsureSchema(_ context.Context) (Migration, error) {
	schema := records.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	m := Migration{FromVersion: s.version, ToVersion: schema.Version}
	for _, t := range schema.Tables {
		if _, ok := s.headers[t.Name]; ok {
			continue
		}
		s.headers[t.Name] = append([]string(nil), t.Headers...)
		s.tables[t.Name] = nil
		m.Created = append(m.Created, t.Name)
	}
	s.version = schema.Version
	return m, nil
}

func (s *MemoryStore) ReadAll(_ context.Context, t records.TableDef) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.headers[t.Name]; !ok {
		return nil, fmt.Errorf("read %s: %w", t.Name, ErrNotMigrated)
	}
	rows := s.tables[t.Name]
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, t records.TableDef, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[t.Name]; !ok {
		return fmt.Errorf("append %s: %w", t.Name, ErrNotMigrated)
	}
	s.tables[t.Name] = append(s.tables[t.Name], append([]string(nil), row...))
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
