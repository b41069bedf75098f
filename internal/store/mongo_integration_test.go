//go:build integration

package store

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/AngelCh415/leadpane/internal/records"
)

func newMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	s, err := NewMongoStore(ctx, uri, "leadpane_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestMongoStore(t *testing.T) {
	exerciseStore(t, newMongoStore(t))
}

func TestMongoStoreAllocatesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := newMongoStore(t)
	_, err := s.EnsureSchema(ctx)
	require.NoError(t, err)

	for _, id := range []int{3, 1, 4} {
		row := make([]string, records.Leads.Width())
		row[0] = strconv.Itoa(id)
		require.NoError(t, s.Append(ctx, records.Leads, row))
	}

	next, err := s.NextID(ctx, records.Leads)
	require.NoError(t, err)
	assert.Equal(t, 5, next)

	var (
		mu   sync.Mutex
		seen = map[int]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.NextID(ctx, records.Leads)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[id], "id %d handed out twice", id)
			seen[id] = true
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
}
