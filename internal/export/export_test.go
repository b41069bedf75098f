package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/leadpane/internal/crm"
	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/utils"
)

func testSnapshot() crm.Snapshot {
	return crm.Snapshot{
		TakenAt: time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC),
		Leads:   []models.Lead{{ID: 1, Status: "Won"}, {ID: 2, Status: "New"}},
		Dashboard: crm.Dashboard{
			ByStatus: []models.Item{{Key: "Won", Value: 1}, {Key: "New", Value: 1}},
		},
	}
}

func TestPushSignsBody(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, Sign(body, "s3cret"), r.Header.Get(SignatureHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	e := NewExporter(NewHTTPClient(2*time.Second), srv.URL, "s3cret", utils.NewBackoff(time.Millisecond, 0), nil)
	require.NoError(t, e.Push(context.Background(), testSnapshot()))
	assert.Equal(t, 2, got.Leads)
	assert.Equal(t, []models.Item{{Key: "Won", Value: 1}, {Key: "New", Value: 1}}, got.Dashboard.ByStatus)
}

func TestPushRetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewExporter(NewHTTPClient(2*time.Second), srv.URL, "k", utils.NewBackoff(time.Millisecond, 3), nil)
	require.NoError(t, e.Push(context.Background(), testSnapshot()))
	assert.EqualValues(t, 3, hits.Load())
}

func TestPushReportsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad signature", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewExporter(NewHTTPClient(2*time.Second), srv.URL, "k", utils.NewBackoff(time.Millisecond, 1), nil)
	err := e.Push(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestPushTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	e := NewExporter(NewHTTPClient(50*time.Millisecond), srv.URL, "k", utils.NewBackoff(time.Millisecond, 0), nil)
	require.Error(t, e.Push(context.Background(), testSnapshot()))
}

func TestPushNotConfigured(t *testing.T) {
	e := NewExporter(NewHTTPClient(time.Second), "", "", utils.NewBackoff(time.Millisecond, 0), nil)
	assert.False(t, e.Enabled())
	assert.ErrorIs(t, e.Push(context.Background(), testSnapshot()), ErrNotConfigured)
}
