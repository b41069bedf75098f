// Package crm wires the record store to the aggregation and chart packages.
// It is what the HTTP handlers and the CLI talk to.
package crm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/aggregate"
	"github.com/AngelCh415/leadpane/internal/chart"
	"github.com/AngelCh415/leadpane/internal/models"
	"github.com/AngelCh415/leadpane/internal/observability"
	"github.com/AngelCh415/leadpane/internal/records"
	"github.com/AngelCh415/leadpane/internal/store"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnknownChart = errors.New("unknown chart")
)

// Chart names accepted by RenderChart.
const (
	ChartStatus = "status"
	ChartStage  = "stage"
	ChartMonths = "months"
)

var ChartNames = []string{ChartStatus, ChartStage, ChartMonths}

type Dashboard struct {
	KPIs           aggregate.StatusCounts `json:"kpis"`
	ByStatus       []models.Item          `json:"by_status"`
	ValueByStage   []models.Item          `json:"value_by_stage"`
	CreatedByMonth []models.Item          `json:"created_by_month"`
}

// Snapshot is the result of one refresh.
type Snapshot struct {
	TakenAt    time.Time         `json:"taken_at"`
	Leads      []models.Lead     `json:"leads"`
	Activities []models.Activity `json:"activities"`
	Rejected   int               `json:"rejected_rows"`
	Dashboard  Dashboard         `json:"dashboard"`
}

type Service struct {
	st     store.Store
	log    *zap.Logger
	window int
	now    func() time.Time

	// serializes read-max-then-append id assignment
	writeMu sync.Mutex

	mu   sync.RWMutex
	last *Snapshot
}

type Option func(*Service)

// WithMonthWindow sets how many trailing months the trend chart covers.
func WithMonthWindow(n int) Option { return func(s *Service) { s.window = n } }

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(st store.Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{st: st, log: log, window: aggregate.DefaultMonthWindow, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Refresh reads every table and recomputes the dashboard. On failure the
// previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	leadRows, err := s.read(ctx, records.Leads)
	if err != nil {
		return Snapshot{}, err
	}
	actRows, err := s.read(ctx, records.Activities)
	if err != nil {
		return Snapshot{}, err
	}

	leads, badLeads := records.DecodeLeads(leadRows)
	acts, badActs := records.DecodeActivities(actRows)
	s.warnRows(badLeads)
	s.warnRows(badActs)

	now := s.now()
	snap := Snapshot{
		TakenAt:    now.UTC(),
		Leads:      leads,
		Activities: acts,
		Rejected:   len(badLeads) + len(badActs),
		Dashboard:  s.dashboard(leads, now),
	}

	s.mu.Lock()
	s.last = &snap
	s.mu.Unlock()

	observability.RecordRefresh(snap.Dashboard.KPIs.PerStatus)
	return snap, nil
}

func (s *Service) dashboard(leads []models.Lead, now time.Time) Dashboard {
	return Dashboard{
		KPIs:     aggregate.CountByStatus(leads),
		ByStatus: aggregate.GroupCount(leads, func(l models.Lead) string { return l.Status }),
		ValueByStage: aggregate.GroupSum(leads,
			func(l models.Lead) string { return l.Stage },
			func(l models.Lead) string { return l.EstimatedValue }),
		CreatedByMonth: aggregate.MonthBuckets(leads,
			func(l models.Lead) string { return l.CreatedOn }, s.window, now),
	}
}

// Last returns the most recent successful snapshot.
func (s *Service) Last() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Snapshot{}, false
	}
	return *s.last, true
}

// RenderChart refreshes and draws one of the dashboard charts as SVG.
func (s *Service) RenderChart(ctx context.Context, name string, width, height float64) ([]byte, error) {
	if !slices.Contains(ChartNames, name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	snap, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return Draw(snap.Dashboard, name, width, height)
}

// Draw renders a chart from an already computed dashboard.
func Draw(d Dashboard, name string, width, height float64) ([]byte, error) {
	start := time.Now()
	surface := chart.NewSVG(width, height)
	switch name {
	case ChartStatus:
		keys := make([]string, len(d.ByStatus))
		for i, it := range d.ByStatus {
			keys[i] = it.Key
		}
		chart.Pie(surface, d.ByStatus, chart.AssignColors(keys, chart.Tableau10))
	case ChartStage:
		chart.Bar(surface, d.ValueByStage)
	case ChartMonths:
		chart.Line(surface, d.CreatedByMonth)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	observability.ObserveRender(name, time.Since(start))
	return surface.Bytes(), nil
}
