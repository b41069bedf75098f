package export

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/crm"
)

const jobTimeout = time.Minute

type Refresher interface {
	Refresh(ctx context.Context) (crm.Snapshot, error)
}

// Job refreshes the dashboard on a schedule and pushes it to the sink when
// one is configured.
type Job struct {
	r   Refresher
	e   *Exporter
	log *zap.Logger
}

func NewJob(r Refresher, e *Exporter, log *zap.Logger) *Job {
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{r: r, e: e, log: log}
}

func (j *Job) Run(ctx context.Context) error {
	snap, err := j.r.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh snapshot: %w", err)
	}
	j.log.Info("snapshot taken",
		zap.Int("leads", snap.Dashboard.KPIs.Total),
		zap.Int("activities", len(snap.Activities)),
		zap.Int("rejected_rows", snap.Rejected))
	if j.e == nil || !j.e.Enabled() {
		return nil
	}
	return j.e.Push(ctx, snap)
}

// Schedule registers the job on c under a standard five-field cron spec.
func (j *Job) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := j.Run(ctx); err != nil {
			j.log.Error("snapshot job failed", zap.Error(err))
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add snapshot job %q: %w", spec, err)
	}
	return id, nil
}
