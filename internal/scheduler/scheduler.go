// Package scheduler runs background maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"brokerdesk/internal/domain"
	"brokerdesk/internal/metrics"
)

// repairTimeout bounds a single scheduled repair run.
const repairTimeout = 30 * time.Minute

// Repairer relocates misplaced client documents.
type Repairer interface {
	RepairAll(ctx context.Context, dryRun bool) (*domain.RepairReport, error)
}

// Scheduler runs the document repair job on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	repairer Repairer
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a Scheduler that runs repairs on spec, a standard five-field
// cron expression or a descriptor such as "@daily".
func New(repairer Repairer, spec string) (*Scheduler, error) {
	logger := cron.PrintfLogger(log.Default())
	c := cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, repairer: repairer, ctx: ctx, cancel: cancel}

	if _, err := c.AddFunc(spec, s.runRepair); err != nil {
		cancel()
		return nil, fmt.Errorf("scheduler.New: invalid repair schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("scheduler.Start: document repair scheduled, next run at %s", s.cron.Entries()[0].Next.Format(time.RFC3339))
}

// Stop cancels any running job and waits for it to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runRepair() {
	ctx, cancel := context.WithTimeout(s.ctx, repairTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.repairer.RepairAll(ctx, false)
	metrics.ObserveRepair(report, err)
	if err != nil {
		log.Printf("scheduler.runRepair: repair failed after %s: %v", time.Since(start), err)
		return
	}
	log.Printf("scheduler.runRepair: fixed %d of %d documents in %s, %d missing",
		report.FixedPaths, report.DocumentsChecked, time.Since(start), len(report.Missing))
}
