// Package scheduler wires the pipeline services onto cron cadences.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"cryptofolio/internal/logger"
	"cryptofolio/internal/models"
	"cryptofolio/internal/services"
)

// Scheduler runs the refresh/alert/report pipeline on fixed cron cadences and
// exposes a synchronous manual trigger. A run mutex serializes the manual
// trigger against scheduled runs so two pipeline bodies never interleave.
type Scheduler struct {
	cron    *cron.Cron
	updates services.AssetUpdateServicer
	alerts  services.AlertServicer
	reports services.ReportServicer

	runMu sync.Mutex
}

// New creates a Scheduler over the three pipeline services. Jobs are
// registered but not started.
func New(updates services.AssetUpdateServicer, alerts services.AlertServicer, reports services.ReportServicer) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		updates: updates,
		alerts:  alerts,
		reports: reports,
	}

	jobs := []struct {
		spec string
		run  func()
	}{
		{"0 */4 * * *", func() { s.runPipeline(context.Background()) }},
		{"0 9 * * 1", func() { s.runReport(context.Background(), models.PeriodWeekly) }},
		{"0 9 1 * *", func() { s.runReport(context.Background(), models.PeriodMonthly) }},
		{"0 9 1 */3 *", func() { s.runReport(context.Background(), models.PeriodQuarterly) }},
		{"0 9 1 1 *", func() { s.runReport(context.Background(), models.PeriodYearly) }},
	}
	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Start begins running the scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Infow("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("Scheduler stopped")
}

// RunNow executes the full 4-hour pipeline body synchronously: refresh, then
// alerts, then daily reports. Used by the manual trigger endpoints.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.runPipeline(ctx)
}

func (s *Scheduler) runPipeline(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	logger.Get().Info("Running asset updates and notifications")

	if err := s.updates.UpdateAssetsForUsers(ctx); err != nil {
		logger.Get().Errorw("Asset update pass failed", "error", err)
		return err
	}
	if err := s.alerts.CheckAlerts(ctx); err != nil {
		logger.Get().Errorw("Alert pass failed", "error", err)
		return err
	}
	if err := s.reports.GenerateReports(ctx, models.PeriodDaily); err != nil {
		logger.Get().Errorw("Daily report pass failed", "error", err)
		return err
	}

	logger.Get().Info("Pipeline run completed")
	return nil
}

func (s *Scheduler) runReport(ctx context.Context, period models.Period) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	logger.Get().Infow("Running scheduled reports", "period", period)
	if err := s.reports.GenerateReports(ctx, period); err != nil {
		logger.Get().Errorw("Report run failed", "period", period, "error", err)
		return
	}
	logger.Get().Infow("Report run completed", "period", period)
}
