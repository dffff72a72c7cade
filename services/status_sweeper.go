package services

import (
	"time"

	"commitrack_go/config"
	"commitrack_go/services/payplan"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StatusSweeper runs the installment status sweep on a fixed schedule. The
// scheduler owns the clock: it hands the engine today's date at each trigger
// so the sweep decision stays a pure function of persisted state and date.
type StatusSweeper struct {
	cron   *cron.Cron
	engine *payplan.Service
}

// NewStatusSweeper creates a sweeper bound to the shared database handle.
func NewStatusSweeper() *StatusSweeper {
	return &StatusSweeper{
		cron:   cron.New(),
		engine: payplan.NewService(),
	}
}

// Start registers the sweep on the configured schedule and runs it once
// immediately so a restart never leaves overdue installments unflagged until
// the next tick.
func (ss *StatusSweeper) Start() {
	schedule := config.AppConfig.SweepSchedule
	if _, err := ss.cron.AddFunc(schedule, ss.RunOnce); err != nil {
		logrus.WithError(err).Errorf("Invalid sweep schedule %q, falling back to hourly", schedule)
		if _, err := ss.cron.AddFunc("@hourly", ss.RunOnce); err != nil {
			logrus.WithError(err).Error("Failed to register fallback sweep schedule")
			return
		}
	}
	ss.cron.Start()
	logrus.Infof("Status sweeper started (schedule=%s)", schedule)

	go ss.RunOnce()
}

// Stop halts the schedule; a sweep already in flight finishes.
func (ss *StatusSweeper) Stop() {
	ss.cron.Stop()
}

// RunOnce executes a single sweep for the current date.
func (ss *StatusSweeper) RunOnce() {
	today := payplan.DateOnly(time.Now())
	report, err := ss.engine.RunStatusSweep(today, config.AppConfig.DueSoonWindowDays)
	if err != nil {
		logrus.WithError(err).Error("Status sweep failed")
		return
	}

	logrus.WithFields(logrus.Fields{
		"scanned":          report.Scanned,
		"marked_overdue":   report.MarkedOverdue,
		"marked_due_soon":  report.MarkedDueSoon,
		"cleared_due_soon": report.ClearedDueSoon,
		"failed":           report.Failed,
	}).Info("Status sweep completed")
}
