package payplan

import (
	"time"

	"commitrack_go/models"
)

// TimingDecision is the pure outcome of classifying one installment against
// the current date. MarkOverdue and DueSoon are orthogonal: overdue is a
// status transition, due-soon is a flag.
type TimingDecision struct {
	MarkOverdue bool
	DueSoon     bool
}

// SweepReport summarizes one status sweep run.
type SweepReport struct {
	Scanned        int      `json:"scanned"`
	MarkedOverdue  int      `json:"marked_overdue"`
	MarkedDueSoon  int      `json:"marked_due_soon"`
	ClearedDueSoon int      `json:"cleared_due_soon"`
	Failed         int      `json:"failed"`
	Errors         []string `json:"errors,omitempty"`
}

// DateOnly truncates t to midnight in its own location. Sweep decisions
// compare calendar dates, not instants.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysUntil(today, due time.Time) int {
	return int(DateOnly(due).Sub(DateOnly(today)).Hours() / 24)
}

// ClassifyInstallmentTiming decides, purely from the installment's persisted
// state and the supplied date, whether it becomes overdue and whether it is
// due soon. Draft, paid, partial and cancelled installments are never touched.
// Running the sweep twice on the same day yields no second transition: once an
// installment is overdue it no longer matches the pending check.
func ClassifyInstallmentTiming(inst models.Installment, today time.Time, dueSoonWindowDays int) TimingDecision {
	var d TimingDecision

	switch inst.Status {
	case models.InstallmentStatusPending, models.InstallmentStatusOverdue:
	default:
		return d
	}

	days := daysUntil(today, inst.StudentDueDate)

	if inst.Status == models.InstallmentStatusPending && days < 0 {
		d.MarkOverdue = true
	}
	if days >= 0 && days <= dueSoonWindowDays {
		d.DueSoon = true
	}

	return d
}
