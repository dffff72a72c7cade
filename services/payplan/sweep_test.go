package payplan

import (
	"testing"
	"time"

	"commitrack_go/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyInstallmentTiming(t *testing.T) {
	today := date(2026, time.March, 10)
	const window = 7

	timed := func(status string, due time.Time) models.Installment {
		return models.Installment{
			Status:         status,
			StudentDueDate: due,
		}
	}

	tests := []struct {
		name string
		inst models.Installment
		want TimingDecision
	}{
		{
			"pending past due becomes overdue",
			timed(models.InstallmentStatusPending, date(2026, time.March, 9)),
			TimingDecision{MarkOverdue: true},
		},
		{
			"pending due today is due soon, not overdue",
			timed(models.InstallmentStatusPending, today),
			TimingDecision{DueSoon: true},
		},
		{
			"pending at window edge is due soon",
			timed(models.InstallmentStatusPending, date(2026, time.March, 17)),
			TimingDecision{DueSoon: true},
		},
		{
			"pending just past window is untouched",
			timed(models.InstallmentStatusPending, date(2026, time.March, 18)),
			TimingDecision{},
		},
		{
			"already overdue is not re-marked",
			timed(models.InstallmentStatusOverdue, date(2026, time.March, 1)),
			TimingDecision{},
		},
		{
			"draft is never classified",
			timed(models.InstallmentStatusDraft, date(2026, time.March, 1)),
			TimingDecision{},
		},
		{
			"paid is never classified",
			timed(models.InstallmentStatusPaid, date(2026, time.March, 1)),
			TimingDecision{},
		},
		{
			"partial is never classified",
			timed(models.InstallmentStatusPartial, date(2026, time.March, 1)),
			TimingDecision{},
		},
		{
			"cancelled is never classified",
			timed(models.InstallmentStatusCancelled, date(2026, time.March, 1)),
			TimingDecision{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyInstallmentTiming(tc.inst, today, window)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyInstallmentTimingIdempotent(t *testing.T) {
	today := date(2026, time.March, 10)

	inst := models.Installment{
		Status:         models.InstallmentStatusPending,
		StudentDueDate: date(2026, time.March, 8),
	}

	first := ClassifyInstallmentTiming(inst, today, 7)
	assert.True(t, first.MarkOverdue)

	// apply the transition the sweep would persist
	inst.Status = models.InstallmentStatusOverdue

	second := ClassifyInstallmentTiming(inst, today, 7)
	assert.False(t, second.MarkOverdue, "second sweep on the same day must not re-mark")
}

func TestClassifyInstallmentTimingIgnoresTimeOfDay(t *testing.T) {
	lateToday := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	inst := models.Installment{
		Status:         models.InstallmentStatusPending,
		StudentDueDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	}

	got := ClassifyInstallmentTiming(inst, lateToday, 7)
	assert.False(t, got.MarkOverdue, "same calendar day is not overdue")
	assert.True(t, got.DueSoon)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, time.March, 10, 17, 45, 12, 999, time.UTC)
	got := DateOnly(in)
	assert.Equal(t, date(2026, time.March, 10), got)
}
