package payplan

import (
	"testing"
	"time"

	"commitrack_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingInstallment(number int, amount string) models.Installment {
	return models.Installment{
		InstallmentNumber:   number,
		Amount:              d(amount),
		Status:              models.InstallmentStatusPending,
		GeneratesCommission: true,
	}
}

func paidInstallment(number int, amount string) models.Installment {
	inst := pendingInstallment(number, amount)
	paid := d(amount)
	when := date(2026, time.March, 1)
	inst.Status = models.InstallmentStatusPaid
	inst.PaidAmount = &paid
	inst.PaidDate = &when
	return inst
}

func TestApplyPayment(t *testing.T) {
	when := date(2026, time.March, 3)

	t.Run("full payment marks paid", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		inst.DueSoon = true

		err := ApplyPayment(&inst, when, d("1800.00"), "bank transfer")
		require.NoError(t, err)

		assert.Equal(t, models.InstallmentStatusPaid, inst.Status)
		require.NotNil(t, inst.PaidAmount)
		assertDecimalEqual(t, d("1800.00"), *inst.PaidAmount)
		assert.Equal(t, when, *inst.PaidDate)
		assert.Equal(t, "bank transfer", inst.PaymentNotes)
		assert.False(t, inst.DueSoon)
	})

	t.Run("partial payment marks partial", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")

		err := ApplyPayment(&inst, when, d("500.00"), "")
		require.NoError(t, err)

		assert.Equal(t, models.InstallmentStatusPartial, inst.Status)
		assertDecimalEqual(t, d("500.00"), *inst.PaidAmount)
	})

	t.Run("overdue installment accepts payment", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		inst.Status = models.InstallmentStatusOverdue

		err := ApplyPayment(&inst, when, d("1800.00"), "")
		require.NoError(t, err)
		assert.Equal(t, models.InstallmentStatusPaid, inst.Status)
	})

	t.Run("cancelled installment rejects payment", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		inst.Status = models.InstallmentStatusCancelled

		err := ApplyPayment(&inst, when, d("1800.00"), "")
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		err := ApplyPayment(&inst, when, decimal.Zero, "")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		err := ApplyPayment(&inst, when, d("-50"), "")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")
		err := ApplyPayment(&inst, when, d("1800.01"), "")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("recording again replaces the snapshot", func(t *testing.T) {
		inst := pendingInstallment(1, "1800.00")

		require.NoError(t, ApplyPayment(&inst, when, d("500.00"), "first"))
		assert.Equal(t, models.InstallmentStatusPartial, inst.Status)

		later := when.AddDate(0, 0, 5)
		require.NoError(t, ApplyPayment(&inst, later, d("1800.00"), "corrected"))

		assert.Equal(t, models.InstallmentStatusPaid, inst.Status)
		assertDecimalEqual(t, d("1800.00"), *inst.PaidAmount)
		assert.Equal(t, later, *inst.PaidDate)
		assert.Equal(t, "corrected", inst.PaymentNotes)
	})
}

func TestTotalPaid(t *testing.T) {
	stale := d("400")
	installments := []models.Installment{
		paidInstallment(0, "2000.00"),
		func() models.Installment {
			inst := pendingInstallment(1, "1800.00")
			when := date(2026, time.March, 3)
			inst.Status = models.InstallmentStatusPartial
			amount := d("500.00")
			inst.PaidAmount = &amount
			inst.PaidDate = &when
			return inst
		}(),
		pendingInstallment(2, "1800.00"),
		// cancelled with a stale snapshot contributes nothing
		{
			InstallmentNumber: 3,
			Amount:            d("1800.00"),
			Status:            models.InstallmentStatusCancelled,
			PaidAmount:        &stale,
		},
	}

	assertDecimalEqual(t, d("2500.00"), TotalPaid(installments))
}

func TestRecalculate(t *testing.T) {
	newPlan := func() *models.PaymentPlan {
		return &models.PaymentPlan{
			TotalAmount:        d("10000"),
			ExpectedCommission: d("1500.00"),
			Status:             models.PlanStatusActive,
		}
	}

	t.Run("all paid completes the plan", func(t *testing.T) {
		plan := newPlan()
		installments := []models.Installment{
			paidInstallment(0, "2000.00"),
			paidInstallment(1, "1800.00"),
			paidInstallment(2, "1800.00"),
			paidInstallment(3, "1800.00"),
			paidInstallment(4, "1800.00"),
		}

		agg := Recalculate(plan, installments)

		assert.Equal(t, models.PlanStatusCompleted, agg.Status)
		assertDecimalEqual(t, d("9200.00"), agg.TotalPaid)
		// 9200/10000 of the expected 1500
		assertDecimalEqual(t, d("1380.00"), agg.EarnedCommission)
	})

	t.Run("partial does not complete", func(t *testing.T) {
		plan := newPlan()
		inst := pendingInstallment(1, "1800.00")
		when := date(2026, time.March, 3)
		amount := d("900.00")
		inst.Status = models.InstallmentStatusPartial
		inst.PaidAmount = &amount
		inst.PaidDate = &when

		agg := Recalculate(plan, []models.Installment{paidInstallment(0, "2000.00"), inst})

		assert.Equal(t, models.PlanStatusActive, agg.Status)
		assertDecimalEqual(t, d("2900.00"), agg.TotalPaid)
	})

	t.Run("earned grows with each payment", func(t *testing.T) {
		plan := newPlan()
		first := Recalculate(plan, []models.Installment{
			paidInstallment(0, "2000.00"),
			pendingInstallment(1, "1800.00"),
		})
		second := Recalculate(plan, []models.Installment{
			paidInstallment(0, "2000.00"),
			paidInstallment(1, "1800.00"),
		})

		assert.True(t, second.EarnedCommission.GreaterThan(first.EarnedCommission),
			"earned commission should be monotonic: %s then %s", first.EarnedCommission, second.EarnedCommission)
	})

	t.Run("completed plan never reverts", func(t *testing.T) {
		plan := newPlan()
		plan.Status = models.PlanStatusCompleted

		inst := pendingInstallment(1, "1800.00")
		agg := Recalculate(plan, []models.Installment{inst})

		assert.Equal(t, models.PlanStatusCompleted, agg.Status)
	})

	t.Run("cancelled plan stays cancelled", func(t *testing.T) {
		plan := newPlan()
		plan.Status = models.PlanStatusCancelled

		agg := Recalculate(plan, []models.Installment{paidInstallment(1, "1800.00")})
		assert.Equal(t, models.PlanStatusCancelled, agg.Status)
	})

	t.Run("no installments never completes", func(t *testing.T) {
		plan := newPlan()
		agg := Recalculate(plan, nil)
		assert.Equal(t, models.PlanStatusActive, agg.Status)
	})
}
