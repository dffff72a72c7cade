package payplan

import (
	"time"

	"commitrack_go/models"

	"github.com/shopspring/decimal"
)

// PlanAggregates is the plan-level result of recording a payment.
type PlanAggregates struct {
	TotalPaid        decimal.Decimal `json:"total_paid"`
	EarnedCommission decimal.Decimal `json:"earned_commission"`
	Status           string          `json:"status"`
}

// ApplyPayment records a payment snapshot on an installment and derives its
// new status. Each installment keeps a single paid_amount/paid_date pair, so
// recording again replaces the previous snapshot rather than accumulating.
//
// Cancelled installments are terminal and reject payments.
func ApplyPayment(inst *models.Installment, paidDate time.Time, paidAmount decimal.Decimal, notes string) error {
	if inst.Status == models.InstallmentStatusCancelled {
		return newConflictError("installment is cancelled")
	}
	if !paidAmount.IsPositive() {
		return newValidationError("paid_amount", "must be greater than zero")
	}
	if paidAmount.GreaterThan(inst.Amount) {
		return newValidationError("paid_amount", "must not exceed the installment amount")
	}

	amount := paidAmount.Round(2)
	inst.PaidAmount = &amount
	inst.PaidDate = &paidDate
	inst.PaymentNotes = notes

	if amount.GreaterThanOrEqual(inst.Amount) {
		inst.Status = models.InstallmentStatusPaid
	} else {
		inst.Status = models.InstallmentStatusPartial
	}
	// A paid or partial installment is no longer approaching its due date
	inst.DueSoon = false

	return nil
}

// TotalPaid sums paid_amount across installments whose status is paid or
// partial. Any stale paid_amount on other statuses contributes nothing.
func TotalPaid(installments []models.Installment) decimal.Decimal {
	total := decimal.Zero
	for _, inst := range installments {
		if inst.PaidAmount == nil {
			continue
		}
		if inst.Status == models.InstallmentStatusPaid || inst.Status == models.InstallmentStatusPartial {
			total = total.Add(*inst.PaidAmount)
		}
	}
	return total
}

// Recalculate derives the plan aggregates from the full set of its
// installments. The plan completes once every installment is paid; recording
// a payment never moves a plan out of completed.
func Recalculate(plan *models.PaymentPlan, installments []models.Installment) PlanAggregates {
	totalPaid := TotalPaid(installments)
	earned := EarnedCommission(totalPaid, plan.TotalAmount, plan.ExpectedCommission)

	status := plan.Status
	if status != models.PlanStatusCompleted && status != models.PlanStatusCancelled {
		allPaid := len(installments) > 0
		for _, inst := range installments {
			if inst.Status != models.InstallmentStatusPaid {
				allPaid = false
				break
			}
		}
		if allPaid {
			status = models.PlanStatusCompleted
		}
	}

	return PlanAggregates{
		TotalPaid:        totalPaid,
		EarnedCommission: earned,
		Status:           status,
	}
}
