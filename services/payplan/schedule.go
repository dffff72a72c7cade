package payplan

import (
	"time"

	"commitrack_go/models"

	"github.com/shopspring/decimal"
)

const (
	MinInstallments = 1
	MaxInstallments = 24
)

// ScheduleInput is the wizard input a plan and its installments are generated from.
type ScheduleInput struct {
	TotalCourseValue      decimal.Decimal
	CommissionRatePercent decimal.Decimal
	MaterialsCost         decimal.Decimal
	AdminFees             decimal.Decimal
	OtherFees             decimal.Decimal
	GSTInclusive          bool

	InitialPaymentAmount  decimal.Decimal
	InitialPaymentDueDate *time.Time
	InitialPaymentPaid    bool

	NumberOfInstallments int
	PaymentFrequency     string // monthly, quarterly, custom
	CustomDueDates       []time.Time
	FirstCollegeDueDate  time.Time
	StudentLeadTimeDays  int
}

func (in *ScheduleInput) validate() error {
	for _, m := range []struct {
		field string
		v     decimal.Decimal
	}{
		{"total_course_value", in.TotalCourseValue},
		{"materials_cost", in.MaterialsCost},
		{"admin_fees", in.AdminFees},
		{"other_fees", in.OtherFees},
		{"initial_payment_amount", in.InitialPaymentAmount},
	} {
		if m.v.IsNegative() {
			return newValidationError(m.field, "must not be negative")
		}
	}
	if in.CommissionRatePercent.IsNegative() || in.CommissionRatePercent.GreaterThan(oneHundred) {
		return newValidationError("commission_rate_percent", "must be between 0 and 100")
	}
	if in.NumberOfInstallments < MinInstallments || in.NumberOfInstallments > MaxInstallments {
		return newValidationError("number_of_installments", "must be between 1 and 24")
	}
	if in.StudentLeadTimeDays < 0 {
		return newValidationError("student_lead_time_days", "must not be negative")
	}

	totalFees := in.MaterialsCost.Add(in.AdminFees).Add(in.OtherFees)
	if totalFees.GreaterThanOrEqual(in.TotalCourseValue) {
		return newValidationError("fees", "total fees must be less than the total course value")
	}

	commissionable := CommissionableValue(in.TotalCourseValue, in.MaterialsCost, in.AdminFees, in.OtherFees)
	if in.InitialPaymentAmount.GreaterThan(commissionable) {
		return newValidationError("initial_payment_amount", "must not exceed the commissionable value")
	}
	if in.InitialPaymentAmount.IsPositive() && in.InitialPaymentDueDate == nil {
		return newValidationError("initial_payment_due_date", "required when an initial payment amount is set")
	}

	switch in.PaymentFrequency {
	case models.FrequencyMonthly, models.FrequencyQuarterly:
		if in.FirstCollegeDueDate.IsZero() {
			return newValidationError("first_college_due_date", "required")
		}
	case models.FrequencyCustom:
		if len(in.CustomDueDates) != in.NumberOfInstallments {
			return newValidationError("custom_due_dates", "must supply one college due date per installment")
		}
	default:
		return newValidationError("payment_frequency", "must be monthly, quarterly or custom")
	}

	return nil
}

// Commissionable returns the commissionable value of the input.
func (in *ScheduleInput) Commissionable() decimal.Decimal {
	return CommissionableValue(in.TotalCourseValue, in.MaterialsCost, in.AdminFees, in.OtherFees)
}

// collegeDueDate returns the college due date for regular installment i (1..N).
func (in *ScheduleInput) collegeDueDate(i int) time.Time {
	switch in.PaymentFrequency {
	case models.FrequencyQuarterly:
		return in.FirstCollegeDueDate.AddDate(0, 3*(i-1), 0)
	case models.FrequencyCustom:
		return in.CustomDueDates[i-1]
	default: // monthly
		return in.FirstCollegeDueDate.AddDate(0, i-1, 0)
	}
}

// GenerateInstallments turns a validated schedule input into the full set of
// installment rows for a new plan: an optional initial payment (#0) plus N
// regular installments whose amounts reconcile exactly to the commissionable
// value.
//
// The split works on integer cents: the remaining value is floor-divided
// across the installments and the residual cents land on the last one, so the
// sum never drifts from the commissionable value.
func GenerateInstallments(in ScheduleInput) ([]models.Installment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	commissionable := in.Commissionable().Round(2)
	initial := in.InitialPaymentAmount.Round(2)

	installments := make([]models.Installment, 0, in.NumberOfInstallments+1)

	if initial.IsPositive() {
		due := *in.InitialPaymentDueDate
		inst := models.Installment{
			InstallmentNumber: 0,
			Amount:            initial,
			// The initial payment has no separate college remittance date
			StudentDueDate:      due,
			CollegeDueDate:      due,
			IsInitialPayment:    true,
			GeneratesCommission: true,
			Status:              models.InstallmentStatusDraft,
		}
		if in.InitialPaymentPaid {
			paid := initial
			inst.Status = models.InstallmentStatusPaid
			inst.PaidAmount = &paid
			inst.PaidDate = &due
		}
		installments = append(installments, inst)
	}

	remaining := commissionable.Sub(initial)
	remainingCents := remaining.Shift(2).Round(0).IntPart()
	n := int64(in.NumberOfInstallments)
	baseCents := remainingCents / n
	residualCents := remainingCents - baseCents*n

	for i := 1; i <= in.NumberOfInstallments; i++ {
		cents := baseCents
		if i == in.NumberOfInstallments {
			cents += residualCents
		}
		collegeDue := in.collegeDueDate(i)
		installments = append(installments, models.Installment{
			InstallmentNumber:   i,
			Amount:              decimal.New(cents, -2),
			StudentDueDate:      collegeDue.AddDate(0, 0, -in.StudentLeadTimeDays),
			CollegeDueDate:      collegeDue,
			GeneratesCommission: true,
			Status:              models.InstallmentStatusDraft,
		})
	}

	// Reconciliation invariant: must hold by construction.
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	if sum.Sub(commissionable).Abs().GreaterThan(decimal.New(1, -2)) {
		return nil, ErrArithmeticInvariant
	}

	return installments, nil
}
