package payplan

import (
	"fmt"
	"testing"
	"time"

	"commitrack_go/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func baseScheduleInput() ScheduleInput {
	return ScheduleInput{
		TotalCourseValue:      d("10000"),
		CommissionRatePercent: d("15"),
		MaterialsCost:         d("500"),
		AdminFees:             d("200"),
		OtherFees:             d("100"),
		GSTInclusive:          true,
		NumberOfInstallments:  4,
		PaymentFrequency:      models.FrequencyMonthly,
		FirstCollegeDueDate:   date(2026, time.March, 1),
		StudentLeadTimeDays:   7,
	}
}

func sumAmounts(installments []models.Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range installments {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

func TestGenerateInstallmentsEvenSplitWithInitialPayment(t *testing.T) {
	in := baseScheduleInput()
	due := date(2026, time.February, 1)
	in.InitialPaymentAmount = d("2000")
	in.InitialPaymentDueDate = &due
	in.InitialPaymentPaid = true

	installments, err := GenerateInstallments(in)
	require.NoError(t, err)
	require.Len(t, installments, 5)

	initial := installments[0]
	assert.Equal(t, 0, initial.InstallmentNumber)
	assert.True(t, initial.IsInitialPayment)
	assert.Equal(t, models.InstallmentStatusPaid, initial.Status)
	require.NotNil(t, initial.PaidAmount)
	assertDecimalEqual(t, d("2000"), *initial.PaidAmount)
	assert.Equal(t, due, initial.StudentDueDate)
	assert.Equal(t, due, initial.CollegeDueDate)

	// commissionable 9200 minus initial 2000 splits evenly into 4 x 1800
	for i := 1; i <= 4; i++ {
		inst := installments[i]
		assert.Equal(t, i, inst.InstallmentNumber)
		assertDecimalEqual(t, d("1800.00"), inst.Amount)
		assert.Equal(t, models.InstallmentStatusDraft, inst.Status)
		assert.True(t, inst.GeneratesCommission)
	}

	assertDecimalEqual(t, d("9200"), sumAmounts(installments))
}

func TestGenerateInstallmentsResidualOnLast(t *testing.T) {
	in := baseScheduleInput()
	in.TotalCourseValue = d("1000.01")
	in.MaterialsCost = decimal.Zero
	in.AdminFees = decimal.Zero
	in.OtherFees = decimal.Zero
	in.NumberOfInstallments = 3

	installments, err := GenerateInstallments(in)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assertDecimalEqual(t, d("333.33"), installments[0].Amount)
	assertDecimalEqual(t, d("333.33"), installments[1].Amount)
	assertDecimalEqual(t, d("333.35"), installments[2].Amount)
	assertDecimalEqual(t, d("1000.01"), sumAmounts(installments))
}

func TestGenerateInstallmentsSingleInstallment(t *testing.T) {
	in := baseScheduleInput()
	in.NumberOfInstallments = 1

	installments, err := GenerateInstallments(in)
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assertDecimalEqual(t, d("9200"), installments[0].Amount)
}

func TestGenerateInstallmentsInitialCoversEverything(t *testing.T) {
	in := baseScheduleInput()
	due := date(2026, time.February, 1)
	in.InitialPaymentAmount = d("9200")
	in.InitialPaymentDueDate = &due
	in.NumberOfInstallments = 2

	installments, err := GenerateInstallments(in)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	assertDecimalEqual(t, d("0.00"), installments[1].Amount)
	assertDecimalEqual(t, d("0.00"), installments[2].Amount)
	assertDecimalEqual(t, d("9200"), sumAmounts(installments))
}

func TestGenerateInstallmentsReconciliation(t *testing.T) {
	totals := []string{"10000", "9999.97", "1000.01", "7351.19", "123.45"}
	initials := []string{"0", "250.13", "100.01"}
	due := date(2026, time.February, 1)

	for _, total := range totals {
		for _, initial := range initials {
			if d(initial).GreaterThan(d(total)) {
				continue
			}
			for n := MinInstallments; n <= MaxInstallments; n++ {
				name := fmt.Sprintf("total=%s initial=%s n=%d", total, initial, n)
				t.Run(name, func(t *testing.T) {
					in := baseScheduleInput()
					in.TotalCourseValue = d(total)
					in.MaterialsCost = decimal.Zero
					in.AdminFees = decimal.Zero
					in.OtherFees = decimal.Zero
					in.NumberOfInstallments = n
					in.InitialPaymentAmount = d(initial)
					if d(initial).IsPositive() {
						in.InitialPaymentDueDate = &due
					}

					installments, err := GenerateInstallments(in)
					require.NoError(t, err)
					assertDecimalEqual(t, d(total), sumAmounts(installments))
				})
			}
		}
	}
}

func TestGenerateInstallmentsDueDates(t *testing.T) {
	t.Run("monthly", func(t *testing.T) {
		in := baseScheduleInput()
		installments, err := GenerateInstallments(in)
		require.NoError(t, err)

		assert.Equal(t, date(2026, time.March, 1), installments[0].CollegeDueDate)
		assert.Equal(t, date(2026, time.April, 1), installments[1].CollegeDueDate)
		assert.Equal(t, date(2026, time.June, 1), installments[3].CollegeDueDate)
		// student pays lead-time days before the college is due
		assert.Equal(t, date(2026, time.February, 22), installments[0].StudentDueDate)
	})

	t.Run("quarterly", func(t *testing.T) {
		in := baseScheduleInput()
		in.PaymentFrequency = models.FrequencyQuarterly
		installments, err := GenerateInstallments(in)
		require.NoError(t, err)

		assert.Equal(t, date(2026, time.March, 1), installments[0].CollegeDueDate)
		assert.Equal(t, date(2026, time.June, 1), installments[1].CollegeDueDate)
		assert.Equal(t, date(2026, time.December, 1), installments[3].CollegeDueDate)
	})

	t.Run("custom", func(t *testing.T) {
		in := baseScheduleInput()
		in.PaymentFrequency = models.FrequencyCustom
		in.CustomDueDates = []time.Time{
			date(2026, time.March, 15),
			date(2026, time.May, 1),
			date(2026, time.August, 20),
			date(2026, time.November, 5),
		}
		installments, err := GenerateInstallments(in)
		require.NoError(t, err)

		for i, want := range in.CustomDueDates {
			assert.Equal(t, want, installments[i].CollegeDueDate)
			assert.Equal(t, want.AddDate(0, 0, -7), installments[i].StudentDueDate)
		}
	})
}

func TestGenerateInstallmentsValidation(t *testing.T) {
	due := date(2026, time.February, 1)

	tests := []struct {
		name   string
		mutate func(in *ScheduleInput)
	}{
		{"negative total", func(in *ScheduleInput) { in.TotalCourseValue = d("-1") }},
		{"negative materials", func(in *ScheduleInput) { in.MaterialsCost = d("-1") }},
		{"rate above 100", func(in *ScheduleInput) { in.CommissionRatePercent = d("101") }},
		{"negative rate", func(in *ScheduleInput) { in.CommissionRatePercent = d("-5") }},
		{"zero installments", func(in *ScheduleInput) { in.NumberOfInstallments = 0 }},
		{"too many installments", func(in *ScheduleInput) { in.NumberOfInstallments = 25 }},
		{"negative lead days", func(in *ScheduleInput) { in.StudentLeadTimeDays = -1 }},
		{"fees swallow total", func(in *ScheduleInput) {
			in.MaterialsCost = d("9000")
			in.AdminFees = d("1000")
		}},
		{"initial exceeds commissionable", func(in *ScheduleInput) {
			in.InitialPaymentAmount = d("9500")
			in.InitialPaymentDueDate = &due
		}},
		{"initial without due date", func(in *ScheduleInput) { in.InitialPaymentAmount = d("100") }},
		{"custom date count mismatch", func(in *ScheduleInput) {
			in.PaymentFrequency = models.FrequencyCustom
			in.CustomDueDates = []time.Time{due}
		}},
		{"missing first due date", func(in *ScheduleInput) { in.FirstCollegeDueDate = time.Time{} }},
		{"unknown frequency", func(in *ScheduleInput) { in.PaymentFrequency = "weekly" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := baseScheduleInput()
			tc.mutate(&in)

			_, err := GenerateInstallments(in)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestGenerateInstallmentsUnpaidInitialStaysDraft(t *testing.T) {
	in := baseScheduleInput()
	due := date(2026, time.February, 1)
	in.InitialPaymentAmount = d("2000")
	in.InitialPaymentDueDate = &due
	in.InitialPaymentPaid = false

	installments, err := GenerateInstallments(in)
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusDraft, installments[0].Status)
	assert.Nil(t, installments[0].PaidAmount)
}
