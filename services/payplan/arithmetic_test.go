package payplan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalEqual(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	assert.True(t, want.Equal(got), "want %s, got %s", want, got)
}

func TestCommissionableValue(t *testing.T) {
	tests := []struct {
		name                          string
		total, materials, admin, other string
		want                          string
	}{
		{"no fees", "10000", "0", "0", "0", "10000"},
		{"typical fees", "10000", "500", "200", "100", "9200"},
		{"fees exceed total clamps to zero", "1000", "500", "300", "300", "0"},
		{"fees equal total", "1000", "600", "400", "0", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CommissionableValue(d(tc.total), d(tc.materials), d(tc.admin), d(tc.other))
			assertDecimalEqual(t, d(tc.want), got)
		})
	}
}

func TestExpectedCommission(t *testing.T) {
	tests := []struct {
		name           string
		commissionable string
		rate           string
		gstInclusive   bool
		want           string
	}{
		{"inclusive 15 percent", "10000", "15", true, "1500.00"},
		{"exclusive backs out gst", "9200", "15", false, "1254.55"},
		{"zero rate", "9200", "0", true, "0.00"},
		{"full rate", "1000", "100", true, "1000.00"},
		{"rounds to cents", "9999.99", "12.5", true, "1250.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExpectedCommission(d(tc.commissionable), d(tc.rate), tc.gstInclusive)
			assertDecimalEqual(t, d(tc.want), got)
		})
	}
}

func TestExpectedCommissionGSTPathsDifferByDivisor(t *testing.T) {
	value := d("9200")
	rate := d("15")

	inclusive := value.Mul(rate.Div(d("100")))
	exclusive := value.Div(d("1.10")).Mul(rate.Div(d("100")))

	assertDecimalEqual(t, inclusive.Round(2), ExpectedCommission(value, rate, true))
	assertDecimalEqual(t, exclusive.Round(2), ExpectedCommission(value, rate, false))
	assertDecimalEqual(t, inclusive.Round(2), exclusive.Mul(d("1.10")).Round(2))
}

func TestExpectedCommissionDeterministic(t *testing.T) {
	first := ExpectedCommission(d("9200"), d("15"), false)
	for i := 0; i < 100; i++ {
		again := ExpectedCommission(d("9200"), d("15"), false)
		assertDecimalEqual(t, first, again)
	}
}

func TestEarnedCommission(t *testing.T) {
	tests := []struct {
		name      string
		totalPaid string
		planTotal string
		expected  string
		want      string
	}{
		{"nothing paid", "0", "10000", "1500", "0.00"},
		{"half paid earns half", "5000", "10000", "1500", "750.00"},
		{"fully paid earns all", "10000", "10000", "1500", "1500.00"},
		{"zero plan total earns nothing", "500", "0", "1500", "0"},
		{"uneven fraction rounds", "3333.33", "10000", "1500", "500.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EarnedCommission(d(tc.totalPaid), d(tc.planTotal), d(tc.expected))
			assertDecimalEqual(t, d(tc.want), got)
		})
	}
}
