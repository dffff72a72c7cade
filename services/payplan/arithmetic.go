package payplan

import "github.com/shopspring/decimal"

// gstDivisor backs a fixed 10% GST out of GST-exclusive commission bases.
// A policy constant, not configurable per plan.
var gstDivisor = decimal.NewFromFloat(1.10)

var oneHundred = decimal.NewFromInt(100)

// CommissionableValue returns the part of the course price that commission is
// calculated on: the total minus all non-commissionable fees. Fees exceeding
// the total is a legitimate edge case and clamps to zero, never negative.
func CommissionableValue(total, materials, admin, other decimal.Decimal) decimal.Decimal {
	v := total.Sub(materials).Sub(admin).Sub(other)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// ExpectedCommission computes the commission a plan should yield in full.
// ratePercent is a percentage in [0,100]. When the commissionable value is
// GST-exclusive, GST is backed out before the rate is applied. The result is
// rounded to cents; intermediate math keeps full precision.
func ExpectedCommission(commissionable, ratePercent decimal.Decimal, gstInclusive bool) decimal.Decimal {
	base := commissionable
	if !gstInclusive {
		base = base.Div(gstDivisor)
	}
	return base.Mul(ratePercent.Div(oneHundred)).Round(2)
}

// EarnedCommission returns commission earned so far, proportional to the
// fraction of the plan's total amount collected. The proportion deliberately
// uses the plan total, not the commissionable value. A zero plan total earns
// nothing.
func EarnedCommission(totalPaid, planTotal, expectedCommission decimal.Decimal) decimal.Decimal {
	if planTotal.IsZero() {
		return decimal.Zero
	}
	return totalPaid.Div(planTotal).Mul(expectedCommission).Round(2)
}
