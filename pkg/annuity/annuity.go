// Package annuity provides the amortization payment formula and rate
// schedule lookups shared by the simulation engine.
package annuity

import (
	"math"

	"github.com/finsim/overpay-forecast/pkg/constants"
)

// Payment calculates the fixed monthly payment that fully amortizes principal
// over the given number of months at the given monthly interest rate, using
// the standard annuity formula.
func Payment(principal, monthlyRate float64, months int) float64 {
	if principal <= 0 {
		return 0
	}
	if months <= 0 {
		// Degenerate term; the whole balance is due now.
		return principal
	}
	if monthlyRate <= 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(months)
	}

	factor := math.Pow(1.00+monthlyRate, float64(months))
	if math.IsInf(factor, 0) || math.IsNaN(factor) {
		// Overflow for extreme rate/term combinations; fall back to the
		// whole balance rather than propagating a non-finite payment.
		return principal
	}
	return principal * monthlyRate * factor / (factor - 1.00)
}

// Interest calculates the interest accrued on a balance over one month.
func Interest(balance, monthlyRate float64) float64 {
	return balance * monthlyRate
}

// RateSchedule is an ordered sequence of annual interest rates (fractional,
// e.g. 0.045), one per successive fixed-rate block of RateBlockMonths months.
// The last entry extends indefinitely past the schedule's explicit coverage.
type RateSchedule []float64

// AnnualRate returns the annual rate applicable to the given 0-based month.
func (s RateSchedule) AnnualRate(monthIndex int) float64 {
	block := monthIndex / constants.RateBlockMonths
	if block >= len(s) {
		block = len(s) - 1
	}
	return s[block]
}

// MonthlyRate returns the monthly rate applicable to the given 0-based month.
func (s RateSchedule) MonthlyRate(monthIndex int) float64 {
	return s.AnnualRate(monthIndex) / constants.MonthsPerYear
}
