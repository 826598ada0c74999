// Package simulation implements the amortization engine: a month-by-month
// loop over a fixed-term loan with a fixed target payment and a capped
// annual overpayment budget.
package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/finsim/overpay-forecast/pkg/annuity"
	"github.com/finsim/overpay-forecast/pkg/constants"
	"github.com/finsim/overpay-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Input holds the parameters for one simulation run.
type Input struct {
	// Principal is the initial loan balance.
	Principal float64
	// TermMonths is the contractual maximum loan duration.
	TermMonths int
	// MonthlyPayment is the borrower's target fixed monthly payment
	// (minimum payment plus intended overpayment).
	MonthlyPayment float64
	// RateSchedule holds one annual rate per fixed-rate block; the last
	// entry extends to cover any remaining months.
	RateSchedule annuity.RateSchedule
}

// MonthRecord holds the values for one simulated month.
type MonthRecord struct {
	Month       int // 1-based
	Interest    float64
	Payment     float64
	Overpayment float64
	Balance     float64 // floored at 0
}

// Result holds everything produced by a completed simulation run.
type Result struct {
	// PayoffMonths is the number of months simulated. When PaidOff is
	// false it equals TermMonths and the loan still carries a balance.
	PayoffMonths int
	PaidOff      bool
	// RemainingBalance is the balance left when the term ran out; 0 when
	// PaidOff is true.
	RemainingBalance  float64
	TotalInterest     float64
	TotalOverpayments float64
	// BenchmarkPayment is the minimum payment computed at month 0 from the
	// initial principal, the first scheduled rate, and the full term. It is
	// reported for comparison and never drives the loop.
	BenchmarkPayment float64
	Months           []MonthRecord
	// CapExceeded reports whether any month's intended overpayment was
	// truncated by the annual cap.
	CapExceeded bool
}

// Validation errors for Input preconditions.
var (
	ErrNonPositivePrincipal = errors.New("principal must be positive")
	ErrNonPositiveTerm      = errors.New("term must be a positive number of months")
	ErrNonPositivePayment   = errors.New("monthly payment must be positive")
	ErrEmptyRateSchedule    = errors.New("rate schedule must have at least one entry")
	ErrInvalidRate          = errors.New("rates must be finite and non-negative")
)

// InfeasibleError reports a month whose total payment could not cover the
// interest accrued in that month, so the balance would never converge.
type InfeasibleError struct {
	Month    int // 1-based
	Payment  float64
	Interest float64
	// BenchmarkPayment gives the caller context even though the run aborted.
	BenchmarkPayment float64
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("payment %.2f does not cover interest %.2f at month %d (shortfall %.2f)",
		e.Payment, e.Interest, e.Month, e.Shortfall())
}

// Shortfall returns the amount by which the payment missed the interest due.
func (e *InfeasibleError) Shortfall() float64 {
	return e.Interest - e.Payment
}

// Validate checks the Input preconditions. It reports the first violated
// precondition; no simulation work happens on invalid input.
func (in Input) Validate() error {
	if !(in.Principal > 0) || isNonFinite(in.Principal) {
		return ErrNonPositivePrincipal
	}
	if in.TermMonths <= 0 {
		return ErrNonPositiveTerm
	}
	if !(in.MonthlyPayment > 0) || isNonFinite(in.MonthlyPayment) {
		return ErrNonPositivePayment
	}
	if len(in.RateSchedule) == 0 {
		return ErrEmptyRateSchedule
	}
	for i, rate := range in.RateSchedule {
		if rate < 0 || isNonFinite(rate) {
			return fmt.Errorf("rate schedule entry %d (%v): %w", i, rate, ErrInvalidRate)
		}
	}
	return nil
}

func isNonFinite(val float64) bool {
	return math.IsNaN(val) || math.IsInf(val, 0)
}

// Run simulates the loan month by month until payoff or term exhaustion.
// It returns an error for invalid input or for an infeasible payment; a
// returned Result is always complete.
func Run(logger *zap.Logger, in Input) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	benchmark := annuity.Payment(in.Principal, in.RateSchedule.MonthlyRate(0), in.TermMonths)

	result := &Result{
		BenchmarkPayment: benchmark,
		Months:           make([]MonthRecord, 0, in.TermMonths),
	}

	balance := in.Principal
	annualCap := 0.0
	overpaidThisCycle := 0.0

	monthIndex := 0
	for monthIndex < in.TermMonths && mathutil.Round(balance) > 0 {
		// A new overpayment budget cycle starts every CapCycleMonths, fixed
		// from the balance as it stands at the cycle boundary.
		if monthIndex%constants.CapCycleMonths == 0 {
			annualCap = balance * constants.AnnualOverpaymentCapRate
			overpaidThisCycle = 0
		}

		monthlyRate := in.RateSchedule.MonthlyRate(monthIndex)
		interest := annuity.Interest(balance, monthlyRate)
		minimumPayment := annuity.Payment(balance, monthlyRate, in.TermMonths-monthIndex)

		// Negative when the target payment sits below the recomputed
		// minimum; the borrower then pays only the target, which is what
		// makes the feasibility check below reachable.
		intendedOverpayment := in.MonthlyPayment - minimumPayment
		allowedOverpayment := mathutil.Max(0, annualCap-overpaidThisCycle)
		overpayment := mathutil.Min(intendedOverpayment, allowedOverpayment)
		if intendedOverpayment > overpayment {
			if !result.CapExceeded {
				logger.Debug(fmt.Sprintf("month %d: overpayment %.2f truncated to %.2f by annual cap %.2f",
					monthIndex+1, intendedOverpayment, overpayment, annualCap),
					zap.String("op", "simulation.Run"),
				)
			}
			result.CapExceeded = true
		}

		payment := minimumPayment + overpayment

		if payment < interest && balance > 0 {
			logger.Debug(fmt.Sprintf("month %d: payment %.2f cannot cover interest %.2f, aborting",
				monthIndex+1, payment, interest),
				zap.String("op", "simulation.Run"),
			)
			return nil, &InfeasibleError{
				Month:            monthIndex + 1,
				Payment:          payment,
				Interest:         interest,
				BenchmarkPayment: benchmark,
			}
		}

		balance -= payment - interest
		appliedOverpayment := mathutil.Max(0, overpayment)
		result.TotalInterest += interest
		result.TotalOverpayments += appliedOverpayment
		overpaidThisCycle += appliedOverpayment
		monthIndex++

		result.Months = append(result.Months, MonthRecord{
			Month:       monthIndex,
			Interest:    interest,
			Payment:     payment,
			Overpayment: appliedOverpayment,
			Balance:     mathutil.Max(0, balance),
		})
	}

	result.PayoffMonths = monthIndex
	result.PaidOff = mathutil.Round(balance) <= 0
	if !result.PaidOff {
		result.RemainingBalance = balance
		logger.Debug(fmt.Sprintf("term exhausted after %d months with %.2f outstanding",
			monthIndex, balance),
			zap.String("op", "simulation.Run"),
		)
	}

	return result, nil
}
