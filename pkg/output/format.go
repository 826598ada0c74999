// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"fmt"

	"github.com/finsim/overpay-forecast/internal/simulation"
	"github.com/finsim/overpay-forecast/pkg/constants"
	"github.com/finsim/overpay-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(result *simulation.Result) {
	p := message.NewPrinter(language.English)

	fmt.Printf("--- Simulation summary ---\n")
	if result.PaidOff {
		fmt.Printf("Paid off in        : %s (%d months)\n", format.PayoffTime(result.PayoffMonths), result.PayoffMonths)
	} else {
		fmt.Printf("Not paid off within term: %s remains after %s\n",
			format.Currency(result.RemainingBalance), format.PayoffTime(result.PayoffMonths))
	}
	fmt.Printf("Total interest     : %s\n", format.Currency(result.TotalInterest))
	fmt.Printf("Total overpayments : %s\n", format.Currency(result.TotalOverpayments))
	fmt.Printf("Benchmark payment  : %s\n", format.Currency(result.BenchmarkPayment))
	if result.CapExceeded {
		fmt.Printf("Note: overpayments were limited by the %d%% annual cap in at least one month\n",
			int(constants.AnnualOverpaymentCapRate*100))
	}

	fmt.Printf("\nMonth | Interest    | Payment     | Balance\n")
	fmt.Printf("_____ | ___________ | ___________ | ____________\n")
	for _, record := range result.Months {
		_, _ = p.Printf("%5d | %11.2f | %11.2f | %12.2f\n",
			record.Month, record.Interest, record.Payment, record.Balance)
	}
}

// CsvFormat outputs in comma-separated value format. The first column is the
// elapsed time in years, matching the chart x-axis.
func CsvFormat(result *simulation.Result) {
	fmt.Printf("\"years\",\"interest\",\"payment\",\"overpayment\",\"balance\"\n")
	for _, record := range result.Months {
		fmt.Printf("\"%.4f\",\"%.2f\",\"%.2f\",\"%.2f\",\"%.2f\"\n",
			float64(record.Month)/constants.MonthsPerYear,
			record.Interest, record.Payment, record.Overpayment, record.Balance)
	}
}
