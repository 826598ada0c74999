package format

import (
	"fmt"

	"github.com/finsim/overpay-forecast/pkg/constants"
)

// PayoffTime renders a month count as a years-and-months string
// (e.g., "24 years 7 months").
func PayoffTime(months int) string {
	if months < 0 {
		months = 0
	}
	years := months / constants.MonthsPerYear
	remainder := months % constants.MonthsPerYear

	switch {
	case years == 0:
		return fmt.Sprintf("%d %s", remainder, plural("month", remainder))
	case remainder == 0:
		return fmt.Sprintf("%d %s", years, plural("year", years))
	default:
		return fmt.Sprintf("%d %s %d %s", years, plural("year", years), remainder, plural("month", remainder))
	}
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
