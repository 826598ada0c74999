// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/finsim/overpay-forecast/internal/simulation"
	"github.com/finsim/overpay-forecast/pkg/annuity"
	"github.com/finsim/overpay-forecast/pkg/constants"
	"github.com/finsim/overpay-forecast/pkg/mathutil"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for overpay-forecast.
type Configuration struct {
	Loan    Loan
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Loan describes the loan scenario to simulate.
type Loan struct {
	Principal      float64
	TermMonths     int
	MonthlyPayment float64
	// Rates holds one fractional annual rate per fixed-rate block
	// (e.g. 0.045); the last entry covers the rest of the term.
	Rates []float64
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ToInput converts the loan scenario into a simulation input.
func (l Loan) ToInput() simulation.Input {
	return simulation.Input{
		Principal:      l.Principal,
		TermMonths:     l.TermMonths,
		MonthlyPayment: l.MonthlyPayment,
		RateSchedule:   annuity.RateSchedule(l.Rates),
	}
}

// ValidateConfiguration checks the loaded scenario for conditions worth
// flagging before a run and returns warnings. Hard precondition failures are
// reported by simulation.Input.Validate, not here.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	loan := conf.Loan
	if len(loan.Rates) == 0 || loan.TermMonths <= 0 {
		// Nothing sensible to warn about; validation will reject the input.
		return warnings
	}

	schedule := annuity.RateSchedule(loan.Rates)
	benchmark := annuity.Payment(loan.Principal, schedule.MonthlyRate(0), loan.TermMonths)
	if loan.MonthlyPayment > 0 && mathutil.Round(loan.MonthlyPayment) < mathutil.Round(benchmark) {
		warnings = append(warnings, fmt.Sprintf(
			"monthly payment %.2f is below the benchmark minimum payment %.2f - the loan may not amortize within the term",
			loan.MonthlyPayment, benchmark))
	}

	coveredMonths := len(loan.Rates) * constants.RateBlockMonths
	if coveredMonths < loan.TermMonths {
		warnings = append(warnings, fmt.Sprintf(
			"rate schedule covers %d months of a %d month term - the final rate %.4f applies to the remainder",
			coveredMonths, loan.TermMonths, loan.Rates[len(loan.Rates)-1]))
	}

	return warnings
}
