package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/finsim/overpay-forecast/internal/config"
	"github.com/finsim/overpay-forecast/internal/simulation"
	"github.com/finsim/overpay-forecast/pkg/constants"
	"github.com/finsim/overpay-forecast/pkg/format"
	"github.com/finsim/overpay-forecast/pkg/output"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get the scenario and logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := config.BuildLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Run the simulation.
	result, err := simulation.Run(logger, conf.Loan.ToInput())
	if err != nil {
		var infeasible *simulation.InfeasibleError
		if errors.As(err, &infeasible) {
			logger.Fatal(fmt.Sprintf("payment is infeasible at month %d: %s short of the %s interest due (benchmark minimum payment %s)",
				infeasible.Month,
				format.Currency(infeasible.Shortfall()),
				format.Currency(infeasible.Interest),
				format.Currency(infeasible.BenchmarkPayment)),
				zap.String("op", "main"),
			)
		}
		logger.Fatal("failed to run simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	}
}
