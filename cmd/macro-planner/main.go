package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/macro-planner/internal/config"
	"github.com/iwvelando/macro-planner/internal/planner"
	"github.com/iwvelando/macro-planner/pkg/constants"
	"github.com/iwvelando/macro-planner/pkg/logging"
	"github.com/iwvelando/macro-planner/pkg/output"
	"github.com/iwvelando/macro-planner/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml, report")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
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

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
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

	plan, err := planner.GetPlan(context.Background(), logger, *conf)
	if err != nil {
		logger.Fatal("failed to compute plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if plan.Report.IsOffTarget {
		logger.Warn("plan is off target",
			zap.String("op", "main"),
			zap.Int("diff", plan.Report.Diff),
			zap.Float64("percentage", plan.Report.Percentage),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(plan)
	case constants.OutputFormatCSV:
		output.CsvFormat(plan)
	case constants.OutputFormatYAML:
		output.YamlFormat(plan)
	case constants.OutputFormatReport:
		if err := output.WriteReport(os.Stdout, plan); err != nil {
			logger.Error("failed to write report", zap.String("op", "main"), zap.Error(err))
		}
	}

	if conf.Save.Path != "" {
		saved := output.NewSavedPlan(plan, time.Now())
		if err := output.SavePlan(conf.Save.Path, saved); err != nil {
			logger.Fatal("failed to save plan",
				zap.String("op", "main"),
				zap.String("path", conf.Save.Path),
				zap.Error(err),
			)
		}
		logger.Info("plan saved",
			zap.String("op", "main"),
			zap.String("path", conf.Save.Path),
			zap.String("id", saved.ID.String()),
		)
	}
}
