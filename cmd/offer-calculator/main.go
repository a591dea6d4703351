package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
	"github.com/daisuke-ai/maina-calculator-sub000/internal/offer"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/constants"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/output"
	"github.com/daisuke-ai/maina-calculator-sub000/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConf zap.Config
	switch format {
	case "console":
		zapConf = zap.NewDevelopmentConfig()
		zapConf.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConf = zap.NewProductionConfig()
		zapConf.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConf.OutputPaths = []string{loggingConfig.OutputFile}
		zapConf.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConf.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	propertyLocation := flag.String("property", constants.DefaultPropertyFile, "path to property data file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// A missing config file is fine; the built-in defaults cover it.
	conf := config.DefaultConfiguration()
	if _, err := os.Stat(*configLocation); err == nil {
		loaded, err := config.LoadConfiguration(*configLocation)
		if err != nil {
			fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
			return
		}
		conf = loaded
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
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

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	property, err := config.LoadProperty(*propertyLocation)
	if err != nil {
		logger.Fatal(fmt.Sprintf("failed to load property data at %s", *propertyLocation),
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	warnings, err := property.Validate()
	if err != nil {
		logger.Fatal("invalid property data",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	for _, warning := range warnings {
		logger.Warn("Property warning: "+warning,
			zap.String("op", "main"),
		)
	}

	engine := offer.NewEngine(logger, conf.Calculator)
	results := engine.ComputeAllOffers(*property)

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results[:])
	case constants.OutputFormatCSV:
		output.CsvFormat(results[:])
	}
}
