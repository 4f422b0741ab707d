package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/loan-schedule/internal/config"
	"github.com/iwvelando/loan-schedule/internal/logging"
	"github.com/iwvelando/loan-schedule/internal/schedule"
	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/export"
	"github.com/iwvelando/loan-schedule/pkg/output"
	"github.com/iwvelando/loan-schedule/pkg/validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type options struct {
	configLocation string
	logLevel       string
	xlsxPath       string
	pdfPath        string
	chartPath      string
	chartImagePath string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("loan-schedule", pflag.ContinueOnError)
	fs.StringVar(&opts.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	fs.String("output-format", "", "type of output override: pretty, csv, json")
	fs.String("currency", "", "ISO 4217 currency code override")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the schedule workbook to this file")
	fs.StringVar(&opts.pdfPath, "pdf", "", "write the PDF report to this file")
	fs.StringVar(&opts.chartPath, "chart", "", "write the HTML chart to this file")
	fs.StringVar(&opts.chartImagePath, "chart-image", "", "PNG image to embed in the PDF report")
	return fs
}

func run(args []string, stdout io.Writer) error {
	var opts options
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Flags override the matching config file keys when set.
	viper.Reset()
	for key, flag := range map[string]string{
		"output.format":   "output-format",
		"output.currency": "currency",
	} {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	conf, err := config.LoadConfiguration(opts.configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
	}

	logger, err := logging.NewLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.OutputFormat()
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return err
	}

	result, err := schedule.Compute(logger, conf)
	if err != nil {
		logger.Error("failed to compute schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(stdout, result, "")
	case constants.OutputFormatCSV:
		err = output.CsvFormat(stdout, result.Rows)
	case constants.OutputFormatJSON:
		err = output.JSONFormat(stdout, result)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return writeExports(logger, result, opts)
}

func writeExports(logger *zap.Logger, result *schedule.Result, opts options) error {
	params := export.ParamsFromResult(result)

	if opts.xlsxPath != "" {
		if err := writeFile(opts.xlsxPath, func(w io.Writer) error {
			return export.WriteXLSX(w, result.Rows, params)
		}); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("wrote workbook to %s", opts.xlsxPath), zap.String("op", "main"))
	}

	if opts.chartPath != "" {
		if err := writeFile(opts.chartPath, func(w io.Writer) error {
			return export.RenderChart(w, result.Chart)
		}); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("wrote chart to %s", opts.chartPath), zap.String("op", "main"))
	}

	if opts.pdfPath != "" {
		var chartPNG []byte
		if opts.chartImagePath != "" {
			data, err := os.ReadFile(opts.chartImagePath)
			if err != nil {
				return fmt.Errorf("failed to read chart image: %w", err)
			}
			chartPNG = data
		}
		if err := writeFile(opts.pdfPath, func(w io.Writer) error {
			return export.WritePDF(w, result.Rows, params, chartPNG)
		}); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("wrote report to %s", opts.pdfPath), zap.String("op", "main"))
	}
	return nil
}

// writeFile renders into memory first so a failed export leaves no partial file.
func writeFile(path string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
