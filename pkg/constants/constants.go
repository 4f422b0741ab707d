// Package constants provides shared constants for the loan-schedule application.
package constants

import "time"

// DateLayout is the ISO-8601 calendar date format expected in config files,
// API payloads and used for machine-readable output.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the short month label used in tables and reports,
// e.g. "Feb 2024".
const DisplayDateLayout = "Jan 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent).
	// A balance at or below it is treated as paid off.
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// YearlyAggregationThreshold is the row count above which chart series
	// are aggregated per calendar year.
	YearlyAggregationThreshold = 60
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// DefaultCurrency is used when no currency code is configured.
const DefaultCurrency = "USD"

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "loan.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultReadTimeout bounds how long the server waits for a request
	DefaultReadTimeout = 15 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of in-flight requests
	DefaultShutdownTimeout = 10 * time.Second
)
