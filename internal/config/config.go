// Package config defines the data structures related to configuration and
// includes functions for loading the loan file and converting it into engine
// inputs.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"github.com/iwvelando/loan-schedule/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// DateLayout is the date format expected in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for loan-schedule.
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
	Format   string `yaml:"format,omitempty"`   // pretty, csv, json
	Currency string `yaml:"currency,omitempty"` // overrides the loan currency
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values bound into the global viper instance, such as
// command-line flags, take precedence over the file.
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

// LoadConfigurationFromReader loads a YAML-formatted configuration from r
// using a private viper instance.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Currency returns the ISO 4217 code used for display: the output override,
// then the loan currency, then constants.DefaultCurrency.
func (c *Configuration) Currency() string {
	for _, code := range []string{c.Output.Currency, c.Loan.Currency} {
		if code = strings.TrimSpace(code); code != "" {
			return strings.ToUpper(code)
		}
	}
	return constants.DefaultCurrency
}

// OutputFormat returns the configured output format, pretty when unset.
func (c *Configuration) OutputFormat() string {
	if c.Output.Format == "" {
		return constants.OutputFormatPretty
	}
	return c.Output.Format
}

// Validate checks the whole configuration and returns every problem found
// combined into one error.
func (c *Configuration) Validate() error {
	var err error
	if c.Output.Format != "" {
		err = multierr.Append(err, validation.ValidateOutputFormat(c.Output.Format))
	}
	err = multierr.Append(err, validation.ValidateCurrencyCode(c.Currency()))

	input, inputErr := c.Loan.ToLoanInput()
	scheduleEvents, eventsErr := c.Loan.ToEvents()
	err = multierr.Combine(err, inputErr, eventsErr)
	if inputErr == nil {
		err = multierr.Append(err, validation.ValidateLoanInput(input))
	}
	if eventsErr == nil {
		err = multierr.Append(err, validation.ValidateEvents(scheduleEvents))
	}
	return err
}
