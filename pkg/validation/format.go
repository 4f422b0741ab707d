// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-schedule/pkg/constants"
	"golang.org/x/text/currency"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateCurrencyCode checks that code is a recognized ISO 4217 currency code.
func ValidateCurrencyCode(code string) error {
	if _, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code))); err != nil {
		return fmt.Errorf("unsupported currency code %q: %w", code, err)
	}
	return nil
}
