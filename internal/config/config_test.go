package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

const exampleConfig = `
loan:
  name: House
  principal: 100000
  annualRate: 10
  years: 1
  startDate: 2024-01-01
  currency: eur
  events:
    - name: Bonus
      date: 2024-06-01
      amount: 20000
    - name: Refinance
      date: 2024-09-01
      newRate: 0
    - name: Quarterly extra
      date: 2024-03-15
      amount: 500
      frequency: 3
      endDate: 2024-09-15
logging:
  level: debug
  format: console
output:
  format: csv
`

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: writeConfig(t, exampleConfig),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(exampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "House", conf.Loan.Name)
	assert.Equal(t, 100000.0, conf.Loan.Principal)
	assert.Equal(t, 10.0, conf.Loan.AnnualRate)
	assert.Equal(t, 1.0, conf.Loan.Years)
	assert.Equal(t, "2024-01-01", conf.Loan.StartDate)
	require.Len(t, conf.Loan.Events, 3)
	assert.Nil(t, conf.Loan.Events[0].NewRate)
	require.NotNil(t, conf.Loan.Events[1].NewRate)
	assert.Equal(t, 0.0, *conf.Loan.Events[1].NewRate)
	assert.Equal(t, 3, conf.Loan.Events[2].Frequency)
	assert.Equal(t, "debug", conf.Logging.Level)
	assert.Equal(t, "console", conf.Logging.Format)
	assert.Equal(t, "csv", conf.OutputFormat())
	assert.Equal(t, "EUR", conf.Currency())
	assert.NoError(t, conf.Validate())
}

func TestLoadConfigurationFromReader_Malformed(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("loan: [unterminated"))
	assert.Error(t, err)
}

func TestToEvents_ExpandsRecurrence(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(exampleConfig))
	require.NoError(t, err)

	scheduleEvents, err := conf.Loan.ToEvents()
	require.NoError(t, err)
	// One bonus, one rate change, three quarterly payments.
	require.Len(t, scheduleEvents, 5)

	var quarterly []civil.Date
	for _, event := range scheduleEvents {
		if event.Amount == 500 {
			quarterly = append(quarterly, event.Date)
		}
	}
	assert.Equal(t, []civil.Date{
		{Year: 2024, Month: 3, Day: 15},
		{Year: 2024, Month: 6, Day: 15},
		{Year: 2024, Month: 9, Day: 15},
	}, quarterly)
}

func TestToEvents_BadDate(t *testing.T) {
	loan := Loan{Events: []Event{{Name: "Broken", Date: "June 2024", Amount: 1}}}
	_, err := loan.ToEvents()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 1 (Broken)")
}

func TestToLoanInput(t *testing.T) {
	loan := Loan{Principal: 5000, AnnualRate: 3.5, Years: 2.5, StartDate: "2024-02-29"}
	input, err := loan.ToLoanInput()
	require.NoError(t, err)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 29}, input.StartDate)
	assert.Equal(t, 30, input.TotalMonths())

	_, err = Loan{StartDate: "not a date"}.ToLoanInput()
	assert.Error(t, err)
}

func TestCurrencyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		conf Configuration
		want string
	}{
		{name: "default", conf: Configuration{}, want: "USD"},
		{name: "loan currency", conf: Configuration{Loan: Loan{Currency: "gbp"}}, want: "GBP"},
		{name: "output override", conf: Configuration{Loan: Loan{Currency: "GBP"}, Output: OutputConfig{Currency: "JPY"}}, want: "JPY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.conf.Currency())
		})
	}
}

func TestValidate_AggregatesProblems(t *testing.T) {
	conf := Configuration{
		Loan: Loan{
			Principal:  -1,
			AnnualRate: -2,
			Years:      1,
			StartDate:  "2024-01-01",
			Currency:   "NOPE",
			Events:     []Event{{Date: "2024-02-01"}},
		},
		Output: OutputConfig{Format: "xml"},
	}

	err := conf.Validate()
	require.Error(t, err)
	// output format, currency, principal, rate, empty event
	assert.Len(t, multierr.Errors(err), 5)
}

func TestValidate_ReportsParseErrors(t *testing.T) {
	conf := Configuration{Loan: Loan{Principal: 1, Years: 1, StartDate: "bad"}}
	err := conf.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loan start date")
}
