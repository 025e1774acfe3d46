package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

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
			name:       "Defaults only",
			configPath: "",
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

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
	assert.Equal(t, constants.OutputFormatPretty, config.Output.Format)
	assert.Equal(t, ".", config.Output.Directory)
	assert.Equal(t, constants.DefaultFontStylesheet, config.Report.FontStylesheet)
	assert.Equal(t, "₹", config.Report.CurrencySymbol)
	assert.Equal(t, 0.0, config.Appraisal.DiscountRate)
	assert.Equal(t, constants.DefaultMinHorizonYears, config.Appraisal.MinHorizon)
}

func TestLoadConfigurationFromFile(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: console
output:
  format: json
  directory: /tmp/reports
report:
  fontStylesheet: "-"
  currencySymbol: "Rs."
appraisal:
  discountRate: 0.12
  minHorizon: 10
`)

	config, err := LoadConfiguration(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
	assert.Equal(t, "json", config.Output.Format)
	assert.Equal(t, "/tmp/reports", config.Output.Directory)
	assert.Equal(t, "-", config.Report.FontStylesheet)
	assert.Equal(t, "Rs.", config.Report.CurrencySymbol)
	assert.InDelta(t, 0.12, config.Appraisal.DiscountRate, 1e-9)
	assert.Equal(t, 10, config.Appraisal.MinHorizon)
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")
	t.Setenv("LOAN_REPORT_LOGGING_LEVEL", "error")
	t.Setenv("LOAN_REPORT_APPRAISAL_MINHORIZON", "12")

	config, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, 12, config.Appraisal.MinHorizon)
}

func TestLoadConfigurationMalformed(t *testing.T) {
	path := writeConfig(t, "logging: [unterminated\n")

	_, err := LoadConfiguration(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func validConfiguration() *Configuration {
	return &Configuration{
		Output:    OutputConfig{Format: constants.OutputFormatPretty},
		Appraisal: AppraisalConfig{MinHorizon: constants.DefaultMinHorizonYears},
		Report:    ReportConfig{FontStylesheet: constants.DefaultFontStylesheet},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Configuration)
		wantError bool
	}{
		{name: "Valid", modify: func(*Configuration) {}, wantError: false},
		{name: "Bad output format", modify: func(c *Configuration) { c.Output.Format = "csv" }, wantError: true},
		{name: "Negative discount rate", modify: func(c *Configuration) { c.Appraisal.DiscountRate = -0.1 }, wantError: true},
		{name: "Negative horizon", modify: func(c *Configuration) { c.Appraisal.MinHorizon = -1 }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfiguration()
			tt.modify(c)
			err := c.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name          string
		modify        func(*Configuration)
		expectedCount int
	}{
		{name: "Clean", modify: func(*Configuration) {}, expectedCount: 0},
		{name: "Percent discount rate", modify: func(c *Configuration) { c.Appraisal.DiscountRate = 12 }, expectedCount: 1},
		{name: "Short horizon", modify: func(c *Configuration) { c.Appraisal.MinHorizon = 3 }, expectedCount: 1},
		{name: "Plain http font", modify: func(c *Configuration) { c.Report.FontStylesheet = "http://fonts.example/css" }, expectedCount: 1},
		{name: "Fonts disabled", modify: func(c *Configuration) { c.Report.FontStylesheet = "-" }, expectedCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfiguration()
			tt.modify(c)
			warnings := c.ValidateConfiguration()
			if len(warnings) != tt.expectedCount {
				t.Errorf("ValidateConfiguration() returned %d warnings, expected %d: %v", len(warnings), tt.expectedCount, warnings)
			}
		})
	}
}
