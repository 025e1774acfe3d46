// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override config keys, e.g.
// LOAN_REPORT_LOGGING_LEVEL or LOAN_REPORT_APPRAISAL_DISCOUNTRATE.
const EnvPrefix = "LOAN_REPORT"

// Configuration holds all configuration for loan-report.
type Configuration struct {
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty"`
	Report    ReportConfig    `yaml:"report,omitempty"`
	Appraisal AppraisalConfig `yaml:"appraisal,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output configuration options
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"`    // pretty, json
	Directory string `yaml:"directory,omitempty"` // where exported files are written
}

// ReportConfig tunes the HTML report.
type ReportConfig struct {
	FontStylesheet string `yaml:"fontStylesheet,omitempty"` // "-" omits the font link
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
}

// AppraisalConfig tunes the appraisal engine.
type AppraisalConfig struct {
	DiscountRate float64 `yaml:"discountRate,omitempty"` // fraction; 0 uses the loan rate
	MinHorizon   int     `yaml:"minHorizon,omitempty"`   // years
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputfile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.directory", ".")
	v.SetDefault("report.fontstylesheet", constants.DefaultFontStylesheet)
	v.SetDefault("report.currencysymbol", "₹")
	v.SetDefault("appraisal.discountrate", 0.0)
	v.SetDefault("appraisal.minhorizon", constants.DefaultMinHorizonYears)
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults. Environment
// variables override both.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Validate rejects settings the tool cannot run with.
func (c *Configuration) Validate() error {
	if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Appraisal.DiscountRate < 0 {
		return errors.New("appraisal discount rate cannot be negative")
	}
	if c.Appraisal.MinHorizon < 0 {
		return errors.New("appraisal minimum horizon cannot be negative")
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if c.Appraisal.DiscountRate >= 1 {
		warnings = append(warnings, fmt.Sprintf(
			"appraisal discount rate %.2f is a fraction; did you mean %.4f?",
			c.Appraisal.DiscountRate, c.Appraisal.DiscountRate/constants.PercentageMultiplier))
	}
	if c.Appraisal.MinHorizon > 0 && c.Appraisal.MinHorizon < constants.ReportStatementYears {
		warnings = append(warnings, fmt.Sprintf(
			"appraisal horizon of %d years is shorter than the %d years the report tabulates",
			c.Appraisal.MinHorizon, constants.ReportStatementYears))
	}
	if c.Report.FontStylesheet != "" && c.Report.FontStylesheet != "-" &&
		!strings.HasPrefix(c.Report.FontStylesheet, "https://") {
		warnings = append(warnings, "report font stylesheet is not served over https")
	}
	return warnings
}
