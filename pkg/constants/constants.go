// Package constants provides shared constants for the loan-report application.
package constants

import "time"

// DateLayout is the ISO date used in exported file names.
const DateLayout = "2006-01-02"

// ReportDateLayout is the long-form date printed in the report footer.
const ReportDateLayout = "2 January 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 paisa)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DefaultMinHorizonYears is the minimum number of projected years
	DefaultMinHorizonYears = 7

	// MaxTenureYears bounds the loan tenure accepted for appraisal
	MaxTenureYears = 30

	// MaxTenureMonths is MaxTenureYears in months; it also bounds the moratorium
	MaxTenureMonths = MaxTenureYears * MonthsPerYear

	// MaxHorizonYears bounds the number of projected years
	MaxHorizonYears = 50

	// ReportStatementYears is the number of years shown in the profitability
	// and cash flow tables.
	ReportStatementYears = 7
)

// DSCR and viability thresholds.
const (
	// StrongDSCR marks healthy repayment capacity.
	StrongDSCR = 1.25

	// MinimumDSCR is the break-even coverage.
	MinimumDSCR = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Media types for emitted artifacts.
const (
	MediaTypeCSV  = "text/csv;charset=utf-8"
	MediaTypeHTML = "text/html;charset=utf-8"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// CSV import limits
const (
	// MaxCSVFileSizeBytes is the exclusive upper bound for imported CSV files (5 MiB)
	MaxCSVFileSizeBytes int64 = 5 * 1024 * 1024

	// DefaultProjectFileStem is used when a project has no name.
	DefaultProjectFileStem = "project_data"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for CSV files
	DefaultMaxUploadSizeBytes int64 = MaxCSVFileSizeBytes

	// DefaultRateLimitRequests is the per-client request budget per window
	DefaultRateLimitRequests = 60

	// DefaultArtifactTTL is how long rendered artifacts stay downloadable
	DefaultArtifactTTL = time.Hour

	// DefaultMaxArtifacts caps the artifacts held by the in-memory store
	DefaultMaxArtifacts = 256
)

// DefaultFontStylesheet is the only external resource referenced by reports.
const DefaultFontStylesheet = "https://fonts.googleapis.com/css2?family=Inter:wght@300;400;600;700;800&family=Playfair+Display:wght@700&display=swap"
