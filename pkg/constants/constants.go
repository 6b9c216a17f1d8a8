// Package constants provides shared constants for the amortize application.
package constants

// DateTimeLayout is the month-granularity format accepted for loan start dates
// in config files and requests.
const DateTimeLayout = "2006-01"

// DateLayout is the day-granularity format also accepted for start dates.
const DateLayout = "2006-01-02"

// PeriodLabelLayout formats a period label, e.g. "January 2026".
const PeriodLabelLayout = "January 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places shown for currency values
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ResidualBalanceFraction is the fraction of the original principal below
	// which a remaining balance is floating-point residue and is paid off in
	// the current period.
	ResidualBalanceFraction = 1e-9
)

// Input limits enforced on loan parameters.
const (
	// MaxPrincipal is the largest accepted loan amount
	MaxPrincipal = 100_000_000.0

	// MaxTermMonths is the longest accepted loan term (50 years)
	MaxTermMonths = 600

	// MinTermMonths is the shortest accepted loan term
	MinTermMonths = 1

	// MaxAnnualRatePercent is the highest accepted nominal annual rate
	MaxAnnualRatePercent = 100.0
)

// TermPreset is a commonly used loan term.
type TermPreset struct {
	Label  string
	Months int
}

// TermPresets lists the common loan terms offered to users.
var TermPresets = []TermPreset{
	{Label: "1 Year", Months: 12},
	{Label: "3 Years", Months: 36},
	{Label: "5 Years", Months: 60},
	{Label: "10 Years", Months: 120},
	{Label: "15 Years", Months: 180},
	{Label: "20 Years", Months: 240},
	{Label: "25 Years", Months: 300},
	{Label: "30 Years", Months: 360},
}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Export constants
const (
	// ExportRowLimit is the number of schedule rows included in bounded exports
	ExportRowLimit = 30
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "AMORTIZE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultStorePath is the default SQLite database for saved loans
	DefaultStorePath = "amortize.db"

	// DefaultCacheTTLSeconds is the default lifetime of cached calculations
	DefaultCacheTTLSeconds = 3600

	// DefaultCacheMaxEntries bounds the in-memory calculation cache
	DefaultCacheMaxEntries = 1000
)
