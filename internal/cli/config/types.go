// Package config loads the CLI configuration from defaults, a YAML file,
// environment variables, and command-line flags, in increasing precedence.
package config

// Defaults for configuration values.
const (
	DefaultPrecision = 64
	DefaultStyle     = "standard"
	DefaultDigits    = 0
)

// Config holds the evaluator CLI configuration.
type Config struct {
	// Precision is the number of significant digits computations carry.
	Precision int `koanf:"precision"`
	// Style selects the precedence table: "standard" or "spreadsheet".
	// They differ only in how tightly unary minus binds.
	Style string `koanf:"style"`
	// Digits rounds results to this many significant digits for display.
	// Zero displays the full computed precision.
	Digits int `koanf:"digits"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// LogFile, if set, receives a JSON copy of the log stream.
	LogFile string `koanf:"log_file"`
}
