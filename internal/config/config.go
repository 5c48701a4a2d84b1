// Package config provides configuration types for admit-gate.
//
// Every setting has a working default, so the tool runs without a config
// file. Flags override the file and ADMIT_GATE_* environment variables.
package config

// AppConfig is the top-level configuration for admit-gate.
type AppConfig struct {
	// LogLevel sets the minimum level: "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat selects the slog handler written to stderr: "text" or "json".
	LogFormat string `yaml:"log_format" mapstructure:"log_format" validate:"omitempty,oneof=text json"`

	// UnknownCriteria controls input keys that are not criteria of the
	// active policy: "reject" fails with UnknownCriterion, "ignore" drops
	// them with a warning.
	UnknownCriteria string `yaml:"unknown_criteria" mapstructure:"unknown_criteria" validate:"omitempty,oneof=reject ignore"`

	// Policy selects a custom criteria catalog.
	Policy PolicyConfig `yaml:"policy" mapstructure:"policy"`

	// Output configures how evaluation records are printed.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Metrics configures Prometheus metrics export.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Telemetry configures OpenTelemetry tracing.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// PolicyConfig selects the criteria catalog.
type PolicyConfig struct {
	// File is a YAML catalog. Empty means the built-in MCG sepsis catalog.
	File string `yaml:"file" mapstructure:"file" validate:"omitempty,policy_file"`
}

// OutputConfig configures record rendering.
type OutputConfig struct {
	// Format is "text", "json" or "yaml".
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json yaml"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics registry in the
	// node_exporter textfile collector format after each run.
	Textfile string `yaml:"textfile" mapstructure:"textfile" validate:"omitempty,prom_textfile"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	// Trace exports evaluation spans as JSON to stderr.
	Trace bool `yaml:"trace" mapstructure:"trace"`
}

// SetDefaults applies default values for optional fields.
func (c *AppConfig) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.UnknownCriteria == "" {
		c.UnknownCriteria = "reject"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
}
