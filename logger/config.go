package logger

import "github.com/kbukum/seqkit/validation"

// Config contains logging configuration.
type Config struct {
	// Level is the minimum level written.
	Level string `yaml:"level" mapstructure:"level" json:"level" validate:"oneof=trace debug info warn error disabled"`
	// Format is json, or console/pretty for human-readable output.
	Format string `yaml:"format" mapstructure:"format" json:"format" validate:"oneof=json console pretty"`
	// Output is stderr, stdout or discard.
	Output    string `yaml:"output" mapstructure:"output" json:"output" validate:"omitempty,oneof=stderr stdout discard"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color" json:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp" json:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller" json:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
