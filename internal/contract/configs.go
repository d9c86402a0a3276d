package contract

import (
	"fmt"
	"strings"

	"github.com/patchgate/patchgate/schema"
)

// Default values for configuration.
const (
	DefaultPrecision  = 4
	DefaultModelPath  = "models/risk_model_v002.json"
	DefaultKafkaTopic = "device-telemetry"
	DefaultKafkaGroup = "patchgate-ingest"
)

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	FeatureFile  string  // Path to the input feature file (gate)
	ModelPath    string  // Path to the versioned model artifact
	Threshold    float64 // Probability cutoff for HIGH risk
	ScoredOutput string  // Path for the scored audit file ("" = scored_<basename>)

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	DBBackend schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Tolerance       float64 // Relative drift tolerance
	BaselineVersion string  // Label for `baseline save` ("" = timestamp-derived)

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

// Clone returns a copy of the config for per-request use (MCP handlers).
func (c *Config) Clone() *Config {
	clone := *c
	clone.KafkaBrokers = append([]string(nil), c.KafkaBrokers...)
	return &clone
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	FeatureFileStr string

	Model        string  `mapstructure:"model"`
	Threshold    float64 `mapstructure:"threshold"`
	ScoredOutput string  `mapstructure:"scored-output"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	DBBackend string `mapstructure:"db-backend"`
	DBConnect string `mapstructure:"db-connect"`

	Tolerance       float64 `mapstructure:"tolerance"`
	BaselineVersion string  `mapstructure:"baseline-version"`

	KafkaBrokers string `mapstructure:"kafka-brokers"`
	KafkaTopic   string `mapstructure:"kafka-topic"`
	KafkaGroupID string `mapstructure:"kafka-group"`
}

// ProcessAndValidate converts the raw input into the final Config,
// rejecting values that would make a run ambiguous or non-reproducible.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.FeatureFile = input.FeatureFileStr

	cfg.ModelPath = input.Model
	if cfg.ModelPath == "" {
		cfg.ModelPath = DefaultModelPath
	}

	if input.Threshold < 0 || input.Threshold > 1 {
		return fmt.Errorf("threshold must be within [0, 1], got %v", input.Threshold)
	}
	cfg.Threshold = input.Threshold
	cfg.ScoredOutput = input.ScoredOutput

	output := schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode %q: must be text, csv, json or parquet", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > 10 {
		return fmt.Errorf("precision must be within [0, 10], got %d", input.Precision)
	}
	cfg.Precision = input.Precision
	cfg.UseColors = ParseBoolish(input.Color)

	if input.Width < 0 {
		return fmt.Errorf("width must be non-negative, got %d", input.Width)
	}
	cfg.Width = input.Width

	backend := schema.DatabaseBackend(input.DBBackend)
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid db backend %q: must be sqlite, mysql, postgresql, or none", input.DBBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.DBConnect); err != nil {
		return err
	}
	cfg.DBBackend = backend
	cfg.DBConnect = input.DBConnect

	if input.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", input.Tolerance)
	}
	cfg.Tolerance = input.Tolerance
	cfg.BaselineVersion = input.BaselineVersion

	cfg.KafkaBrokers = splitNonEmpty(input.KafkaBrokers)
	cfg.KafkaTopic = input.KafkaTopic
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = DefaultKafkaTopic
	}
	cfg.KafkaGroupID = input.KafkaGroupID
	if cfg.KafkaGroupID == "" {
		cfg.KafkaGroupID = DefaultKafkaGroup
	}

	return nil
}

// ValidateDatabaseConnectionString rejects backend/connection combinations
// that could only fail later with a less helpful error.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if strings.TrimSpace(connStr) == "" {
			return fmt.Errorf("db backend %s requires --db-connect", backend)
		}
	case schema.SQLiteBackend, schema.NoneBackend:
		// SQLite falls back to the default file path; none ignores it.
	}
	return nil
}

// ParseBoolish interprets the yes/no style flag values accepted for --color.
func ParseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on", "y":
		return true
	default:
		return false
	}
}

// splitNonEmpty splits a comma-separated list, dropping empty entries.
func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
