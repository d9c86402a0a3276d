// Package cmd defines the command-line interface for patchgate.
package cmd

import (
	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)

	// Add the baseline subcommands to the parent baseline command
	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineShowCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("model", contract.DefaultModelPath, "Path to the versioned model artifact JSON")
	rootCmd.PersistentFlags().Float64P("threshold", "t", schema.DefaultRiskThreshold, "Risk probability cutoff for the HIGH label")
	rootCmd.PersistentFlags().String("scored-output", "", "Path for the scored audit CSV (default: scored_<input> next to the input)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Telemetry backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Float64("tolerance", schema.DefaultDriftTolerance, "Relative change tolerance for drift detection")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of baselineSaveCmd to Viper
	baselineSaveCmd.Flags().String("baseline-version", "", "Label for the saved baseline (default: timestamp-derived)")
	if err := viper.BindPFlags(baselineSaveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding baseline save flags", err)
	}

	// Bind all flags of ingestCmd to Viper
	ingestCmd.Flags().String("kafka-brokers", "", "Comma-separated Kafka broker addresses")
	ingestCmd.Flags().String("kafka-topic", contract.DefaultKafkaTopic, "Kafka topic carrying telemetry envelopes")
	ingestCmd.Flags().String("kafka-group", contract.DefaultKafkaGroup, "Kafka consumer group ID")
	if err := viper.BindPFlags(ingestCmd.Flags()); err != nil {
		contract.LogFatal("Error binding ingest flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
