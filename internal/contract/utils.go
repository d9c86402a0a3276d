package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/patchgate/patchgate/schema"
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgRed, color.Bold) // high risk blocks deployment
	ModerateColor = color.New(color.FgYellow)          // elevated, worth watching
	LowColor      = color.New(color.FgCyan)            // informational / low-priority signal
)

// GetRiskLabelText returns the risk label, colored when enabled.
func GetRiskLabelText(label schema.RiskLabel, useColors bool) string {
	if !useColors {
		return string(label)
	}
	if label == schema.HighRisk {
		return HighColor.Sprint(string(label))
	}
	return LowColor.Sprint(string(label))
}

// GetTierLabelText returns the monitoring tier, colored when enabled.
func GetTierLabelText(tier schema.RiskTierLevel, useColors bool) string {
	if !useColors {
		return string(tier)
	}
	switch tier {
	case schema.HighTier:
		return HighColor.Sprint(string(tier))
	case schema.ModerateTier:
		return ModerateColor.Sprint(string(tier))
	default:
		return LowColor.Sprint(string(tier))
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for telemetry storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".patchgate_telemetry.db"
	}
	return filepath.Join(homeDir, ".patchgate_telemetry.db")
}

// SelectOutputFile opens the requested output file, or stdout when empty.
// Callers must not close the returned file when it is stdout.
func SelectOutputFile(outputFile string) (*os.File, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", outputFile, err)
	}
	return file, nil
}

// CloseIfNotStdout closes a file opened by SelectOutputFile.
func CloseIfNotStdout(f *os.File) {
	if f != os.Stdout {
		_ = f.Close()
	}
}
