package schema

// Custom string types for type safety.
type (
	// RiskLabel classifies a single patch by predicted regression risk.
	RiskLabel string

	// Verdict represents the aggregate gate outcome for a batch of patches.
	Verdict string

	// RiskTierLevel classifies a firmware version for monitoring priority.
	RiskTierLevel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for telemetry storage.
	DatabaseBackend string
)

// Risk labels derived by thresholding the model probability.
const (
	LowRisk  RiskLabel = "LOW"
	HighRisk RiskLabel = "HIGH"
)

// Gate verdicts.
const (
	PassVerdict Verdict = "PASS"
	FailVerdict Verdict = "FAIL"
)

// Monitoring tiers derived from error-rate ratios against the fleet baseline.
const (
	LowTier      RiskTierLevel = "LOW"
	ModerateTier RiskTierLevel = "MODERATE"
	HighTier     RiskTierLevel = "HIGH"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All telemetry backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Process exit codes. CI runners key off these, so they are part of the
// external contract: a FAIL must be distinguishable from a broken pipeline.
const (
	ExitPass        = 0
	ExitFail        = 1
	ExitSchemaError = 2
	ExitModelError  = 3
)

// IdentifierColumn is the patch identifier column in feature files.
const IdentifierColumn = "firmware_version"

// FeatureColumns lists the model's input contract. All features are
// pre-deployment metrics so scoring never leaks post-release signal.
var FeatureColumns = []string{
	"code_churn_score",
	"previous_version_error_rate",
	"avg_device_age_days",
	"is_hotfix",
	"patch_security",
}

// Health score weights. health_score = 100 - (error_rate*WErrorRate +
// rma_rate*WRMARate + tier_excess*WTierExcess), clamped to [0, 100].
const (
	WErrorRate  = 30.0
	WRMARate    = 40.0
	WTierExcess = 30.0
)

// Tier ratio thresholds against the fleet baseline error rate.
// Boundaries are inclusive on the higher tier: exactly 1.5x is HIGH and
// exactly 1.0x is MODERATE.
const (
	HighTierRatio     = 1.5
	ModerateTierRatio = 1.0
)

// DefaultRiskThreshold is the probability cutoff for flagging a patch HIGH.
// Chosen from the precision/recall tradeoff of the production classifier;
// raise for stricter gating, lower for more coverage.
const DefaultRiskThreshold = 0.50

// DefaultDriftTolerance is the relative change in a health metric that
// counts as drift against the stored baseline.
const DefaultDriftTolerance = 0.20

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid telemetry backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
