package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/internal/ingest"
	"github.com/spf13/cobra"
)

// ingestCmd runs the Kafka telemetry consumer.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume device telemetry from Kafka into the telemetry store",
	Long: `Run the monitoring-job write path: consume device_event and
support_ticket envelopes from a Kafka topic and append them to the telemetry
store that 'patchgate health' reads.

Malformed messages are skipped with a warning so one bad producer never
stalls the partition. The consumer runs until interrupted.

Examples:
  # Consume from a local broker
  patchgate ingest --kafka-brokers localhost:9092

  # Production topic with an explicit consumer group
  patchgate ingest --kafka-brokers kafka-1:9092,kafka-2:9092 \
    --kafka-topic device-telemetry --kafka-group patchgate-ingest`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if len(cfg.KafkaBrokers) == 0 {
			contract.LogFatal("Ingest failed", errors.New("--kafka-brokers is required"))
		}
		fmt.Fprintf(os.Stderr, "Consuming topic %s (group %s) from %v\n", cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers)

		consumer := ingest.NewConsumer(cfg, storeManager.GetTelemetryStore())
		if err := consumer.Run(rootCtx); err != nil {
			contract.LogFatal("Ingest failed", err)
		}
	},
}
