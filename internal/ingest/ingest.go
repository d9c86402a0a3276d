// Package ingest consumes fleet telemetry from Kafka and appends it to the
// telemetry store. It is the write path behind the health-metrics tables.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patchgate/patchgate/internal/contract"
	"github.com/patchgate/patchgate/schema"
	"github.com/segmentio/kafka-go"
)

// Envelope message types on the telemetry topic.
const (
	DeviceEventType   = "device_event"
	SupportTicketType = "support_ticket"
)

// Envelope is the wire format on the telemetry topic: a type tag plus the
// type-specific payload fields, flattened into one JSON object.
type Envelope struct {
	Type string `json:"type"`

	// device_event fields
	DeviceID        string    `json:"device_id"`
	ErrorCode       string    `json:"error_code"`
	Timestamp       time.Time `json:"timestamp"`
	FirmwareVersion string    `json:"firmware_version"`
	Model           string    `json:"model"`
	Region          string    `json:"region"`

	// support_ticket fields
	TicketID  string `json:"ticket_id"`
	Tier      int    `json:"support_tier"`
	RMAIssued bool   `json:"rma_issued"`
}

// DecodeMessage parses one telemetry envelope and validates its type tag.
func DecodeMessage(value []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return env, fmt.Errorf("failed to decode telemetry message: %w", err)
	}
	switch env.Type {
	case DeviceEventType, SupportTicketType:
		return env, nil
	default:
		return env, fmt.Errorf("unknown telemetry message type %q", env.Type)
	}
}

// DeviceEvent converts a device_event envelope to its store row.
func (e Envelope) DeviceEvent() schema.DeviceEvent {
	return schema.DeviceEvent{
		DeviceID:        e.DeviceID,
		ErrorCode:       e.ErrorCode,
		Timestamp:       e.Timestamp,
		FirmwareVersion: e.FirmwareVersion,
		Model:           e.Model,
		Region:          e.Region,
	}
}

// SupportTicket converts a support_ticket envelope to its store row.
func (e Envelope) SupportTicket() schema.SupportTicket {
	return schema.SupportTicket{
		TicketID:  e.TicketID,
		DeviceID:  e.DeviceID,
		ErrorCode: e.ErrorCode,
		CreatedAt: e.Timestamp,
		Tier:      e.Tier,
		RMAIssued: e.RMAIssued,
	}
}

// Consumer reads telemetry envelopes from Kafka and persists them.
type Consumer struct {
	reader *kafka.Reader
	store  contract.TelemetryStore
}

// NewConsumer builds a consumer for the configured brokers and topic.
func NewConsumer(cfg *contract.Config, store contract.TelemetryStore) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, store: store}
}

// Run consumes messages until the context is canceled. Malformed messages
// are skipped with a warning; insert failures are warnings too, so one bad
// row never stalls the partition.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() { _ = c.reader.Close() }()

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("kafka read error: %w", err)
		}

		env, err := DecodeMessage(m.Value)
		if err != nil {
			contract.LogWarn("skipping telemetry message", err)
			continue
		}

		switch env.Type {
		case DeviceEventType:
			if err := c.store.InsertDeviceEvent(ctx, env.DeviceEvent()); err != nil {
				contract.LogWarn("failed to persist device event", err)
			}
		case SupportTicketType:
			if err := c.store.InsertSupportTicket(ctx, env.SupportTicket()); err != nil {
				contract.LogWarn("failed to persist support ticket", err)
			}
		}
	}
}
