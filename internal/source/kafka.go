package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/keren-or1/inverted-index/pkg/kafka"
)

// IngestEvent is the Kafka message payload carrying one document to be
// indexed.
type IngestEvent struct {
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	IngestedAt time.Time `json:"ingested_at"`
}

// AddFunc indexes a single document. Implementations own whatever locking
// the index needs; the consume loop itself is sequential.
type AddFunc func(externalID, text string) error

// KafkaHandler returns a kafka.MessageHandler that decodes IngestEvents
// and feeds them to add. Undecodable messages are dropped with a log line
// so a poison message cannot wedge the consumer group.
func KafkaHandler(add AddFunc) kafka.MessageHandler {
	logger := slog.Default().With("component", "ingest-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[IngestEvent](value)
		if err != nil {
			logger.Error("failed to decode ingest event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if err := add(event.DocumentID, event.Text); err != nil {
			logger.Error("failed to index document",
				"doc_id", event.DocumentID,
				"error", err,
			)
			return nil
		}
		logger.Info("document indexed", "doc_id", event.DocumentID)
		return nil
	}
}
