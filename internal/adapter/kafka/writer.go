package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/globe-suffering-etl/internal/config"
	"github.com/couchcryptid/globe-suffering-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	headerDocument    = "document"
	headerGeneratedAt = "generated_at"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes every record of every document to a Kafka topic.
// It implements pipeline.DocumentLoader.
type Writer struct {
	writer    messageWriter
	batchSize int
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, batchSize: cfg.BatchSize, logger: logger}
}

// LoadDocuments serializes all records first and then publishes them in
// chunks of the configured batch size. Records are keyed so every update of
// the same entity lands on the same partition.
func (w *Writer) LoadDocuments(ctx context.Context, docs domain.Documents) error {
	msgs, err := documentMessages(docs)
	if err != nil {
		return err
	}
	size := max(w.batchSize, 1)
	for chunk := range slices.Chunk(msgs, size) {
		if err := w.writer.WriteMessages(ctx, chunk...); err != nil {
			return fmt.Errorf("publish documents: %w", err)
		}
	}
	w.logger.Info("documents published", "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// documentMessages flattens the documents into one message per record.
// Normalized emissions are published as one message per country.
func documentMessages(docs domain.Documents) ([]kafkago.Message, error) {
	generatedAt := docs.GeneratedAt.Format(time.RFC3339)
	var msgs []kafkago.Message
	add := func(doc, key string, record any) error {
		msg, err := serializeToMessage(doc, key, generatedAt, record)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		return nil
	}

	countries := make([]string, 0, len(docs.NormalizedEmissions))
	for country := range docs.NormalizedEmissions {
		countries = append(countries, country)
	}
	slices.Sort(countries)
	for _, country := range countries {
		record := struct {
			Country string                 `json:"country"`
			Series  []domain.EmissionPoint `json:"series"`
		}{country, docs.NormalizedEmissions[country]}
		if err := add(domain.DocNormalizedEmissions, country, record); err != nil {
			return nil, err
		}
	}
	for _, bin := range docs.AggregatedDisasters {
		if err := add(domain.DocAggregatedDisasters, binKey(bin), bin); err != nil {
			return nil, err
		}
	}
	for _, row := range docs.Suffering {
		if err := add(domain.DocSuffering, row.Country+"|"+strconv.Itoa(row.Year), row); err != nil {
			return nil, err
		}
	}
	for _, c := range docs.Centroids {
		if err := add(domain.DocCentroids, c.Name, c); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

func binKey(b domain.GeoBinAggregate) string {
	return fmt.Sprintf("%d|%.2f|%.2f", b.Year, b.LatBin, b.LonBin)
}

// serializeToMessage marshals one document record into a Kafka message.
func serializeToMessage(doc, key, generatedAt string, record any) (kafkago.Message, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s record %q: %w", doc, key, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: headerDocument, Value: []byte(doc)},
			{Key: headerGeneratedAt, Value: []byte(generatedAt)},
		},
	}, nil
}
