// Package ledgerbus publishes resolved-outcome records to Kafka so that
// downstream scoring dashboards can consume them. Publishing is best-effort:
// the simulation never blocks or fails on broker trouble.
package ledgerbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/signalsfoundry/planetary-defense-sim/internal/logging"
	"github.com/signalsfoundry/planetary-defense-sim/internal/sim"
)

const publishTimeout = 5 * time.Second

// Publisher writes outcome records to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	log    logging.Logger
}

// New builds a Publisher against the given brokers and topic. Returns an
// error when no brokers are configured.
func New(brokers []string, topic string, log logging.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("ledgerbus: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("ledgerbus: no topic configured")
	}
	if log == nil {
		log = logging.Noop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
		log: log,
	}, nil
}

// Publish serialises the record and writes it keyed by object ID. Failures
// are logged and swallowed so outcome processing is never disturbed.
func (p *Publisher) Publish(ctx context.Context, rec sim.OutcomeRecord) {
	payload, err := json.Marshal(rec)
	if err != nil {
		p.log.Warn(ctx, "ledgerbus: marshal outcome", logging.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.ObjectID),
		Value: payload,
	})
	if err != nil {
		p.log.Warn(ctx, "ledgerbus: publish outcome",
			logging.String("object_id", rec.ObjectID),
			logging.String("error", err.Error()),
		)
		return
	}
	p.log.Debug(ctx, "ledgerbus: outcome published", logging.String("object_id", rec.ObjectID))
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
