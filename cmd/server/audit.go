package main

import (
	"context"
	"log/slog"

	"shareholder/internal/platform/config"
	"shareholder/internal/platform/kafka"
	"shareholder/internal/platform/metrics"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/audit/publisher"
	"shareholder/pkg/platform/audit/store"
	kafkastore "shareholder/pkg/platform/audit/store/kafka"
	"shareholder/pkg/platform/audit/store/logsink"
)

// buildAudit assembles the activity log: events always go to the service
// log and, when KAFKA_BROKERS is set, to the activity topic. Delivery is
// asynchronous through a bounded buffer.
func buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger, m *metrics.Metrics) (audit.Emitter, func(), error) {
	sinks := store.Fanout{logsink.New(log)}

	client, err := kafka.NewClient(ctx, cfg.Kafka)
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.Replication); err != nil {
			client.Close()
			return nil, nil, err
		}
		sinks = append(sinks, kafkastore.New(client, cfg.Kafka.Topic))
		log.Info("activity events published to kafka", "topic", cfg.Kafka.Topic)
	}

	pub := publisher.NewPublisher(sinks,
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(log),
	)
	closeFn := func() {
		pub.Close()
		if client != nil {
			client.Close()
		}
	}
	return countingEmitter{next: pub, metrics: m}, closeFn, nil
}

// countingEmitter counts events the publisher could not accept.
type countingEmitter struct {
	next    audit.Emitter
	metrics *metrics.Metrics
}

func (e countingEmitter) Emit(ctx context.Context, event audit.Event) error {
	err := e.next.Emit(ctx, event)
	if err != nil {
		e.metrics.IncrementAuditDropped()
	}
	return err
}
