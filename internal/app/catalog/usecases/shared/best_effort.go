package shared

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Stages of post-persist work whose failures are isolated from the caller.
const (
	StagePublish      = "publish"
	StageDeleteImage  = "delete_image"
	StageRecordOrphan = "record_orphan"
)

// IsolatedFailuresMetric counts failures swallowed after a successful persist.
const IsolatedFailuresMetric = "catalog_isolated_failures_total"

// Topics maps entities to broker topics.
type Topics struct {
	Product string
	Topping string
}

// BestEffort runs the steps that follow a successful persist. None of its
// methods return an error: failures are logged, counted and, for images,
// handed to the orphan ledger.
type BestEffort struct {
	Storage   contracts.ObjectStorage
	Publisher contracts.EventPublisher
	Ledger    contracts.OrphanLedger
	Clock     clock.Clock
	Logger    *zap.Logger

	failures metric.Int64Counter
}

// NewBestEffort wires the collaborators. A nil meter disables counting and a
// nil logger discards log output.
func NewBestEffort(storage contracts.ObjectStorage, publisher contracts.EventPublisher, ledger contracts.OrphanLedger, clk clock.Clock, logger *zap.Logger, meter metric.Meter) *BestEffort {
	if logger == nil {
		logger = zap.NewNop()
	}
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("catalog")
	}
	failures, err := meter.Int64Counter(IsolatedFailuresMetric,
		metric.WithDescription("Failures after a successful catalog write that were not returned to the caller"),
	)
	if err != nil {
		logger.Warn("isolated failure counter unavailable", zap.Error(err))
		failures, _ = noop.NewMeterProvider().Meter("catalog").Int64Counter(IsolatedFailuresMetric)
	}
	return &BestEffort{
		Storage:   storage,
		Publisher: publisher,
		Ledger:    ledger,
		Clock:     clk,
		Logger:    logger,
		failures:  failures,
	}
}

// Publish serializes ev and sends it to topic keyed by the entity id.
func (b *BestEffort) Publish(ctx context.Context, topic, entity string, ev *domain.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err == nil {
		err = b.Publisher.Publish(ctx, topic, payload, ev.Key())
	}
	if err != nil {
		err = &domain.PublishError{Topic: topic, Key: ev.Key(), Err: err}
		b.fail(ctx, StagePublish, entity, err,
			zap.String("event_type", string(ev.EventType)),
			zap.String("id", ev.Key()),
		)
	}
}

// DiscardImage deletes an object that no record references any more. When the
// delete fails the key is left to the orphan sweeper.
func (b *BestEffort) DiscardImage(ctx context.Context, entity, key, reason string) {
	if key == "" {
		return
	}
	if err := b.Storage.Delete(ctx, key); err != nil {
		err = &domain.StorageError{Op: "delete", Key: key, Err: err}
		b.fail(ctx, StageDeleteImage, entity, err, zap.String("key", key))
		b.RecordOrphan(ctx, entity, key, reason)
	}
}

// RecordOrphan registers an unreferenced key with the ledger.
func (b *BestEffort) RecordOrphan(ctx context.Context, entity, key, reason string) {
	if b.Ledger == nil || key == "" {
		return
	}
	err := b.Ledger.Record(ctx, &domain.OrphanImage{
		Key:        key,
		Entity:     entity,
		Reason:     reason,
		RecordedAt: b.Clock.Now(),
	})
	if err != nil {
		b.fail(ctx, StageRecordOrphan, entity, err, zap.String("key", key))
	}
}

func (b *BestEffort) fail(ctx context.Context, stage, entity string, err error, fields ...zap.Field) {
	b.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("entity", entity),
	))
	b.Logger.Warn("isolated failure after persist",
		append(fields, zap.String("stage", stage), zap.String("entity", entity), zap.Error(err))...)
}
