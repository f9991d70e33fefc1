package sweep_orphans

import (
	"context"

	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Result summarizes one sweep. Kept counts entries dropped from the ledger
// without deleting the object because a record still points at it.
type Result struct {
	Resolved int
	Kept     int
	Failed   int
}

// Interactor deletes objects recorded in the orphan ledger. A store write
// can fail after it committed, so a recorded key may still be in use; every
// key is checked against the Referrers before its object is deleted.
type Interactor struct {
	Ledger    contracts.OrphanLedger
	Storage   contracts.ObjectStorage
	Referrers []contracts.ImageReferrer
	Clock     clock.Clock
	Logger    *zap.Logger
	BatchSize int
}

// NewInteractor constructs the interactor.
func NewInteractor(ledger contracts.OrphanLedger, storage contracts.ObjectStorage, referrers []contracts.ImageReferrer, clk clock.Clock, logger *zap.Logger, batchSize int) *Interactor {
	if batchSize < 1 {
		batchSize = 100
	}
	return &Interactor{
		Ledger:    ledger,
		Storage:   storage,
		Referrers: referrers,
		Clock:     clk,
		Logger:    logger,
		BatchSize: batchSize,
	}
}

// Execute processes one batch. A failing object stays in the ledger with its
// attempt count raised and is retried on a later sweep.
func (it *Interactor) Execute(ctx context.Context) (Result, error) {
	var res Result

	// 1. Read a batch
	pending, err := it.Ledger.Pending(ctx, it.BatchSize)
	if err != nil {
		return res, err
	}

	for _, o := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// 2. Skip keys a record still points at
		inUse, err := it.referenced(ctx, o.Key)
		if err != nil {
			res.Failed++
			it.Logger.Warn("orphan reference check failed",
				zap.String("key", o.Key),
				zap.String("entity", o.Entity),
				zap.Error(err),
			)
			if err := it.Ledger.MarkAttempt(ctx, o.Key, it.Clock.Now()); err != nil {
				return res, err
			}
			continue
		}
		if inUse {
			it.Logger.Info("orphan still referenced, keeping object",
				zap.String("key", o.Key),
				zap.String("entity", o.Entity),
				zap.String("reason", o.Reason),
			)
			if err := it.Ledger.Resolve(ctx, o.Key); err != nil {
				return res, err
			}
			res.Kept++
			continue
		}

		// 3. Delete the object
		if err := it.Storage.Delete(ctx, o.Key); err != nil {
			res.Failed++
			it.Logger.Warn("orphan delete failed",
				zap.String("key", o.Key),
				zap.String("entity", o.Entity),
				zap.Int64("attempts", o.Attempts+1),
				zap.Error(err),
			)
			if err := it.Ledger.MarkAttempt(ctx, o.Key, it.Clock.Now()); err != nil {
				return res, err
			}
			continue
		}

		// 4. Forget the entry
		if err := it.Ledger.Resolve(ctx, o.Key); err != nil {
			return res, err
		}
		res.Resolved++
	}

	if len(pending) > 0 {
		it.Logger.Info("orphan sweep finished",
			zap.Int("resolved", res.Resolved),
			zap.Int("kept", res.Kept),
			zap.Int("failed", res.Failed),
		)
	}
	return res, nil
}

func (it *Interactor) referenced(ctx context.Context, key string) (bool, error) {
	for _, r := range it.Referrers {
		ok, err := r.ReferencesImage(ctx, key)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
