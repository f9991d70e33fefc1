package committer

import (
	"context"
	"errors"

	"cloud.google.com/go/spanner"
)

var errNilClient = errors.New("committer: spanner client is nil")

// Adapter applies plans inside Spanner read-write transactions.
type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply commits the plan atomically. An empty plan is a no-op.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan.IsEmpty() {
		return nil
	}
	return a.ApplyAfter(ctx, func(context.Context, *spanner.ReadWriteTransaction) (*Plan, error) {
		return plan, nil
	})
}

// ApplyAfter runs build inside a read-write transaction and buffers the plan it
// returns. build may read through tx to check preconditions; returning an error
// aborts the transaction. build can be retried by Spanner and must not have
// side effects outside tx.
func (a *Adapter) ApplyAfter(ctx context.Context, build func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*Plan, error)) error {
	if a.client == nil {
		return errNilClient
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		plan, err := build(ctx, tx)
		if err != nil {
			return err
		}
		if plan.IsEmpty() {
			return nil
		}
		return tx.BufferWrite(plan.Mutations())
	})
	return err
}
