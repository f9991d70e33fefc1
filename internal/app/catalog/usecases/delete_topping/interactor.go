package delete_topping

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
)

type Request struct {
	ID        string
	Authorize shared.Authorize
}

type Interactor struct {
	Toppings contracts.ToppingStore
	After    *shared.BestEffort
	Topic    string
}

// NewInteractor constructs the interactor.
func NewInteractor(toppings contracts.ToppingStore, after *shared.BestEffort, topic string) *Interactor {
	return &Interactor{Toppings: toppings, After: after, Topic: topic}
}

// Execute deletes the record first and its image only after that succeeded.
func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	if req.Authorize != nil {
		current, err := it.Toppings.FindByID(ctx, req.ID)
		if err != nil {
			return "", shared.Persistence("find", domain.EntityTopping, err)
		}
		if err := req.Authorize(current.TenantID); err != nil {
			return "", err
		}
	}

	removed, err := it.Toppings.DeleteByID(ctx, req.ID)
	if err != nil {
		return "", shared.Persistence("delete", domain.EntityTopping, err)
	}

	after := shared.Detach(ctx)
	it.After.DiscardImage(after, domain.EntityTopping, removed.ImageKey, domain.OrphanReasonDeleted)
	it.After.Publish(after, it.Topic, domain.EntityTopping,
		domain.NewToppingEvent(domain.ToppingDeleted, removed))

	return req.ID, nil
}
