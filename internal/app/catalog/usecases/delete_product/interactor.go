package delete_product

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
)

type Request struct {
	ID string

	// Authorize, when set, forces a load so the owner can be checked first.
	Authorize shared.Authorize
}

// Interactor removes a product, then its image, then announces the removal.
type Interactor struct {
	Products contracts.ProductStore
	After    *shared.BestEffort
	Topic    string
}

// NewInteractor constructs the interactor.
func NewInteractor(products contracts.ProductStore, after *shared.BestEffort, topic string) *Interactor {
	return &Interactor{Products: products, After: after, Topic: topic}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	// 1. Optional owner check
	if req.Authorize != nil {
		current, err := it.Products.FindByID(ctx, req.ID)
		if err != nil {
			return "", shared.Persistence("find", domain.EntityProduct, err)
		}
		if err := req.Authorize(current.TenantID); err != nil {
			return "", err
		}
	}

	// 2. Delete the record
	removed, err := it.Products.DeleteByID(ctx, req.ID)
	if err != nil {
		return "", shared.Persistence("delete", domain.EntityProduct, err)
	}

	after := shared.Detach(ctx)

	// 3. Best-effort image removal
	it.After.DiscardImage(after, domain.EntityProduct, removed.Image, domain.OrphanReasonDeleted)

	// 4. Publish, fire-and-forget
	it.After.Publish(after, it.Topic, domain.EntityProduct,
		domain.NewProductEvent(domain.ProductDeleted, removed))

	return req.ID, nil
}
