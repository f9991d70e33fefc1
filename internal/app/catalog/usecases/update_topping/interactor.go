package update_topping

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Request replaces name, price and tenant of topping ID. A nil Image keeps
// the current one.
type Request struct {
	ID        string
	Name      string
	Price     float64
	TenantID  string
	Image     []byte
	Authorize shared.Authorize
}

type Interactor struct {
	Toppings contracts.ToppingStore
	Storage  contracts.ObjectStorage
	After    *shared.BestEffort
	Clock    clock.Clock
	Topic    string
}

// NewInteractor constructs the interactor.
func NewInteractor(toppings contracts.ToppingStore, storage contracts.ObjectStorage, after *shared.BestEffort, clk clock.Clock, topic string) *Interactor {
	return &Interactor{
		Toppings: toppings,
		Storage:  storage,
		After:    after,
		Clock:    clk,
		Topic:    topic,
	}
}

func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	// 1. Load
	topping, err := it.Toppings.FindByID(ctx, req.ID)
	if err != nil {
		return "", shared.Persistence("find", domain.EntityTopping, err)
	}

	// 2. Owner check
	if req.Authorize != nil {
		if err := req.Authorize(topping.TenantID); err != nil {
			return "", err
		}
	}

	// 3. Replace details and validate
	if len(req.Image) > domain.MaxToppingImageBytes {
		return "", domain.ErrImageTooLarge
	}
	err = topping.ReplaceDetails(domain.ToppingDetails{
		Name:     req.Name,
		Price:    req.Price,
		TenantID: req.TenantID,
	}, it.Clock.Now())
	if err != nil {
		return "", err
	}

	// 4. Upload the new image before the record is switched over
	oldKey, newKey := topping.ImageKey, ""
	if len(req.Image) > 0 {
		newKey, err = shared.UploadImage(ctx, it.Storage, req.Image)
		if err != nil {
			return "", err
		}
		topping.AttachImage(newKey, it.Storage.ResolveURI(newKey))
	}

	// 5. Persist
	if _, err := it.Toppings.Replace(ctx, req.ID, topping); err != nil {
		it.After.RecordOrphan(shared.Detach(ctx), domain.EntityTopping, newKey, domain.OrphanReasonPersistFailed)
		return "", shared.Persistence("replace", domain.EntityTopping, err)
	}

	after := shared.Detach(ctx)

	// 6. Drop the replaced object
	if newKey != "" {
		it.After.DiscardImage(after, domain.EntityTopping, oldKey, domain.OrphanReasonReplaced)
	}

	// 7. Publish
	it.After.Publish(after, it.Topic, domain.EntityTopping,
		domain.NewToppingEvent(domain.ToppingUpdated, topping))

	return req.ID, nil
}
