package create_topping

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

type Request struct {
	Name     string
	Price    float64
	TenantID string
	Image    []byte
}

// Interactor creates a topping. Toppings store the resolved image URI next
// to the key, so the URI is fixed at write time.
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
	// 1. Validate
	if len(req.Image) == 0 {
		return "", domain.ErrImageRequired
	}
	if len(req.Image) > domain.MaxToppingImageBytes {
		return "", domain.ErrImageTooLarge
	}
	topping, err := domain.NewTopping(domain.ToppingDetails{
		Name:     req.Name,
		Price:    req.Price,
		TenantID: req.TenantID,
	}, it.Clock.Now())
	if err != nil {
		return "", err
	}

	// 2. Upload
	key, err := shared.UploadImage(ctx, it.Storage, req.Image)
	if err != nil {
		return "", err
	}
	topping.AttachImage(key, it.Storage.ResolveURI(key))

	// 3. Persist
	id, err := it.Toppings.Insert(ctx, topping)
	if err != nil {
		it.After.RecordOrphan(shared.Detach(ctx), domain.EntityTopping, key, domain.OrphanReasonPersistFailed)
		return "", shared.Persistence("insert", domain.EntityTopping, err)
	}
	topping.ID = id

	// 4. Publish
	it.After.Publish(shared.Detach(ctx), it.Topic, domain.EntityTopping,
		domain.NewToppingEvent(domain.ToppingCreated, topping))

	return id, nil
}
