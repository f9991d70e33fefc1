package create_product

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Request is the application-level create-product request.
type Request struct {
	Name               string
	Description        string
	PriceConfiguration domain.PriceConfiguration
	Attributes         []domain.Attribute
	TenantID           string
	CategoryID         string
	IsPublish          bool
	Image              []byte
}

func (r Request) details() domain.ProductDetails {
	return domain.ProductDetails{
		Name:               r.Name,
		Description:        r.Description,
		PriceConfiguration: r.PriceConfiguration,
		Attributes:         r.Attributes,
		TenantID:           r.TenantID,
		CategoryID:         r.CategoryID,
		IsPublish:          r.IsPublish,
	}
}

// Interactor creates a product: upload, then persist, then publish.
type Interactor struct {
	Products contracts.ProductStore
	Storage  contracts.ObjectStorage
	After    *shared.BestEffort
	Clock    clock.Clock
	Topic    string
}

// NewInteractor constructs the interactor.
func NewInteractor(products contracts.ProductStore, storage contracts.ObjectStorage, after *shared.BestEffort, clk clock.Clock, topic string) *Interactor {
	return &Interactor{
		Products: products,
		Storage:  storage,
		After:    after,
		Clock:    clk,
		Topic:    topic,
	}
}

// Execute returns the id of the new product. Errors before the insert
// commits are returned; later failures are isolated.
func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	now := it.Clock.Now()

	// 1. Validate before touching any collaborator
	if len(req.Image) == 0 {
		return "", domain.ErrImageRequired
	}
	product, err := domain.NewProduct(req.details(), now)
	if err != nil {
		return "", err
	}

	// 2. Upload under a fresh key
	key, err := shared.UploadImage(ctx, it.Storage, req.Image)
	if err != nil {
		return "", err
	}
	product.Image = key

	// 3. Persist. The upload is not rolled back; the key goes to the ledger.
	id, err := it.Products.Insert(ctx, product)
	if err != nil {
		it.After.RecordOrphan(shared.Detach(ctx), domain.EntityProduct, key, domain.OrphanReasonPersistFailed)
		return "", shared.Persistence("insert", domain.EntityProduct, err)
	}
	product.ID = id

	// 4. Publish, fire-and-forget
	it.After.Publish(shared.Detach(ctx), it.Topic, domain.EntityProduct,
		domain.NewProductEvent(domain.ProductCreated, product))

	return id, nil
}
