package update_product

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Request replaces every detail of product ID. A nil Image keeps the current one.
type Request struct {
	ID                 string
	Name               string
	Description        string
	PriceConfiguration domain.PriceConfiguration
	Attributes         []domain.Attribute
	TenantID           string
	CategoryID         string
	IsPublish          bool
	Image              []byte

	// Authorize, when set, sees the stored owner before anything changes.
	Authorize shared.Authorize
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

// Interactor updates a product. With a new image the order is upload new,
// persist, delete old, so the record never points at a missing object.
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

func (it *Interactor) Execute(ctx context.Context, req Request) (string, error) {
	// 1. Load current state
	product, err := it.Products.FindByID(ctx, req.ID)
	if err != nil {
		return "", shared.Persistence("find", domain.EntityProduct, err)
	}

	// 2. Let the caller decide on the owner
	if req.Authorize != nil {
		if err := req.Authorize(product.TenantID); err != nil {
			return "", err
		}
	}

	// 3. Replace details wholesale
	if err := product.ReplaceDetails(req.details(), it.Clock.Now()); err != nil {
		return "", err
	}

	// 4. Upload the new image first
	oldKey, newKey := product.Image, ""
	if len(req.Image) > 0 {
		key, err := shared.UploadImage(ctx, it.Storage, req.Image)
		if err != nil {
			return "", err
		}
		newKey, product.Image = key, key
	}

	// 5. Persist
	if _, err := it.Products.Replace(ctx, req.ID, product); err != nil {
		it.After.RecordOrphan(shared.Detach(ctx), domain.EntityProduct, newKey, domain.OrphanReasonPersistFailed)
		return "", shared.Persistence("replace", domain.EntityProduct, err)
	}

	after := shared.Detach(ctx)

	// 6. Drop the replaced object
	if newKey != "" {
		it.After.DiscardImage(after, domain.EntityProduct, oldKey, domain.OrphanReasonReplaced)
	}

	// 7. Publish, fire-and-forget
	it.After.Publish(after, it.Topic, domain.EntityProduct,
		domain.NewProductEvent(domain.ProductUpdated, product))

	return req.ID, nil
}
