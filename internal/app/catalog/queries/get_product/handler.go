package get_product

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
)

type Handler struct {
	products contracts.ProductStore
	storage  contracts.ObjectStorage
}

func NewHandler(products contracts.ProductStore, storage contracts.ObjectStorage) *Handler {
	return &Handler{products: products, storage: storage}
}

// Execute returns the product with its image resolved to a URI.
func (h *Handler) Execute(ctx context.Context, productID string) (*dto.ProductView, error) {
	p, err := h.products.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.Persistence("find", domain.EntityProduct, err)
	}
	return dto.NewProductView(p, h.storage.ResolveURI(p.Image), nil), nil
}
