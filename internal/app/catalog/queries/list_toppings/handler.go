package list_toppings

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
)

type Handler struct {
	toppings contracts.ToppingStore
}

func NewHandler(toppings contracts.ToppingStore) *Handler {
	return &Handler{toppings: toppings}
}

// Execute lists toppings newest first. A nil tenantID lists every tenant.
func (h *Handler) Execute(ctx context.Context, tenantID *string) ([]*domain.Topping, error) {
	out, err := h.toppings.List(ctx, tenantID)
	if err != nil {
		return nil, shared.Persistence("list", domain.EntityTopping, err)
	}
	if out == nil {
		out = []*domain.Topping{}
	}
	return out, nil
}
