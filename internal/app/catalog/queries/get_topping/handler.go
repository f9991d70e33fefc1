package get_topping

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

func (h *Handler) Execute(ctx context.Context, toppingID string) (*domain.Topping, error) {
	t, err := h.toppings.FindByID(ctx, toppingID)
	if err != nil {
		return nil, shared.Persistence("find", domain.EntityTopping, err)
	}
	return t, nil
}
