package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/search_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/transport/http/auth"
	"github.com/murkotick/catalog-service/internal/transport/http/respond"
)

type idResponse struct {
	ID string `json:"id"`
}

func (h *Handler) searchProducts(w http.ResponseWriter, r *http.Request) {
	filters, page, limit := searchQuery(r.URL.Query())
	result, err := h.queries.SearchProducts.Execute(r.Context(), search_products.Query{
		Filters:  filters,
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	view, err := h.queries.GetProduct.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.productForm(w, r)
	if !ok {
		return
	}
	id, err := h.commands.CreateProduct.Execute(r.Context(), create_product.Request{
		Name:               form.Name,
		Description:        form.Description,
		PriceConfiguration: form.priceConfiguration,
		Attributes:         form.attributes,
		TenantID:           form.TenantID,
		CategoryID:         form.CategoryID,
		IsPublish:          form.IsPublish,
		Image:              form.image,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Product Created", zap.String("id", id), zap.String("tenant", form.TenantID))
	respond.JSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	form, ok := h.productForm(w, r)
	if !ok {
		return
	}
	id, err := h.commands.UpdateProduct.Execute(r.Context(), update_product.Request{
		ID:                 chi.URLParam(r, "id"),
		Name:               form.Name,
		Description:        form.Description,
		PriceConfiguration: form.priceConfiguration,
		Attributes:         form.attributes,
		TenantID:           form.TenantID,
		CategoryID:         form.CategoryID,
		IsPublish:          form.IsPublish,
		Image:              form.image,
		Authorize:          auth.TenantGuard(r.Context(), domain.EntityProduct),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Product Updated", zap.String("id", id))
	respond.JSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := h.commands.DeleteProduct.Execute(r.Context(), delete_product.Request{
		ID:        chi.URLParam(r, "id"),
		Authorize: auth.TenantGuard(r.Context(), domain.EntityProduct),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Product Deleted", zap.String("id", id))
	respond.JSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handler) productForm(w http.ResponseWriter, r *http.Request) (*productFields, bool) {
	form, err := parseProductForm(r)
	if err != nil {
		h.formFailed(w, r, err)
		return nil, false
	}
	return form, true
}

// formFailed answers a request whose body could not be bound.
func (h *Handler) formFailed(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, "too_large", "request body exceeds the upload limit")
	case errors.Is(err, domain.ErrValidation):
		h.fail(w, r, err)
	default:
		badRequest(w, "malformed form body")
	}
}
