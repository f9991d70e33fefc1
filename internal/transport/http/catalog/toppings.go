package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_topping"
	"github.com/murkotick/catalog-service/internal/transport/http/auth"
	"github.com/murkotick/catalog-service/internal/transport/http/respond"
)

func (h *Handler) listToppings(w http.ResponseWriter, r *http.Request) {
	var tenant *string
	if s := r.URL.Query().Get("tenantId"); s != "" {
		tenant = &s
	}
	toppings, err := h.queries.ListToppings.Execute(r.Context(), tenant)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, toppings)
}

func (h *Handler) getTopping(w http.ResponseWriter, r *http.Request) {
	t, err := h.queries.GetTopping.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

func (h *Handler) createTopping(w http.ResponseWriter, r *http.Request) {
	form, err := parseToppingForm(r)
	if err != nil {
		h.formFailed(w, r, err)
		return
	}
	id, err := h.commands.CreateTopping.Execute(r.Context(), create_topping.Request{
		Name:     form.Name,
		Price:    form.Price,
		TenantID: form.TenantID,
		Image:    form.image,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Topping Created", zap.String("id", id), zap.String("tenant", form.TenantID))
	respond.JSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) updateTopping(w http.ResponseWriter, r *http.Request) {
	form, err := parseToppingForm(r)
	if err != nil {
		h.formFailed(w, r, err)
		return
	}
	id, err := h.commands.UpdateTopping.Execute(r.Context(), update_topping.Request{
		ID:        chi.URLParam(r, "id"),
		Name:      form.Name,
		Price:     form.Price,
		TenantID:  form.TenantID,
		Image:     form.image,
		Authorize: auth.TenantGuard(r.Context(), domain.EntityTopping),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Topping Updated", zap.String("id", id))
	respond.JSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handler) deleteTopping(w http.ResponseWriter, r *http.Request) {
	id, err := h.commands.DeleteTopping.Execute(r.Context(), delete_topping.Request{
		ID:        chi.URLParam(r, "id"),
		Authorize: auth.TenantGuard(r.Context(), domain.EntityTopping),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Topping Deleted", zap.String("id", id))
	respond.JSON(w, http.StatusOK, idResponse{ID: id})
}
