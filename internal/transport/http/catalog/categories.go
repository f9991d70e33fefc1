package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/transport/http/respond"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.commands.Categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.commands.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	body, err := parseCategoryBody(r)
	if err != nil {
		h.formFailed(w, r, err)
		return
	}
	id, err := h.commands.Categories.Create(r.Context(), body.details())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Category Created", zap.String("id", id))
	respond.JSON(w, http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := parseCategoryBody(r)
	if err != nil {
		h.formFailed(w, r, err)
		return
	}
	c, err := h.commands.Categories.Update(r.Context(), chi.URLParam(r, "id"), body.details())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Category Updated", zap.String("id", c.ID))
	respond.JSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := h.commands.Categories.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Category Deleted", zap.String("id", id))
	respond.JSON(w, http.StatusOK, idResponse{ID: id})
}
