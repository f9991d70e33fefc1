// Package catalog exposes the catalog core over HTTP. Reads are public;
// writes require an admin or manager token and are tenant-checked.
package catalog

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_toppings"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/search_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/manage_categories"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_topping"
	"github.com/murkotick/catalog-service/internal/transport/http/auth"
)

// Commands groups the write interactors.
type Commands struct {
	CreateProduct *create_product.Interactor
	UpdateProduct *update_product.Interactor
	DeleteProduct *delete_product.Interactor
	CreateTopping *create_topping.Interactor
	UpdateTopping *update_topping.Interactor
	DeleteTopping *delete_topping.Interactor
	Categories    *manage_categories.Service
}

// Queries groups the read handlers.
type Queries struct {
	SearchProducts *search_products.Handler
	GetProduct     *get_product.Handler
	GetTopping     *get_topping.Handler
	ListToppings   *list_toppings.Handler
}

type Handler struct {
	commands Commands
	queries  Queries
	logger   *zap.Logger
}

func NewHandler(commands Commands, queries Queries, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{commands: commands, queries: queries, logger: logger}
}

// Routes mounts the catalog endpoints on r.
func (h *Handler) Routes(r chi.Router, v *auth.Verifier) {
	writers := auth.RequireRoles(auth.RoleAdmin, auth.RoleManager)
	admins := auth.RequireRoles(auth.RoleAdmin)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.searchProducts)
		r.Get("/{id}", h.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(v.Authenticate, writers)
			r.Post("/", h.createProduct)
			r.Patch("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})

	r.Route("/toppings", func(r chi.Router) {
		r.Get("/", h.listToppings)
		r.Get("/{id}", h.getTopping)
		r.Group(func(r chi.Router) {
			r.Use(v.Authenticate, writers)
			r.Post("/", h.createTopping)
			r.Patch("/{id}", h.updateTopping)
			r.Delete("/{id}", h.deleteTopping)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{id}", h.getCategory)
		r.Group(func(r chi.Router) {
			r.Use(v.Authenticate, admins)
			r.Post("/", h.createCategory)
			r.Patch("/{id}", h.updateCategory)
			r.Delete("/{id}", h.deleteCategory)
		})
	})
}
