package manage_categories

import (
	"context"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

// Service is plain CRUD over categories. Categories carry no image and emit
// no events.
type Service struct {
	Categories contracts.CategoryStore
	Clock      clock.Clock
}

func NewService(categories contracts.CategoryStore, clk clock.Clock) *Service {
	return &Service{Categories: categories, Clock: clk}
}

func (s *Service) Create(ctx context.Context, d domain.CategoryDetails) (string, error) {
	c, err := domain.NewCategory(d, s.Clock.Now())
	if err != nil {
		return "", err
	}
	id, err := s.Categories.Insert(ctx, c)
	return id, shared.Persistence("insert", domain.EntityCategory, err)
}

// Update replaces name, price schema and attribute schema of category id.
func (s *Service) Update(ctx context.Context, id string, d domain.CategoryDetails) (*domain.Category, error) {
	c, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, shared.Persistence("find", domain.EntityCategory, err)
	}
	if err := c.ReplaceDetails(d, s.Clock.Now()); err != nil {
		return nil, err
	}
	updated, err := s.Categories.Replace(ctx, id, c)
	if err != nil {
		return nil, shared.Persistence("replace", domain.EntityCategory, err)
	}
	return updated, nil
}

// Delete removes the category. Products that reference it drop out of
// joined searches.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if _, err := s.Categories.DeleteByID(ctx, id); err != nil {
		return "", shared.Persistence("delete", domain.EntityCategory, err)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, shared.Persistence("find", domain.EntityCategory, err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Category, error) {
	out, err := s.Categories.List(ctx)
	if err != nil {
		return nil, shared.Persistence("list", domain.EntityCategory, err)
	}
	return out, nil
}
