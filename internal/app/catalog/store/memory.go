package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

// table is a mutex-guarded map of records keyed by id. Values are cloned on
// the way in and out so callers never share memory with the store.
type table[T any] struct {
	mu     sync.RWMutex
	entity string
	rows   map[string]*T
	clone  func(*T) *T
	setID  func(*T, string)
	idOf   func(*T) string
}

func newTable[T any](entity string, clone func(*T) *T, idOf func(*T) string, setID func(*T, string)) *table[T] {
	return &table[T]{entity: entity, rows: map[string]*T{}, clone: clone, idOf: idOf, setID: setID}
}

func (t *table[T]) insert(v *T) string {
	rec := t.clone(v)
	id := t.idOf(rec)
	if id == "" {
		id = uuid.NewString()
		t.setID(rec, id)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = rec
	return id
}

func (t *table[T]) find(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	if !ok {
		return nil, domain.NewNotFound(t.entity, id)
	}
	return t.clone(rec), nil
}

func (t *table[T]) replace(id string, v *T) (*T, error) {
	rec := t.clone(v)
	t.setID(rec, id)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return nil, domain.NewNotFound(t.entity, id)
	}
	t.rows[id] = rec
	return t.clone(rec), nil
}

func (t *table[T]) remove(id string) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.rows[id]
	if !ok {
		return nil, domain.NewNotFound(t.entity, id)
	}
	delete(t.rows, id)
	return rec, nil
}

func (t *table[T]) all(keep func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0, len(t.rows))
	for _, rec := range t.rows {
		if keep == nil || keep(rec) {
			out = append(out, t.clone(rec))
		}
	}
	return out
}

func (t *table[T]) any(match func(*T) bool) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, rec := range t.rows {
		if match(rec) {
			return true
		}
	}
	return false
}

// MemoryCategoryStore is an in-process contracts.CategoryStore.
type MemoryCategoryStore struct {
	t *table[domain.Category]
}

func NewMemoryCategoryStore() *MemoryCategoryStore {
	return &MemoryCategoryStore{t: newTable(domain.EntityCategory,
		(*domain.Category).Clone,
		func(c *domain.Category) string { return c.ID },
		func(c *domain.Category, id string) { c.ID = id })}
}

func (s *MemoryCategoryStore) Insert(_ context.Context, c *domain.Category) (string, error) {
	return s.t.insert(c), nil
}

func (s *MemoryCategoryStore) FindByID(_ context.Context, id string) (*domain.Category, error) {
	return s.t.find(id)
}

func (s *MemoryCategoryStore) Replace(_ context.Context, id string, c *domain.Category) (*domain.Category, error) {
	return s.t.replace(id, c)
}

func (s *MemoryCategoryStore) DeleteByID(_ context.Context, id string) (*domain.Category, error) {
	return s.t.remove(id)
}

func (s *MemoryCategoryStore) List(_ context.Context) ([]*domain.Category, error) {
	out := s.t.all(nil)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// MemoryProductStore is an in-process contracts.ProductStore. Joins read the
// category store it was built with.
type MemoryProductStore struct {
	t          *table[domain.Product]
	categories *MemoryCategoryStore
}

func NewMemoryProductStore(categories *MemoryCategoryStore) *MemoryProductStore {
	return &MemoryProductStore{
		t: newTable(domain.EntityProduct,
			(*domain.Product).Clone,
			func(p *domain.Product) string { return p.ID },
			func(p *domain.Product, id string) { p.ID = id }),
		categories: categories,
	}
}

func (s *MemoryProductStore) Insert(_ context.Context, p *domain.Product) (string, error) {
	return s.t.insert(p), nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	return s.t.find(id)
}

func (s *MemoryProductStore) Replace(_ context.Context, id string, p *domain.Product) (*domain.Product, error) {
	return s.t.replace(id, p)
}

func (s *MemoryProductStore) DeleteByID(_ context.Context, id string) (*domain.Product, error) {
	return s.t.remove(id)
}

func (s *MemoryProductStore) AggregatePaginate(ctx context.Context, match contracts.ProductMatch, join contracts.JoinSpec, page, pageSize int) ([]*dto.ProductRow, int, error) {
	page, pageSize = contracts.NormalizePage(page, pageSize)
	q := strings.ToLower(match.NameContains)
	matched := s.t.all(func(p *domain.Product) bool {
		switch {
		case q != "" && !strings.Contains(strings.ToLower(p.Name), q):
			return false
		case match.TenantID != nil && p.TenantID != *match.TenantID:
			return false
		case match.CategoryID != nil && p.CategoryID != *match.CategoryID:
			return false
		case match.IsPublish != nil && p.IsPublish != *match.IsPublish:
			return false
		}
		return true
	})

	rows := make([]*dto.ProductRow, 0, len(matched))
	for _, p := range matched {
		r := &dto.ProductRow{Product: p}
		if join.Category {
			c, err := s.categories.FindByID(ctx, p.CategoryID)
			if err != nil {
				continue
			}
			r.Category = c
		}
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Product, rows[j].Product
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := len(rows)
	start, ok := contracts.PageOffset(page, pageSize)
	if !ok || start >= total {
		return []*dto.ProductRow{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return rows[start:end], total, nil
}

func (s *MemoryProductStore) ReferencesImage(_ context.Context, key string) (bool, error) {
	return s.t.any(func(p *domain.Product) bool { return p.Image == key }), nil
}

// MemoryToppingStore is an in-process contracts.ToppingStore.
type MemoryToppingStore struct {
	t *table[domain.Topping]
}

func NewMemoryToppingStore() *MemoryToppingStore {
	return &MemoryToppingStore{t: newTable(domain.EntityTopping,
		(*domain.Topping).Clone,
		func(t *domain.Topping) string { return t.ID },
		func(t *domain.Topping, id string) { t.ID = id })}
}

func (s *MemoryToppingStore) Insert(_ context.Context, t *domain.Topping) (string, error) {
	return s.t.insert(t), nil
}

func (s *MemoryToppingStore) FindByID(_ context.Context, id string) (*domain.Topping, error) {
	return s.t.find(id)
}

func (s *MemoryToppingStore) Replace(_ context.Context, id string, t *domain.Topping) (*domain.Topping, error) {
	return s.t.replace(id, t)
}

func (s *MemoryToppingStore) DeleteByID(_ context.Context, id string) (*domain.Topping, error) {
	return s.t.remove(id)
}

func (s *MemoryToppingStore) List(_ context.Context, tenantID *string) ([]*domain.Topping, error) {
	out := s.t.all(func(t *domain.Topping) bool {
		return tenantID == nil || t.TenantID == *tenantID
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryToppingStore) ReferencesImage(_ context.Context, key string) (bool, error) {
	return s.t.any(func(t *domain.Topping) bool { return t.ImageKey == key }), nil
}

// MemoryOrphanLedger is an in-process contracts.OrphanLedger.
type MemoryOrphanLedger struct {
	t *table[domain.OrphanImage]
}

func NewMemoryOrphanLedger() *MemoryOrphanLedger {
	return &MemoryOrphanLedger{t: newTable("orphan image",
		(*domain.OrphanImage).Clone,
		func(o *domain.OrphanImage) string { return o.Key },
		func(o *domain.OrphanImage, key string) { o.Key = key })}
}

func (l *MemoryOrphanLedger) Record(_ context.Context, o *domain.OrphanImage) error {
	if _, err := l.t.find(o.Key); err == nil {
		return nil
	}
	l.t.insert(o)
	return nil
}

func (l *MemoryOrphanLedger) Pending(_ context.Context, limit int) ([]*domain.OrphanImage, error) {
	out := l.t.all(nil)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts < out[j].Attempts
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *MemoryOrphanLedger) MarkAttempt(_ context.Context, key string, at time.Time) error {
	o, err := l.t.find(key)
	if err != nil {
		return err
	}
	o.Attempts++
	o.LastAttemptAt = &at
	_, err = l.t.replace(key, o)
	return err
}

func (l *MemoryOrphanLedger) Resolve(_ context.Context, key string) error {
	if _, err := l.t.remove(key); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

var (
	_ contracts.ProductStore  = (*MemoryProductStore)(nil)
	_ contracts.ToppingStore  = (*MemoryToppingStore)(nil)
	_ contracts.CategoryStore = (*MemoryCategoryStore)(nil)
	_ contracts.OrphanLedger  = (*MemoryOrphanLedger)(nil)

	_ contracts.ProductStore  = (*SpannerProductStore)(nil)
	_ contracts.ToppingStore  = (*SpannerToppingStore)(nil)
	_ contracts.CategoryStore = (*SpannerCategoryStore)(nil)
	_ contracts.OrphanLedger  = (*SpannerOrphanLedger)(nil)
)
