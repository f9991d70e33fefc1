package delete_product

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/fakes"
	"github.com/murkotick/catalog-service/internal/app/catalog/store"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
)

type fixture struct {
	journal   *fakes.Journal
	storage   *fakes.Storage
	publisher *fakes.Publisher
	products  *fakes.ProductStore
	ledger    *store.MemoryOrphanLedger
	it        *Interactor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	products := store.NewMemoryProductStore(store.NewMemoryCategoryStore())
	_, err := products.Insert(ctx, &domain.Product{ID: "p1", Name: "Margherita", TenantID: "t1", CategoryID: "c1", Image: "img-1"})
	require.NoError(t, err)

	j := &fakes.Journal{}
	f := &fixture{
		journal:   j,
		storage:   fakes.NewStorage("https://host/bucket", j),
		publisher: fakes.NewPublisher(j),
		products:  &fakes.ProductStore{ProductStore: products, Journal: j},
		ledger:    store.NewMemoryOrphanLedger(),
	}
	require.NoError(t, f.storage.Memory.Upload(ctx, "img-1", []byte("x")))

	clk := clock.NewFake(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	after := shared.NewBestEffort(f.storage, f.publisher, f.ledger, clk, zap.NewNop(), nil)
	f.it = NewInteractor(f.products, after, "product")
	return f
}

func TestExecute_DeletesRecordThenImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	id, err := f.it.Execute(ctx, Request{ID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	assert.Equal(t, []string{"delete", "delete_image", "publish"}, f.journal.Steps())
	assert.Equal(t, []string{"img-1"}, f.storage.Deletes())
	assert.False(t, f.storage.Has("img-1"))

	_, err = f.products.FindByID(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	msgs := f.publisher.Messages()
	require.Len(t, msgs, 1)
	assert.JSONEq(t, `{"event_type":"PRODUCT_DELETE","data":{"id":"p1","tenantId":"t1","priceConfiguration":null}}`, string(msgs[0].Payload))
}

func TestExecute_NotFoundTouchesNothingElse(t *testing.T) {
	f := newFixture(t)

	_, err := f.it.Execute(context.Background(), Request{ID: "nope"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"delete"}, f.journal.Steps())
}

func TestExecute_ImageDeleteFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.storage.DeleteErr = errors.New("timeout")

	_, err := f.it.Execute(ctx, Request{ID: "p1"})
	require.NoError(t, err)

	assert.Len(t, f.storage.Deletes(), 1)
	pending, err := f.ledger.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "img-1", pending[0].Key)
	assert.Equal(t, domain.OrphanReasonDeleted, pending[0].Reason)
	assert.Len(t, f.publisher.Messages(), 1)
}

func TestExecute_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.products.DeleteErr = errors.New("unavailable")

	_, err := f.it.Execute(context.Background(), Request{ID: "p1"})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Empty(t, f.storage.Deletes())
	assert.Zero(t, f.publisher.Attempts())
}

func TestExecute_Authorize(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.it.Execute(context.Background(), Request{ID: "p1", Authorize: func(owner string) error {
			assert.Equal(t, "t1", owner)
			return nil
		}})
		require.NoError(t, err)
		assert.Equal(t, []string{"find", "delete", "delete_image", "publish"}, f.journal.Steps())
	})

	t.Run("denied", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.it.Execute(context.Background(), Request{ID: "p1", Authorize: func(owner string) error {
			return &domain.AuthorizationError{Entity: domain.EntityProduct, OwnerTenantID: owner}
		}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, []string{"find"}, f.journal.Steps())
	})
}
