package update_product

import (
	"context"
	"encoding/json"
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

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	storage   *fakes.Storage
	publisher *fakes.Publisher
	products  *fakes.ProductStore
	ledger    *store.MemoryOrphanLedger
	clock     *clock.FakeClock
	it        *Interactor
}

// newFixture seeds product "p1" of tenant t1 whose image is stored as "old-key".
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		storage:   fakes.NewStorage("https://host/bucket", nil),
		publisher: fakes.NewPublisher(nil),
		products:  &fakes.ProductStore{ProductStore: store.NewMemoryProductStore(store.NewMemoryCategoryStore())},
		ledger:    store.NewMemoryOrphanLedger(),
		clock:     clock.NewFake(created),
	}
	_, err := f.products.Insert(ctx, &domain.Product{
		ID:         "p1",
		Name:       "Margherita",
		TenantID:   "t1",
		CategoryID: "c1",
		Image:      "old-key",
		CreatedAt:  created,
		UpdatedAt:  created,
	})
	require.NoError(t, err)
	require.NoError(t, f.storage.Memory.Upload(ctx, "old-key", []byte("old")))

	after := shared.NewBestEffort(f.storage, f.publisher, f.ledger, f.clock, zap.NewNop(), nil)
	f.it = NewInteractor(f.products, f.storage, after, f.clock, "product")
	f.clock.Advance(time.Hour)
	return f
}

// journal attaches a fresh journal to every collaborator.
func (f *fixture) journal() *fakes.Journal {
	j := &fakes.Journal{}
	f.storage.Journal = j
	f.publisher.Journal = j
	f.products.Journal = j
	return j
}

func validRequest() Request {
	return Request{
		ID:          "p1",
		Name:        "Marinara",
		Description: "no cheese",
		TenantID:    "t1",
		CategoryID:  "c2",
		IsPublish:   true,
		PriceConfiguration: domain.PriceConfiguration{
			"size": {PriceType: domain.PriceTypeBase, AvailableOptions: map[string]float64{"large": 600}},
		},
	}
}

func TestExecute_WithoutImageKeepsReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	j := f.journal()

	id, err := f.it.Execute(ctx, validRequest())
	require.NoError(t, err)
	assert.Equal(t, "p1", id)
	assert.Equal(t, []string{"find", "replace", "publish"}, j.Steps())

	got, err := f.products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Marinara", got.Name)
	assert.Equal(t, "no cheese", got.Description)
	assert.Equal(t, "c2", got.CategoryID)
	assert.True(t, got.IsPublish)
	assert.Equal(t, "old-key", got.Image)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), got.UpdatedAt)

	assert.Empty(t, f.storage.Uploads())
	assert.Empty(t, f.storage.Deletes())
}

func TestExecute_NewImageSwapsInOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	j := f.journal()

	req := validRequest()
	req.Image = []byte("new")
	_, err := f.it.Execute(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"find", "upload", "replace", "delete_image", "publish"}, j.Steps())

	got, err := f.products.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, f.storage.Uploads(), 1)
	newKey := f.storage.Uploads()[0]
	assert.Equal(t, newKey, got.Image)
	assert.NotEqual(t, "old-key", newKey)

	assert.Equal(t, []string{"old-key"}, f.storage.Deletes())
	assert.False(t, f.storage.Has("old-key"))
	assert.True(t, f.storage.Has(newKey))
}

func TestExecute_OldImageDeleteFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.storage.DeleteErr = errors.New("timeout")

	req := validRequest()
	req.Image = []byte("new")
	_, err := f.it.Execute(ctx, req)
	require.NoError(t, err)

	got, err := f.products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.NotEqual(t, "old-key", got.Image)

	pending, err := f.ledger.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "old-key", pending[0].Key)
	assert.Equal(t, domain.OrphanReasonReplaced, pending[0].Reason)
	assert.Len(t, f.publisher.Messages(), 1)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture(t)
	j := f.journal()

	req := validRequest()
	req.ID = "missing"
	req.Image = []byte("new")
	_, err := f.it.Execute(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, []string{"find"}, j.Steps())
}

func TestExecute_AuthorizeSeesOwnerAndCanStop(t *testing.T) {
	f := newFixture(t)
	j := f.journal()

	var seen string
	req := validRequest()
	req.Image = []byte("new")
	req.Authorize = func(owner string) error {
		seen = owner
		return &domain.AuthorizationError{Entity: domain.EntityProduct, OwnerTenantID: owner}
	}

	_, err := f.it.Execute(context.Background(), req)

	assert.Equal(t, "t1", seen)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, []string{"find"}, j.Steps())
}

func TestExecute_InvalidDetailsStopBeforeUpload(t *testing.T) {
	f := newFixture(t)
	j := f.journal()

	req := validRequest()
	req.Name = ""
	req.Image = []byte("new")
	_, err := f.it.Execute(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"find"}, j.Steps())
}

func TestExecute_UploadFailureLeavesRecordUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.storage.UploadErr = errors.New("denied")

	req := validRequest()
	req.Image = []byte("new")
	_, err := f.it.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrStorage)

	got, err := f.products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Margherita", got.Name)
	assert.Equal(t, "old-key", got.Image)
	assert.Empty(t, f.publisher.Messages())
}

func TestExecute_PersistFailureKeepsOldImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.products.ReplaceErr = errors.New("aborted")

	req := validRequest()
	req.Image = []byte("new")
	_, err := f.it.Execute(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	assert.Empty(t, f.storage.Deletes())
	assert.True(t, f.storage.Has("old-key"))

	pending, err := f.ledger.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, f.storage.Uploads()[0], pending[0].Key)
}

func TestExecute_PublishFailureKeepsUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publisher.Err = errors.New("broker down")

	_, err := f.it.Execute(ctx, validRequest())
	require.NoError(t, err)

	got, err := f.products.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Marinara", got.Name)
}

func TestExecute_PublishesUpdatedPricing(t *testing.T) {
	f := newFixture(t)

	_, err := f.it.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	msgs := f.publisher.Messages()
	require.Len(t, msgs, 1)
	var env struct {
		EventType string                  `json:"event_type"`
		Data      domain.ProductEventData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &env))
	assert.Equal(t, "PRODUCT_UPDATE", env.EventType)
	assert.Equal(t, "p1", env.Data.ID)
	assert.Equal(t, 600.0, env.Data.PriceConfiguration["size"].AvailableOptions["large"])
}
