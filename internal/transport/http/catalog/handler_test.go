package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/fakes"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_toppings"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/search_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/store"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/manage_categories"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_topping"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
	"github.com/murkotick/catalog-service/internal/transport/http/auth"
	"github.com/murkotick/catalog-service/internal/transport/http/respond"
)

type testServer struct {
	srv        *httptest.Server
	verifier   *auth.Verifier
	categories *store.MemoryCategoryStore
	products   *store.MemoryProductStore
	toppings   *store.MemoryToppingStore
	storage    *fakes.Storage
	publisher  *fakes.Publisher
	categoryID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		verifier:   auth.NewVerifier("test-secret"),
		categories: store.NewMemoryCategoryStore(),
		toppings:   store.NewMemoryToppingStore(),
		storage:    fakes.NewStorage("https://cdn.test/catalog", nil),
		publisher:  fakes.NewPublisher(nil),
	}
	ts.products = store.NewMemoryProductStore(ts.categories)

	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	after := shared.NewBestEffort(ts.storage, ts.publisher, store.NewMemoryOrphanLedger(), clk, zap.NewNop(), nil)
	categories := manage_categories.NewService(ts.categories, clk)

	id, err := categories.Create(context.Background(), domain.CategoryDetails{
		Name: "Pizza",
		PriceConfiguration: map[string]domain.PriceSchema{
			"size": {PriceType: domain.PriceTypeBase, AvailableOptions: []string{"small", "large"}},
		},
	})
	require.NoError(t, err)
	ts.categoryID = id

	h := NewHandler(Commands{
		CreateProduct: create_product.NewInteractor(ts.products, ts.storage, after, clk, "product"),
		UpdateProduct: update_product.NewInteractor(ts.products, ts.storage, after, clk, "product"),
		DeleteProduct: delete_product.NewInteractor(ts.products, after, "product"),
		CreateTopping: create_topping.NewInteractor(ts.toppings, ts.storage, after, clk, "topping"),
		UpdateTopping: update_topping.NewInteractor(ts.toppings, ts.storage, after, clk, "topping"),
		DeleteTopping: delete_topping.NewInteractor(ts.toppings, after, "topping"),
		Categories:    categories,
	}, Queries{
		SearchProducts: search_products.NewHandler(ts.products, ts.storage),
		GetProduct:     get_product.NewHandler(ts.products, ts.storage),
		GetTopping:     get_topping.NewHandler(ts.toppings),
		ListToppings:   list_toppings.NewHandler(ts.toppings),
	}, zap.NewNop())

	r := chi.NewRouter()
	h.Routes(r, ts.verifier)
	ts.srv = httptest.NewServer(r)
	t.Cleanup(ts.srv.Close)
	return ts
}

func (ts *testServer) token(t *testing.T, role, tenant string) string {
	t.Helper()
	raw, err := ts.verifier.Sign(&auth.Claims{
		Role:   role,
		Tenant: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return raw
}

func (ts *testServer) do(t *testing.T, method, path, token, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (string, io.Reader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "image.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType(), &buf
}

func (ts *testServer) productFields(tenant string) map[string]string {
	return map[string]string{
		"name":               "Margherita",
		"description":        "Tomato and mozzarella",
		"priceConfiguration": `{"size":{"priceType":"base","availableOptions":{"small":400,"large":700}}}`,
		"attributes":         `[{"name":"isHit","value":"yes"}]`,
		"tenantId":           tenant,
		"categoryId":         ts.categoryID,
		"isPublish":          "true",
	}
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestProducts_CreateSearchGet(t *testing.T) {
	ts := newTestServer(t)
	ct, body := multipartBody(t, ts.productFields("t1"), []byte("png"))

	resp := ts.do(t, http.MethodPost, "/products", ts.token(t, auth.RoleManager, "t1"), ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[idResponse](t, resp)
	require.NotEmpty(t, created.ID)

	resp = ts.do(t, http.MethodGet, "/products?tenantId=t1&isPublish=true&limit=5", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ProductPage](t, resp)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.PageSize)
	require.Len(t, page.Data, 1)
	assert.Equal(t, created.ID, page.Data[0].ID)
	assert.True(t, strings.HasPrefix(page.Data[0].Image, "https://cdn.test/catalog/"))
	require.NotNil(t, page.Data[0].Category)
	assert.Equal(t, "Pizza", page.Data[0].Category.Name)

	resp = ts.do(t, http.MethodGet, "/products/"+created.ID, "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[dto.ProductView](t, resp)
	assert.Equal(t, "Margherita", view.Name)
	assert.Equal(t, 700.0, view.PriceConfiguration["size"].AvailableOptions["large"])

	require.Len(t, ts.publisher.Messages(), 1)
	assert.Equal(t, "product", ts.publisher.Messages()[0].Topic)
}

func TestProducts_SearchEmpty(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/products?page=abc", "", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ProductPage](t, resp)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestProducts_SearchHugePaging(t *testing.T) {
	ts := newTestServer(t)
	ct, body := multipartBody(t, ts.productFields("t1"), []byte("png"))
	resp := ts.do(t, http.MethodPost, "/products", ts.token(t, auth.RoleManager, "t1"), ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/products?page=9223372036854775807&limit=10", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ProductPage](t, resp)
	assert.Equal(t, 1, page.Total)
	assert.Empty(t, page.Data)

	resp = ts.do(t, http.MethodGet, "/products?limit=9223372036854775807", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[dto.ProductPage](t, resp)
	assert.Equal(t, contracts.MaxPageSize, page.PageSize)
	assert.Len(t, page.Data, 1)
}

func TestProducts_SearchIsPublish(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.token(t, auth.RoleManager, "t1")
	for _, published := range []string{"true", "false"} {
		fields := ts.productFields("t1")
		fields["isPublish"] = published
		ct, body := multipartBody(t, fields, []byte("png"))
		resp := ts.do(t, http.MethodPost, "/products", manager, ct, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	cases := []struct {
		query string
		total int
	}{
		{"isPublish=true", 1},
		{"isPublish=false", 2},
		{"isPublish=maybe", 2},
		{"", 2},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			resp := ts.do(t, http.MethodGet, "/products?"+tc.query, "", "", nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			page := decode[dto.ProductPage](t, resp)
			assert.Equal(t, tc.total, page.Total)
		})
	}
}

func TestProducts_CreateRejections(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.token(t, auth.RoleManager, "t1")

	cases := []struct {
		name   string
		token  string
		mutate func(map[string]string)
		image  []byte
		status int
		typ    string
	}{
		{name: "no token", token: "", image: []byte("png"), status: http.StatusUnauthorized, typ: "unauthorized"},
		{name: "customer", token: ts.token(t, auth.RoleCustomer, "t1"), image: []byte("png"), status: http.StatusForbidden, typ: "forbidden"},
		{name: "missing image", token: manager, status: http.StatusBadRequest, typ: "validation"},
		{name: "missing name", token: manager, image: []byte("png"), mutate: func(f map[string]string) { delete(f, "name") }, status: http.StatusBadRequest, typ: "validation"},
		{name: "bad price json", token: manager, image: []byte("png"), mutate: func(f map[string]string) { f["priceConfiguration"] = "{" }, status: http.StatusBadRequest, typ: "validation"},
		{name: "long name", token: manager, image: []byte("png"), mutate: func(f map[string]string) { f["name"] = strings.Repeat("x", 256) }, status: http.StatusBadRequest, typ: "validation"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := ts.productFields("t1")
			if tc.mutate != nil {
				tc.mutate(fields)
			}
			ct, body := multipartBody(t, fields, tc.image)

			resp := ts.do(t, http.MethodPost, "/products", tc.token, ct, body)

			assert.Equal(t, tc.status, resp.StatusCode)
			errs := decode[respond.ErrorBody](t, resp)
			require.Len(t, errs.Errors, 1)
			assert.Equal(t, tc.typ, errs.Errors[0].Type)
		})
	}
	assert.Empty(t, ts.storage.Uploads())
}

func TestProducts_UpdateAndDeleteAreTenantChecked(t *testing.T) {
	ts := newTestServer(t)
	ct, body := multipartBody(t, ts.productFields("t1"), []byte("png"))
	resp := ts.do(t, http.MethodPost, "/products", ts.token(t, auth.RoleManager, "t1"), ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[idResponse](t, resp).ID

	other := ts.token(t, auth.RoleManager, "t2")
	ct, body = multipartBody(t, ts.productFields("t1"), nil)
	resp = ts.do(t, http.MethodPatch, "/products/"+id, other, ct, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/products/"+id, other, "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	fields := ts.productFields("t1")
	fields["name"] = "Diavola"
	ct, body = multipartBody(t, fields, []byte("png2"))
	resp = ts.do(t, http.MethodPatch, "/products/"+id, ts.token(t, auth.RoleAdmin, ""), ct, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := ts.products.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Diavola", stored.Name)
	uploads := ts.storage.Uploads()
	require.Len(t, uploads, 2)
	assert.Equal(t, uploads[1], stored.Image)
	assert.Equal(t, []string{uploads[0]}, ts.storage.Deletes())

	resp = ts.do(t, http.MethodDelete, "/products/"+id, ts.token(t, auth.RoleManager, "t1"), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, decode[idResponse](t, resp).ID)

	resp = ts.do(t, http.MethodGet, "/products/"+id, "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_StorageFailureIs502(t *testing.T) {
	ts := newTestServer(t)
	ts.storage.UploadErr = assert.AnError
	ct, body := multipartBody(t, ts.productFields("t1"), []byte("png"))

	resp := ts.do(t, http.MethodPost, "/products", ts.token(t, auth.RoleManager, "t1"), ct, body)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestToppings_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.token(t, auth.RoleManager, "t1")
	fields := map[string]string{"name": "Cheese", "price": "50", "tenantId": "t1"}

	ct, body := multipartBody(t, fields, []byte("jpg"))
	resp := ts.do(t, http.MethodPost, "/toppings", manager, ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[idResponse](t, resp).ID

	resp = ts.do(t, http.MethodGet, "/toppings?tenantId=t1", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]domain.Topping](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, 50.0, list[0].Price)
	assert.True(t, strings.HasPrefix(list[0].Image, "https://cdn.test/catalog/"))

	fields["price"] = "75.5"
	ct, body = multipartBody(t, fields, nil)
	resp = ts.do(t, http.MethodPatch, "/toppings/"+id, manager, ct, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/toppings/"+id, "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 75.5, decode[domain.Topping](t, resp).Price)

	resp = ts.do(t, http.MethodDelete, "/toppings/"+id, manager, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, ts.storage.Deletes(), 1)
}

func TestToppings_Rejections(t *testing.T) {
	ts := newTestServer(t)
	manager := ts.token(t, auth.RoleManager, "t1")

	cases := []struct {
		name   string
		fields map[string]string
		image  []byte
	}{
		{"price not a number", map[string]string{"name": "Cheese", "price": "cheap", "tenantId": "t1"}, []byte("jpg")},
		{"negative price", map[string]string{"name": "Cheese", "price": "-1", "tenantId": "t1"}, []byte("jpg")},
		{"image too large", map[string]string{"name": "Cheese", "price": "1", "tenantId": "t1"}, make([]byte, domain.MaxToppingImageBytes+1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ct, body := multipartBody(t, tc.fields, tc.image)

			resp := ts.do(t, http.MethodPost, "/toppings", manager, ct, body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, ts.storage.Uploads())
}

func TestCategories_AdminOnlyWrites(t *testing.T) {
	ts := newTestServer(t)
	body := `{"name":"Drinks","priceConfiguration":{"volume":{"priceType":"base","availableOptions":["0.5l"]}},"attributes":[]}`

	resp := ts.do(t, http.MethodPost, "/categories", ts.token(t, auth.RoleManager, "t1"), "application/json", strings.NewReader(body))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/categories", ts.token(t, auth.RoleAdmin, ""), "application/json", strings.NewReader(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := decode[idResponse](t, resp).ID

	resp = ts.do(t, http.MethodGet, "/categories", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]domain.Category](t, resp), 2)

	resp = ts.do(t, http.MethodPost, "/categories", ts.token(t, auth.RoleAdmin, ""), "application/json", strings.NewReader(`{"name":"x","priceConfiguration":{}}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodDelete, "/categories/"+id, ts.token(t, auth.RoleAdmin, ""), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/categories/"+uuid.NewString(), "", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{context.Canceled, StatusClientClosedRequest},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{domain.ErrEmptyName, http.StatusBadRequest},
		{domain.NewNotFound(domain.EntityProduct, "p1"), http.StatusNotFound},
		{&domain.AuthorizationError{Entity: domain.EntityProduct, OwnerTenantID: "t1"}, http.StatusForbidden},
		{&domain.StorageError{Op: "upload", Err: assert.AnError}, http.StatusBadGateway},
		{&domain.PersistenceError{Op: "insert", Entity: domain.EntityProduct, Err: assert.AnError}, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, _ := mapError(tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}
}
