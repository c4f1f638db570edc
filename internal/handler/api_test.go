package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doAs(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutes_RejectMissingKey(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/products",
		`{"title": "x", "sku": "SKU-1"}`, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RejectWrongKey(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/products",
		`{"title": "x", "sku": "SKU-1"}`, map[string]string{apiKeyHeader: "wrong"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProduct_WithValidKey(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/products",
		`{"title": "widget", "sku": "SKU-1", "price": "19.99"}`,
		map[string]string{apiKeyHeader: testAPIKey})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, f.products.byID, 1)
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodGet, "/api/products/42", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodGet, "/api/products/abc", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProducts_ReturnsCatalog(t *testing.T) {
	f := newFixture(catalogProduct(1, "10.00"), catalogProduct(2, "20.00"))

	rec := doAs(t, f.handler, http.MethodGet, "/api/products", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestPlaceOrder_TotalIncludesDeliveryCharge(t *testing.T) {
	f := newFixture(catalogProduct(1, "10.00"))

	rec := doAs(t, f.handler, http.MethodPost, "/api/orders",
		`{
			"first_name": "Ada", "phone_number": "0170000000",
			"city": "Dhaka", "address": "1 Main St",
			"items": [{"product_id": 1, "quantity": 2}]
		}`,
		map[string]string{userIDHeader: "user-1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "100", resp.Total.String())
	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, "user-1", f.orders.orders[0].UserID)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/orders",
		`{"first_name": "Ada", "phone_number": "1", "city": "Dhaka", "address": "x", "items": []}`,
		map[string]string{userIDHeader: "user-1"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_RequiresIdentity(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodGet, "/api/orders", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrders_ScopedToUser(t *testing.T) {
	f := newFixture(catalogProduct(1, "10.00"))

	doAs(t, f.handler, http.MethodPost, "/api/orders",
		`{"first_name": "Ada", "phone_number": "1", "city": "Dhaka", "address": "x",
		  "items": [{"product_id": 1, "quantity": 1}]}`,
		map[string]string{userIDHeader: "user-1"})

	rec := doAs(t, f.handler, http.MethodGet, "/api/orders", "", map[string]string{userIDHeader: "user-2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var list []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestCreateReview_RejectsBadRating(t *testing.T) {
	f := newFixture(catalogProduct(1, "10.00"))

	rec := doAs(t, f.handler, http.MethodPost, "/api/product-reviews",
		`{"product_id": 1, "rating": 6, "comment": "great"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReview_UnknownProduct(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/product-reviews",
		`{"product_id": 1, "rating": 5}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateContactMessage_Validation(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodPost, "/api/contact",
		`{"email": "not-an-email", "details": "help"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doAs(t, f.handler, http.MethodPost, "/api/contact",
		`{"email": "a@b.com", "subject": "hi", "details": "help"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetCoupon_NotFound(t *testing.T) {
	f := newFixture()

	rec := doAs(t, f.handler, http.MethodGet, "/api/coupons/NOPE", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
