package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doJSON sends body as JSON with an optional bearer token.
func doJSON(t *testing.T, server http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, tokens := setupTestServer(t, testDB)
	admin := bearer(t, tokens, "admin-1", auth.RoleAdmin)
	customer := bearer(t, tokens, "user-1", auth.RoleCustomer)

	t.Run("GET /api/products returns all products without a token", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		products := decode[[]model.Product](t, w)
		require.Len(t, products, 5)
		assert.Equal(t, "P001", products[0].ID)
	})

	t.Run("GET /api/products on an empty store returns an empty list", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("GET /api/products/{id} returns specific product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products/P001", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		product := decode[model.Product](t, w)
		assert.Equal(t, "P001", product.ID)
		assert.Equal(t, "Test Product 1", product.Name)
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodGet, "/api/products/P999", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		errResp := decode[model.ErrorResponse](t, w)
		assert.NotEmpty(t, errResp.Message)
	})

	t.Run("create, fetch, overwrite and delete a product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		create := model.ProductRequest{
			Name:        "Walnut Desk",
			Description: "Solid walnut, 140cm",
			Price:       499.5,
			Category:    "Furniture",
			Stock:       3,
			ImageURL:    "/images/desk.jpg",
		}
		w := doJSON(t, server, http.MethodPost, "/api/products", admin, create)
		require.Equal(t, http.StatusCreated, w.Code)
		created := decode[model.Product](t, w)
		require.NotEmpty(t, created.ID)

		w = doJSON(t, server, http.MethodGet, "/api/products/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		fetched := decode[model.Product](t, w)
		assert.Equal(t, create.Name, fetched.Name)
		assert.Equal(t, create.Description, fetched.Description)
		assert.Equal(t, create.Price, fetched.Price)
		assert.Equal(t, create.Category, fetched.Category)
		assert.Equal(t, create.Stock, fetched.Stock)
		assert.Equal(t, create.ImageURL, fetched.ImageURL)
		assert.True(t, created.CreatedAt.Equal(fetched.CreatedAt))
		assert.True(t, created.UpdatedAt.Equal(fetched.UpdatedAt))

		// Omitted fields are cleared, not merged.
		w = doJSON(t, server, http.MethodPut, "/api/products/"+created.ID, admin, model.ProductRequest{Name: "Oak Desk", Price: 350})
		require.Equal(t, http.StatusOK, w.Code)
		w = doJSON(t, server, http.MethodGet, "/api/products/"+created.ID, "", nil)
		updated := decode[model.Product](t, w)
		assert.Equal(t, "Oak Desk", updated.Name)
		assert.Equal(t, 350.0, updated.Price)
		assert.Empty(t, updated.Description)
		assert.Empty(t, updated.Category)
		assert.Zero(t, updated.Stock)

		w = doJSON(t, server, http.MethodDelete, "/api/products/"+created.ID, admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Product removed"}`, w.Body.String())

		w = doJSON(t, server, http.MethodGet, "/api/products/"+created.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, server, http.MethodDelete, "/api/products/"+created.ID, admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doJSON(t, server, http.MethodPut, "/api/products/P999", admin, model.ProductRequest{Name: "Ghost", Price: 1})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("product writes need an admin", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		req := model.ProductRequest{Name: "Nope", Price: 1}

		w := doJSON(t, server, http.MethodPost, "/api/products", "", req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = doJSON(t, server, http.MethodPost, "/api/products", customer, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid product input returns 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/products", admin, model.ProductRequest{Name: "Bad", Price: -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, server, http.MethodPost, "/api/products", admin, model.ProductRequest{Name: "Bad", Price: 1, Stock: 3_000_000_000})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_STOCK", decode[model.ErrorResponse](t, w).Error)

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{not json"))
		req.Header.Set("Authorization", "Bearer "+admin)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("GET /health returns 200 without a token", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /metrics exposes request counters", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/metrics", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "storefront_http_requests_total")
	})
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, tokens := setupTestServer(t, testDB)
	admin := bearer(t, tokens, "admin-1", auth.RoleAdmin)
	alice := bearer(t, tokens, "alice", auth.RoleCustomer)
	bob := bearer(t, tokens, "bob", auth.RoleCustomer)

	placeOrder := func(t *testing.T, token string, req *model.OrderRequest) model.Order {
		t.Helper()
		w := doJSON(t, server, http.MethodPost, "/api/orders", token, req)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decode[model.Order](t, w)
	}

	t.Run("POST /api/orders persists items and client total", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		order := placeOrder(t, alice, &model.OrderRequest{
			Items: []model.OrderItem{
				{ProductID: "P001", Quantity: 2},
				{ProductID: "P002", Quantity: 1},
			},
			TotalAmount: 39.99,
			ShippingAddress: model.ShippingAddress{
				Name: "Alice", Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
			},
		})

		assert.Equal(t, "alice", order.UserID)
		assert.Equal(t, model.OrderStatusPending, order.Status)

		w := doJSON(t, server, http.MethodGet, "/api/orders/"+order.ID.String(), alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		stored := decode[model.Order](t, w)
		assert.Equal(t, []model.OrderItem{{ProductID: "P001", Quantity: 2}, {ProductID: "P002", Quantity: 1}}, stored.Items)
		assert.Equal(t, 39.99, stored.TotalAmount)
		assert.Equal(t, "Springfield", stored.ShippingAddress.City)
	})

	t.Run("POST /api/orders does not touch stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		placeOrder(t, alice, &model.OrderRequest{
			Items:       []model.OrderItem{{ProductID: "P002", Quantity: 3}},
			TotalAmount: 60,
		})

		w := doJSON(t, server, http.MethodGet, "/api/products/P002", "", nil)
		product := decode[model.Product](t, w)
		assert.Equal(t, 3, product.Stock)
	})

	t.Run("POST /api/orders rejects bad input", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		tests := []struct {
			name string
			req  *model.OrderRequest
			code string
		}{
			{"non-existent product", &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P999", Quantity: 1}}}, "UNKNOWN_PRODUCT"},
			{"invalid quantity", &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P001", Quantity: -1}}}, "INVALID_QUANTITY"},
			{"quantity beyond int32", &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P001", Quantity: 3_000_000_000}}}, "INVALID_QUANTITY"},
			{"no items", &model.OrderRequest{}, "EMPTY_ORDER"},
			{"negative total", &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P001", Quantity: 1}}, TotalAmount: -5}, "INVALID_TOTAL"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := doJSON(t, server, http.MethodPost, "/api/orders", alice, tt.req)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, tt.code, decode[model.ErrorResponse](t, w).Error)
			})
		}
	})

	t.Run("POST /api/orders without a token returns 401", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/orders", "", &model.OrderRequest{
			Items: []model.OrderItem{{ProductID: "P001", Quantity: 1}},
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("orders are scoped to their owner", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		aliceOrder := placeOrder(t, alice, &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P001", Quantity: 1}}, TotalAmount: 10})
		placeOrder(t, bob, &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P004", Quantity: 1}}, TotalAmount: 40})

		w := doJSON(t, server, http.MethodGet, "/api/orders", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]model.Order](t, w)
		require.Len(t, orders, 1)
		assert.Equal(t, aliceOrder.ID, orders[0].ID)

		w = doJSON(t, server, http.MethodGet, "/api/orders", admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Order](t, w), 2)

		w = doJSON(t, server, http.MethodGet, "/api/orders/"+aliceOrder.ID.String(), bob, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, server, http.MethodGet, "/api/orders/"+aliceOrder.ID.String(), admin, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /api/orders/{id} with a malformed id returns 400", func(t *testing.T) {
		w := doJSON(t, server, http.MethodGet, "/api/orders/not-a-uuid", alice, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("PUT /api/orders/{id} follows the status transitions", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		order := placeOrder(t, alice, &model.OrderRequest{Items: []model.OrderItem{{ProductID: "P001", Quantity: 1}}, TotalAmount: 10})
		path := "/api/orders/" + order.ID.String()

		w := doJSON(t, server, http.MethodPut, path, alice, model.StatusRequest{Status: model.OrderStatusPaid})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = doJSON(t, server, http.MethodPut, path, admin, model.StatusRequest{Status: "lost"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(t, server, http.MethodPut, path, admin, model.StatusRequest{Status: model.OrderStatusDelivered})
		assert.Equal(t, http.StatusConflict, w.Code)

		for _, status := range []model.OrderStatus{model.OrderStatusPaid, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered} {
			w = doJSON(t, server, http.MethodPut, path, admin, model.StatusRequest{Status: status})
			require.Equal(t, http.StatusOK, w.Code, "status %s", status)
			assert.Equal(t, status, decode[model.Order](t, w).Status)
		}

		w = doJSON(t, server, http.MethodPut, path, admin, model.StatusRequest{Status: model.OrderStatusCancelled})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(t, server, http.MethodGet, path, alice, nil)
		assert.Equal(t, model.OrderStatusDelivered, decode[model.Order](t, w).Status)
	})
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})
}
