package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{BaseURL: server.URL, BearerToken: "secret"}, nil)
}

func TestCreateOrderSendsBearerAndBody(t *testing.T) {
	var gotAuth, gotPath, gotMethod string
	var gotBody domain.Order

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	order := &domain.Order{UserID: 100, GiftName: "Plush Pepe", Currency: "TON"}
	require.NoError(t, client.CreateOrder(context.Background(), order))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/marketplace/resold-gift-order", gotPath)
	assert.Equal(t, "Plush Pepe", gotBody.GiftName)
}

func TestUpdateOrderPath(t *testing.T) {
	var gotPath, gotMethod string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.UpdateOrder(context.Background(), 9, &domain.Order{ID: 9}))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/marketplace/resold-gift-order/9", gotPath)
}

func TestDeleteOrderSurfacesFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	err := client.DeleteOrder(context.Background(), 9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestOrderByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/marketplace/resold-gift-order/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(domain.Order{ID: 42, GiftName: "Lol Pop"})
	})

	order, err := client.OrderByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, order.ID)
	assert.Equal(t, "Lol Pop", order.GiftName)
}

func TestOrdersByOwnerAndActive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/marketplace/resold-gift-order/user/100":
			_ = json.NewEncoder(w).Encode([]domain.Order{{ID: 1}, {ID: 2}})
		case "/api/marketplace/resold-gift-order/active":
			_ = json.NewEncoder(w).Encode([]domain.Order{{ID: 3}})
		default:
			http.NotFound(w, r)
		}
	})

	owned, err := client.OrdersByOwner(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	active, err := client.ActiveOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestOptionsUnwrapsCatalogResponses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/marketplace/gifts":
			_, _ = w.Write([]byte(`{"gifts":[{"id":7,"name":"Plush Pepe"}]}`))
		case "/api/marketplace/gift-models/7":
			_, _ = w.Write([]byte(`{"giftModels":[{"id":1,"name":"Cool Cat"},{"id":2,"name":"Sad Cat"}]}`))
		case "/api/marketplace/gift-symbols/7":
			_, _ = w.Write([]byte(`{"giftSymbols":[]}`))
		case "/api/marketplace/gift-backdrops/7":
			_, _ = w.Write([]byte(`{"giftBackdrops":[{"id":4,"name":"Midnight"}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	gifts, err := client.Options(ctx, domain.CatalogGifts, 0)
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.Equal(t, int64(7), gifts[0].ID)

	models, err := client.Options(ctx, domain.CatalogModels, 7)
	require.NoError(t, err)
	assert.Len(t, models, 2)

	symbols, err := client.Options(ctx, domain.CatalogSymbols, 7)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	backdrops, err := client.Options(ctx, domain.CatalogBackdrops, 7)
	require.NoError(t, err)
	require.Len(t, backdrops, 1)
	assert.Equal(t, "Midnight", backdrops[0].Name)
}

func TestMonitoringConfigEndpoints(t *testing.T) {
	var createBody domain.MonitoringConfig

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/marketplace/monitoring/config":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/api/marketplace/monitoring/configs":
			_ = json.NewEncoder(w).Encode([]domain.MonitoringConfig{{GiftName: "Lol Pop"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/marketplace/monitoring/configs/3":
			_ = json.NewEncoder(w).Encode(domain.MonitoringConfig{ID: 3, GiftName: "Lol Pop"})
		case r.Method == http.MethodPut && r.URL.Path == "/api/marketplace/monitoring/configs/3":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/marketplace/monitoring/configs/3":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	cfg := &domain.MonitoringConfig{
		GiftName: "Lol Pop",
		Accounts: []domain.MonitoringAccount{{UserID: 2001, IsActive: true}},
	}
	require.NoError(t, client.CreateMonitoringConfig(ctx, cfg))
	assert.Equal(t, "Lol Pop", createBody.GiftName)
	require.Len(t, createBody.Accounts, 1)

	configs, err := client.MonitoringConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 1)

	got, err := client.MonitoringConfigByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	require.NoError(t, client.UpdateMonitoringConfig(ctx, 3, got))
	require.NoError(t, client.DeleteMonitoringConfig(ctx, 3))
}
