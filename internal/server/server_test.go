package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		Store:  config.StoreConfig{Backend: config.BackendMemory},
		Catalog: config.CatalogConfig{
			DefaultPageSize:  12,
			MaxPageSize:      100,
			CountConcurrency: 2,
		},
	}
}

func seededStore(t *testing.T) *repository.Store {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Categories.Upsert(ctx, &domain.Category{ID: "books", Name: "Books", Slug: "books", CreatedAt: now}))
	require.NoError(t, store.Products.Upsert(ctx, &domain.Product{
		ID:         "b-1",
		Name:       "Field Guide",
		Price:      decimal.RequireFromString("12.50"),
		CategoryID: "books",
		Stock:      2,
		CreatedAt:  now,
	}))
	return store
}

func serve(srv *Server, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	return w
}

func TestServer_HealthAndRoutes(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), seededStore(t), service.CursorMissRestart)
	defer srv.Close()

	w := serve(srv, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(srv, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	assert.Equal(t, float64(1), categories[0]["productCount"])

	w = serve(srv, "/categories/books/products?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = serve(srv, "/no/such/route", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CORSAllowsBrowsersOutsideProduction(t *testing.T) {
	srv := NewServer(testConfig(), zap.NewNop(), seededStore(t), service.CursorMissRestart)
	defer srv.Close()

	w := serve(srv, "/categories", map[string]string{"Origin": "https://shop.example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimitUsesRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mr.Port()}
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}

	srv := NewServer(cfg, zap.NewNop(), seededStore(t), service.CursorMissRestart)
	defer srv.Close()

	for i := 0; i < 2; i++ {
		w := serve(srv, "/categories", nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := serve(srv, "/categories", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
