package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/config"

	"go.uber.org/zap"
)

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	category := newTestCategory("Copies")
	mustUpsertCategory(t, store, category)
	product := newTestProduct(category.ID, "p-1", time.Now())
	mustUpsertProduct(t, store, product)

	got, err := store.Products.FindByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	got.Name = "mutated"

	again, _ := store.Products.FindByID(ctx, "p-1")
	if again.Name == "mutated" {
		t.Error("mutating a returned product changed the stored one")
	}
}

func TestMemoryStore_PingAlwaysSucceeds(t *testing.T) {
	if err := NewMemoryStore().Ping(context.Background()); err != nil {
		t.Errorf("expected nil ping error, got %v", err)
	}
}

func TestOpenStore_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}
	store, err := OpenStore(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenStore(memory) failed: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Errorf("expected memory store to ping, got %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Errorf("expected memory store to close cleanly, got %v", err)
	}

	cfg.Store.Backend = "cassandra"
	if _, err := OpenStore(ctx, cfg, zap.NewNop()); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}
