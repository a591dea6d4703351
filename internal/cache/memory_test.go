package cache

import (
	"context"
	"testing"
	"time"

	"github.com/daisuke-ai/maina-calculator-sub000/internal/config"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected a clean miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("failed to set, %v", err)
	}
	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected a hit, got ok=%v err=%v", ok, err)
	}
	if string(value) != "v" {
		t.Errorf("expected value %q, got %q", "v", value)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Unix(1700000000, 0)
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("failed to set, %v", err)
	}

	current = current.Add(59 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	current = current.Add(2 * time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("entry survived past its TTL")
	}
}

func TestKeyFingerprint(t *testing.T) {
	conf := config.DefaultConfiguration().Calculator
	property := config.PropertyData{ListedPrice: 87000, MonthlyRent: 1150}

	first := Key(property, conf)
	second := Key(property, conf)
	if first != second {
		t.Error("identical inputs must produce identical keys")
	}

	property.MonthlyRent = 1200
	if Key(property, conf) == first {
		t.Error("a changed property must change the key")
	}

	conf.AssignmentFee = 4000
	property.MonthlyRent = 1150
	if Key(property, conf) == first {
		t.Error("a changed configuration must change the key")
	}
}
