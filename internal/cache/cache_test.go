package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkey connects to the test Valkey instance, skipping if unavailable.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()
	client, err := ConnectValkey(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: valkey not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestKeyDeterministic(t *testing.T) {
	a := Key("public", map[string]string{"page": "2", "search": "go", "category": ""})
	b := Key("public", map[string]string{"search": "go", "category": "", "page": "2"})
	if a != b {
		t.Errorf("equivalent queries got different keys: %q vs %q", a, b)
	}
	if a != "public?page=2&search=go" {
		t.Errorf("key = %q, want empty params omitted and sorted", a)
	}

	if Key("public", map[string]string{"page": "1"}) == Key("admin", map[string]string{"page": "1"}) {
		t.Error("surfaces must not share cache keys")
	}
}

func TestListCacheRoundTrip(t *testing.T) {
	client := testValkey(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	key := Key("public", map[string]string{"page": "1", "size": "12"})
	if _, ok := lc.Get(ctx, key); ok {
		lc.InvalidateAll(ctx)
	}

	payload := []byte(`{"entries":[],"total":0}`)
	lc.Set(ctx, key, payload)

	got, ok := lc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload = %s, want %s", got, payload)
	}

	lc.InvalidateAll(ctx)
	if _, ok := lc.Get(ctx, key); ok {
		t.Error("expected miss after InvalidateAll")
	}
}

func TestListCacheExpiry(t *testing.T) {
	client := testValkey(t)
	lc := NewListCache(client, 100*time.Millisecond)
	ctx := context.Background()

	key := Key("admin", map[string]string{"page": "9", "search": "expiry-test"})
	lc.Set(ctx, key, []byte("x"))
	time.Sleep(200 * time.Millisecond)
	if _, ok := lc.Get(ctx, key); ok {
		t.Error("expected miss after TTL expiry")
	}
}
