package redis

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestNewClient_InvalidURL(t *testing.T) {
	if _, err := NewClient(Config{URL: "not-a-redis-url"}); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}

func TestNewClient_UnreachableServer(t *testing.T) {
	client, err := NewClient(Config{URL: "redis://127.0.0.1:1/0"})
	if err != nil {
		t.Fatalf("NewClient should not dial: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err == nil {
		t.Error("expected ping to fail")
	}

	var dst []string
	if _, found, err := client.LoadSnapshot(ctx, "products:all", &dst); err == nil || found {
		t.Errorf("expected load error, got found=%v err=%v", found, err)
	}
}

func TestConfig_Enabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !(Config{URL: "redis://localhost:6379/0"}).Enabled() {
		t.Error("config with URL should be enabled")
	}
}

func TestSnapshotKey(t *testing.T) {
	if got := snapshotKey("products:all"); got != "tienda:snapshot:products:all" {
		t.Errorf("unexpected key %q", got)
	}
}

// Runs against a real server when TIENDA_TEST_REDIS_URL is set.
func TestSnapshot_RoundTrip(t *testing.T) {
	url := os.Getenv("TIENDA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TIENDA_TEST_REDIS_URL not set")
	}

	client, err := NewClient(Config{URL: url, SnapshotTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()
	ctx := context.Background()

	key := "test:" + time.Now().Format("150405.000000")
	defer client.ClearSnapshot(ctx, key)

	type item struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := client.SaveSnapshot(ctx, key, []item{{1, "Helmet"}}); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	var got []item
	savedAt, found, err := client.LoadSnapshot(ctx, key, &got)
	if err != nil || !found {
		t.Fatalf("LoadSnapshot: found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0].Name != "Helmet" {
		t.Errorf("unexpected snapshot %v", got)
	}
	if time.Since(savedAt) > time.Minute {
		t.Errorf("unexpected savedAt %v", savedAt)
	}

	var missing []item
	if _, found, err := client.LoadSnapshot(ctx, key+":missing", &missing); err != nil || found {
		t.Errorf("expected miss, got found=%v err=%v", found, err)
	}
}
