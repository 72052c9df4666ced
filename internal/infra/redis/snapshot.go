package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Snapshot is the last successful live response for one catalog read.
type Snapshot struct {
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// Key helpers
func snapshotKey(key string) string {
	return fmt.Sprintf("tienda:snapshot:%s", key)
}

// SaveSnapshot stores v as the last known good value for key.
func (c *Client) SaveSnapshot(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	payload, err := json.Marshal(Snapshot{SavedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot decodes the snapshot for key into dst. found is false when
// nothing is stored or the snapshot expired.
func (c *Client) LoadSnapshot(ctx context.Context, key string, dst any) (savedAt time.Time, found bool, err error) {
	raw, err := c.rdb.Get(ctx, snapshotKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get failed: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return time.Time{}, false, fmt.Errorf("invalid snapshot: %w", err)
	}
	if err := json.Unmarshal(snap.Data, dst); err != nil {
		return time.Time{}, false, fmt.Errorf("invalid snapshot data: %w", err)
	}
	return snap.SavedAt, true, nil
}

// ClearSnapshot removes the snapshot for key.
func (c *Client) ClearSnapshot(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, snapshotKey(key)).Err()
}
