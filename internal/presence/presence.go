// Package presence mirrors room occupancy into Redis so external tooling can
// observe rooms without talking to the relay. The mirror is advisory: the
// relay's in-memory stores stay authoritative and every operation here is
// best-effort.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mossy-p/peercall-signaling/config"
)

const peerSetTTL = 24 * time.Hour

// Mirror writes room membership to Redis peer sets. A nil *Mirror is valid
// and turns every method into a no-op, so callers never branch on whether
// Redis is configured.
type Mirror struct {
	client *redis.Client
}

// Connect builds a Mirror from config and verifies the connection.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Mirror{client: client}, nil
}

func (m *Mirror) Close() error {
	if m == nil {
		return nil
	}
	return m.client.Close()
}

func peersKey(room string) string {
	return "room:" + room + ":peers"
}

// Join records the handle in the room's peer set and refreshes its TTL.
func (m *Mirror) Join(ctx context.Context, room, handle string) {
	if m == nil {
		return
	}
	key := peersKey(room)
	m.client.SAdd(ctx, key, handle)
	m.client.Expire(ctx, key, peerSetTTL)
}

// Leave removes the handle from the room's peer set.
func (m *Mirror) Leave(ctx context.Context, room, handle string) {
	if m == nil {
		return
	}
	m.client.SRem(ctx, peersKey(room), handle)
}

// Count returns the mirrored occupancy of the room.
func (m *Mirror) Count(ctx context.Context, room string) (int, error) {
	if m == nil {
		return 0, nil
	}
	n, err := m.client.SCard(ctx, peersKey(room)).Result()
	return int(n), err
}

// Drop deletes the room's peer set entirely.
func (m *Mirror) Drop(ctx context.Context, room string) {
	if m == nil {
		return
	}
	m.client.Del(ctx, peersKey(room))
}
