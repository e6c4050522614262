package booking

import (
	"context"
	"errors"
	"time"

	"glowhub/utils"

	"github.com/go-redis/redis/v8"
)

// ErrSlotHeld is returned by Hold when another attempt already holds the slot.
var ErrSlotHeld = errors.New("slot is held by another booking attempt")

// SlotHolder keeps short-lived payment holds on slot keys so two customers
// are never charged for the same slot.
type SlotHolder interface {
	Hold(ctx context.Context, slotKey, owner string, ttl time.Duration) error
	Release(ctx context.Context, slotKey, owner string) error
	Held(ctx context.Context, slotKeys []string) (map[string]bool, error)
}

// RedisSlotHolder implements SlotHolder with one Redis key per slot.
type RedisSlotHolder struct {
	client *redis.Client
}

func NewRedisSlotHolder(client *redis.Client) *RedisSlotHolder {
	return &RedisSlotHolder{client: client}
}

// Release only deletes the hold if it still belongs to owner.
var releaseHoldScript = redis.NewScript(`
-- KEYS[1] = hold key
-- ARGV[1] = owner
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`)

func holdKey(slotKey string) string {
	return utils.SlotHoldPrefix + slotKey
}

func (h *RedisSlotHolder) Hold(ctx context.Context, slotKey, owner string, ttl time.Duration) error {
	ok, err := h.client.SetNX(ctx, holdKey(slotKey), owner, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		current, err := h.client.Get(ctx, holdKey(slotKey)).Result()
		if err == nil && current == owner {
			return h.client.PExpire(ctx, holdKey(slotKey), ttl).Err()
		}
		return ErrSlotHeld
	}
	return nil
}

func (h *RedisSlotHolder) Release(ctx context.Context, slotKey, owner string) error {
	return releaseHoldScript.Run(ctx, h.client, []string{holdKey(slotKey)}, owner).Err()
}

func (h *RedisSlotHolder) Held(ctx context.Context, slotKeys []string) (map[string]bool, error) {
	held := make(map[string]bool, len(slotKeys))
	if len(slotKeys) == 0 {
		return held, nil
	}
	keys := make([]string, len(slotKeys))
	for i, k := range slotKeys {
		keys[i] = holdKey(k)
	}
	vals, err := h.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if v != nil {
			held[slotKeys[i]] = true
		}
	}
	return held, nil
}
