package storage

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// presence key: notify:presence:<user>
// Value: connection ID, TTL bounds the online validity period.
// This mirror feeds ops visibility only; delivery decisions are made
// against the in-process registry, never against redis.
func presenceKey(user string) string { return "notify:presence:" + user }

const DefaultPresenceTTL = 2 * time.Hour

// Presence is a write-through online/offline mirror.
type Presence struct {
	TTL time.Duration
}

func (p Presence) ttl() time.Duration {
	if p.TTL <= 0 {
		return DefaultPresenceTTL
	}
	return p.TTL
}

// Online marks the user online and renews the TTL.
func (p Presence) Online(user, connID string) error {
	if rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	return rdb.Set(ctx, presenceKey(user), connID, p.ttl()).Err()
}

// Offline removes the presence key.
func (p Presence) Offline(user string) error {
	if rdb == nil {
		return fmt.Errorf("redis not initialized")
	}
	return rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup reports whether the mirror currently considers the user online.
func (p Presence) Lookup(user string) (connID string, online bool, err error) {
	if rdb == nil {
		return "", false, fmt.Errorf("redis not initialized")
	}
	val, err := rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
