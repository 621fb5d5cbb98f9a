package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

var (
	rdb *redis.Client
	ctx = context.Background()
)

func InitRedis(c RedisConfig) error {
	cli := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	if err := cli.Ping(ctx).Err(); err != nil {
		return err
	}
	rdb = cli
	return nil
}

// RedisReady reports whether the presence mirror can be used.
func RedisReady() bool { return rdb != nil }
