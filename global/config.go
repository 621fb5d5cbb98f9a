package global

import (
	"context"
	"os"
	"strconv"
	"time"

	"ThreadsApp/logger"
	storage "ThreadsApp/service/storage"
	ids "ThreadsApp/tools/ids"
)

func ConfigAll() {
	ConfigIds()
	ConfigRedis()
	ConfigMongo()
}

func ConfigIds() {
	ids.SetNodeID(envInt64("NODE_ID", 100))
}

func JwtSecret() []byte {
	return []byte(env("JWT_SECRET", "mN9b1f8zPq+W2xjX/45sKcVd0TfyoG+3Hp5Z8q9Rj1o="))
}

// ListenAddr is where the gateway's gin engine binds.
func ListenAddr() string {
	return env("LISTEN_ADDR", ":8090")
}

// FrontendOrigin is the browser origin allowed to open the websocket.
func FrontendOrigin() string {
	return env("FRONTEND_URL", "http://localhost:5173")
}

func ConfigRedis() {
	cfg := storage.RedisConfig{
		Addr:     env("REDIS_ADDR", "127.0.0.1:6379"),
		Password: env("REDIS_PASSWORD", ""),
		DB:       0,
	}
	if err := storage.InitRedis(cfg); err != nil {
		// presence mirror is optional; the live channel works without it
		logger.Warnf("[ConfigRedis] redis unavailable: %v", err)
	}
}

func ConfigMongo() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg := &storage.MongoConfig{
		Uri:         env("MONGO_URI", "mongodb://localhost:27017"),
		Database:    env("MONGO_DB", "threadsapp"),
		MaxPoolSize: 20,
		MaxRetry:    3,
	}
	if err := storage.InitMongo(ctx, cfg); err != nil {
		logger.Errorf("[ConfigMongo] mongo unavailable: %v", err)
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
