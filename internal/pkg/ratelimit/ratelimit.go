package ratelimit

import (
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/cache"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
)

// Redis database for limiter counters (the job queue uses DB 0)
const storageDatabase = 2

var (
	storage     fiber.Storage
	storageOnce sync.Once
)

// Storage returns the shared limiter storage. When the cache is unreachable it
// returns nil and limiters fall back to per-process memory.
func Storage() fiber.Storage {
	storageOnce.Do(func() {
		if err := cache.Ping(2 * time.Second); err != nil {
			log.Warnf("[RateLimit] Cache unavailable, using in-memory counters: %v", err)
			return
		}
		storage = newRedisStorage()
	})
	return storage
}

func newRedisStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: storageDatabase,
		Reset:    false,
	})
}

// Config describes one limiter.
type Config struct {
	Name       string
	Max        int
	Expiration time.Duration
	Storage    fiber.Storage
}

// New builds a per-IP limiter answering 429 with a JSON error body.
func New(cfg Config) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 60
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}
	name := cfg.Name
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Warnf("[RateLimit] %s limit reached for %s", name, c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate_limited"})
		},
		Storage: cfg.Storage,
	})
}

// Webhooks limits inbound webhook traffic per sender IP (WEBHOOK_RATE_LIMIT per minute).
func Webhooks() fiber.Handler {
	return New(Config{
		Name:    "webhooks",
		Max:     env.GetEnvInt("WEBHOOK_RATE_LIMIT", 600),
		Storage: Storage(),
	})
}

// API limits the JSON API per client IP (API_RATE_LIMIT per minute).
func API() fiber.Handler {
	return New(Config{
		Name:    "api",
		Max:     env.GetEnvInt("API_RATE_LIMIT", 60),
		Storage: Storage(),
	})
}
