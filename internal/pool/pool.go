package pool

import (
	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/config"
)

// New builds a connection pool for the configured server. A blocking stream
// read holds its connection for the whole BLOCK timeout, so MaxActive bounds
// the number of concurrent blocking readers.
func New(cfg *config.Config) *redis.Pool {
	factory := NewConnFactory(cfg.Server)
	return &redis.Pool{
		MaxIdle:      cfg.Pool.MaxIdle,
		MaxActive:    cfg.Pool.MaxActive,
		IdleTimeout:  cfg.Pool.IdleTimeout,
		Wait:         cfg.Pool.Wait,
		DialContext:  factory.CreateConnection,
		TestOnBorrow: healthCheck,
	}
}
