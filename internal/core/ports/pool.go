package ports

import (
	"context"

	"github.com/gomodule/redigo/redis"
)

type Pool interface {
	GetContext(ctx context.Context) (redis.Conn, error)
	Stats() redis.PoolStats
	Close() error
}
