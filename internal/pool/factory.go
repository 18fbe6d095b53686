package pool

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/config"
)

type ConnFactory struct {
	address string
	options []redis.DialOption
}

func NewConnFactory(server config.ServerConfig) *ConnFactory {
	options := []redis.DialOption{
		redis.DialConnectTimeout(server.ConnectTimeout),
		redis.DialReadTimeout(server.ReadTimeout),
		redis.DialWriteTimeout(server.WriteTimeout),
	}
	if server.Password != "" {
		options = append(options, redis.DialPassword(server.Password))
	}
	if server.DB != 0 {
		options = append(options, redis.DialDatabase(server.DB))
	}
	return &ConnFactory{address: server.Address, options: options}
}

func (f *ConnFactory) Address() string { return f.address }

func (f *ConnFactory) CreateConnection(ctx context.Context) (redis.Conn, error) {
	return redis.DialContext(ctx, "tcp", f.address, f.options...)
}

// healthCheck pings connections that sat idle for more than a minute before
// handing them out again.
func healthCheck(c redis.Conn, lastUsed time.Time) error {
	if time.Since(lastUsed) < time.Minute {
		return nil
	}
	_, err := c.Do("PING")
	return err
}
