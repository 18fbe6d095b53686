package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/config"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/core/ports"
	"github.com/genc-murat/crystalstream/internal/logger"
	"github.com/genc-murat/crystalstream/internal/metrics"
	"github.com/genc-murat/crystalstream/internal/pool"
	"github.com/genc-murat/crystalstream/internal/replies"
	"github.com/genc-murat/crystalstream/internal/storage"
)

// ServerError is an error reply from the store.
type ServerError struct {
	Command string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Client sends stream commands over a connection pool and decodes replies.
// Successful write commands are appended to the journal when one is set.
type Client struct {
	pool    ports.Pool
	journal ports.Storage
	retry   models.RetryStrategy
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithJournal(journal ports.Storage) Option {
	return func(c *Client) { c.journal = journal }
}

func WithRetry(strategy models.RetryStrategy) Option {
	return func(c *Client) { c.retry = strategy }
}

func New(p ports.Pool, opts ...Option) *Client {
	c := &Client{pool: p, retry: models.DefaultRetryStrategy, metrics: metrics.NewMetrics()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open builds a client from configuration: a pool for the server and, when
// enabled, an AOF journal.
func Open(cfg *config.Config) (*Client, error) {
	opts := []Option{WithRetry(RetryFromConfig(cfg.Pool.Retry))}
	if cfg.Storage.AOF.Enabled {
		policy, err := storage.ParseSyncPolicy(cfg.Storage.AOF.Sync)
		if err != nil {
			return nil, err
		}
		aof, err := storage.NewAOF(cfg.Storage.AOF.Path, policy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithJournal(aof))
	}
	return New(pool.New(cfg), opts...), nil
}

func RetryFromConfig(cfg config.RetryConfig) models.RetryStrategy {
	strategy := models.DefaultRetryStrategy
	if cfg.Attempts > 0 {
		strategy.MaxAttempts = cfg.Attempts
	}
	if cfg.Delay > 0 {
		strategy.InitialInterval = cfg.Delay
	}
	if cfg.MaxDelay > 0 {
		strategy.MaxInterval = cfg.MaxDelay
	}
	return strategy
}

func (c *Client) Stats() redis.PoolStats {
	return c.pool.Stats()
}

func (c *Client) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *Client) Close() error {
	logger.Debug("commands", c.metrics.GetCommandCount(), "errors", c.metrics.GetErrorCount(), "client closed")
	var journalErr error
	if c.journal != nil {
		journalErr = c.journal.Close()
	}
	return errors.Join(c.pool.Close(), journalErr)
}

// Do sends cmd and returns the raw reply.
func (c *Client) Do(ctx context.Context, cmd commands.Command) (models.Value, error) {
	return c.do(ctx, cmd, true)
}

// Exec sends cmd and decodes the reply with the decoder registered for it.
func (c *Client) Exec(ctx context.Context, cmd commands.Command) (interface{}, error) {
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return replies.ForCommand(cmd)(v)
}

func (c *Client) do(ctx context.Context, cmd commands.Command, journal bool) (models.Value, error) {
	var value models.Value
	start := time.Now()

	err := c.executeWithRetry(ctx, cmd, func(ctx context.Context) (bool, error) {
		conn, err := c.pool.GetContext(ctx)
		if err != nil {
			return false, err
		}
		defer conn.Close()

		reply, err := redis.DoContext(conn, ctx, cmd.Name, cmd.Args...)
		if err != nil {
			return true, err
		}
		value, err = models.FromReply(reply)
		return true, err
	})
	c.metrics.AddCommandExecution(cmd.Name, time.Since(start), err)
	if err != nil {
		var rerr redis.Error
		if errors.As(err, &rerr) {
			err = &ServerError{Command: cmd.Name, Message: rerr.Error()}
		}
		logger.Debug(err, "cmd", cmd.Name, "took", time.Since(start), "command failed")
		return models.Value{}, err
	}
	logger.Debug("cmd", cmd.Name, "took", time.Since(start), "command done")

	if journal && c.journal != nil && cmd.IsWrite() {
		// the store already applied the write, so a journal failure is only logged
		if jerr := c.journal.Write(cmd); jerr != nil {
			logger.Error(jerr, "cmd", cmd.Name, "journal write failed")
		}
	}
	return value, nil
}

// Replay re-sends every journaled command in order. Replayed commands are
// not journaled again.
func (c *Client) Replay(ctx context.Context, journal ports.Storage) (int, error) {
	var cmds []commands.Command
	if err := journal.Read(func(cmd commands.Command) {
		cmds = append(cmds, cmd)
	}); err != nil {
		return 0, err
	}
	for i, cmd := range cmds {
		if _, err := c.do(ctx, cmd, false); err != nil {
			return i, fmt.Errorf("replaying %q: %w", cmd.String(), err)
		}
	}
	logger.Info("commands", len(cmds), "journal replayed")
	return len(cmds), nil
}

func call[T any](ctx context.Context, c *Client, cmd commands.Command, decode func(models.Value) (T, error)) (T, error) {
	var zero T
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return zero, err
	}
	out, err := decode(v)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return out, nil
}
