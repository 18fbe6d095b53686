package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/logger"
	"github.com/genc-murat/crystalstream/internal/util"
)

// attempt runs the command once. sent reports whether the command reached
// the connection, after which a write is never repeated.
type attempt func(ctx context.Context) (sent bool, err error)

func (c *Client) executeWithRetry(ctx context.Context, cmd commands.Command, op attempt) error {
	var deadline time.Time
	if c.retry.Timeout > 0 {
		deadline = time.Now().Add(c.retry.Timeout)
	}
	interval := c.retry.InitialInterval

	for attempts := 1; ; attempts++ {
		sent, err := op(ctx)
		if err == nil || !retryable(err) || (sent && cmd.IsWrite()) {
			return err
		}
		if attempts >= c.retry.MaxAttempts {
			return fmt.Errorf("%w: %v", models.ErrMaxRetriesExceeded, err)
		}
		if !deadline.IsZero() && time.Now().Add(interval).After(deadline) {
			return fmt.Errorf("%w: %v", models.ErrOperationTimeout, err)
		}
		logger.Warn(err, "cmd", cmd.Name, "attempt", attempts, "retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(util.Jitter(interval)):
		}

		if interval < c.retry.MaxInterval {
			interval = time.Duration(float64(interval) * c.retry.Multiplier)
			if interval > c.retry.MaxInterval {
				interval = c.retry.MaxInterval
			}
		}
	}
}

// retryable reports whether err came from the connection rather than from
// the store or the caller.
func retryable(err error) bool {
	var rerr redis.Error
	switch {
	case errors.As(err, &rerr):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, redis.ErrPoolExhausted):
		return true
	}
	var nerr interface{ Timeout() bool }
	if errors.As(err, &nerr) && nerr.Timeout() {
		// a timed out blocking read is not a transport failure
		return false
	}
	return true
}
