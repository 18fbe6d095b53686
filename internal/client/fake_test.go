package client

import (
	"context"
	"errors"
	"sync"

	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
)

// handler answers one command given its rendered tokens.
type handler func(tokens []string) (interface{}, error)

type fakePool struct {
	mu      sync.Mutex
	handle  handler
	sent    [][]string
	getErrs []error
	closed  bool
}

func newFakePool(h handler) *fakePool {
	return &fakePool{handle: h}
}

func (p *fakePool) GetContext(ctx context.Context) (redis.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.getErrs) > 0 {
		err := p.getErrs[0]
		p.getErrs = p.getErrs[1:]
		return nil, err
	}
	return &fakeConn{pool: p}, nil
}

func (p *fakePool) Stats() redis.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return redis.PoolStats{ActiveCount: len(p.sent)}
}

func (p *fakePool) Close() error {
	p.closed = true
	return nil
}

func (p *fakePool) commands() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.sent...)
}

type fakeConn struct {
	pool *fakePool
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }

func (c *fakeConn) Do(name string, args ...interface{}) (interface{}, error) {
	return c.DoContext(context.Background(), name, args...)
}

func (c *fakeConn) DoContext(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens := commands.New(name, args...).Tokens()
	c.pool.mu.Lock()
	c.pool.sent = append(c.pool.sent, tokens)
	c.pool.mu.Unlock()
	return c.pool.handle(tokens)
}

func (c *fakeConn) Send(string, ...interface{}) error { return errors.New("not supported") }
func (c *fakeConn) Flush() error                      { return errors.New("not supported") }
func (c *fakeConn) Receive() (interface{}, error)     { return nil, errors.New("not supported") }

func (c *fakeConn) ReceiveContext(context.Context) (interface{}, error) {
	return nil, errors.New("not supported")
}

// memJournal keeps journaled commands in memory.
type memJournal struct {
	cmds   []commands.Command
	err    error
	closed bool
}

func (j *memJournal) Write(cmd commands.Command) error {
	if j.err != nil {
		return j.err
	}
	j.cmds = append(j.cmds, cmd)
	return nil
}

func (j *memJournal) Read(callback func(cmd commands.Command)) error {
	for _, cmd := range j.cmds {
		callback(cmd)
	}
	return nil
}

func (j *memJournal) Close() error {
	j.closed = true
	return nil
}

func bulks(items ...string) []interface{} {
	out := make([]interface{}, len(items))
	for i, s := range items {
		out[i] = []byte(s)
	}
	return out
}

func entryReply(id string, fieldValues ...string) interface{} {
	return []interface{}{[]byte(id), bulks(fieldValues...)}
}

var fastRetry = models.RetryStrategy{
	MaxAttempts:     3,
	InitialInterval: 0,
	MaxInterval:     0,
	Multiplier:      2,
}
