package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/logger"
	"github.com/genc-murat/crystalstream/pkg/resp"
)

var (
	ErrLocked      = errors.New("aof is locked by another process")
	ErrClosed      = errors.New("aof is closed")
	ErrBadRecord   = errors.New("malformed aof record")
	ErrUnknownSync = errors.New("unknown sync policy")

	errTornTail = errors.New("truncated final record")
)

type SyncPolicy string

const (
	SyncAlways   SyncPolicy = "always"
	SyncEverySec SyncPolicy = "everysec"
)

func ParseSyncPolicy(s string) (SyncPolicy, error) {
	switch p := SyncPolicy(s); p {
	case SyncAlways, SyncEverySec:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSync, s)
	}
}

// AOF is an append-only journal of write commands, stored as RESP arrays of
// bulk strings. The file stays exclusively locked while open.
type AOF struct {
	file   *os.File
	lock   *flock.Flock
	wr     *resp.Writer
	policy SyncPolicy
	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

func NewAOF(path string, policy SyncPolicy) (*AOF, error) {
	if _, err := ParseSyncPolicy(string(policy)); err != nil {
		return nil, err
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	aof := &AOF{
		file:   f,
		lock:   lock,
		wr:     resp.NewWriter(f),
		policy: policy,
		done:   make(chan struct{}),
	}

	if policy == SyncEverySec {
		aof.wg.Add(1)
		go aof.syncLoop()
	}
	return aof, nil
}

func (aof *AOF) syncLoop() {
	defer aof.wg.Done()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-aof.done:
			return
		case <-ticker.C:
			aof.mu.Lock()
			if !aof.closed {
				if err := aof.file.Sync(); err != nil {
					logger.WarnErr(err, "file", aof.file.Name(), "aof sync failed")
				}
			}
			aof.mu.Unlock()
		}
	}
}

func (aof *AOF) Path() string { return aof.file.Name() }

func (aof *AOF) Close() error {
	aof.mu.Lock()
	if aof.closed {
		aof.mu.Unlock()
		return nil
	}
	aof.closed = true
	close(aof.done)
	aof.mu.Unlock()

	aof.wg.Wait()

	aof.mu.Lock()
	defer aof.mu.Unlock()
	syncErr := aof.file.Sync()
	closeErr := aof.file.Close()
	unlockErr := aof.lock.Unlock()
	return errors.Join(syncErr, closeErr, unlockErr)
}

func (aof *AOF) Write(cmd commands.Command) error {
	aof.mu.Lock()
	defer aof.mu.Unlock()

	if aof.closed {
		return ErrClosed
	}
	if err := aof.wr.WriteCommand(cmd.Tokens()); err != nil {
		return err
	}
	if aof.policy == SyncAlways {
		return aof.file.Sync()
	}
	return nil
}

// Read replays every journaled command in order. A final record cut short by
// a crash is dropped with a warning and the file is truncated to the last
// complete record. Damage anywhere else fails with ErrBadRecord.
func (aof *AOF) Read(callback func(cmd commands.Command)) error {
	aof.mu.Lock()
	defer aof.mu.Unlock()

	if aof.closed {
		return ErrClosed
	}

	f, err := os.Open(aof.file.Name())
	if err != nil {
		return err
	}
	defer f.Close()

	offset, err := replay(f, callback)
	if errors.Is(err, errTornTail) {
		logger.WarnErr(err, "file", aof.file.Name(), "offset", offset, "dropping truncated aof tail")
		return aof.file.Truncate(offset)
	}
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// replay returns the offset just past the last complete record.
func replay(src io.Reader, callback func(cmd commands.Command)) (int64, error) {
	cr := &countingReader{r: src}
	reader := resp.NewReader(cr)
	var offset int64
	for n := 0; ; n++ {
		value, err := reader.Read()
		if err == io.EOF {
			return offset, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return offset, fmt.Errorf("%w: record %d", errTornTail, n)
		}
		if err != nil {
			return offset, fmt.Errorf("%w: record %d: %v", ErrBadRecord, n, err)
		}
		tokens, err := commandTokens(value)
		if err != nil {
			return offset, fmt.Errorf("%w: record %d: %v", ErrBadRecord, n, err)
		}
		callback(commands.FromTokens(tokens))
		offset = cr.n - int64(reader.Buffered())
	}
}

func commandTokens(v models.Value) ([]string, error) {
	if v.Kind != models.KindArray || len(v.Array) == 0 {
		return nil, fmt.Errorf("expected non-empty array, got %s", v.Kind)
	}
	tokens := make([]string, len(v.Array))
	for i, item := range v.Array {
		if item.Kind != models.KindBulk {
			return nil, fmt.Errorf("token %d is %s", i, item.Kind)
		}
		tokens[i] = item.Bulk
	}
	return tokens, nil
}
