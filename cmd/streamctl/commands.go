package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"

	"github.com/genc-murat/crystalstream/internal/client"
	"github.com/genc-murat/crystalstream/internal/config"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/logger"
	"github.com/genc-murat/crystalstream/internal/storage"
	"github.com/genc-murat/crystalstream/internal/util"
)

type app struct {
	cfg    *config.Config
	client *client.Client
	out    io.Writer
	pretty bool
}

// subcommand.journals is false when the subcommand opens the journal
// itself.
type subcommand struct {
	summary  string
	journals bool
	run      func(ctx context.Context, a *app, args []string) error
}

var subcommandOrder = []string{
	"add", "read", "range", "revrange", "pending", "ack", "claim",
	"trim", "info", "groups", "consumers", "mkgroup", "replay",
}

var subcommands = map[string]subcommand{
	"add":       {"append an entry: add KEY FIELD VALUE [FIELD VALUE ...]", true, runAdd},
	"read":      {"read new entries: read KEY [KEY ...]", true, runRead},
	"range":     {"list entries oldest first: range KEY", true, runRange},
	"revrange":  {"list entries newest first: revrange KEY", true, runRevRange},
	"pending":   {"show pending entries: pending KEY GROUP", true, runPending},
	"ack":       {"acknowledge entries: ack KEY GROUP ID [ID ...]", true, runAck},
	"claim":     {"take over pending entries: claim KEY GROUP CONSUMER [ID ...]", true, runClaim},
	"trim":      {"cap a stream: trim KEY --maxlen N", true, runTrim},
	"info":      {"show stream metadata: info KEY", true, runInfo},
	"groups":    {"list consumer groups: groups KEY", true, runGroups},
	"consumers": {"list group consumers: consumers KEY GROUP", true, runConsumers},
	"mkgroup":   {"create a consumer group: mkgroup KEY GROUP", true, runMkGroup},
	"replay":    {"re-send journaled commands: replay [--file PATH]", false, runReplay},
}

func newFlags(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

// parse parses args and checks that at least want positional arguments
// remain.
func parse(fs *pflag.FlagSet, args []string, want int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() < want {
		return nil, fmt.Errorf("%w: %s needs at least %d arguments, got %d", errUsage, fs.Name(), want, fs.NArg())
	}
	return fs.Args(), nil
}

func (a *app) trimFlags(fs *pflag.FlagSet) (*int64, *bool) {
	maxLen := fs.Int64("maxlen", a.cfg.Stream.MaxLen, "cap the stream at this many entries (0 keeps all)")
	approx := fs.Bool("approx", a.cfg.Stream.Approximate, "let the store trim approximately")
	return maxLen, approx
}

func trimPolicy(maxLen int64, approx bool) models.TrimPolicy {
	if approx {
		return models.MaxLenApprox(maxLen)
	}
	return models.MaxLenExact(maxLen)
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlags("add")
	id := fs.String("id", "*", "entry id")
	maxLen, approx := a.trimFlags(fs)
	rest, err := parse(fs, args, 3)
	if err != nil {
		return err
	}
	if err := util.ValidateFieldValues(rest[1:]); err != nil {
		return fmt.Errorf("%w: add: %v", errUsage, err)
	}
	if err := util.ValidateStreamID(*id, true); err != nil {
		return fmt.Errorf("%w: add: %v", errUsage, err)
	}

	fieldValues := make([]interface{}, 0, len(rest)-1)
	for _, s := range rest[1:] {
		fieldValues = append(fieldValues, s)
	}

	var newID string
	if *maxLen > 0 {
		newID, err = a.client.XAddMaxLen(ctx, rest[0], trimPolicy(*maxLen, *approx), *id, fieldValues...)
	} else {
		newID, err = a.client.XAdd(ctx, rest[0], *id, fieldValues...)
	}
	if err != nil {
		return err
	}
	return a.print(map[string]string{"id": newID})
}

func runRead(ctx context.Context, a *app, args []string) error {
	fs := newFlags("read")
	ids := fs.StringSlice("id", nil, "start id per key (default > for group reads, 0-0 otherwise)")
	count := fs.Int64("count", a.cfg.Stream.Count, "max entries per key")
	block := fs.Duration("block", a.cfg.Stream.Block, "wait this long for new entries (0 does not block)")
	group := fs.String("group", a.cfg.Stream.Group, "read as a member of this consumer group")
	consumer := fs.String("consumer", a.cfg.Stream.Consumer, "consumer name for group reads")
	keys, err := parse(fs, args, 1)
	if err != nil {
		return err
	}

	opts := models.NewReadOptions()
	if *count > 0 {
		opts = opts.Count(*count)
	}
	if *block > 0 {
		opts = opts.Block(block.Milliseconds())
	}
	if *group != "" {
		opts = opts.Group(*group, *consumer)
	}

	startIDs := *ids
	if len(startIDs) == 0 {
		start := "0-0"
		if opts.IsGroupRead() {
			start = ">"
		}
		for range keys {
			startIDs = append(startIDs, start)
		}
	}
	if len(startIDs) != len(keys) {
		return fmt.Errorf("%w: read got %d keys but %d ids", errUsage, len(keys), len(startIDs))
	}

	reply, err := a.client.XRead(ctx, keys, startIDs, opts)
	if err != nil {
		return err
	}
	views := make([]keyView, len(reply.Keys))
	for i, k := range reply.Keys {
		views[i] = keyView{Key: k.Key, Entries: viewEntries(k.Entries)}
	}
	return a.print(views)
}

func runRange(ctx context.Context, a *app, args []string) error {
	fs := newFlags("range")
	start := fs.String("start", "-", "first id")
	end := fs.String("end", "+", "last id")
	count := fs.Int64("count", 0, "max entries (0 for all)")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	reply, err := a.client.XRange(ctx, rest[0], *start, *end, *count)
	if err != nil {
		return err
	}
	return a.print(viewEntries(reply.Entries))
}

func runRevRange(ctx context.Context, a *app, args []string) error {
	fs := newFlags("revrange")
	end := fs.String("end", "+", "newest id")
	start := fs.String("start", "-", "oldest id")
	count := fs.Int64("count", 0, "max entries (0 for all)")
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	reply, err := a.client.XRevRange(ctx, rest[0], *end, *start, *count)
	if err != nil {
		return err
	}
	return a.print(viewEntries(reply.Entries))
}

func runPending(ctx context.Context, a *app, args []string) error {
	fs := newFlags("pending")
	start := fs.String("start", "-", "first id")
	end := fs.String("end", "+", "last id")
	count := fs.Int64("count", 0, "list up to this many entries instead of the summary")
	consumer := fs.String("consumer", "", "only entries owned by this consumer")
	rest, err := parse(fs, args, 2)
	if err != nil {
		return err
	}

	if *count == 0 && *consumer == "" {
		summary, err := a.client.XPending(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return a.print(summary)
	}
	if *count == 0 {
		*count = a.cfg.Stream.Count
	}
	detail, err := a.client.XPendingDetail(ctx, rest[0], rest[1], *start, *end, *count, *consumer)
	if err != nil {
		return err
	}
	return a.print(detail.Entries)
}

func runAck(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlags("ack"), args, 3)
	if err != nil {
		return err
	}
	if err := util.ValidateStreamIDs(rest[2:], false); err != nil {
		return fmt.Errorf("%w: ack: %v", errUsage, err)
	}
	n, err := a.client.XAck(ctx, rest[0], rest[1], rest[2:]...)
	if err != nil {
		return err
	}
	return a.print(map[string]int64{"acked": n})
}

func runClaim(ctx context.Context, a *app, args []string) error {
	fs := newFlags("claim")
	minIdle := fs.Duration("min-idle", time.Minute, "only claim entries idle at least this long")
	idle := fs.Duration("idle", -1, "set the idle time of claimed entries")
	retry := fs.Int64("retry", -1, "set the delivery counter")
	force := fs.Bool("force", false, "create pending entries for ids not yet pending")
	justID := fs.Bool("justid", false, "return ids only")
	auto := fs.Bool("auto", false, "scan the pending list instead of naming ids")
	start := fs.String("start", "0-0", "scan start id for --auto")
	count := fs.Int64("count", a.cfg.Stream.Count, "max entries for --auto")
	rest, err := parse(fs, args, 3)
	if err != nil {
		return err
	}
	key, group, consumer := rest[0], rest[1], rest[2]

	if *auto {
		reply, err := a.client.XAutoClaim(ctx, key, group, consumer, minIdle.Milliseconds(), *start, *count, *justID)
		if err != nil {
			return err
		}
		return a.print(struct {
			NextID     string      `json:"next_id"`
			Entries    []entryView `json:"entries"`
			DeletedIDs []string    `json:"deleted_ids,omitempty"`
		}{reply.NextID, viewEntries(reply.Entries), reply.DeletedIDs})
	}

	if len(rest) < 4 {
		return fmt.Errorf("%w: claim needs ids unless --auto is set", errUsage)
	}
	if err := util.ValidateStreamIDs(rest[3:], false); err != nil {
		return fmt.Errorf("%w: claim: %v", errUsage, err)
	}
	opts := models.NewClaimOptions()
	if *idle >= 0 {
		opts = opts.Idle(idle.Milliseconds())
	}
	if *retry >= 0 {
		opts = opts.Retry(*retry)
	}
	if *force {
		opts = opts.WithForce()
	}
	if *justID {
		opts = opts.WithJustID()
	}
	reply, err := a.client.XClaim(ctx, key, group, consumer, minIdle.Milliseconds(), rest[3:], opts)
	if err != nil {
		return err
	}
	return a.print(viewEntries(reply.Entries))
}

func runTrim(ctx context.Context, a *app, args []string) error {
	fs := newFlags("trim")
	maxLen, approx := a.trimFlags(fs)
	rest, err := parse(fs, args, 1)
	if err != nil {
		return err
	}
	if !fs.Changed("maxlen") && a.cfg.Stream.MaxLen == 0 {
		return fmt.Errorf("%w: trim needs --maxlen", errUsage)
	}
	n, err := a.client.XTrim(ctx, rest[0], trimPolicy(*maxLen, *approx))
	if err != nil {
		return err
	}
	return a.print(map[string]int64{"trimmed": n})
}

func runInfo(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlags("info"), args, 1)
	if err != nil {
		return err
	}
	info, err := a.client.XInfoStream(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(struct {
		models.StreamInfo
		FirstEntry *entryView `json:"FirstEntry"`
		LastEntry  *entryView `json:"LastEntry"`
	}{info, viewOptEntry(info.FirstEntry), viewOptEntry(info.LastEntry)})
}

func runGroups(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlags("groups"), args, 1)
	if err != nil {
		return err
	}
	reply, err := a.client.XInfoGroups(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(reply.Groups)
}

func runConsumers(ctx context.Context, a *app, args []string) error {
	rest, err := parse(newFlags("consumers"), args, 2)
	if err != nil {
		return err
	}
	reply, err := a.client.XInfoConsumers(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	return a.print(reply.Consumers)
}

func runMkGroup(ctx context.Context, a *app, args []string) error {
	fs := newFlags("mkgroup")
	id := fs.String("id", "$", "last delivered id for the new group")
	mkStream := fs.Bool("mkstream", true, "create the stream if it does not exist")
	rest, err := parse(fs, args, 2)
	if err != nil {
		return err
	}
	if err := a.client.XGroupCreate(ctx, rest[0], rest[1], *id, *mkStream); err != nil {
		return err
	}
	return a.print(map[string]string{"status": "OK"})
}

func runReplay(ctx context.Context, a *app, args []string) error {
	fs := newFlags("replay")
	file := fs.String("file", a.cfg.Storage.AOF.Path, "journal to replay")
	if _, err := parse(fs, args, 0); err != nil {
		return err
	}
	policy, err := storage.ParseSyncPolicy(a.cfg.Storage.AOF.Sync)
	if err != nil {
		return err
	}
	journal, err := storage.NewAOF(*file, policy)
	if err != nil {
		return err
	}
	defer journal.Close()

	n, err := a.client.Replay(ctx, journal)
	if err != nil {
		logger.Error(err, "replayed", n, "file", *file, "replay stopped")
		return err
	}
	return a.print(map[string]int{"replayed": n})
}
