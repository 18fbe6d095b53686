package commands

import (
	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

func Ping() Command {
	return New("PING")
}

// XACK key group id [id ...]
func XAck(key, group string, ids ...string) Command {
	return Command{Name: "XACK", Args: redis.Args{key, group}.AddFlat(ids)}
}

// XADD key id field value [field value ...]
func XAdd(key, id string, fieldValues ...interface{}) Command {
	return Command{Name: "XADD", Args: redis.Args{key, id}.Add(fieldValues...)}
}

// XAddMap flattens a map or a struct with redis tags into field/value
// pairs. Map iteration order is not preserved.
func XAddMap(key, id string, fields interface{}) Command {
	return Command{Name: "XADD", Args: redis.Args{key, id}.AddFlat(fields)}
}

// XADD key MAXLEN (=|~) count id field value [field value ...]
func XAddMaxLen(key string, maxlen models.TrimPolicy, id string, fieldValues ...interface{}) Command {
	args := maxlen.AppendArgs(redis.Args{key})
	return Command{Name: "XADD", Args: args.Add(id).Add(fieldValues...)}
}

// XAddEntry re-sends an entry with its fields in wire order. Use "*" as the
// entry id to let the store assign a new one.
func XAddEntry(key string, maxlen *models.TrimPolicy, entry models.StreamEntry) Command {
	args := redis.Args{key}
	if maxlen != nil {
		args = maxlen.AppendArgs(args)
	}
	args = args.Add(entry.ID)
	for _, p := range entry.Pairs() {
		args = args.Add(p.Key.Reply(), p.Value.Reply())
	}
	return Command{Name: "XADD", Args: args}
}

// XCLAIM key group consumer min-idle-time id [id ...]
func XClaim(key, group, consumer string, minIdleTime int64, ids ...string) Command {
	return XClaimOptions(key, group, consumer, minIdleTime, ids, models.ClaimOptions{})
}

// XCLAIM key group consumer min-idle-time id [id ...] [IDLE ms] [TIME ms]
// [RETRYCOUNT n] [FORCE] [JUSTID]
func XClaimOptions(key, group, consumer string, minIdleTime int64, ids []string, opts models.ClaimOptions) Command {
	args := redis.Args{key, group, consumer, minIdleTime}.AddFlat(ids)
	return Command{Name: "XCLAIM", Args: opts.AppendArgs(args)}
}

// XAUTOCLAIM key group consumer min-idle-time start [COUNT n] [JUSTID]
// A count of zero leaves COUNT to the store default.
func XAutoClaim(key, group, consumer string, minIdleTime int64, start string, count int64, justID bool) Command {
	args := redis.Args{key, group, consumer, minIdleTime, start}
	if count > 0 {
		args = args.Add("COUNT", count)
	}
	if justID {
		args = args.Add("JUSTID")
	}
	return Command{Name: "XAUTOCLAIM", Args: args}
}

// XDEL key id [id ...]
func XDel(key string, ids ...string) Command {
	return Command{Name: "XDEL", Args: redis.Args{key}.AddFlat(ids)}
}

// XGROUP CREATE key group id
func XGroupCreate(key, group, id string) Command {
	return New("XGROUP", "CREATE", key, group, id)
}

// XGROUP CREATE key group id MKSTREAM
func XGroupCreateMkStream(key, group, id string) Command {
	return New("XGROUP", "CREATE", key, group, id, "MKSTREAM")
}

// XGROUP SETID key group id
func XGroupSetID(key, group, id string) Command {
	return New("XGROUP", "SETID", key, group, id)
}

// XGROUP DESTROY key group
func XGroupDestroy(key, group string) Command {
	return New("XGROUP", "DESTROY", key, group)
}

// XGROUP DELCONSUMER key group consumer
func XGroupDelConsumer(key, group, consumer string) Command {
	return New("XGROUP", "DELCONSUMER", key, group, consumer)
}

func XInfoConsumers(key, group string) Command {
	return New("XINFO", "CONSUMERS", key, group)
}

func XInfoGroups(key string) Command {
	return New("XINFO", "GROUPS", key)
}

func XInfoStream(key string) Command {
	return New("XINFO", "STREAM", key)
}

func XLen(key string) Command {
	return New("XLEN", key)
}

// XPENDING key group
func XPending(key, group string) Command {
	return New("XPENDING", key, group)
}

// XPENDING key group start end count
func XPendingCount(key, group, start, end string, count int64) Command {
	return New("XPENDING", key, group, start, end, count)
}

// XPENDING key group start end count consumer
func XPendingConsumerCount(key, group, start, end string, count int64, consumer string) Command {
	return New("XPENDING", key, group, start, end, count, consumer)
}

// XRANGE key start end
func XRange(key, start, end string) Command {
	return New("XRANGE", key, start, end)
}

// XRANGE key - +
func XRangeAll(key string) Command {
	return XRange(key, "-", "+")
}

// XRANGE key start end COUNT n
func XRangeCount(key, start, end string, count int64) Command {
	return New("XRANGE", key, start, end, "COUNT", count)
}

// XREVRANGE key end start
func XRevRange(key, end, start string) Command {
	return New("XREVRANGE", key, end, start)
}

// XREVRANGE key + -
func XRevRangeAll(key string) Command {
	return XRevRange(key, "+", "-")
}

// XREVRANGE key end start COUNT n
func XRevRangeCount(key, end, start string, count int64) Command {
	return New("XREVRANGE", key, end, start, "COUNT", count)
}

// XREAD STREAMS key [key ...] id [id ...]
func XRead(keys, ids []string) Command {
	return XReadOptions(keys, ids, models.ReadOptions{})
}

// XReadOptions encodes XREAD, or XREADGROUP when opts binds a consumer
// group:
//
//	XREAD [BLOCK ms] [COUNT n] STREAMS key [key ...] id [id ...]
//	XREADGROUP [BLOCK ms] [COUNT n] GROUP group consumer STREAMS key [key ...] id [id ...]
//
// Mismatched key and id counts are passed through for the store to reject.
func XReadOptions(keys, ids []string, opts models.ReadOptions) Command {
	name := "XREAD"
	if opts.IsGroupRead() {
		name = "XREADGROUP"
	}
	args := opts.AppendArgs(redis.Args{}).Add("STREAMS").AddFlat(keys).AddFlat(ids)
	return Command{Name: name, Args: args}
}

// XTRIM key MAXLEN (=|~) count
func XTrim(key string, maxlen models.TrimPolicy) Command {
	return Command{Name: "XTRIM", Args: maxlen.AppendArgs(redis.Args{key})}
}
