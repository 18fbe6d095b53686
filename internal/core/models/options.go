package models

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gomodule/redigo/redis"
)

var ErrInvalidTrimPolicy = errors.New("invalid trim policy")

// TrimPolicy caps a stream at Count entries, either exactly or letting the
// store trim approximately.
type TrimPolicy struct {
	Approximate bool
	Count       int64
}

func MaxLenExact(count int64) TrimPolicy {
	return TrimPolicy{Count: count}
}

func MaxLenApprox(count int64) TrimPolicy {
	return TrimPolicy{Approximate: true, Count: count}
}

func (t TrimPolicy) mode() string {
	if t.Approximate {
		return "~"
	}
	return "="
}

// AppendArgs renders MAXLEN (=|~) count.
func (t TrimPolicy) AppendArgs(args redis.Args) redis.Args {
	return args.Add("MAXLEN", t.mode(), t.Count)
}

func (t TrimPolicy) Args() []string {
	return []string{"MAXLEN", t.mode(), strconv.FormatInt(t.Count, 10)}
}

func (t TrimPolicy) String() string {
	return fmt.Sprintf("MAXLEN %s %d", t.mode(), t.Count)
}

// ParseTrimPolicy reads a policy back from its three tokens.
func ParseTrimPolicy(tokens []string) (TrimPolicy, error) {
	if len(tokens) != 3 || tokens[0] != "MAXLEN" {
		return TrimPolicy{}, fmt.Errorf("%w: %q", ErrInvalidTrimPolicy, tokens)
	}
	var t TrimPolicy
	switch tokens[1] {
	case "=":
	case "~":
		t.Approximate = true
	default:
		return TrimPolicy{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidTrimPolicy, tokens[1])
	}
	n, err := strconv.ParseInt(tokens[2], 10, 64)
	if err != nil {
		return TrimPolicy{}, fmt.Errorf("%w: %v", ErrInvalidTrimPolicy, err)
	}
	t.Count = n
	return t, nil
}

// ClaimOptions holds the XCLAIM modifiers. The zero value sets nothing.
type ClaimOptions struct {
	idle   *int64
	time   *int64
	retry  *int64
	force  bool
	justID bool
}

func NewClaimOptions() ClaimOptions { return ClaimOptions{} }

// Idle sets the idle time (ms) of the claimed entries.
func (o ClaimOptions) Idle(ms int64) ClaimOptions {
	o.idle = &ms
	return o
}

// Time sets the idle time as an absolute unix time in ms.
func (o ClaimOptions) Time(msTime int64) ClaimOptions {
	o.time = &msTime
	return o
}

// Retry overrides the delivery counter.
func (o ClaimOptions) Retry(count int64) ClaimOptions {
	o.retry = &count
	return o
}

func (o ClaimOptions) WithForce() ClaimOptions {
	o.force = true
	return o
}

func (o ClaimOptions) WithJustID() ClaimOptions {
	o.justID = true
	return o
}

func (o ClaimOptions) IsJustID() bool { return o.justID }

func (o ClaimOptions) AppendArgs(args redis.Args) redis.Args {
	if o.idle != nil {
		args = args.Add("IDLE", *o.idle)
	}
	if o.time != nil {
		args = args.Add("TIME", *o.time)
	}
	if o.retry != nil {
		args = args.Add("RETRYCOUNT", *o.retry)
	}
	if o.force {
		args = args.Add("FORCE")
	}
	if o.justID {
		args = args.Add("JUSTID")
	}
	return args
}

func (o ClaimOptions) Args() []string { return argStrings(o.AppendArgs(nil)) }

// ReadOptions holds the XREAD/XREADGROUP modifiers. Binding a consumer group
// turns the read into a group read.
type ReadOptions struct {
	block *int64
	count *int64
	group *groupBinding
}

type groupBinding struct {
	group    string
	consumer string
}

func NewReadOptions() ReadOptions { return ReadOptions{} }

// Block sets how long (ms) the read waits for new entries.
func (o ReadOptions) Block(ms int64) ReadOptions {
	o.block = &ms
	return o
}

func (o ReadOptions) Count(n int64) ReadOptions {
	o.count = &n
	return o
}

func (o ReadOptions) Group(group, consumer string) ReadOptions {
	o.group = &groupBinding{group: group, consumer: consumer}
	return o
}

func (o ReadOptions) IsGroupRead() bool { return o.group != nil }

// GroupBinding returns the bound group and consumer names.
func (o ReadOptions) GroupBinding() (group, consumer string, ok bool) {
	if o.group == nil {
		return "", "", false
	}
	return o.group.group, o.group.consumer, true
}

func (o ReadOptions) AppendArgs(args redis.Args) redis.Args {
	if o.block != nil {
		args = args.Add("BLOCK", *o.block)
	}
	if o.count != nil {
		args = args.Add("COUNT", *o.count)
	}
	if o.group != nil {
		args = args.Add("GROUP", o.group.group, o.group.consumer)
	}
	return args
}

func (o ReadOptions) Args() []string { return argStrings(o.AppendArgs(nil)) }

func argStrings(args redis.Args) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = FormatArg(a)
	}
	return out
}

// FormatArg renders one command argument the way redigo writes it on the
// wire.
func FormatArg(arg interface{}) string {
	switch a := arg.(type) {
	case string:
		return a
	case []byte:
		return string(a)
	case int:
		return strconv.Itoa(a)
	case int64:
		return strconv.FormatInt(a, 10)
	case float64:
		return strconv.FormatFloat(a, 'g', -1, 64)
	case bool:
		if a {
			return "1"
		}
		return "0"
	case nil:
		return ""
	case redis.Argument:
		return FormatArg(a.RedisArg())
	default:
		return fmt.Sprint(a)
	}
}
