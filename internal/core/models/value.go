package models

import (
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// Kind tags the shape held by a Value.
type Kind int

const (
	KindNil Kind = iota
	KindInteger
	KindBulk
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a schema-less reply from the store. Only the field selected by
// Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Bulk  string
	Array []Value
	Map   []Pair
}

// Pair is one key/value slot of a Map value, kept in wire order.
type Pair struct {
	Key   Value
	Value Value
}

func Nil() Value { return Value{Kind: KindNil} }
func Integer(n int64) Value { return Value{Kind: KindInteger, Int: n} }
func Bulk(s string) Value { return Value{Kind: KindBulk, Bulk: s} }
func Array(items ...Value) Value { return Value{Kind: KindArray, Array: items} }
func MapOf(pairs ...Pair) Value { return Value{Kind: KindMap, Map: pairs} }
func BulkPair(k string, v Value) Pair { return Pair{Key: Bulk(k), Value: v} }

// Bulks builds an array of bulk strings.
func Bulks(items ...string) Value {
	arr := make([]Value, len(items))
	for i, s := range items {
		arr[i] = Bulk(s)
	}
	return Array(arr...)
}

func (v Value) IsNil() bool { return v.Kind == KindNil }

func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "Nil"
	case KindInteger:
		return fmt.Sprintf("Integer: %d", v.Int)
	case KindBulk:
		return fmt.Sprintf("Bulk: %s", v.Bulk)
	case KindArray:
		return fmt.Sprintf("Array: %v", v.Array)
	case KindMap:
		return fmt.Sprintf("Map: %v", v.Map)
	default:
		return fmt.Sprintf("Unknown Kind: %d", int(v.Kind))
	}
}

// Reply converts v into the representation redigo uses for replies, so the
// redis.Int64/redis.String family of helpers can decode it. Maps flatten
// into alternating key/value arrays the way RESP2 delivers them.
func (v Value) Reply() interface{} {
	switch v.Kind {
	case KindInteger:
		return v.Int
	case KindBulk:
		return []byte(v.Bulk)
	case KindArray:
		out := make([]interface{}, len(v.Array))
		for i, item := range v.Array {
			out[i] = item.Reply()
		}
		return out
	case KindMap:
		out := make([]interface{}, 0, len(v.Map)*2)
		for _, p := range v.Map {
			out = append(out, p.Key.Reply(), p.Value.Reply())
		}
		return out
	default:
		return nil
	}
}

// FromReply converts a redigo reply into a Value. Server errors embedded in
// the reply are returned as errors.
func FromReply(reply interface{}) (Value, error) {
	switch r := reply.(type) {
	case nil:
		return Nil(), nil
	case int64:
		return Integer(r), nil
	case []byte:
		return Bulk(string(r)), nil
	case string:
		return Bulk(r), nil
	case redis.Error:
		return Value{}, r
	case []interface{}:
		arr := make([]Value, len(r))
		for i, item := range r {
			v, err := FromReply(item)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	default:
		return Value{}, fmt.Errorf("unsupported reply type: %T", reply)
	}
}
