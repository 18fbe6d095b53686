package models

import (
	"github.com/gomodule/redigo/redis"
	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
)

// StreamEntry is one stream record: its id and field map. A repeated field
// in the reply overwrites the earlier value but keeps its first position.
type StreamEntry struct {
	ID     string
	Fields map[string]Value
	order  []string
}

func NewStreamEntry(id string) StreamEntry {
	return StreamEntry{ID: id, Fields: make(map[string]Value)}
}

// EntryOf builds an entry from alternating field/value strings.
func EntryOf(id string, fieldValues ...string) StreamEntry {
	e := NewStreamEntry(id)
	for i := 0; i+1 < len(fieldValues); i += 2 {
		e.Set(fieldValues[i], Bulk(fieldValues[i+1]))
	}
	return e
}

func (e *StreamEntry) Set(field string, v Value) {
	if e.Fields == nil {
		e.Fields = make(map[string]Value)
	}
	if _, ok := e.Fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.Fields[field] = v
}

func (e StreamEntry) Find(field string) (Value, bool) {
	v, ok := e.Fields[field]
	return v, ok
}

func (e StreamEntry) Contains(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

func (e StreamEntry) Len() int { return len(e.Fields) }

func (e StreamEntry) String(field string) (string, bool) {
	v, ok := e.Fields[field]
	if !ok {
		return "", false
	}
	s, err := redis.String(v.Reply(), nil)
	return s, err == nil
}

func (e StreamEntry) Bytes(field string) ([]byte, bool) {
	v, ok := e.Fields[field]
	if !ok {
		return nil, false
	}
	b, err := redis.Bytes(v.Reply(), nil)
	return b, err == nil
}

func (e StreamEntry) Int64(field string) (int64, bool) {
	v, ok := e.Fields[field]
	if !ok {
		return 0, false
	}
	n, err := redis.Int64(v.Reply(), nil)
	return n, err == nil
}

func (e StreamEntry) Float64(field string) (float64, bool) {
	v, ok := e.Fields[field]
	if !ok {
		return 0, false
	}
	f, err := redis.Float64(v.Reply(), nil)
	return f, err == nil
}

func (e StreamEntry) Bool(field string) (bool, bool) {
	v, ok := e.Fields[field]
	if !ok {
		return false, false
	}
	b, err := redis.Bool(v.Reply(), nil)
	return b, err == nil
}

// JSON looks up path inside a field holding a JSON document.
func (e StreamEntry) JSON(field, path string) (gjson.Result, bool) {
	s, ok := e.String(field)
	if !ok || !gjson.Valid(s) {
		return gjson.Result{}, false
	}
	res := gjson.Get(s, path)
	return res, res.Exists()
}

// Match returns the field names matching a glob pattern, in wire order.
func (e StreamEntry) Match(pattern string) []string {
	var names []string
	for _, name := range e.FieldNames() {
		if match.Match(name, pattern) {
			names = append(names, name)
		}
	}
	return names
}

// FieldNames lists fields in wire order. Entries assembled by hand without
// Set fall back to map order.
func (e StreamEntry) FieldNames() []string {
	if len(e.order) == len(e.Fields) {
		return append([]string(nil), e.order...)
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return names
}

// Pairs returns the field/value pairs in wire order, ready to be re-sent.
func (e StreamEntry) Pairs() []Pair {
	names := e.FieldNames()
	pairs := make([]Pair, len(names))
	for i, name := range names {
		pairs[i] = BulkPair(name, e.Fields[name])
	}
	return pairs
}

// StreamKey groups the entries a read returned for one stream.
type StreamKey struct {
	Key     string
	Entries []StreamEntry
}

// IDs returns just the entry ids, e.g. to acknowledge them.
func (k StreamKey) IDs() []string {
	return entryIDs(k.Entries)
}

func entryIDs(entries []StreamEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// ReadReply is the decoded XREAD/XREADGROUP reply.
type ReadReply struct {
	Keys []StreamKey
}

// Entries returns the entries read from key, or nil.
func (r ReadReply) Entries(key string) []StreamEntry {
	for _, k := range r.Keys {
		if k.Key == key {
			return k.Entries
		}
	}
	return nil
}

// RangeReply is the decoded XRANGE/XREVRANGE reply.
type RangeReply struct {
	Entries []StreamEntry
}

func (r RangeReply) IDs() []string { return entryIDs(r.Entries) }

// ClaimReply is the decoded XCLAIM reply. With JUSTID the entries carry no
// fields.
type ClaimReply struct {
	Entries []StreamEntry
}

func (r ClaimReply) IDs() []string { return entryIDs(r.Entries) }

// AutoClaimReply is the decoded XAUTOCLAIM reply.
type AutoClaimReply struct {
	NextID     string
	Entries    []StreamEntry
	DeletedIDs []string
}

// PendingSummary is the decoded XPENDING key group reply. The store does not
// report idle times here, so ConsumerInfo.Idle stays zero.
type PendingSummary struct {
	Count     int64
	StartID   string
	EndID     string
	Consumers []ConsumerInfo
}

// PendingDetail is one row of the extended XPENDING reply.
type PendingDetail struct {
	ID         string
	Consumer   string
	IdleMs     int64
	Deliveries int64
}

type PendingDetailReply struct {
	Entries []PendingDetail
}

func (r PendingDetailReply) IDs() []string {
	ids := make([]string, len(r.Entries))
	for i, p := range r.Entries {
		ids[i] = p.ID
	}
	return ids
}

type ConsumerInfo struct {
	Name    string
	Pending int64
	Idle    int64
}

type ConsumersReply struct {
	Consumers []ConsumerInfo
}

type GroupInfo struct {
	Name            string
	Consumers       int64
	Pending         int64
	LastDeliveredID string
}

type GroupsReply struct {
	Groups []GroupInfo
}

// StreamInfo is the decoded XINFO STREAM reply. FirstEntry and LastEntry
// are nil for an empty stream.
type StreamInfo struct {
	Length               int64
	RadixTreeKeys        int64
	RadixTreeNodes       int64
	Groups               int64
	LastGeneratedID      string
	MaxDeletedEntryID    string
	EntriesAdded         int64
	RecordedFirstEntryID string
	FirstEntry           *StreamEntry
	LastEntry            *StreamEntry
}
