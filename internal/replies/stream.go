package replies

import (
	"strconv"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

// DecodeRead decodes an XREAD/XREADGROUP reply: a sequence of single-entry
// mappings of stream key to entries, or a RESP3 map of the same. A nil
// reply (blocking read timed out) decodes to no keys.
func DecodeRead(v models.Value) (models.ReadReply, error) {
	d := decoder{reply: "XREAD"}
	var reply models.ReadReply

	if v.Kind == models.KindMap {
		for i, p := range v.Map {
			key, err := d.bulk(p.Key, index("$", i)+".key")
			if err != nil {
				return models.ReadReply{}, err
			}
			entries, err := d.entries(p.Value, field(index("$", i), key))
			if err != nil {
				return models.ReadReply{}, err
			}
			reply.Keys = append(reply.Keys, models.StreamKey{Key: key, Entries: entries})
		}
		return reply, nil
	}

	rows, err := d.list(v, "$")
	if err != nil {
		return models.ReadReply{}, err
	}
	for i, row := range rows {
		path := index("$", i)
		key, value, err := d.single(row, path)
		if err != nil {
			return models.ReadReply{}, err
		}
		entries, err := d.entries(value, field(path, key))
		if err != nil {
			return models.ReadReply{}, err
		}
		reply.Keys = append(reply.Keys, models.StreamKey{Key: key, Entries: entries})
	}
	return reply, nil
}

// DecodeRange decodes an XRANGE/XREVRANGE reply, keeping wire order.
func DecodeRange(v models.Value) (models.RangeReply, error) {
	d := decoder{reply: "XRANGE"}
	entries, err := d.entries(v, "$")
	if err != nil {
		return models.RangeReply{}, err
	}
	return models.RangeReply{Entries: entries}, nil
}

// DecodeClaim decodes an XCLAIM reply. Bare ids (JUSTID) become entries
// without fields.
func DecodeClaim(v models.Value) (models.ClaimReply, error) {
	d := decoder{reply: "XCLAIM"}
	entries, err := d.claimed(v, "$")
	if err != nil {
		return models.ClaimReply{}, err
	}
	return models.ClaimReply{Entries: entries}, nil
}

func (d decoder) claimed(v models.Value, path string) ([]models.StreamEntry, error) {
	items, err := d.list(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]models.StreamEntry, 0, len(items))
	for i, item := range items {
		switch item.Kind {
		case models.KindBulk:
			out = append(out, models.NewStreamEntry(item.Bulk))
		case models.KindNil:
			// deleted while pending
		default:
			e, err := d.entry(item, index(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// DecodeAutoClaim decodes an XAUTOCLAIM reply:
// (next-id, entries [, deleted-ids]).
func DecodeAutoClaim(v models.Value) (models.AutoClaimReply, error) {
	d := decoder{reply: "XAUTOCLAIM"}
	if v.Kind != models.KindArray || len(v.Array) < 2 || len(v.Array) > 3 {
		return models.AutoClaimReply{}, d.mismatch("$", "array of 2 or 3", v)
	}
	next, err := d.bulk(v.Array[0], "$[0]")
	if err != nil {
		return models.AutoClaimReply{}, err
	}
	entries, err := d.claimed(v.Array[1], "$[1]")
	if err != nil {
		return models.AutoClaimReply{}, err
	}
	reply := models.AutoClaimReply{NextID: next, Entries: entries}
	if len(v.Array) == 3 {
		if reply.DeletedIDs, err = d.bulks(v.Array[2], "$[2]"); err != nil {
			return models.AutoClaimReply{}, err
		}
	}
	return reply, nil
}

// DecodePendingSummary decodes the XPENDING key group reply:
// (count, start-id, end-id, [[consumer, pending-count] ...]).
//
// A per-consumer count that is not numeric is left at zero instead of
// failing the decode.
// TODO: decide whether a non-numeric consumer count should fail the decode.
func DecodePendingSummary(v models.Value) (models.PendingSummary, error) {
	d := decoder{reply: "XPENDING"}
	parts, err := d.tuple(v, "$", 4)
	if err != nil {
		return models.PendingSummary{}, err
	}

	var reply models.PendingSummary
	if reply.Count, err = d.integer(parts[0], "$.count"); err != nil {
		return models.PendingSummary{}, err
	}
	if reply.StartID, err = d.optBulk(parts[1], "$.start"); err != nil {
		return models.PendingSummary{}, err
	}
	if reply.EndID, err = d.optBulk(parts[2], "$.end"); err != nil {
		return models.PendingSummary{}, err
	}

	rows, err := d.list(parts[3], "$.consumers")
	if err != nil {
		return models.PendingSummary{}, err
	}
	for i, row := range rows {
		path := index("$.consumers", i)
		cols, err := d.tuple(row, path, 2)
		if err != nil {
			return models.PendingSummary{}, err
		}
		var info models.ConsumerInfo
		if info.Name, err = d.bulk(cols[0], path+".name"); err != nil {
			return models.PendingSummary{}, err
		}
		switch cols[1].Kind {
		case models.KindInteger:
			info.Pending = cols[1].Int
		case models.KindBulk:
			if n, err := strconv.ParseInt(cols[1].Bulk, 10, 64); err == nil {
				info.Pending = n
			}
		default:
			return models.PendingSummary{}, d.mismatch(path+".pending", "bulk string", cols[1])
		}
		reply.Consumers = append(reply.Consumers, info)
	}
	return reply, nil
}

// DecodePendingDetail decodes the extended XPENDING reply: one
// (id, consumer, idle-ms, delivery-count) row per pending entry.
func DecodePendingDetail(v models.Value) (models.PendingDetailReply, error) {
	d := decoder{reply: "XPENDING"}
	rows, err := d.list(v, "$")
	if err != nil {
		return models.PendingDetailReply{}, err
	}
	reply := models.PendingDetailReply{Entries: make([]models.PendingDetail, 0, len(rows))}
	for i, row := range rows {
		path := index("$", i)
		cols, err := d.tuple(row, path, 4)
		if err != nil {
			return models.PendingDetailReply{}, err
		}
		var p models.PendingDetail
		if p.ID, err = d.bulk(cols[0], path+".id"); err != nil {
			return models.PendingDetailReply{}, err
		}
		if p.Consumer, err = d.bulk(cols[1], path+".consumer"); err != nil {
			return models.PendingDetailReply{}, err
		}
		if p.IdleMs, err = d.integer(cols[2], path+".idle"); err != nil {
			return models.PendingDetailReply{}, err
		}
		if p.Deliveries, err = d.integer(cols[3], path+".deliveries"); err != nil {
			return models.PendingDetailReply{}, err
		}
		reply.Entries = append(reply.Entries, p)
	}
	return reply, nil
}

// DecodeStreamInfo decodes an XINFO STREAM reply. Known fields are read by
// name; missing fields keep their zero value.
func DecodeStreamInfo(v models.Value) (models.StreamInfo, error) {
	d := decoder{reply: "XINFO STREAM"}
	if v.Kind != models.KindArray && v.Kind != models.KindMap {
		return models.StreamInfo{}, d.mismatch("$", "mapping", v)
	}
	ps, err := d.pairs(v, "$")
	if err != nil {
		return models.StreamInfo{}, err
	}

	var info models.StreamInfo
	for i, p := range ps {
		name, err := d.bulk(p.Key, index("$", i*2))
		if err != nil {
			return models.StreamInfo{}, err
		}
		path := field("$", name)
		switch name {
		case "length":
			info.Length, err = d.integer(p.Value, path)
		case "radix-tree-keys":
			info.RadixTreeKeys, err = d.integer(p.Value, path)
		case "radix-tree-nodes":
			info.RadixTreeNodes, err = d.integer(p.Value, path)
		case "groups":
			info.Groups, err = d.integer(p.Value, path)
		case "last-generated-id":
			info.LastGeneratedID, err = d.bulk(p.Value, path)
		case "max-deleted-entry-id":
			info.MaxDeletedEntryID, err = d.bulk(p.Value, path)
		case "entries-added":
			info.EntriesAdded, err = d.integer(p.Value, path)
		case "recorded-first-entry-id":
			info.RecordedFirstEntryID, err = d.bulk(p.Value, path)
		case "first-entry":
			info.FirstEntry, err = d.optEntry(p.Value, path)
		case "last-entry":
			info.LastEntry, err = d.optEntry(p.Value, path)
		}
		if err != nil {
			return models.StreamInfo{}, err
		}
	}
	return info, nil
}

func (d decoder) optEntry(v models.Value, path string) (*models.StreamEntry, error) {
	if v.Kind == models.KindNil {
		return nil, nil
	}
	e, err := d.entry(v, path)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DecodeConsumers decodes an XINFO CONSUMERS reply.
func DecodeConsumers(v models.Value) (models.ConsumersReply, error) {
	d := decoder{reply: "XINFO CONSUMERS"}
	var reply models.ConsumersReply
	err := d.records(v, func(name string, value models.Value, path string, i int) error {
		if len(reply.Consumers) <= i {
			reply.Consumers = append(reply.Consumers, models.ConsumerInfo{})
		}
		c := &reply.Consumers[i]
		var err error
		switch name {
		case "name":
			c.Name, err = d.bulk(value, path)
		case "pending":
			c.Pending, err = d.integer(value, path)
		case "idle":
			c.Idle, err = d.integer(value, path)
		}
		return err
	})
	if err != nil {
		return models.ConsumersReply{}, err
	}
	return reply, nil
}

// DecodeGroups decodes an XINFO GROUPS reply.
func DecodeGroups(v models.Value) (models.GroupsReply, error) {
	d := decoder{reply: "XINFO GROUPS"}
	var reply models.GroupsReply
	err := d.records(v, func(name string, value models.Value, path string, i int) error {
		if len(reply.Groups) <= i {
			reply.Groups = append(reply.Groups, models.GroupInfo{})
		}
		g := &reply.Groups[i]
		var err error
		switch name {
		case "name":
			g.Name, err = d.bulk(value, path)
		case "consumers":
			g.Consumers, err = d.integer(value, path)
		case "pending":
			g.Pending, err = d.integer(value, path)
		case "last-delivered-id":
			g.LastDeliveredID, err = d.bulk(value, path)
		}
		return err
	})
	if err != nil {
		return models.GroupsReply{}, err
	}
	return reply, nil
}

// records walks a sequence of field-name mappings, calling fn for every
// field of record i. fn is called at least once per record so empty
// mappings still produce a zero record.
func (d decoder) records(v models.Value, fn func(name string, value models.Value, path string, i int) error) error {
	rows, err := d.list(v, "$")
	if err != nil {
		return err
	}
	for i, row := range rows {
		path := index("$", i)
		if row.Kind != models.KindArray && row.Kind != models.KindMap {
			return d.mismatch(path, "mapping", row)
		}
		ps, err := d.pairs(row, path)
		if err != nil {
			return err
		}
		if len(ps) == 0 {
			if err := fn("", models.Value{}, path, i); err != nil {
				return err
			}
			continue
		}
		for j, p := range ps {
			name, err := d.bulk(p.Key, index(path, j*2))
			if err != nil {
				return err
			}
			if err := fn(name, p.Value, field(path, name), i); err != nil {
				return err
			}
		}
	}
	return nil
}
