package replies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/pkg/resp"
)

func entryValue(id string, fieldValues ...string) models.Value {
	return models.Array(models.Bulk(id), models.Bulks(fieldValues...))
}

func TestDecodeRead(t *testing.T) {
	v := models.Array(
		models.Array(models.Bulk("orders"), models.Array(
			entryValue("1-0", "sku", "a"),
			entryValue("2-0", "sku", "b"),
		)),
		models.Array(models.Bulk("payments"), models.Array(
			entryValue("1-1", "amount", "10"),
			entryValue("3-0", "amount", "20"),
		)),
	)

	reply, err := DecodeRead(v)
	require.NoError(t, err)
	require.Len(t, reply.Keys, 2)

	assert.Equal(t, "orders", reply.Keys[0].Key)
	assert.Equal(t, "payments", reply.Keys[1].Key)
	assert.Equal(t, []string{"1-0", "2-0"}, reply.Keys[0].IDs())
	assert.Equal(t, []string{"1-1", "3-0"}, reply.Keys[1].IDs())

	amount, ok := reply.Entries("payments")[1].Int64("amount")
	assert.True(t, ok)
	assert.Equal(t, int64(20), amount)
	assert.Nil(t, reply.Entries("missing"))
}

func TestDecodeReadRESP3Map(t *testing.T) {
	v := models.MapOf(
		models.BulkPair("s1", models.Array(entryValue("1-0", "f", "v"))),
		models.BulkPair("s2", models.Array()),
	)
	reply, err := DecodeRead(v)
	require.NoError(t, err)
	require.Len(t, reply.Keys, 2)
	assert.Equal(t, "s1", reply.Keys[0].Key)
	assert.Len(t, reply.Keys[0].Entries, 1)
	assert.Empty(t, reply.Keys[1].Entries)
}

func TestDecodeReadFromWire(t *testing.T) {
	wire := "*1\r\n*2\r\n$6\r\nstream\r\n*1\r\n*2\r\n$3\r\n1-0\r\n*4\r\n$1\r\na\r\n$1\r\n1\r\n$1\r\nb\r\n$1\r\n2\r\n"
	v, err := resp.Parse([]byte(wire))
	require.NoError(t, err)

	reply, err := DecodeRead(v)
	require.NoError(t, err)
	require.Len(t, reply.Keys, 1)
	entry := reply.Keys[0].Entries[0]
	assert.Equal(t, "1-0", entry.ID)
	assert.Equal(t, 2, entry.Len())
	assert.Equal(t, []string{"a", "b"}, entry.FieldNames())
}

func TestDecodeReadTimeout(t *testing.T) {
	reply, err := DecodeRead(models.Nil())
	require.NoError(t, err)
	assert.Empty(t, reply.Keys)
}

func TestDecodeRange(t *testing.T) {
	v := models.Array(
		entryValue("3-0", "k", "x"),
		entryValue("1-0", "k", "y"),
		models.Array(models.Bulk("0-1"), models.Nil()),
	)
	reply, err := DecodeRange(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"3-0", "1-0", "0-1"}, reply.IDs())
	assert.Equal(t, 0, reply.Entries[2].Len())
}

func TestDecodeRangeDuplicateFieldLastWins(t *testing.T) {
	reply, err := DecodeRange(models.Array(entryValue("1-0", "f", "first", "g", "x", "f", "second")))
	require.NoError(t, err)
	entry := reply.Entries[0]
	assert.Equal(t, 2, entry.Len())
	s, ok := entry.String("f")
	assert.True(t, ok)
	assert.Equal(t, "second", s)
	assert.Equal(t, []string{"f", "g"}, entry.FieldNames())
}

func TestDecodeClaim(t *testing.T) {
	t.Run("Entries", func(t *testing.T) {
		reply, err := DecodeClaim(models.Array(entryValue("1-0", "f", "v"), entryValue("2-0")))
		require.NoError(t, err)
		assert.Equal(t, []string{"1-0", "2-0"}, reply.IDs())
		assert.True(t, reply.Entries[0].Contains("f"))
	})

	t.Run("JustID", func(t *testing.T) {
		reply, err := DecodeClaim(models.Bulks("1-0", "2-0"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1-0", "2-0"}, reply.IDs())
		assert.Equal(t, 0, reply.Entries[0].Len())
	})
}

func TestDecodeAutoClaim(t *testing.T) {
	v := models.Array(
		models.Bulk("0-0"),
		models.Array(entryValue("1-0", "f", "v")),
		models.Bulks("2-0"),
	)
	reply, err := DecodeAutoClaim(v)
	require.NoError(t, err)
	assert.Equal(t, "0-0", reply.NextID)
	assert.Len(t, reply.Entries, 1)
	assert.Equal(t, []string{"2-0"}, reply.DeletedIDs)

	_, err = DecodeAutoClaim(models.Bulks("0-0"))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestDecodePendingSummary(t *testing.T) {
	v := models.Array(
		models.Integer(4),
		models.Bulk("1-1"),
		models.Bulk("4-1"),
		models.Array(models.Bulks("consumer-a", "2"), models.Bulks("consumer-b", "2")),
	)
	reply, err := DecodePendingSummary(v)
	require.NoError(t, err)
	assert.Equal(t, int64(4), reply.Count)
	assert.Equal(t, "1-1", reply.StartID)
	assert.Equal(t, "4-1", reply.EndID)
	assert.Equal(t, []models.ConsumerInfo{
		{Name: "consumer-a", Pending: 2},
		{Name: "consumer-b", Pending: 2},
	}, reply.Consumers)
}

func TestDecodePendingSummaryLenientCount(t *testing.T) {
	v := models.Array(
		models.Integer(1),
		models.Bulk("1-1"),
		models.Bulk("1-1"),
		models.Array(models.Bulks("c", "lots")),
	)
	reply, err := DecodePendingSummary(v)
	require.NoError(t, err)
	require.Len(t, reply.Consumers, 1)
	assert.Equal(t, "c", reply.Consumers[0].Name)
	assert.Equal(t, int64(0), reply.Consumers[0].Pending)
}

func TestDecodePendingSummaryEmptyGroup(t *testing.T) {
	reply, err := DecodePendingSummary(models.Array(models.Integer(0), models.Nil(), models.Nil(), models.Nil()))
	require.NoError(t, err)
	assert.Equal(t, models.PendingSummary{}, reply)
}

func TestDecodePendingSummaryBadCount(t *testing.T) {
	_, err := DecodePendingSummary(models.Array(models.Bulk("four"), models.Nil(), models.Nil(), models.Nil()))
	assert.ErrorIs(t, err, ErrFieldConversion)

	var cerr *ConversionError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "$.count", cerr.Path)
}

func TestDecodePendingDetail(t *testing.T) {
	v := models.Array(
		models.Array(models.Bulk("1-0"), models.Bulk("c1"), models.Integer(9000), models.Integer(2)),
		models.Array(models.Bulk("2-0"), models.Bulk("c2"), models.Integer(10), models.Integer(1)),
	)
	reply, err := DecodePendingDetail(v)
	require.NoError(t, err)
	assert.Equal(t, []models.PendingDetail{
		{ID: "1-0", Consumer: "c1", IdleMs: 9000, Deliveries: 2},
		{ID: "2-0", Consumer: "c2", IdleMs: 10, Deliveries: 1},
	}, reply.Entries)
	assert.Equal(t, []string{"1-0", "2-0"}, reply.IDs())

	_, err = DecodePendingDetail(models.Array(models.Bulks("1-0", "c1", "9000")))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func streamInfoValue(withGroups bool) models.Value {
	items := []models.Value{
		models.Bulk("length"), models.Integer(2),
		models.Bulk("radix-tree-keys"), models.Integer(1),
		models.Bulk("radix-tree-nodes"), models.Integer(2),
		models.Bulk("last-generated-id"), models.Bulk("2-0"),
	}
	if withGroups {
		items = append(items, models.Bulk("groups"), models.Integer(3))
	}
	items = append(items,
		models.Bulk("first-entry"), entryValue("1-0", "f", "v"),
		models.Bulk("last-entry"), entryValue("2-0", "f", "w"),
	)
	return models.Array(items...)
}

func TestDecodeStreamInfo(t *testing.T) {
	info, err := DecodeStreamInfo(streamInfoValue(true))
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Length)
	assert.Equal(t, int64(1), info.RadixTreeKeys)
	assert.Equal(t, int64(2), info.RadixTreeNodes)
	assert.Equal(t, int64(3), info.Groups)
	assert.Equal(t, "2-0", info.LastGeneratedID)
	require.NotNil(t, info.FirstEntry)
	require.NotNil(t, info.LastEntry)
	assert.Equal(t, "1-0", info.FirstEntry.ID)
	w, _ := info.LastEntry.String("f")
	assert.Equal(t, "w", w)
}

func TestDecodeStreamInfoMissingGroups(t *testing.T) {
	info, err := DecodeStreamInfo(streamInfoValue(false))
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Groups)
	assert.Equal(t, int64(2), info.Length)
	assert.Equal(t, "2-0", info.LastGeneratedID)
	assert.NotNil(t, info.FirstEntry)
}

func TestDecodeStreamInfoEmptyStream(t *testing.T) {
	v := models.MapOf(
		models.BulkPair("length", models.Integer(0)),
		models.BulkPair("first-entry", models.Nil()),
		models.BulkPair("last-entry", models.Nil()),
	)
	info, err := DecodeStreamInfo(v)
	require.NoError(t, err)
	assert.Nil(t, info.FirstEntry)
	assert.Nil(t, info.LastEntry)
}

func TestDecodeStreamInfoWrongFieldKind(t *testing.T) {
	_, err := DecodeStreamInfo(models.Array(models.Bulk("length"), models.Bulks("2")))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = DecodeStreamInfo(models.Array(models.Bulk("length"), models.Bulk("two")))
	assert.ErrorIs(t, err, ErrFieldConversion)
}

func TestDecodeConsumers(t *testing.T) {
	v := models.Array(
		models.Array(
			models.Bulk("name"), models.Bulk("alice"),
			models.Bulk("pending"), models.Integer(1),
			models.Bulk("idle"), models.Integer(9104),
		),
		models.Array(models.Bulk("name"), models.Bulk("bob")),
		models.Array(),
	)
	reply, err := DecodeConsumers(v)
	require.NoError(t, err)
	assert.Equal(t, []models.ConsumerInfo{
		{Name: "alice", Pending: 1, Idle: 9104},
		{Name: "bob"},
		{},
	}, reply.Consumers)
}

func TestDecodeGroups(t *testing.T) {
	v := models.Array(
		models.MapOf(
			models.BulkPair("name", models.Bulk("g1")),
			models.BulkPair("consumers", models.Integer(2)),
			models.BulkPair("pending", models.Integer(3)),
			models.BulkPair("last-delivered-id", models.Bulk("5-0")),
			models.BulkPair("entries-read", models.Integer(5)),
		),
	)
	reply, err := DecodeGroups(v)
	require.NoError(t, err)
	assert.Equal(t, []models.GroupInfo{{Name: "g1", Consumers: 2, Pending: 3, LastDeliveredID: "5-0"}}, reply.Groups)
}

func TestDecodeWrongTopLevelKind(t *testing.T) {
	decoders := map[string]func(models.Value) error{
		"read":            func(v models.Value) error { _, err := DecodeRead(v); return err },
		"range":           func(v models.Value) error { _, err := DecodeRange(v); return err },
		"claim":           func(v models.Value) error { _, err := DecodeClaim(v); return err },
		"autoclaim":       func(v models.Value) error { _, err := DecodeAutoClaim(v); return err },
		"pending summary": func(v models.Value) error { _, err := DecodePendingSummary(v); return err },
		"pending detail":  func(v models.Value) error { _, err := DecodePendingDetail(v); return err },
		"stream info":     func(v models.Value) error { _, err := DecodeStreamInfo(v); return err },
		"consumers":       func(v models.Value) error { _, err := DecodeConsumers(v); return err },
		"groups":          func(v models.Value) error { _, err := DecodeGroups(v); return err },
	}
	scalars := []models.Value{models.Integer(1), models.Bulk("x")}

	for name, decode := range decoders {
		for _, scalar := range scalars {
			err := decode(scalar)
			assert.ErrorIs(t, err, ErrShapeMismatch, "%s with %v", name, scalar)
		}
	}
}

func TestDecodeNestedKindMismatch(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
	}{
		{"read row is scalar", func() error { _, err := DecodeRead(models.Array(models.Bulk("s"))); return err }},
		{"read entries are bulk", func() error {
			_, err := DecodeRead(models.Array(models.Array(models.Bulk("s"), models.Bulk("oops"))))
			return err
		}},
		{"range fields odd", func() error { _, err := DecodeRange(models.Array(entryValue("1-0", "f"))); return err }},
		{"range id not bulk", func() error {
			_, err := DecodeRange(models.Array(models.Array(models.Integer(1), models.Array())))
			return err
		}},
		{"pending consumers bulk", func() error {
			_, err := DecodePendingSummary(models.Array(models.Integer(1), models.Bulk("1-1"), models.Bulk("1-1"), models.Bulk("c")))
			return err
		}},
		{"consumer row scalar", func() error { _, err := DecodeConsumers(models.Array(models.Integer(1))); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			var serr *ShapeError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.NotEmpty(t, serr.Path)
			assert.NotEmpty(t, serr.Error())
		})
	}
}

func TestForCommand(t *testing.T) {
	tests := []struct {
		name  string
		cmd   commands.Command
		reply models.Value
		want  interface{}
	}{
		{"xadd", commands.XAdd("s", "*", "f", "v"), models.Bulk("1-0"), "1-0"},
		{"xlen", commands.XLen("s"), models.Integer(3), int64(3)},
		{"ping", commands.Ping(), models.Bulk("PONG"), "PONG"},
		{"xgroup create", commands.XGroupCreate("s", "g", "$"), models.Bulk("OK"), "OK"},
		{"xgroup destroy", commands.XGroupDestroy("s", "g"), models.Integer(1), int64(1)},
		{"xrange", commands.XRangeAll("s"), models.Array(entryValue("1-0")), models.RangeReply{Entries: []models.StreamEntry{models.NewStreamEntry("1-0")}}},
		{
			"xpending summary",
			commands.XPending("s", "g"),
			models.Array(models.Integer(0), models.Nil(), models.Nil(), models.Nil()),
			models.PendingSummary{},
		},
		{
			"xpending detail",
			commands.XPendingCount("s", "g", "-", "+", 10),
			models.Array(),
			models.PendingDetailReply{Entries: []models.PendingDetail{}},
		},
		{"xinfo groups", commands.XInfoGroups("s"), models.Nil(), models.GroupsReply{}},
		{"unknown", commands.New("XSETID", "s", "1-0"), models.Bulk("OK"), models.Bulk("OK")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ForCommand(tt.cmd)(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
