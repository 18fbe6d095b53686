package client

import (
	"context"

	"github.com/genc-murat/crystalstream/internal/commands"
	"github.com/genc-murat/crystalstream/internal/core/models"
	"github.com/genc-murat/crystalstream/internal/replies"
)

func (c *Client) Ping(ctx context.Context) (string, error) {
	return call(ctx, c, commands.Ping(), replies.DecodeStatus)
}

// XAdd appends fieldValues under id ("*" lets the store pick) and returns
// the new entry id.
func (c *Client) XAdd(ctx context.Context, key, id string, fieldValues ...interface{}) (string, error) {
	return call(ctx, c, commands.XAdd(key, id, fieldValues...), replies.DecodeID)
}

func (c *Client) XAddMaxLen(ctx context.Context, key string, maxlen models.TrimPolicy, id string, fieldValues ...interface{}) (string, error) {
	return call(ctx, c, commands.XAddMaxLen(key, maxlen, id, fieldValues...), replies.DecodeID)
}

// XAddEntry re-publishes an entry with its fields in their original order.
func (c *Client) XAddEntry(ctx context.Context, key string, maxlen *models.TrimPolicy, entry models.StreamEntry) (string, error) {
	return call(ctx, c, commands.XAddEntry(key, maxlen, entry), replies.DecodeID)
}

func (c *Client) XRead(ctx context.Context, keys, ids []string, opts models.ReadOptions) (models.ReadReply, error) {
	return call(ctx, c, commands.XReadOptions(keys, ids, opts), replies.DecodeRead)
}

func (c *Client) XRange(ctx context.Context, key, start, end string, count int64) (models.RangeReply, error) {
	cmd := commands.XRange(key, start, end)
	if count > 0 {
		cmd = commands.XRangeCount(key, start, end, count)
	}
	return call(ctx, c, cmd, replies.DecodeRange)
}

func (c *Client) XRevRange(ctx context.Context, key, end, start string, count int64) (models.RangeReply, error) {
	cmd := commands.XRevRange(key, end, start)
	if count > 0 {
		cmd = commands.XRevRangeCount(key, end, start, count)
	}
	return call(ctx, c, cmd, replies.DecodeRange)
}

func (c *Client) XLen(ctx context.Context, key string) (int64, error) {
	return call(ctx, c, commands.XLen(key), replies.DecodeInteger)
}

func (c *Client) XAck(ctx context.Context, key, group string, ids ...string) (int64, error) {
	return call(ctx, c, commands.XAck(key, group, ids...), replies.DecodeInteger)
}

func (c *Client) XDel(ctx context.Context, key string, ids ...string) (int64, error) {
	return call(ctx, c, commands.XDel(key, ids...), replies.DecodeInteger)
}

func (c *Client) XTrim(ctx context.Context, key string, maxlen models.TrimPolicy) (int64, error) {
	return call(ctx, c, commands.XTrim(key, maxlen), replies.DecodeInteger)
}

func (c *Client) XClaim(ctx context.Context, key, group, consumer string, minIdleTime int64, ids []string, opts models.ClaimOptions) (models.ClaimReply, error) {
	return call(ctx, c, commands.XClaimOptions(key, group, consumer, minIdleTime, ids, opts), replies.DecodeClaim)
}

func (c *Client) XAutoClaim(ctx context.Context, key, group, consumer string, minIdleTime int64, start string, count int64, justID bool) (models.AutoClaimReply, error) {
	return call(ctx, c, commands.XAutoClaim(key, group, consumer, minIdleTime, start, count, justID), replies.DecodeAutoClaim)
}

func (c *Client) XPending(ctx context.Context, key, group string) (models.PendingSummary, error) {
	return call(ctx, c, commands.XPending(key, group), replies.DecodePendingSummary)
}

// XPendingDetail lists up to count pending entries between start and end,
// optionally only those owned by consumer.
func (c *Client) XPendingDetail(ctx context.Context, key, group, start, end string, count int64, consumer string) (models.PendingDetailReply, error) {
	cmd := commands.XPendingCount(key, group, start, end, count)
	if consumer != "" {
		cmd = commands.XPendingConsumerCount(key, group, start, end, count, consumer)
	}
	return call(ctx, c, cmd, replies.DecodePendingDetail)
}

func (c *Client) XGroupCreate(ctx context.Context, key, group, id string, mkStream bool) error {
	cmd := commands.XGroupCreate(key, group, id)
	if mkStream {
		cmd = commands.XGroupCreateMkStream(key, group, id)
	}
	_, err := call(ctx, c, cmd, replies.DecodeStatus)
	return err
}

func (c *Client) XGroupSetID(ctx context.Context, key, group, id string) error {
	_, err := call(ctx, c, commands.XGroupSetID(key, group, id), replies.DecodeStatus)
	return err
}

func (c *Client) XGroupDestroy(ctx context.Context, key, group string) (int64, error) {
	return call(ctx, c, commands.XGroupDestroy(key, group), replies.DecodeInteger)
}

func (c *Client) XGroupDelConsumer(ctx context.Context, key, group, consumer string) (int64, error) {
	return call(ctx, c, commands.XGroupDelConsumer(key, group, consumer), replies.DecodeInteger)
}

func (c *Client) XInfoStream(ctx context.Context, key string) (models.StreamInfo, error) {
	return call(ctx, c, commands.XInfoStream(key), replies.DecodeStreamInfo)
}

func (c *Client) XInfoGroups(ctx context.Context, key string) (models.GroupsReply, error) {
	return call(ctx, c, commands.XInfoGroups(key), replies.DecodeGroups)
}

func (c *Client) XInfoConsumers(ctx context.Context, key, group string) (models.ConsumersReply, error) {
	return call(ctx, c, commands.XInfoConsumers(key, group), replies.DecodeConsumers)
}
