package models

import (
	"testing"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueReplyRoundTrip(t *testing.T) {
	v := Array(Integer(1), Bulk("x"), Nil(), Array(Bulk("nested")))
	got, err := FromReply(v.Reply())
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestValueReplyFlattensMap(t *testing.T) {
	v := MapOf(BulkPair("a", Integer(1)))
	assert.Equal(t, []interface{}{[]byte("a"), int64(1)}, v.Reply())
}

func TestFromReply(t *testing.T) {
	v, err := FromReply("OK")
	require.NoError(t, err)
	assert.Equal(t, Bulk("OK"), v)

	_, err = FromReply(redis.Error("ERR boom"))
	assert.EqualError(t, err, "ERR boom")

	_, err = FromReply([]interface{}{int64(1), redis.Error("ERR nested")})
	assert.Error(t, err)

	_, err = FromReply(3.5)
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "nil", KindNil.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.Equal(t, "Integer: 3", Integer(3).String())
}
