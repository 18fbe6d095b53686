package util

import (
	"github.com/gomodule/redigo/redis"

	"github.com/genc-murat/crystalstream/internal/core/models"
)

// ParseInt decodes an integer reply or a bulk string holding one.
func ParseInt(v models.Value) (int64, error) {
	return redis.Int64(v.Reply(), nil)
}
