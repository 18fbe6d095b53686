package util

import (
	"math/rand"
	"time"
)

// Jitter returns d plus a random extra of up to half of d.
func Jitter(d time.Duration) time.Duration {
	if d <= 1 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d/2)+1))
}
