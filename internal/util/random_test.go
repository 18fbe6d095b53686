package util

import (
	"testing"
	"time"
)

func TestJitter(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
	}{
		{"zero", 0},
		{"one", 1},
		{"millis", 100 * time.Millisecond},
		{"seconds", 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 1000; i++ {
				got := Jitter(tt.d)
				if got < tt.d || got > tt.d+tt.d/2 {
					t.Errorf("Jitter(%v) = %v; want value in [%v,%v]", tt.d, got, tt.d, tt.d+tt.d/2)
				}
			}
		})
	}
}
