package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts the commands a client sent and how long they took.
type Metrics struct {
	cmdCount     int64
	errCount     int64
	startTime    time.Time
	commandStats map[string]*CommandStats
	mu           sync.RWMutex
}

type CommandStats struct {
	Calls        int64
	Errors       int64
	TotalTime    time.Duration
	LastExecTime time.Time
}

// Snapshot is a point-in-time copy of one command's stats.
type Snapshot struct {
	Command      string    `json:"command"`
	Calls        int64     `json:"calls"`
	Errors       int64     `json:"errors"`
	TotalTimeUs  int64     `json:"total_time_us"`
	AvgTimeUs    int64     `json:"avg_time_us"`
	LastExecTime time.Time `json:"last_exec_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		startTime:    time.Now(),
		commandStats: make(map[string]*CommandStats),
	}
}

func (m *Metrics) GetCommandCount() int64 {
	return atomic.LoadInt64(&m.cmdCount)
}

func (m *Metrics) GetErrorCount() int64 {
	return atomic.LoadInt64(&m.errCount)
}

func (m *Metrics) AddCommandExecution(cmd string, duration time.Duration, err error) {
	atomic.AddInt64(&m.cmdCount, 1)
	if err != nil {
		atomic.AddInt64(&m.errCount, 1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.commandStats[cmd]
	if !exists {
		stats = &CommandStats{}
		m.commandStats[cmd] = stats
	}

	stats.Calls++
	if err != nil {
		stats.Errors++
	}
	stats.TotalTime += duration
	stats.LastExecTime = time.Now()
}

// GetStats returns per-command snapshots sorted by command name.
func (m *Metrics) GetStats() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Snapshot, 0, len(m.commandStats))
	for cmd, stat := range m.commandStats {
		out = append(out, Snapshot{
			Command:      cmd,
			Calls:        stat.Calls,
			Errors:       stat.Errors,
			TotalTimeUs:  stat.TotalTime.Microseconds(),
			AvgTimeUs:    stat.TotalTime.Microseconds() / stat.Calls,
			LastExecTime: stat.LastExecTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })
	return out
}

func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.startTime)
}
