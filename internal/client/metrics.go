package client

import (
	"sync/atomic"
	"time"
)

// Metrics counts API calls made by one Client.
type Metrics struct {
	calls     atomic.Int64
	errors    atomic.Int64
	latencyNs atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Calls   int64
	Errors  int64
	Latency time.Duration
}

func (m *Metrics) record(d time.Duration, err error) {
	m.calls.Add(1)
	m.latencyNs.Add(d.Nanoseconds())
	if err != nil {
		m.errors.Add(1)
	}
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Calls:   m.calls.Load(),
		Errors:  m.errors.Load(),
		Latency: time.Duration(m.latencyNs.Load()),
	}
}

func (m *Metrics) Reset() {
	m.calls.Store(0)
	m.errors.Store(0)
	m.latencyNs.Store(0)
}

// AverageLatency returns the mean call latency in milliseconds.
func (s Snapshot) AverageLatency() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Latency.Nanoseconds()) / float64(s.Calls) / 1e6
}

// ErrorRate returns the share of failed calls as a percentage.
func (s Snapshot) ErrorRate() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Errors) / float64(s.Calls) * 100
}
