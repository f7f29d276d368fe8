package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	framesProcessed atomic.Uint64
	framesDropped   atomic.Uint64
	reconnects      atomic.Uint64
	fetchErrors     atomic.Uint64
	alertsFired     atomic.Uint64

	// Gauges
	openStreams atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordFrame records a processed trade frame.
func (m *Metrics) RecordFrame() {
	m.framesProcessed.Add(1)
}

// RecordFrameDropped records a malformed or stale trade frame.
func (m *Metrics) RecordFrameDropped() {
	m.framesDropped.Add(1)
}

// RecordReconnect records a stream reconnect attempt.
func (m *Metrics) RecordReconnect() {
	m.reconnects.Add(1)
}

// RecordFetchError records a failed REST snapshot fetch.
func (m *Metrics) RecordFetchError() {
	m.fetchErrors.Add(1)
}

// RecordAlertFired records a triggered price alert.
func (m *Metrics) RecordAlertFired() {
	m.alertsFired.Add(1)
}

// SetOpenStreams sets the current open stream count.
func (m *Metrics) SetOpenStreams(count int32) {
	m.openStreams.Store(count)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	FramesProcessed uint64    `json:"frames_processed"`
	FramesDropped   uint64    `json:"frames_dropped"`
	Reconnects      uint64    `json:"reconnects"`
	FetchErrors     uint64    `json:"fetch_errors"`
	AlertsFired     uint64    `json:"alerts_fired"`
	OpenStreams     int32     `json:"open_streams"`
	Timestamp       time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		FramesProcessed: m.framesProcessed.Load(),
		FramesDropped:   m.framesDropped.Load(),
		Reconnects:      m.reconnects.Load(),
		FetchErrors:     m.fetchErrors.Load(),
		AlertsFired:     m.alertsFired.Load(),
		OpenStreams:     m.openStreams.Load(),
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.framesProcessed.Store(0)
	m.framesDropped.Store(0)
	m.reconnects.Store(0)
	m.fetchErrors.Store(0)
	m.alertsFired.Store(0)
	m.openStreams.Store(0)
}
