package dflow

import (
	"context"
	"time"
)

// FlowEvent classifies a single pipe-level occurrence reported to a
// MetricsCollector.
type FlowEvent string

const (
	// FlowPush marks a successful Pipe.Push.
	FlowPush FlowEvent = "push"
	// FlowPop marks a successful Pipe.Pop.
	FlowPop FlowEvent = "pop"
	// FlowOverflow marks a Push rejected because the pipe is at capacity.
	FlowOverflow FlowEvent = "overflow"
	// FlowDisconnected marks a push or pop attempted on a disconnected pin.
	FlowDisconnected FlowEvent = "disconnected"
)

// Metrics describes one flow event on one pipe. Pins and pipes do not
// report Metrics themselves; events reach a MetricsCollector only when the
// caller hands them over.
type Metrics struct {
	Time   time.Time
	Node   string
	Pin    string
	Event  FlowEvent
	Length int
	Weight int
}

// MetricsCollector receives flow events. A collector runs on the caller's
// goroutine, so a slow collector stalls whoever calls it.
type MetricsCollector func(*Metrics)

// Stats holds statistical data over a window.
type Stats struct {
	Min int
	Max int
	Avg float64
}

// SnapshotMetrics holds aggregated flow counts over a period, grouped by
// FlowEvent.
type SnapshotMetrics struct {
	StartTime time.Time
	Duration  time.Duration

	Total int

	LengthStats Stats

	PushTotal         int
	PopTotal          int
	OverflowTotal     int
	DisconnectedTotal int
}

// SnapshotMetricsCollector receives an aggregated SnapshotMetrics window.
type SnapshotMetricsCollector func(*SnapshotMetrics)

// NewSnapshotMetricsCollector returns a MetricsCollector that buffers flow
// events and periodically folds them into a SnapshotMetrics, delivered to
// collect. A window closes when either maxSize events have accumulated or
// maxDuration has elapsed since the window opened, whichever comes first.
// The returned channel closes once ctx is done and the aggregator goroutine
// has exited.
func NewSnapshotMetricsCollector(
	ctx context.Context,
	collect SnapshotMetricsCollector,
	maxSize int,
	maxDuration time.Duration,
) (MetricsCollector, <-chan struct{}) {
	ch := make(chan *Metrics)
	done := make(chan struct{})

	go func() {
		defer close(done)

		startTime := time.Now()
		window := make([]*Metrics, 0, maxSize)
		timer := time.NewTimer(maxDuration)
		defer timer.Stop()

		flush := func() {
			if len(window) == 0 {
				return
			}
			now := time.Now()
			dm := &SnapshotMetrics{
				StartTime:   startTime,
				Duration:    now.Sub(startTime),
				Total:       len(window),
				LengthStats: Stats{Min: int(^uint(0) >> 1)},
			}
			lengthTotal := 0
			for _, m := range window {
				lengthTotal += m.Length
				dm.LengthStats.Max = max(dm.LengthStats.Max, m.Length)
				dm.LengthStats.Min = min(dm.LengthStats.Min, m.Length)
				switch m.Event {
				case FlowPush:
					dm.PushTotal++
				case FlowPop:
					dm.PopTotal++
				case FlowOverflow:
					dm.OverflowTotal++
				case FlowDisconnected:
					dm.DisconnectedTotal++
				}
			}
			dm.LengthStats.Avg = float64(lengthTotal) / float64(len(window))
			collect(dm)
			window = window[:0]
			startTime = now
		}

		for {
			select {
			case <-ctx.Done():
				flush()
				return
			case m := <-ch:
				window = append(window, m)
				if len(window) >= maxSize {
					flush()
					timer.Reset(maxDuration)
				}
			case <-timer.C:
				flush()
				timer.Reset(maxDuration)
			}
		}
	}()

	return func(m *Metrics) {
		select {
		case <-ctx.Done():
		case ch <- m:
		}
	}, done
}

// newMetricsDistributor fans a single flow event out to every collector.
func newMetricsDistributor(collectors ...MetricsCollector) MetricsCollector {
	return func(m *Metrics) {
		for _, c := range collectors {
			c(m)
		}
	}
}
