package dflow

import (
	"sync/atomic"
	"testing"
	"time"
)

type pusher[T any] struct {
	*ProducerBase[T]
}

func newPusher[T any](name string) *pusher[T] {
	return &pusher[T]{ProducerBase: NewProducerBase[T](name, 1)}
}

func (p *pusher[T]) Produce() {}
func (p *pusher[T]) Run()     { RunProducer[T](p) }

func TestRunProducerStopsPromptly(t *testing.T) {
	p := newPusher[int]("p")
	done := make(chan struct{})
	go func() { p.Run(); close(done) }()

	p.Base().Transition(Started)
	p.Base().Transition(Stopped)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunProducer did not exit after Stopped transition")
	}
}

func TestRunProducerCallsProduceOnlyWhileStarted(t *testing.T) {
	var calls atomic.Int64
	p := newPusher[int]("p")
	wrapped := &countingPusher{pusher: p, calls: &calls}
	done := make(chan struct{})
	go func() { RunProducer[int](wrapped); close(done) }()

	p.Base().Transition(Started)
	time.Sleep(20 * time.Millisecond)
	p.Base().Transition(Paused)
	// A Produce call whose state check saw Started just before the
	// transition may still complete; let it finish before sampling.
	time.Sleep(5 * time.Millisecond)
	afterPause := calls.Load()
	time.Sleep(20 * time.Millisecond)
	if calls.Load() != afterPause {
		t.Fatalf("Produce kept being called while Paused: %d -> %d", afterPause, calls.Load())
	}
	p.Base().Transition(Stopped)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunProducer did not exit")
	}
	if afterPause == 0 {
		t.Fatal("Produce was never called while Started")
	}
}

type countingPusher struct {
	*pusher[int]
	calls *atomic.Int64
}

func (c *countingPusher) Produce() { c.calls.Add(1) }
