// Package samples provides concrete producer, consumer, and transformer
// node types for common tasks: generating packets on a timer, printing
// packets to a stream, fanning a stream out, shifting consumption times,
// and simple arithmetic over inputs.
package samples

import (
	"fmt"
	"io"
	"time"

	"github.com/fxsml/dflow"
	"github.com/fxsml/dflow/timer"
)

// Generator produces one packet per timer.Timer tick, by calling gen. Its
// single output is typed T.
type Generator[T any] struct {
	*dflow.ProducerBase[T]
	gen    func() T
	wake   chan struct{}
	stopCh chan struct{}
}

// NewGenerator creates a Generator with a single output pin, driven by t.
// gen is called once per tick to produce each packet's payload.
func NewGenerator[T any](t timer.Timer, gen func() T, name string) *Generator[T] {
	if name == "" {
		name = "generator"
	}
	g := &Generator[T]{
		ProducerBase: dflow.NewProducerBase[T](name, 1),
		gen:          gen,
		wake:         make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}
	t.Listen(g.timerFired)
	g.OnStopped(g.release)
	return g
}

func (g *Generator[T]) timerFired() {
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

func (g *Generator[T]) release() {
	select {
	case <-g.stopCh:
	default:
		close(g.stopCh)
	}
}

// Produce waits for the next timer tick (or Stop), and on a tick while
// Started pushes one freshly generated packet to output 0. The state check
// and the push are not atomic: a tick whose check saw Started just before a
// Stopped transition still pushes one last packet after Stopped is set.
func (g *Generator[T]) Produce() {
	select {
	case <-g.wake:
	case <-g.stopCh:
		return
	}
	if g.Base().State() == dflow.Started {
		g.Output(0).Push(dflow.NewPacket(g.gen()))
	}
}

// Run is the producer execution loop.
func (g *Generator[T]) Run() { dflow.RunProducer[T](g) }

// OStreamer writes every packet it receives to w, one per line, honoring
// each packet's consumption time: a zero time streams immediately, a
// future time defers the write (or is skipped if the node stops first), a
// past time is dropped. Formatting uses fmt, not a stringer assumption.
type OStreamer[T any] struct {
	*dflow.ConsumerBase[T]
	w      io.Writer
	stopCh chan struct{}
}

// NewOStreamer creates an OStreamer with a single input, writing to w.
func NewOStreamer[T any](w io.Writer, name string) *OStreamer[T] {
	if name == "" {
		name = "ostreamer"
	}
	o := &OStreamer[T]{
		ConsumerBase: dflow.NewConsumerBase[T](name, 1),
		w:            w,
		stopCh:       make(chan struct{}),
	}
	o.OnStopped(o.release)
	return o
}

func (o *OStreamer[T]) release() {
	select {
	case <-o.stopCh:
	default:
		close(o.stopCh)
	}
}

// Ready drains input 0, writing every packet whose consumption time is
// unset, waiting out packets whose consumption time is in the future
// (unless the node stops first), and dropping packets whose consumption
// time has already passed.
func (o *OStreamer[T]) Ready(i int) {
	for {
		p := o.Input(0).Pop()
		if p == nil || o.Base().State() != dflow.Started {
			return
		}
		ct := p.ConsumptionTime()
		switch {
		case ct.IsZero():
			fmt.Fprintln(o.w, p.Data())
		case ct.After(time.Now()):
			select {
			case <-time.After(time.Until(ct)):
				if o.Base().State() == dflow.Started {
					fmt.Fprintln(o.w, p.Data())
				}
			case <-o.stopCh:
				return
			}
		}
	}
}

// Run is the consumer execution loop.
func (o *OStreamer[T]) Run() { dflow.RunConsumer[T](o) }

// Tee clones every packet it receives across all of its outputs, moving
// the original to output 0 and copies to the rest.
type Tee[T any] struct {
	*dflow.TransformerBase[T, T]
}

// NewTee creates a Tee with one input and outs outputs (minimum 2).
func NewTee[T any](outs int, name string) *Tee[T] {
	if outs < 2 {
		outs = 2
	}
	if name == "" {
		name = "tee"
	}
	return &Tee[T]{TransformerBase: dflow.NewTransformerBase[T, T](name, 1, outs)}
}

// Ready drains input 0, pushing a cloned copy to every output beyond the
// first and the original packet to output 0.
func (t *Tee[T]) Ready(i int) {
	for {
		p := t.Input(0).Pop()
		if p == nil {
			return
		}
		for j := 1; j < t.Outs(); j++ {
			t.Output(j).Push(p.Clone())
		}
		t.Output(0).Push(p)
	}
}

// Run is the consumer execution loop (a Transformer's worker always runs
// the consumer loop; its producer role exists only to own outputs).
func (t *Tee[T]) Run() { dflow.RunConsumer[T](t) }

// Delay adds a fixed offset to every packet's consumption time: unset
// becomes now-plus-offset, already-set is pushed further out by offset.
type Delay[T any] struct {
	*dflow.TransformerBase[T, T]
	offset time.Duration
}

// NewDelay creates a Delay transformer that adds offset to every packet
// that passes through it.
func NewDelay[T any](offset time.Duration, name string) *Delay[T] {
	if name == "" {
		name = "delay"
	}
	return &Delay[T]{
		TransformerBase: dflow.NewTransformerBase[T, T](name, 1, 1),
		offset:          offset,
	}
}

// Ready drains input 0, adjusting each packet's consumption time before
// pushing it to output 0.
func (d *Delay[T]) Ready(i int) {
	for {
		p := d.Input(0).Pop()
		if p == nil {
			return
		}
		if p.ConsumptionTime().IsZero() {
			p.SetConsumptionTime(time.Now().Add(d.offset))
		} else {
			p.SetConsumptionTime(p.ConsumptionTime().Add(d.offset))
		}
		d.Output(0).Push(p)
	}
}

// Run is the consumer execution loop.
func (d *Delay[T]) Run() { dflow.RunConsumer[T](d) }
