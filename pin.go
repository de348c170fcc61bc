package dflow

import "sync"

// pinCore holds the name and shared pipe reference common to OutPin and
// InPin.
type pinCore[T any] struct {
	mu   sync.Mutex
	name string
	pipe *Pipe[T]
}

func (c *pinCore[T]) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *pinCore[T]) rename(name string) {
	c.mu.Lock()
	c.name = name
	c.mu.Unlock()
}

func (c *pinCore[T]) pipeOf() *Pipe[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pipe
}

func (c *pinCore[T]) setPipe(p *Pipe[T]) {
	c.mu.Lock()
	c.pipe = p
	c.mu.Unlock()
}

// swapPipe stores p and returns whatever pipe was previously held.
func (c *pinCore[T]) swapPipe(p *Pipe[T]) *Pipe[T] {
	c.mu.Lock()
	old := c.pipe
	c.pipe = p
	c.mu.Unlock()
	return old
}

// OutPin is the producer-side endpoint of a Pipe[T].
type OutPin[T any] struct {
	pinCore[T]
}

func newOutPin[T any](name string) *OutPin[T] {
	return &OutPin[T]{pinCore: pinCore[T]{name: name}}
}

// Push pushes p onto the pin's pipe. On success, the inpin on the far side
// of the pipe is notified outside the pipe's mutex. Push returns false if
// the pin has no pipe or the pipe is at capacity; p is left untouched with
// the caller either way.
func (o *OutPin[T]) Push(p *Packet[T]) bool {
	pp := o.pipeOf()
	if pp == nil {
		return false
	}
	if !pp.Push(p) {
		return false
	}
	if in := pp.Output(); in != nil {
		in.Incoming()
	}
	return true
}

// Disconnect cosmetically renames the pipe to reflect the detached producer
// side and releases this pin's share of it. The pipe survives if the inpin
// on the other side still holds it.
func (o *OutPin[T]) Disconnect() {
	old := o.swapPipe(nil)
	if old == nil {
		return
	}
	old.rename(old.Name() + "_disconnected")
	old.setInput(nil)
}

// Connect implements the four-case connection algebra: if this outpin
// already holds a pipe it is dropped first; then, if in already holds a
// pipe, this outpin adopts it (disconnecting in's prior producer first and
// overwriting the caps), otherwise a fresh pipe is constructed with both
// endpoints set.
func (o *OutPin[T]) Connect(in *InPin[T], maxLength, maxWeight int) {
	o.Disconnect()

	if existing := in.pipeOf(); existing != nil {
		if prior := existing.Input(); prior != nil {
			prior.Disconnect()
		}
		existing.CapLength(maxLength)
		existing.CapWeight(maxWeight)
		existing.rename(o.Name() + "->" + in.Name())
		existing.setInput(o)
		o.setPipe(existing)
		return
	}

	p := newPipe[T](o.Name()+"->"+in.Name(), maxLength, maxWeight, o, in)
	o.setPipe(p)
	in.setPipe(p)
}

// InPin is the consumer-side endpoint of a Pipe[T].
type InPin[T any] struct {
	pinCore[T]

	// cond is the owning node's transition condition variable. Incoming
	// signals it to wake a worker blocked waiting for a packet.
	cond *sync.Cond
}

func newInPin[T any](name string) *InPin[T] {
	return &InPin[T]{pinCore: pinCore[T]{name: name}}
}

// Peek reports whether the pin is attached to a non-empty pipe.
func (in *InPin[T]) Peek() bool {
	pp := in.pipeOf()
	return pp != nil && pp.Length() > 0
}

// Pop removes and returns the front packet, or nil if unattached or empty.
func (in *InPin[T]) Pop() *Packet[T] {
	pp := in.pipeOf()
	if pp == nil {
		return nil
	}
	return pp.Pop()
}

// Incoming wakes one waiter on the owning node's transition condvar.
// OutPin.Push calls this after a successful push, outside the pipe's mutex.
func (in *InPin[T]) Incoming() {
	if in.cond == nil {
		return
	}
	in.cond.L.Lock()
	in.cond.Signal()
	in.cond.L.Unlock()
}

// Disconnect cosmetically renames the pipe to reflect the detached consumer
// side and releases this pin's share of it.
func (in *InPin[T]) Disconnect() {
	old := in.swapPipe(nil)
	if old == nil {
		return
	}
	old.rename(old.Name() + "_disconnected")
	old.setOutput(nil)
}
