package dflow

import "strconv"

// Producer is implemented by a node that owns only outpins of element
// type T.
type Producer[T any] interface {
	GraphNode
	Outs() int
	Output(i int) *OutPin[T]
	Produce()
}

// ProducerBase implements the outpin bookkeeping and execution loop shared
// by every pure producer. Concrete producers embed *ProducerBase[T] and
// implement Produce and Run (Run is almost always one line: RunProducer(p)).
type ProducerBase[T any] struct {
	*Node
	outs []*OutPin[T]
}

// NewProducerBase creates a producer base with n outpins, autonamed
// name+"_out"+index.
func NewProducerBase[T any](name string, n int) *ProducerBase[T] {
	b := &ProducerBase[T]{Node: NewNode(name)}
	b.outs = make([]*OutPin[T], n)
	for i := range b.outs {
		b.outs[i] = newOutPin[T](name + "_out" + strconv.Itoa(i))
	}
	return b
}

// Base returns the embedded lifecycle node.
func (b *ProducerBase[T]) Base() *Node { return b.Node }

// Outs returns the number of outpins.
func (b *ProducerBase[T]) Outs() int { return len(b.outs) }

// Output returns the i-th outpin.
func (b *ProducerBase[T]) Output(i int) *OutPin[T] { return b.outs[i] }

func (b *ProducerBase[T]) isProducer() {}

// Sever disconnects every outpin this producer owns.
func (b *ProducerBase[T]) Sever() {
	for _, o := range b.outs {
		o.Disconnect()
	}
}

func (b *ProducerBase[T]) rename(name string) {
	b.Node.rename(name)
	for i, o := range b.outs {
		o.rename(name + "_out" + strconv.Itoa(i))
	}
}

// RunProducer runs the producer execution loop until the node's state
// reaches Stopped, calling p.Produce() once per Started observation:
//
//	s := state()
//	for s != stopped {
//	    if s == paused { s = <wait until unpaused> } else { s = state() }
//	    if s == started { produce() }
//	}
//
// If Produce blocks on an external event (a timer, a channel), it must
// re-check the node's state after waking and the node must override
// OnStopped to release that wait promptly — otherwise Graph.Stop deadlocks
// waiting for this producer's worker to exit.
func RunProducer[T any](p Producer[T]) {
	n := p.Base()
	s := n.State()
	for s != Stopped {
		if s == Paused {
			s = n.waitPausedDone()
		} else {
			s = n.State()
		}
		if s == Started {
			p.Produce()
		}
	}
}
