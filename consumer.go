package dflow

import "strconv"

// Consumer is implemented by a node that owns only inpins of element
// type T.
type Consumer[T any] interface {
	GraphNode
	Ins() int
	Input(i int) *InPin[T]
	Ready(i int)
}

// ConsumerBase implements the inpin bookkeeping and execution loop shared
// by every pure consumer. Concrete consumers embed *ConsumerBase[T] and
// implement Ready and Run (Run is almost always one line: RunConsumer(c)).
type ConsumerBase[T any] struct {
	*Node
	ins []*InPin[T]
}

// NewConsumerBase creates a consumer base with n inpins, autonamed
// name+"_in"+index, each wired to wake the consumer's own transition
// condvar when a packet arrives.
func NewConsumerBase[T any](name string, n int) *ConsumerBase[T] {
	b := &ConsumerBase[T]{Node: NewNode(name)}
	b.ins = make([]*InPin[T], n)
	for i := range b.ins {
		in := newInPin[T](name + "_in" + strconv.Itoa(i))
		in.cond = b.Node.cond
		b.ins[i] = in
	}
	return b
}

// Base returns the embedded lifecycle node.
func (b *ConsumerBase[T]) Base() *Node { return b.Node }

// Ins returns the number of inpins.
func (b *ConsumerBase[T]) Ins() int { return len(b.ins) }

// Input returns the i-th inpin.
func (b *ConsumerBase[T]) Input(i int) *InPin[T] { return b.ins[i] }

func (b *ConsumerBase[T]) isConsumer() {}

// Sever disconnects every inpin this consumer owns.
func (b *ConsumerBase[T]) Sever() {
	for _, in := range b.ins {
		in.Disconnect()
	}
}

func (b *ConsumerBase[T]) rename(name string) {
	b.Node.rename(name)
	for i, in := range b.ins {
		in.rename(name + "_in" + strconv.Itoa(i))
	}
}

func consumerAnyPeek[T any](c Consumer[T]) bool {
	for i := 0; i < c.Ins(); i++ {
		if c.Input(i).Peek() {
			return true
		}
	}
	return false
}

// RunConsumer runs the consumer execution loop until the node's state
// reaches Stopped:
//
//	s := state()
//	for s != stopped {
//	    p := false
//	    if s == paused { s = <wait until unpaused> }
//	    else if s == started { s, p = <wait until unstarted or any inpin ready> }
//	    if p { for each inpin i in order: if inpin(i).Peek() { c.Ready(i) } }
//	}
//
// Consumers that need N-ary synchronization (an adder across every input)
// check peek on every input inside Ready themselves and defer action until
// all are ready; RunConsumer only guarantees at least one input is ready
// before calling Ready for it.
func RunConsumer[T any](c Consumer[T]) {
	n := c.Base()
	s := n.State()
	for s != Stopped {
		p := false
		switch s {
		case Paused:
			s = n.waitPausedDone()
		case Started:
			s, p = n.waitIncoming(func() bool { return consumerAnyPeek[T](c) })
		}
		if p {
			for i := 0; i < c.Ins(); i++ {
				if c.Input(i).Peek() {
					c.Ready(i)
				}
			}
		}
	}
}
