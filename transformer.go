package dflow

import "strconv"

// Transformer is both a Consumer[C] and a Producer[P], possibly with C≠P.
// Its Run method is the consumer execution loop; the producer role exists
// only to own output pins.
type Transformer[C, P any] interface {
	Consumer[C]
	Outs() int
	Output(i int) *OutPin[P]
}

// TransformerBase implements the inpin and outpin bookkeeping shared by
// every transformer, over a single lifecycle node. Concrete transformers
// embed *TransformerBase[C, P] and implement Ready and Run (Run is almost
// always one line: RunConsumer(t)).
type TransformerBase[C, P any] struct {
	*Node
	ins  []*InPin[C]
	outs []*OutPin[P]
}

// NewTransformerBase creates a transformer base with the given inpin and
// outpin counts, autonamed the same way ConsumerBase and ProducerBase name
// theirs.
func NewTransformerBase[C, P any](name string, ins, outs int) *TransformerBase[C, P] {
	b := &TransformerBase[C, P]{Node: NewNode(name)}

	b.ins = make([]*InPin[C], ins)
	for i := range b.ins {
		in := newInPin[C](name + "_in" + strconv.Itoa(i))
		in.cond = b.Node.cond
		b.ins[i] = in
	}

	b.outs = make([]*OutPin[P], outs)
	for i := range b.outs {
		b.outs[i] = newOutPin[P](name + "_out" + strconv.Itoa(i))
	}

	return b
}

// Base returns the embedded lifecycle node.
func (b *TransformerBase[C, P]) Base() *Node { return b.Node }

// Ins returns the number of inpins.
func (b *TransformerBase[C, P]) Ins() int { return len(b.ins) }

// Input returns the i-th inpin.
func (b *TransformerBase[C, P]) Input(i int) *InPin[C] { return b.ins[i] }

// Outs returns the number of outpins.
func (b *TransformerBase[C, P]) Outs() int { return len(b.outs) }

// Output returns the i-th outpin.
func (b *TransformerBase[C, P]) Output(i int) *OutPin[P] { return b.outs[i] }

func (b *TransformerBase[C, P]) isConsumer()    {}
func (b *TransformerBase[C, P]) isProducer()    {}
func (b *TransformerBase[C, P]) isTransformer() {}

// Produce is a no-op: a transformer's worker runs the consumer loop, never
// the producer loop, so the producer role it inherits exists only to own
// output pins.
func (b *TransformerBase[C, P]) Produce() {}

// Sever disconnects inputs, then outputs.
func (b *TransformerBase[C, P]) Sever() {
	for _, in := range b.ins {
		in.Disconnect()
	}
	for _, o := range b.outs {
		o.Disconnect()
	}
}

func (b *TransformerBase[C, P]) rename(name string) {
	b.Node.rename(name)
	for i, in := range b.ins {
		in.rename(name + "_in" + strconv.Itoa(i))
	}
	for i, o := range b.outs {
		o.rename(name + "_out" + strconv.Itoa(i))
	}
}
