package samples

import (
	"fmt"
	"strings"

	"github.com/fxsml/dflow"
)

// Number is the set of element types Adder, ConstAdder, and
// MultiplicationExpressifier operate on.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Adder sums one packet from each of its inputs once all of them have a
// packet ready, and pushes the sum to its single output.
type Adder[T Number] struct {
	*dflow.TransformerBase[T, T]
}

// NewAdder creates an Adder with ins inputs (minimum 2) and one output.
func NewAdder[T Number](ins int, name string) *Adder[T] {
	if ins < 2 {
		ins = 2
	}
	if name == "" {
		name = "adder"
	}
	return &Adder[T]{TransformerBase: dflow.NewTransformerBase[T, T](name, ins, 1)}
}

// Ready checks every input for a ready packet; if any input is empty it
// returns and waits to be called again. Otherwise it pops one packet from
// each input, sums their payloads, and pushes the sum.
func (a *Adder[T]) Ready(i int) {
	for n := 0; n < a.Ins(); n++ {
		if !a.Input(n).Peek() {
			return
		}
	}

	terms := make([]*dflow.Packet[T], a.Ins())
	for n := 0; n < a.Ins(); n++ {
		terms[n] = a.Input(n).Pop()
	}

	sum := terms[0].Data()
	for _, t := range terms[1:] {
		sum += t.Data()
	}

	a.Output(0).Push(dflow.NewPacket(sum))
}

// Run is the consumer execution loop.
func (a *Adder[T]) Run() { dflow.RunConsumer[T](a) }

// ConstAdder adds a fixed addend to every packet it receives.
type ConstAdder[T Number] struct {
	*dflow.TransformerBase[T, T]
	addend T
}

// NewConstAdder creates a ConstAdder with one input, one output, adding
// addend to every packet.
func NewConstAdder[T Number](addend T, name string) *ConstAdder[T] {
	if name == "" {
		name = "const_adder"
	}
	return &ConstAdder[T]{
		TransformerBase: dflow.NewTransformerBase[T, T](name, 1, 1),
		addend:          addend,
	}
}

// Ready drains input 0, adding the addend to each packet before pushing
// it to output 0.
func (c *ConstAdder[T]) Ready(i int) {
	for {
		p := c.Input(0).Pop()
		if p == nil {
			return
		}
		p.SetData(p.Data() + c.addend)
		c.Output(0).Push(p)
	}
}

// Run is the consumer execution loop.
func (c *ConstAdder[T]) Run() { dflow.RunConsumer[T](c) }

// MultiplicationExpressifier multiplies one packet from each of its
// numeric inputs once all of them have a packet ready, and pushes a
// string packet of the form "a * b [* ...] = product".
type MultiplicationExpressifier[T Number] struct {
	*dflow.TransformerBase[T, string]
}

// NewMultiplicationExpressifier creates a MultiplicationExpressifier with
// ins inputs (minimum 2) and one string output.
func NewMultiplicationExpressifier[T Number](ins int, name string) *MultiplicationExpressifier[T] {
	if ins < 2 {
		ins = 2
	}
	if name == "" {
		name = "multiplication_expressifier"
	}
	return &MultiplicationExpressifier[T]{
		TransformerBase: dflow.NewTransformerBase[T, string](name, ins, 1),
	}
}

// Ready checks every input for a ready packet; if any input is empty it
// returns and waits to be called again. Otherwise it pops one packet from
// each input, multiplies their payloads, and pushes the expression string.
func (m *MultiplicationExpressifier[T]) Ready(i int) {
	for n := 0; n < m.Ins(); n++ {
		if !m.Input(n).Peek() {
			return
		}
	}

	terms := make([]*dflow.Packet[T], m.Ins())
	for n := 0; n < m.Ins(); n++ {
		terms[n] = m.Input(n).Pop()
	}

	product := terms[0].Data()
	factors := make([]string, len(terms))
	factors[0] = fmt.Sprint(terms[0].Data())
	for n, t := range terms[1:] {
		product *= t.Data()
		factors[n+1] = fmt.Sprint(t.Data())
	}

	expression := strings.Join(factors, " * ") + fmt.Sprintf(" = %v", product)
	m.Output(0).Push(dflow.NewPacket(expression))
}

// Run is the consumer execution loop.
func (m *MultiplicationExpressifier[T]) Run() { dflow.RunConsumer[T](m) }
