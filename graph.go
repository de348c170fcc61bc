package dflow

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// connectionTarget is the consumer side of a logged connection: which node,
// which inpin index.
type connectionTarget struct {
	node  string
	index int
}

// GraphOption configures a Graph at construction time.
type GraphOption func(*Graph)

// WithLogger overrides the graph's default slog-backed Logger.
func WithLogger(l Logger) GraphOption {
	return func(g *Graph) { g.logger = l }
}

// Graph is a registry of nodes keyed by unique name across three disjoint
// role classes (producers, transformers, consumers), a map of worker
// goroutines keyed by node name, and a log of logical connections used by
// ToDot. Add, Remove, Connect, and Disconnect are meant to be called from
// one owning goroutine — workers only ever touch their own pins, never the
// Graph's maps directly.
type Graph struct {
	name string

	mu sync.Mutex

	producers    map[string]GraphNode
	transformers map[string]GraphNode
	consumers    map[string]GraphNode

	workers map[string]chan struct{}

	connections map[string]map[int]connectionTarget

	logger Logger
	log    logConfig
}

// NewGraph creates an empty graph with no nodes and no connections.
func NewGraph(name string, opts ...GraphOption) *Graph {
	g := &Graph{
		name:         name,
		producers:    map[string]GraphNode{},
		transformers: map[string]GraphNode{},
		consumers:    map[string]GraphNode{},
		workers:      map[string]chan struct{}{},
		connections:  map[string]map[int]connectionTarget{},
		logger:       defaultLogger(),
	}
	g.log.applyDefaults()
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// Add registers node under its own Base().Name(), or under name if one is
// given, classifying it by role (checking Transformer before Producer
// before Consumer, since a Transformer satisfies all three markers). A
// node added under an existing name replaces whatever was registered there
// — the caller is responsible for calling Remove first if that is not the
// intent.
func (g *Graph) Add(node GraphNode, name ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := node.Base().Name()
	if len(name) > 0 && name[0] != "" {
		n = name[0]
		if r, ok := node.(renamer); ok {
			r.rename(n)
		}
	}

	switch {
	case isTransformer(node):
		g.transformers[n] = node
	case isProducer(node):
		g.producers[n] = node
	case isConsumer(node):
		g.consumers[n] = node
	default:
		return fmt.Errorf("dflow: %s implements no producer, consumer, or transformer role", n)
	}
	g.connections[n] = map[int]connectionTarget{}

	g.logger.Debug("dflow: node added", "name", n)
	return nil
}

func isProducer(node GraphNode) bool {
	_, ok := node.(roleProducer)
	return ok
}

func isConsumer(node GraphNode) bool {
	_, ok := node.(roleConsumer)
	return ok
}

func isTransformer(node GraphNode) bool {
	_, ok := node.(roleTransformer)
	return ok
}

// Remove severs every pin on the named node, erases it and its connection
// log from the graph, and returns it. It does not stop the node's worker;
// call Stop first if the node may be running.
func (g *Graph) Remove(name string) (GraphNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, where := g.find(name)
	if node == nil {
		return nil, newNotFoundError(name)
	}
	node.Sever()
	delete(where, name)
	delete(g.connections, name)
	g.logger.Debug("dflow: node removed", "name", name)
	return node, nil
}

// find looks a name up across the three role maps, in the order
// producers, transformers, consumers.
func (g *Graph) find(name string) (GraphNode, map[string]GraphNode) {
	if n, ok := g.producers[name]; ok {
		return n, g.producers
	}
	if n, ok := g.transformers[name]; ok {
		return n, g.transformers
	}
	if n, ok := g.consumers[name]; ok {
		return n, g.consumers
	}
	return nil, nil
}

// Connect wires the out-th outpin of the named producer (or transformer) to
// the in-th inpin of the named consumer (or transformer), creating or
// reusing a pipe per the algebra in OutPin.Connect. T is the element type
// shared by both pins; a node registered under producerName or
// consumerName whose pins are not typed T reports ErrTypeMismatch. Connect
// is a free function, not a Graph method, because Go does not allow a
// method to introduce a type parameter the receiver's type doesn't already
// have.
func Connect[T any](g *Graph, producerName string, outIndex int, consumerName string, inIndex int, maxLength, maxWeight int) error {
	g.mu.Lock()
	pNode, _ := g.find(producerName)
	cNode, _ := g.find(consumerName)
	g.mu.Unlock()

	if pNode == nil {
		return newNotFoundError(producerName)
	}
	if cNode == nil {
		return newNotFoundError(consumerName)
	}

	producer, ok := pNode.(Producer[T])
	if !ok {
		return newTypeMismatchError(producerName)
	}
	consumer, ok := cNode.(Consumer[T])
	if !ok {
		return newTypeMismatchError(consumerName)
	}
	if outIndex < 0 || outIndex >= producer.Outs() {
		return newNotFoundError(fmt.Sprintf("%s_out%d", producerName, outIndex))
	}
	if inIndex < 0 || inIndex >= consumer.Ins() {
		return newNotFoundError(fmt.Sprintf("%s_in%d", consumerName, inIndex))
	}

	producer.Output(outIndex).Connect(consumer.Input(inIndex), maxLength, maxWeight)

	g.mu.Lock()
	if g.connections[producerName] == nil {
		g.connections[producerName] = map[int]connectionTarget{}
	}
	g.connections[producerName][outIndex] = connectionTarget{node: consumerName, index: inIndex}
	g.mu.Unlock()

	return nil
}

// DisconnectOutput drops the pipe share held by the out-th outpin of the
// named producer or transformer.
func DisconnectOutput[T any](g *Graph, name string, outIndex int) error {
	g.mu.Lock()
	node, _ := g.find(name)
	g.mu.Unlock()

	if node == nil {
		return newNotFoundError(name)
	}
	producer, ok := node.(Producer[T])
	if !ok {
		return newTypeMismatchError(name)
	}
	if outIndex < 0 || outIndex >= producer.Outs() {
		return newNotFoundError(fmt.Sprintf("%s_out%d", name, outIndex))
	}
	producer.Output(outIndex).Disconnect()

	g.mu.Lock()
	delete(g.connections[name], outIndex)
	g.mu.Unlock()
	return nil
}

// DisconnectInput drops the pipe share held by the in-th inpin of the named
// consumer or transformer.
func DisconnectInput[T any](g *Graph, name string, inIndex int) error {
	g.mu.Lock()
	node, _ := g.find(name)
	g.mu.Unlock()

	if node == nil {
		return newNotFoundError(name)
	}
	consumer, ok := node.(Consumer[T])
	if !ok {
		return newTypeMismatchError(name)
	}
	if inIndex < 0 || inIndex >= consumer.Ins() {
		return newNotFoundError(fmt.Sprintf("%s_in%d", name, inIndex))
	}
	consumer.Input(inIndex).Disconnect()
	return nil
}

// Start transitions every node to Started, in the order consumers,
// transformers, producers — consumers must be draining before producers
// push, to minimize early packet build-up — and spawns a worker goroutine
// for any node that does not already have one. Starting an already-started
// graph is a no-op beyond the idempotent state rewrite.
func (g *Graph) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, name := range sortedKeys(g.consumers) {
		g.startLocked(name, g.consumers[name])
	}
	for _, name := range sortedKeys(g.transformers) {
		g.startLocked(name, g.transformers[name])
	}
	for _, name := range sortedKeys(g.producers) {
		g.startLocked(name, g.producers[name])
	}
}

func (g *Graph) startLocked(name string, node GraphNode) {
	node.Base().Transition(Started)
	if _, ok := g.workers[name]; ok {
		return
	}
	done := make(chan struct{})
	g.workers[name] = done
	go func() {
		defer close(done)
		node.Run()
		logFuncFor(g.log.LevelWorkerExit, g.logger)("dflow: worker exited", "name", name)
	}()
}

// Pause transitions every node to Paused, in the reverse of Start's order
// — producers, transformers, consumers — so downstream nodes can drain
// while upstream ones are already idle.
func (g *Graph) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, name := range sortedKeys(g.producers) {
		g.producers[name].Base().Transition(Paused)
	}
	for _, name := range sortedKeys(g.transformers) {
		g.transformers[name].Base().Transition(Paused)
	}
	for _, name := range sortedKeys(g.consumers) {
		g.consumers[name].Base().Transition(Paused)
	}
}

// Stop transitions every node to Stopped and joins its worker goroutine,
// one node at a time, in the order producers, transformers, consumers.
// After Stop returns, no worker spawned by this graph is still running.
func (g *Graph) Stop() {
	order := func() []string {
		g.mu.Lock()
		defer g.mu.Unlock()
		names := sortedKeys(g.producers)
		names = append(names, sortedKeys(g.transformers)...)
		names = append(names, sortedKeys(g.consumers)...)
		return names
	}()

	for _, name := range order {
		g.mu.Lock()
		node, _ := g.find(name)
		if node != nil {
			node.Base().Transition(Stopped)
		}
		done, hasWorker := g.workers[name]
		g.mu.Unlock()

		if !hasWorker {
			continue
		}
		<-done
		g.mu.Lock()
		delete(g.workers, name)
		g.mu.Unlock()
	}
}

// ToDot writes a Graphviz digraph of the logged connections to w: one edge
// per connection, labeled with the producer-side and consumer-side pin
// indices. It is informational only — no part of the engine reads it back.
func (g *Graph) ToDot(w io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := fmt.Fprintf(w, "digraph %q {\n", g.name); err != nil {
		return err
	}
	for _, from := range sortedKeys(g.connections) {
		outs := g.connections[from]
		indices := make([]int, 0, len(outs))
		for i := range outs {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, outIndex := range indices {
			to := outs[outIndex]
			_, err := fmt.Fprintf(w, "  %q -> %q [taillabel=\"%d\", headlabel=\"%d\"];\n",
				from, to.node, outIndex, to.index)
			if err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
