package dflow

import "sync"

// State is a node's lifecycle state.
type State int

const (
	// Paused is the initial state of every node.
	Paused State = iota
	Started
	Stopped
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Node is the lifecycle base embedded by every producer, consumer, and
// transformer. Its transition signal — a mutex paired with a condition
// variable — is the only coordination primitive a node and its pins use to
// wake a sleeping worker. Only the Graph that owns a node calls Transition.
type Node struct {
	name string

	mu    sync.Mutex
	cond  *sync.Cond
	state State

	onStarted func()
	onPaused  func()
	onStopped func()
}

// NewNode creates a paused node with the given name.
func NewNode(name string) *Node {
	n := &Node{name: name, state: Paused}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// Name returns the node's current name.
func (n *Node) Name() string { return n.name }

func (n *Node) rename(name string) { n.name = name }

// State returns a snapshot of the node's current lifecycle state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Transition sets the node's state, runs the matching lifecycle hook while
// still holding the transition mutex, and wakes one waiter.
func (n *Node) Transition(s State) {
	n.mu.Lock()
	n.state = s
	switch s {
	case Started:
		if n.onStarted != nil {
			n.onStarted()
		}
	case Paused:
		if n.onPaused != nil {
			n.onPaused()
		}
	case Stopped:
		if n.onStopped != nil {
			n.onStopped()
		}
	}
	n.cond.Signal()
	n.mu.Unlock()
}

// OnStarted registers a hook invoked inside Transition once the state has
// been set to Started.
func (n *Node) OnStarted(f func()) { n.onStarted = f }

// OnPaused registers a hook invoked inside Transition once the state has
// been set to Paused.
func (n *Node) OnPaused(f func()) { n.onPaused = f }

// OnStopped registers a hook invoked inside Transition once the state has
// been set to Stopped. Concrete collaborators that block inside Produce or
// Ready outside the base execution loop (a generator waiting on an
// external timer, say) override this to release their own wait promptly.
func (n *Node) OnStopped(f func()) { n.onStopped = f }

// waitPausedDone blocks while the node is paused and returns the state
// observed once it no longer is.
func (n *Node) waitPausedDone() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	for n.state == Paused {
		n.cond.Wait()
	}
	return n.state
}

// waitIncoming blocks while the node is started and ready reports nothing
// to do. It returns the state observed when the loop exits and whether
// ready fired.
func (n *Node) waitIncoming(ready func() bool) (State, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for {
		s := n.state
		if s != Started {
			return s, false
		}
		if ready() {
			return s, true
		}
		n.cond.Wait()
	}
}

// GraphNode is the minimal capability the Graph needs from any node,
// independent of its element type.
type GraphNode interface {
	Base() *Node
	Run()
	Sever()
}

// renamer is implemented by nodes whose pins must be renamed alongside the
// node itself. Graph.Add uses it when a node is added under an explicit
// name different from its constructor-time name.
type renamer interface {
	rename(string)
}

// Marker interfaces mirroring the non-template producer/consumer/transformer
// tag base classes of the library this engine is ported from: they let the
// Graph classify a node by role without knowing its element type. A
// Transformer implements all three, so Graph.Add checks roleTransformer
// before roleProducer and roleConsumer.
type (
	roleProducer    interface{ isProducer() }
	roleConsumer    interface{ isConsumer() }
	roleTransformer interface{ isTransformer() }
)
