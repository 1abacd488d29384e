package dom

import "fmt"

// Op is the type of a recorded mutation.
type Op uint8

const (
	OpSetText    Op = 0x01 // Update text content
	OpSetAttr    Op = 0x02 // Set/update attribute
	OpRemoveAttr Op = 0x03 // Remove attribute
	OpInsertNode Op = 0x04 // Insert child node
	OpRemoveNode Op = 0x05 // Remove child node
	OpSetValue   Op = 0x08 // Set form control value
	OpSetChecked Op = 0x09 // Set checkbox/radio checked
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsertNode:
		return "InsertNode"
	case OpRemoveNode:
		return "RemoveNode"
	case OpSetValue:
		return "SetValue"
	case OpSetChecked:
		return "SetChecked"
	default:
		return "Unknown"
	}
}

// IsStructural reports whether the op changes the shape of the tree.
func (op Op) IsStructural() bool {
	return op == OpInsertNode || op == OpRemoveNode
}

// Mutation is a single recorded change.
type Mutation struct {
	Op     Op
	Target *Node  // node that changed (the parent for Insert/RemoveNode)
	Node   *Node  // inserted or removed child
	Key    string // attribute name
	Value  string // new value
	Index  int    // child position for Insert/RemoveNode
}

// String returns a compact description, e.g. "InsertNode <ul>[2] <li>".
func (m Mutation) String() string {
	switch m.Op {
	case OpInsertNode, OpRemoveNode:
		return fmt.Sprintf("%s %s[%d] %s", m.Op, describe(m.Target), m.Index, describe(m.Node))
	case OpSetAttr:
		return fmt.Sprintf("%s %s %s=%q", m.Op, describe(m.Target), m.Key, m.Value)
	case OpRemoveAttr:
		return fmt.Sprintf("%s %s %s", m.Op, describe(m.Target), m.Key)
	default:
		return fmt.Sprintf("%s %s %q", m.Op, describe(m.Target), m.Value)
	}
}

func describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == TextNode {
		return "#text"
	}
	return "<" + n.Tag + ">"
}

// Observer records mutations of an observed subtree.
type Observer struct {
	target  *Node
	records []Mutation
	filter  func(Mutation) bool
}

// NewObserver creates an observer. An optional filter limits which
// mutations are recorded.
func NewObserver(filter func(Mutation) bool) *Observer {
	return &Observer{filter: filter}
}

// Observe starts recording mutations of n and its descendants. Observing a
// new node stops observation of the previous one.
func (o *Observer) Observe(n *Node) {
	if o.target == n {
		return
	}
	o.detach()
	o.target = n
	n.observers = append(n.observers, o)
}

// Disconnect stops observation and returns the records taken since the
// last Disconnect or TakeRecords.
func (o *Observer) Disconnect() []Mutation {
	o.detach()
	return o.TakeRecords()
}

// TakeRecords returns and clears the pending records.
func (o *Observer) TakeRecords() []Mutation {
	out := o.records
	o.records = nil
	return out
}

// Active reports whether the observer is attached to a node.
func (o *Observer) Active() bool {
	return o.target != nil
}

func (o *Observer) detach() {
	if o.target == nil {
		return
	}
	obs := o.target.observers
	for i, x := range obs {
		if x == o {
			o.target.observers = append(obs[:i:i], obs[i+1:]...)
			break
		}
	}
	o.target = nil
}

func (o *Observer) record(m Mutation) {
	if o.filter != nil && !o.filter(m) {
		return
	}
	o.records = append(o.records, m)
}

// notify delivers m to observers on n and its ancestors.
func (n *Node) notify(m Mutation) {
	for p := n; p != nil; p = p.parent {
		for _, o := range p.observers {
			o.record(m)
		}
	}
}

// StructuralOnly is an observer filter keeping InsertNode/RemoveNode.
func StructuralOnly(m Mutation) bool {
	return m.Op.IsStructural()
}
