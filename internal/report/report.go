// Package report renders an object tree, with its connections and timers,
// as plain text.
package report

import (
	"strings"

	"github.com/delaneyj/swapparty/object"
)

type Node struct {
	Depth       int
	ID          uint64
	Name        string
	Meta        string
	Thread      string
	Blocked     bool
	Outgoing    int
	Incoming    int
	Timers      int
	Properties  []string
	Connections []Edge
}

type Edge struct {
	Signal   string
	Receiver uint64
}

// Build walks root depth first.
func Build(root *object.Object) []Node {
	var nodes []Node
	var walk func(o *object.Object, depth int)
	walk = func(o *object.Object, depth int) {
		conns := o.Connections()
		n := Node{
			Depth:      depth,
			ID:         o.ID(),
			Name:       o.Name(),
			Meta:       o.Meta().Name(),
			Thread:     o.Thread().String(),
			Blocked:    o.SignalsBlocked(),
			Outgoing:   len(conns),
			Incoming:   len(o.Senders()),
			Timers:     len(o.Timers()),
			Properties: o.PropertyNames(),
		}
		for _, c := range conns {
			e := Edge{Signal: "*"}
			if c.Signal() != object.AllSignals {
				e.Signal = o.Meta().SignalName(c.Signal())
			}
			if r := c.Receiver(); r != nil {
				e.Receiver = r.ID()
			}
			n.Connections = append(n.Connections, e)
		}
		nodes = append(nodes, n)
		for _, c := range o.Children() {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return nodes
}

func (n Node) Indent() string {
	return strings.Repeat("  ", n.Depth)
}
