package object_test

import (
	"context"
	"testing"

	"github.com/delaneyj/swapparty/object"
	"github.com/stretchr/testify/require"
)

var pingerMeta = object.NewMetaType("Pinger", object.ObjectMeta, "ping", "pong")

var ping = pingerMeta.SignalIndex("ping")

func newObj(t *testing.T, g *object.Graph, ctx context.Context, meta *object.MetaType, parent *object.Object, name string) *object.Object {
	t.Helper()
	o, err := g.New(ctx, meta, parent)
	require.NoError(t, err)
	o.SetName(name)
	return o
}

type edge struct {
	signal int
	peer   *object.Object
}

type snapshot struct {
	name     string
	blocked  bool
	parent   *object.Object
	children []*object.Object
	props    map[string]any
	thread   *object.Thread
	timers   []int
	out, in  []edge
}

func snap(o *object.Object) snapshot {
	s := snapshot{
		name:     o.Name(),
		blocked:  o.SignalsBlocked(),
		parent:   o.Parent(),
		children: o.Children(),
		props:    map[string]any{},
		thread:   o.Thread(),
		timers:   o.Timers(),
	}
	for _, k := range o.PropertyNames() {
		s.props[k], _ = o.Property(k)
	}
	for _, c := range o.Connections() {
		s.out = append(s.out, edge{c.Signal(), c.Receiver()})
	}
	for _, c := range o.Senders() {
		s.in = append(s.in, edge{c.Signal(), c.Sender()})
	}
	return s
}
