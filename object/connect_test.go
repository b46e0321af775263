package object_test

import (
	"context"
	"testing"

	"github.com/delaneyj/swapparty/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectEmitDisconnect(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	sender := newObj(t, g, ctx, pingerMeta, nil, "sender")
	recv := newObj(t, g, ctx, nil, nil, "recv")

	var got []object.Event
	c, err := g.Connect(sender, ping, recv, func(ev object.Event) {
		got = append(got, ev)
	})
	require.NoError(t, err)
	assert.True(t, c.Connected())
	assert.Same(t, sender, c.Sender())
	assert.Same(t, recv, c.Receiver())
	assert.Equal(t, ping, c.Signal())

	assert.Equal(t, 1, sender.Emit(ping, 7))
	require.Len(t, got, 1)
	assert.Same(t, sender, got[0].Sender)
	assert.Same(t, recv, got[0].Receiver)
	assert.Equal(t, ping, got[0].Signal)
	assert.Equal(t, []any{7}, got[0].Args)

	// other signals do not reach it
	assert.Equal(t, 0, sender.Emit(ping+1))

	assert.Len(t, sender.Receivers(ping), 1)
	assert.Len(t, recv.Senders(), 1)

	assert.True(t, c.Disconnect())
	assert.False(t, c.Disconnect())
	assert.Nil(t, c.Receiver())
	assert.Equal(t, 0, sender.Emit(ping, 8))
	assert.Len(t, got, 1)
	assert.Empty(t, sender.Connections())
	assert.Empty(t, recv.Senders())
}

func TestConnectCatchAll(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	sender := newObj(t, g, ctx, pingerMeta, nil, "sender")
	recv := newObj(t, g, ctx, nil, nil, "recv")

	var order []string
	_, err := g.Connect(sender, ping, recv, func(object.Event) { order = append(order, "ping") })
	require.NoError(t, err)
	_, err = g.Connect(sender, object.AllSignals, recv, func(object.Event) { order = append(order, "all") })
	require.NoError(t, err)

	assert.Equal(t, 2, sender.Emit(ping))
	assert.Equal(t, []string{"all", "ping"}, order)
	assert.Equal(t, 1, sender.Emit(ping+1))
	assert.Len(t, sender.Receivers(ping), 2)
	assert.Len(t, sender.Receivers(ping+1), 1)
}

func TestConnectInvalid(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	sender := newObj(t, g, ctx, nil, nil, "sender")
	recv := newObj(t, g, ctx, nil, nil, "recv")

	_, err := g.Connect(sender, ping, recv, nil)
	assert.ErrorIs(t, err, object.ErrInvalidSignal)
	_, err = g.Connect(sender, -2, recv, nil)
	assert.ErrorIs(t, err, object.ErrInvalidSignal)

	other := object.NewGraph()
	foreign := newObj(t, other, ctx, nil, nil, "foreign")
	_, err = g.Connect(sender, object.SignalDestroyed, foreign, nil)
	assert.ErrorIs(t, err, object.ErrForeignObject)

	g.Destroy(recv)
	_, err = g.Connect(sender, object.SignalDestroyed, recv, nil)
	assert.ErrorIs(t, err, object.ErrDestroyed)

	assert.Equal(t, 0, sender.Emit(99))
}

func TestEmitBlockedSignals(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	sender := newObj(t, g, ctx, pingerMeta, nil, "sender")
	recv := newObj(t, g, ctx, nil, nil, "recv")
	calls := 0
	_, err := g.Connect(sender, ping, recv, func(object.Event) { calls++ })
	require.NoError(t, err)

	assert.False(t, sender.BlockSignals(true))
	assert.Equal(t, 0, sender.Emit(ping))
	assert.True(t, sender.BlockSignals(false))
	assert.Equal(t, 1, sender.Emit(ping))
	assert.Equal(t, 1, calls)
}

func TestSetNameEmitsOnChange(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	o := newObj(t, g, ctx, nil, nil, "first")
	recv := newObj(t, g, ctx, nil, nil, "recv")

	var names []string
	_, err := g.Connect(o, object.SignalObjectNameChanged, recv, func(ev object.Event) {
		names = append(names, ev.Args[0].(string))
	})
	require.NoError(t, err)

	o.SetName("second")
	o.SetName("second")
	o.SetName("third")
	assert.Equal(t, []string{"second", "third"}, names)
	assert.Equal(t, "third", o.Name())
}

func TestSelfConnection(t *testing.T) {
	g := object.NewGraph()
	o := newObj(t, g, context.Background(), pingerMeta, nil, "self")
	calls := 0
	c, err := g.Connect(o, ping, o, func(ev object.Event) {
		assert.Same(t, ev.Sender, ev.Receiver)
		calls++
	})
	require.NoError(t, err)
	assert.Equal(t, 1, o.Emit(ping))
	assert.True(t, c.Disconnect())
	assert.Equal(t, 1, calls)
}

func TestDestroyDropsEdges(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	a := newObj(t, g, ctx, pingerMeta, nil, "a")
	b := newObj(t, g, ctx, pingerMeta, nil, "b")

	var destroyed []*object.Object
	_, err := g.Connect(a, object.SignalDestroyed, b, func(ev object.Event) {
		destroyed = append(destroyed, ev.Sender)
	})
	require.NoError(t, err)
	ab, err := g.Connect(a, ping, b, nil)
	require.NoError(t, err)
	ba, err := g.Connect(b, ping, a, nil)
	require.NoError(t, err)

	g.Destroy(a)
	assert.Equal(t, []*object.Object{a}, destroyed)
	assert.True(t, a.IsDestroyed())
	assert.False(t, ab.Connected())
	assert.False(t, ba.Connected())
	assert.Empty(t, b.Connections())
	assert.Empty(t, b.Senders())
	assert.Equal(t, 0, b.Emit(ping))

	// idempotent
	g.Destroy(a)
}

func TestProperties(t *testing.T) {
	g := object.NewGraph()
	o := newObj(t, g, context.Background(), nil, nil, "props")
	o.SetProperty("b", 2)
	o.SetProperty("a", "one")
	v, ok := o.Property("a")
	assert.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, []string{"a", "b"}, o.PropertyNames())
	o.SetProperty("a", nil)
	_, ok = o.Property("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, o.PropertyNames())
}
