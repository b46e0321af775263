package object_test

import (
	"context"
	"testing"

	"github.com/delaneyj/swapparty/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetParent(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	root := newObj(t, g, ctx, nil, nil, "root")
	a := newObj(t, g, ctx, nil, root, "a")
	b := newObj(t, g, ctx, nil, root, "b")

	assert.Same(t, root, a.Parent())
	assert.Equal(t, []*object.Object{a, b}, root.Children())

	require.NoError(t, g.SetParent(b, a))
	assert.Equal(t, []*object.Object{a}, root.Children())
	assert.Equal(t, []*object.Object{b}, a.Children())

	err := g.SetParent(root, b)
	assert.ErrorIs(t, err, object.ErrParentCycle)
	assert.ErrorIs(t, g.SetParent(a, a), object.ErrParentCycle)
	assert.Nil(t, root.Parent())

	require.NoError(t, g.SetParent(b, nil))
	assert.Nil(t, b.Parent())
	assert.Empty(t, a.Children())
}

func TestNewWithParentChecks(t *testing.T) {
	g := object.NewGraph()
	th := object.NewThread("worker")
	onThread := object.WithThread(context.Background(), th)

	parent := newObj(t, g, onThread, nil, nil, "parent")
	_, err := g.New(context.Background(), nil, parent)
	assert.ErrorIs(t, err, object.ErrThreadAffinity)

	_, err = object.NewGraph().New(onThread, nil, parent)
	assert.ErrorIs(t, err, object.ErrForeignObject)

	child, err := g.New(onThread, nil, parent)
	require.NoError(t, err)
	assert.Same(t, th, child.Thread())
	assert.Same(t, object.ObjectMeta, child.Meta())

	g.Destroy(parent)
	_, err = g.New(onThread, nil, parent)
	assert.ErrorIs(t, err, object.ErrDestroyed)
}

func TestDestroySubtree(t *testing.T) {
	//   root
	//   /  \
	//  a    b
	//  |
	//  c
	g := object.NewGraph()
	ctx := context.Background()
	root := newObj(t, g, ctx, nil, nil, "root")
	a := newObj(t, g, ctx, nil, root, "a")
	b := newObj(t, g, ctx, nil, root, "b")
	c := newObj(t, g, ctx, nil, a, "c")

	var order []string
	for _, o := range []*object.Object{a, c} {
		_, err := g.Connect(o, object.SignalDestroyed, b, func(ev object.Event) {
			order = append(order, ev.Sender.Name())
		})
		require.NoError(t, err)
	}

	g.Destroy(a)
	assert.Equal(t, []string{"a", "c"}, order)
	assert.True(t, a.IsDestroyed())
	assert.True(t, c.IsDestroyed())
	assert.False(t, b.IsDestroyed())
	assert.Equal(t, []*object.Object{b}, root.Children())
	assert.Nil(t, c.Parent())
	assert.Empty(t, a.Children())

	assert.ErrorIs(t, g.SetParent(b, a), object.ErrDestroyed)
}

func TestFindChildren(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()
	root := newObj(t, g, ctx, nil, nil, "root")
	a := newObj(t, g, ctx, nil, root, "x")
	b := newObj(t, g, ctx, nil, a, "y")
	c := newObj(t, g, ctx, nil, b, "x")
	assert.Equal(t, []*object.Object{a, c}, root.FindChildren("x"))
	assert.Equal(t, []*object.Object{b}, root.FindChildren("y"))
	assert.Empty(t, root.FindChildren("z"))
}

func TestDestroyIgnoresForeignObject(t *testing.T) {
	g1 := object.NewGraph()
	g2 := object.NewGraph()
	ctx := context.Background()
	root := newObj(t, g1, ctx, nil, nil, "root")
	child := newObj(t, g1, ctx, nil, root, "child")

	g2.Destroy(child)
	assert.False(t, child.IsDestroyed())
	assert.Same(t, root, child.Parent())
	assert.Equal(t, []*object.Object{child}, root.Children())

	g1.Destroy(child)
	assert.True(t, child.IsDestroyed())
	assert.Empty(t, root.Children())
}
