package report_test

import (
	"context"
	"strings"
	"testing"

	"github.com/delaneyj/swapparty/internal/report"
	"github.com/delaneyj/swapparty/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buttonMeta = object.NewMetaType("Button", nil, "clicked")

func TestBuildAndRender(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()

	root, err := g.New(ctx, nil, nil)
	require.NoError(t, err)
	root.SetName("root")
	ok, err := g.New(ctx, buttonMeta, root)
	require.NoError(t, err)
	ok.SetName("ok")
	ok.SetProperty("default", true)
	cancel, err := g.New(ctx, buttonMeta, root)
	require.NoError(t, err)
	cancel.SetName("cancel")
	cancel.BlockSignals(true)

	clicked := buttonMeta.SignalIndex("clicked")
	_, err = g.Connect(ok, clicked, cancel, func(object.Event) {})
	require.NoError(t, err)
	_, err = g.Connect(cancel, object.AllSignals, root, func(object.Event) {})
	require.NoError(t, err)

	nodes := report.Build(root)
	require.Len(t, nodes, 3)

	assert.Equal(t, 0, nodes[0].Depth)
	assert.Equal(t, "root", nodes[0].Name)
	assert.Equal(t, 1, nodes[0].Incoming)

	assert.Equal(t, 1, nodes[1].Depth)
	assert.Equal(t, "ok", nodes[1].Name)
	assert.Equal(t, "Button", nodes[1].Meta)
	assert.Equal(t, []string{"default"}, nodes[1].Properties)
	assert.Equal(t, []report.Edge{{Signal: "clicked", Receiver: cancel.ID()}}, nodes[1].Connections)

	assert.True(t, nodes[2].Blocked)
	assert.Equal(t, 3, buttonMeta.SignalCount())
	assert.Equal(t, []report.Edge{{Signal: "*", Receiver: root.ID()}}, nodes[2].Connections)

	out := report.Tree("scene", nodes)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "== scene (3 objects)"))
	assert.Contains(t, out, "- #1 root <Object> thread=<none>")
	assert.Contains(t, out, "  - #2 ok <Button>")
	assert.Contains(t, out, "props=default")
	assert.Contains(t, out, "clicked -> #3")
	assert.Contains(t, out, "blocked")
}

func TestBuildFollowsSwap(t *testing.T) {
	g := object.NewGraph()
	ctx := context.Background()

	root, err := g.New(ctx, nil, nil)
	require.NoError(t, err)
	a, err := g.New(ctx, buttonMeta, root)
	require.NoError(t, err)
	a.SetName("a")
	b, err := g.New(ctx, buttonMeta, root)
	require.NoError(t, err)
	b.SetName("b")

	require.NoError(t, g.Swap(ctx, a, b))

	nodes := report.Build(root)
	require.Len(t, nodes, 3)
	// the slot a occupied now holds b, carrying a's state
	assert.Equal(t, b.ID(), nodes[1].ID)
	assert.Equal(t, "a", nodes[1].Name)
	assert.Equal(t, a.ID(), nodes[2].ID)
	assert.Equal(t, "b", nodes[2].Name)
}
