package object_test

import (
	"testing"

	"github.com/delaneyj/swapparty/object"
	"github.com/stretchr/testify/assert"
)

func TestMetaTypeSignals(t *testing.T) {
	assert.Equal(t, 2, object.ObjectMeta.SignalCount())
	assert.Equal(t, object.SignalDestroyed, object.ObjectMeta.SignalIndex("destroyed"))
	assert.Equal(t, object.SignalObjectNameChanged, object.ObjectMeta.SignalIndex("objectNameChanged"))
	assert.Equal(t, -1, object.ObjectMeta.SignalIndex("ping"))

	assert.Equal(t, 4, pingerMeta.SignalCount())
	assert.Equal(t, 2, ping)
	assert.Equal(t, "pong", pingerMeta.SignalName(3))
	assert.Equal(t, "", pingerMeta.SignalName(9))
	assert.Same(t, object.ObjectMeta, pingerMeta.Super())

	bare := object.NewMetaType("Bare", nil, "poke")
	assert.Same(t, object.ObjectMeta, bare.Super())
	assert.Equal(t, 2, bare.SignalIndex("poke"))
	assert.Nil(t, object.ObjectMeta.Super())
}

func TestMetaTypeInherits(t *testing.T) {
	//   Object
	//   /    \
	// Pinger  Other
	//   |
	// Loud
	other := object.NewMetaType("Other", object.ObjectMeta)
	loud := object.NewMetaType("Loud", pingerMeta, "shout")

	assert.True(t, pingerMeta.Inherits(object.ObjectMeta))
	assert.True(t, pingerMeta.Inherits(pingerMeta))
	assert.True(t, loud.Inherits(pingerMeta))
	assert.True(t, loud.Inherits(object.ObjectMeta))
	assert.False(t, object.ObjectMeta.Inherits(pingerMeta))
	assert.False(t, other.Inherits(pingerMeta))
	assert.False(t, pingerMeta.Inherits(other))

	assert.Equal(t, []string{"Loud", "Object", "Pinger"}, loud.Capabilities())
}
