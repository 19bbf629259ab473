package patchbay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-rack/dsp/graph"
)

func TestSlotDrivesGestures(t *testing.T) {
	t.Parallel()

	ctx := graph.NewContext()
	bay := New(WithLogger(quietLogger()))
	out, in := NewSlot(0, 0), NewSlot(200, 40)
	src, dst := ctx.NewGain(), ctx.NewGain()

	bay.RegisterOutput("osc", src, "Osc", out)
	bay.RegisterInput("fx", dst, "", in)
	assert.True(t, out.HasClass(ClassOutput))
	assert.Equal(t, "Input", in.Title())

	out.Click()
	pending, ok := bay.Pending()
	require.True(t, ok)
	assert.Equal(t, "osc", pending)
	assert.True(t, in.HasClass(ClassPendingTarget))

	in.Click()
	assert.True(t, src.IsConnectedTo(dst))
	assert.True(t, in.HasClass(ClassConnected))
	assert.False(t, in.HasClass(ClassPendingTarget))

	in.SecondaryClick()
	assert.False(t, src.IsConnectedTo(dst))
	assert.Empty(t, bay.Cables())

	bay.UnregisterInput("fx")
	assert.False(t, in.HasClass(ClassJack))
	in.Click()
	assert.Equal(t, State{}, bay.State())
}
