package canvas

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pen = Tool{Color: "#ff0000", Width: 4}

func TestStrokeCommitsOnlyOnEnd(t *testing.T) {
	surface := NewSurface(200, 100)

	surface.BeginStroke(Point{X: 10, Y: 10}, pen)
	surface.ExtendStroke(Point{X: 50, Y: 50})
	assert.False(t, surface.Blank(), "ink must appear while drawing")

	snapshot, committed := surface.EndStroke()
	require.True(t, committed)
	assert.True(t, strings.HasPrefix(snapshot, "data:image/png;base64,"))

	// A second end without a begin commits nothing.
	_, committed = surface.EndStroke()
	assert.False(t, committed)
}

func TestExtendWithoutBeginIsNoOp(t *testing.T) {
	surface := NewSurface(200, 100)

	surface.ExtendStroke(Point{X: 50, Y: 50})
	assert.True(t, surface.Blank())

	_, committed := surface.EndStroke()
	assert.False(t, committed)
}

func TestEraserRemovesInk(t *testing.T) {
	surface := NewSurface(200, 100)

	surface.BeginStroke(Point{X: 50, Y: 50}, pen)
	surface.EndStroke()
	require.False(t, surface.Blank())

	surface.BeginStroke(Point{X: 50, Y: 50}, Tool{Eraser: true})
	surface.EndStroke()
	assert.True(t, surface.Blank(), "eraser is wider than the pen dot it covers")
}

func TestClearAbortsActiveStroke(t *testing.T) {
	surface := NewSurface(200, 100)

	surface.BeginStroke(Point{X: 50, Y: 50}, pen)
	assert.Equal(t, "", surface.Clear())
	assert.True(t, surface.Blank())

	_, committed := surface.EndStroke()
	assert.False(t, committed)
}

func TestResizePreservesContent(t *testing.T) {
	surface := NewSurface(200, 100)

	surface.BeginStroke(Point{X: 100, Y: 50}, Tool{Color: "#00ff00", Width: 20})
	surface.EndStroke()
	require.False(t, surface.Blank())

	surface.Resize(400, 200)
	assert.False(t, surface.Blank(), "resize must re-stretch, not discard")

	surface.Resize(100, 50)
	assert.False(t, surface.Blank())
}

func TestSnapshotRoundTrip(t *testing.T) {
	surface := NewSurface(64, 64)
	surface.BeginStroke(Point{X: 32, Y: 32}, pen)
	surface.EndStroke()

	decoded := DecodeSnapshot(surface.Snapshot())
	require.NotNil(t, decoded)
	assert.Equal(t, image.Rect(0, 0, 64, 64), decoded.Bounds())
}

func TestDecodeSnapshotRejectsBadInput(t *testing.T) {
	assert.Nil(t, DecodeSnapshot(""))
	assert.Nil(t, DecodeSnapshot("not a data url"))
	assert.Nil(t, DecodeSnapshot("data:image/png;base64,%%%%"))
	assert.Nil(t, DecodeSnapshot("data:image/png;base64,aGVsbG8="))
}

func TestLoadDiscardsStaleCompletion(t *testing.T) {
	surface := NewSurface(64, 64)

	stale := surface.StartLoad()
	fresh := surface.StartLoad()
	require.NotEqual(t, stale, fresh)

	ink := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range ink.Pix {
		ink.Pix[i] = 255
	}

	assert.False(t, surface.FinishLoad(stale, ink), "an abandoned page's ink must not land")
	assert.True(t, surface.Blank())

	assert.True(t, surface.FinishLoad(fresh, ink))
	assert.False(t, surface.Blank())
}

func TestFinishLoadNilDecodedLeavesBlank(t *testing.T) {
	surface := NewSurface(64, 64)

	token := surface.StartLoad()
	assert.True(t, surface.FinishLoad(token, nil))
	assert.True(t, surface.Blank())
}

func TestStartLoadBlanksImmediately(t *testing.T) {
	surface := NewSurface(64, 64)

	surface.BeginStroke(Point{X: 32, Y: 32}, pen)
	surface.EndStroke()
	require.False(t, surface.Blank())

	surface.StartLoad()
	assert.True(t, surface.Blank())
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, A: 255}, parseColor("#ff0000"))
	assert.Equal(t, color.RGBA{R: 18, G: 52, B: 86, A: 255}, parseColor("#123456"))
	assert.Equal(t, color.RGBA{A: 255}, parseColor("red"))
	assert.Equal(t, color.RGBA{A: 255}, parseColor(""))
}
