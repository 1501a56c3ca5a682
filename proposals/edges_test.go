package proposals

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruiser-KPI/hand-recognition/images"
)

func TestComponents(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 10, 8))
	on := func(x, y int) { mask.Pix[y*mask.Stride+x] = 255 }

	// A diagonal line is one 8-connected component.
	on(1, 1)
	on(2, 2)
	on(3, 3)
	// A separate blob.
	on(7, 5)
	on(8, 5)
	on(8, 6)

	rects := Components(mask)
	assert.Equal(t, []images.Rect{
		{X: 1, Y: 1, Width: 3, Height: 3},
		{X: 7, Y: 5, Width: 2, Height: 2},
	}, rects)

	assert.Empty(t, Components(image.NewGray(image.Rect(0, 0, 4, 4))))
}

func TestEdges_FindsSquare(t *testing.T) {
	e, err := NewEdges(EdgesConfig{Levels: []uint8{64}, MinArea: 100})
	require.NoError(t, err)

	img := squareImage(200, 160, image.Rect(50, 40, 110, 100))
	rects, err := e.Propose(context.Background(), img)
	require.NoError(t, err)
	require.NotEmpty(t, rects)

	found := false
	for _, r := range rects {
		if abs(r.X-50) <= 2 && abs(r.Y-40) <= 2 && abs(r.Width-60) <= 4 && abs(r.Height-60) <= 4 {
			found = true
		}
		assert.True(t, r.In(img.Bounds()), "%s lies outside the image", r)
	}
	assert.True(t, found, "no proposal around the square: %v", rects)
}

func TestEdges_Downscaled(t *testing.T) {
	e, err := NewEdges(EdgesConfig{MaxSide: 100, Levels: []uint8{64}, MinArea: 100})
	require.NoError(t, err)

	img := squareImage(400, 400, image.Rect(100, 100, 300, 300))
	rects, err := e.Propose(context.Background(), img)
	require.NoError(t, err)
	require.NotEmpty(t, rects)

	found := false
	for _, r := range rects {
		if abs(r.X-100) <= 12 && abs(r.Width-200) <= 24 {
			found = true
		}
	}
	assert.True(t, found, "proposals should be mapped back to full resolution: %v", rects)
}

func TestEdges_BlankImage(t *testing.T) {
	e, err := NewEdges(DefaultConfig().Edges)
	require.NoError(t, err)

	rects, err := e.Propose(context.Background(), image.NewGray(image.Rect(0, 0, 120, 120)))
	require.NoError(t, err)
	assert.Empty(t, rects)
}

func TestNewEdges_Validation(t *testing.T) {
	_, err := NewEdges(EdgesConfig{})
	assert.Error(t, err, "levels are required")

	_, err = NewEdges(EdgesConfig{Levels: []uint8{10}, BlurRadius: -1})
	assert.Error(t, err)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
