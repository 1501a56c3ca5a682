package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Clamp(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)

	tests := []struct {
		name     string
		rect     Rect
		expected Rect
		empty    bool
	}{
		{
			name:     "inside bounds is unchanged",
			rect:     Rect{X: 10, Y: 10, Width: 30, Height: 30},
			expected: Rect{X: 10, Y: 10, Width: 30, Height: 30},
		},
		{
			name:     "spills over the right and bottom edges",
			rect:     Rect{X: 90, Y: 70, Width: 30, Height: 30},
			expected: Rect{X: 90, Y: 70, Width: 10, Height: 10},
		},
		{
			name:     "negative origin",
			rect:     Rect{X: -5, Y: -5, Width: 20, Height: 20},
			expected: Rect{X: 0, Y: 0, Width: 15, Height: 15},
		},
		{
			name:  "entirely outside",
			rect:  Rect{X: 200, Y: 200, Width: 10, Height: 10},
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.Clamp(bounds)
			if tt.empty {
				assert.True(t, got.Empty(), "clamped region should be empty")
				return
			}
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.In(bounds), "clamped region should lie inside bounds")
		})
	}
}

func TestRect_Conversions(t *testing.T) {
	r := Rect{X: 3, Y: 4, Width: 10, Height: 20}

	assert.Equal(t, image.Rect(3, 4, 13, 24), r.Rectangle())
	assert.Equal(t, r, FromRectangle(r.Rectangle()))
	assert.Equal(t, r, FromRectangle(image.Rect(13, 24, 3, 4)), "non-canonical rectangles are canonicalized")
	assert.Equal(t, 200, r.Area())
	assert.InDelta(t, 0.5, r.Aspect(), 1e-12)
}

func TestRect_Empty(t *testing.T) {
	assert.True(t, Rect{Width: 0, Height: 10}.Empty())
	assert.True(t, Rect{Width: 10, Height: -1}.Empty())
	assert.False(t, Rect{Width: 1, Height: 1}.Empty())
	assert.Equal(t, 0, Rect{Width: -3, Height: 4}.Area())
	assert.Equal(t, 0.0, Rect{}.Aspect())
	assert.False(t, Rect{}.In(image.Rect(0, 0, 10, 10)), "empty regions are never inside bounds")
}
