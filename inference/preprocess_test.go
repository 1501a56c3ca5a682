package inference

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// halves returns an image that is white on the left half and black on the right.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestCropTensor(t *testing.T) {
	img := halves(200, 100)

	tests := []struct {
		name     string
		rect     images.Rect
		expected float32
	}{
		{name: "white region", rect: images.Rect{X: 10, Y: 10, Width: 60, Height: 60}, expected: 1},
		{name: "black region", rect: images.Rect{X: 120, Y: 10, Width: 60, Height: 60}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := CropTensor(img, tt.rect, 50, 40)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 40, 50, 1}, []int(input.Shape()))

			data, ok := input.Data().([]float32)
			require.True(t, ok)
			require.Len(t, data, 50*40)
			for _, v := range data {
				assert.InDelta(t, tt.expected, v, 1e-6)
			}
		})
	}
}

func TestCropTensor_Errors(t *testing.T) {
	img := halves(100, 100)

	_, err := CropTensor(img, images.Rect{X: 500, Y: 500, Width: 40, Height: 40}, 50, 50)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = CropTensor(img, images.Rect{X: 0, Y: 0, Width: 40, Height: 40}, 0, 50)
	assert.Error(t, err)
}
