package inference

import (
	"image"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// CropTensor prepares a region of img as classifier input.
//
// The region is cropped, converted to grayscale, resized to width x height
// with bilinear interpolation and scaled into [0, 1].
//
// Arguments:
//   - img: The source image.
//   - r: The region to prepare. It is clamped to the image bounds.
//   - width: The classifier input width.
//   - height: The classifier input height.
//
// Returns:
//   - *tensor.Dense: A float32 tensor of shape [1, height, width, 1].
//   - error: ErrOutOfBounds if r does not intersect img.
func CropTensor(img image.Image, r images.Rect, width, height int) (*tensor.Dense, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid input size %dx%d", width, height)
	}

	crop, err := images.Crop(img, r)
	if err != nil {
		return nil, errors.Wrap(ErrOutOfBounds, err.Error())
	}

	gray := images.Grayscale(images.Resize(images.Grayscale(crop), width, height))

	data := make([]float32, width*height)
	i := 0
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+width]
		for _, v := range row {
			data[i] = float32(v) / 255.0
			i++
		}
	}

	return tensor.New(
		tensor.WithShape(1, height, width, 1),
		tensor.WithBacking(data),
	), nil
}
