package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ErrEmptyRegion is returned when a crop region does not intersect the image.
var ErrEmptyRegion = errors.New("crop region does not intersect the image")

// Crop extracts the sub-image bounded by r.
//
// The region is clamped to the image bounds before cropping, so a proposal that
// spills over an edge yields the visible part only. The returned image has its
// origin at (0, 0).
//
// Arguments:
//   - img: The source image.
//   - r: The region to extract.
//
// Returns:
//   - *image.NRGBA: The cropped pixels.
//   - error: ErrEmptyRegion if nothing of r lies inside img.
func Crop(img image.Image, r Rect) (*image.NRGBA, error) {
	clamped := r.Clamp(img.Bounds())
	if clamped.Empty() {
		return nil, errors.Wrapf(ErrEmptyRegion, "region %s, bounds %v", r, img.Bounds())
	}
	return imaging.Crop(img, clamped.Rectangle()), nil
}

// Grayscale converts img into a single channel image using the ITU-R 601 luma
// weights (0.299 R + 0.587 G + 0.114 B).
func Grayscale(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok && gray.Bounds().Min == (image.Point{}) {
		return gray
	}

	// imaging keeps the result in NRGBA with R == G == B.
	src := imaging.Grayscale(img)
	bounds := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := src.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			dst.SetGray(x, y, color.Gray{Y: c.R})
		}
	}
	return dst
}

// Resize scales img to exactly width x height with bilinear interpolation.
//
// The aspect ratio is not preserved; classifier inputs are square and the
// proposals feeding them are already close to square.
func Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
}
