// Package images - Image region and preprocessing utilities.
package images

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned region proposal in integer pixel coordinates.
//
// The origin is the top-left corner of the image. A Rect is only meaningful
// when both Width and Height are positive.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// FromRectangle converts an image.Rectangle (exclusive max) into a Rect.
//
// Arguments:
//   - r: The rectangle to convert. It is canonicalized first.
//
// Returns:
//   - Rect: The equivalent x/y/width/height region.
func FromRectangle(r image.Rectangle) Rect {
	r = r.Canon()
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rectangle returns the region as an image.Rectangle with an exclusive max corner.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the region covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of pixels covered by the region.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Aspect returns width divided by height. Empty regions have an aspect of 0.
func (r Rect) Aspect() float64 {
	if r.Empty() {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}

// Clamp clips the region to bounds.
//
// Arguments:
//   - bounds: The bounds to clip against, typically img.Bounds().
//
// Returns:
//   - Rect: The clipped region. It is Empty() when r and bounds do not intersect.
//
// Example:
//
// ```go
//
//	r := Rect{X: -10, Y: 5, Width: 50, Height: 50}
//	r.Clamp(image.Rect(0, 0, 32, 32)) // Rect{X: 0, Y: 5, Width: 32, Height: 27}
//
// ```
func (r Rect) Clamp(bounds image.Rectangle) Rect {
	return FromRectangle(r.Rectangle().Intersect(bounds))
}

// In reports whether the region lies entirely inside bounds.
func (r Rect) In(bounds image.Rectangle) bool {
	return !r.Empty() && r.Rectangle().In(bounds)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
