// Package postprocess - Postprocessing of classified hand regions.
package postprocess

import (
	"fmt"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/models"
)

// ClassifiedBox is a candidate region together with the classifier's verdict.
//
// Corners are inclusive: a box covering a single pixel has X0 == X1 and Y0 == Y1.
type ClassifiedBox struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	// Confidence in percent, 0 to 100.
	Confidence float64 `json:"confidence"`
	// Class is the predicted label.
	Class models.Label `json:"class"`
}

// NewClassifiedBox converts a region and its classification into a box.
func NewClassifiedBox(r images.Rect, class models.Label, confidence float64) ClassifiedBox {
	return ClassifiedBox{
		X0:         r.X,
		Y0:         r.Y,
		X1:         r.X + r.Width - 1,
		Y1:         r.Y + r.Height - 1,
		Confidence: confidence,
		Class:      class,
	}
}

// Area returns the number of pixels covered by the box, counting both corners.
func (b ClassifiedBox) Area() int {
	return (b.X1 - b.X0 + 1) * (b.Y1 - b.Y0 + 1)
}

// Rect returns the region covered by the box.
func (b ClassifiedBox) Rect() images.Rect {
	return images.Rect{X: b.X0, Y: b.Y0, Width: b.X1 - b.X0 + 1, Height: b.Y1 - b.Y0 + 1}
}

func (b ClassifiedBox) String() string {
	return fmt.Sprintf("%s %.1f%% [%d,%d - %d,%d]", b.Class, b.Confidence, b.X0, b.Y0, b.X1, b.Y1)
}
