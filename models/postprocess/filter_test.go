package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/models"
)

func TestAcceptConfidence(t *testing.T) {
	tests := []struct {
		name     string
		class    models.Label
		conf     float64
		min      float64
		expected bool
	}{
		{name: "left above", class: models.LeftHand, conf: 80, min: 50, expected: true},
		{name: "right above", class: models.RightHand, conf: 50.01, min: 50, expected: true},
		{name: "equal is rejected", class: models.LeftHand, conf: 50, min: 50, expected: false},
		{name: "below", class: models.RightHand, conf: 10, min: 50, expected: false},
		{name: "background is always rejected", class: models.Background, conf: 100, min: 0, expected: false},
		{name: "zero minimum", class: models.LeftHand, conf: 0.5, min: 0, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ClassifiedBox{X1: 40, Y1: 40, Confidence: tt.conf, Class: tt.class}
			assert.Equal(t, tt.expected, AcceptConfidence(b, tt.min))
		})
	}
}

func TestFilterByConfidence(t *testing.T) {
	boxes := []ClassifiedBox{
		{Confidence: 90, Class: models.Background},
		{Confidence: 70, Class: models.RightHand},
		{Confidence: 30, Class: models.LeftHand},
		{Confidence: 60, Class: models.LeftHand},
	}

	got := FilterByConfidence(boxes, 50)
	assert.Equal(t, []ClassifiedBox{boxes[1], boxes[3]}, got)
	assert.NotNil(t, FilterByConfidence(nil, 50))
}

func TestSortByConfidence(t *testing.T) {
	boxes := []ClassifiedBox{
		{X0: 1, Confidence: 70},
		{X0: 2, Confidence: 60},
		{X0: 3, Confidence: 70},
		{X0: 4, Confidence: 55},
	}

	SortByConfidence(boxes)

	var order []int
	for _, b := range boxes {
		order = append(order, b.X0)
	}
	assert.Equal(t, []int{4, 2, 1, 3}, order, "equal confidences keep input order")
}

func TestNewClassifiedBox(t *testing.T) {
	r := images.Rect{X: 10, Y: 20, Width: 30, Height: 40}
	b := NewClassifiedBox(r, models.RightHand, 88)

	assert.Equal(t, ClassifiedBox{X0: 10, Y0: 20, X1: 39, Y1: 59, Confidence: 88, Class: models.RightHand}, b)
	assert.Equal(t, 1200, b.Area())
	assert.Equal(t, r, b.Rect())
	assert.Equal(t, "right 88.0% [10,20 - 39,59]", b.String())
}
