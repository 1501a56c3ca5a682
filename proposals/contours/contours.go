// Package contours - OpenCV contour based region proposals.
//
// The Segmenter runs a typical computer vision pipeline over a still image and
// returns the bounding rectangles of every external contour it finds:
//
//	┌──────────────────────────────┐
//	│ Input image (RGB)            │
//	└──────┬───────────────────────┘
//	┌──────────────────────────────┐
//	│ Grayscale + gaussian blur    │
//	└──────┬───────────────────────┘
//	┌──────────────────────────────┐
//	│ Canny, once per threshold    │
//	└──────┬───────────────────────┘
//	┌──────────────────────────────┐
//	│ Morphology (dilate)          │
//	└──────┬───────────────────────┘
//	┌──────────────────────────────┐
//	│ External contours → rects    │
//	└──────────────────────────────┘
//
// Importing the package registers the "contours" proposal method.
package contours

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/proposals"
)

func init() {
	proposals.Register(proposals.MethodContours, func(cfg proposals.Config) (proposals.Proposer, error) {
		return New(cfg.Contours)
	})
}

// Contours proposes the bounding boxes of edge contours found by OpenCV.
//
// It is safe for concurrent use; every call allocates its own matrices.
type Contours struct {
	config proposals.ContoursConfig
}

// New validates cfg and returns a contour proposer.
func New(cfg proposals.ContoursConfig) (*Contours, error) {
	if cfg.BlurSize < 0 || (cfg.BlurSize > 0 && cfg.BlurSize%2 == 0) {
		return nil, errors.Errorf("contours blur_size must be odd, got %d", cfg.BlurSize)
	}
	if len(cfg.Thresholds) == 0 {
		return nil, errors.New("contours thresholds must not be empty")
	}
	if cfg.DilateSize < 0 || cfg.MinArea < 0 {
		return nil, errors.New("contours dilate_size and min_area must not be negative")
	}
	return &Contours{config: cfg}, nil
}

// Propose implements proposals.Proposer.
func (c *Contours) Propose(ctx context.Context, img image.Image) ([]images.Rect, error) {
	seg, err := NewSegmenter(img, c.config)
	if err != nil {
		return nil, err
	}
	defer seg.Close()

	offset := img.Bounds().Min
	var rects []images.Rect
	for _, t := range c.config.Thresholds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := seg.Segment(t)
		if err != nil {
			return nil, err
		}
		for _, r := range found {
			r.X += offset.X
			r.Y += offset.Y
			rects = append(rects, r)
		}
	}
	return proposals.Dedupe(rects), nil
}

// Segmenter holds the OpenCV matrices of one image.
//
// Always call Close() when done to release native resources.
type Segmenter struct {
	Blurred gocv.Mat // Denoised grayscale input
	Edges   gocv.Mat // Binary edge mask of the last threshold
	Kernel  gocv.Mat // Morphological kernel, empty when dilation is disabled
	minArea int
}

// NewSegmenter converts img and prepares the blurred grayscale input.
func NewSegmenter(img image.Image, cfg proposals.ContoursConfig) (*Segmenter, error) {
	rgb, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "convert image to Mat")
	}
	defer rgb.Close()

	s := &Segmenter{
		Blurred: gocv.NewMat(),
		Edges:   gocv.NewMat(),
		Kernel:  gocv.NewMat(),
		minArea: cfg.MinArea,
	}

	gocv.CvtColor(rgb, &s.Blurred, gocv.ColorRGBToGray)
	if cfg.BlurSize > 0 {
		gocv.GaussianBlur(s.Blurred, &s.Blurred, image.Pt(cfg.BlurSize, cfg.BlurSize), 0, 0, gocv.BorderDefault)
	}
	if cfg.DilateSize > 0 {
		s.Kernel.Close()
		s.Kernel = gocv.GetStructuringElement(gocv.MorphRect, image.Pt(cfg.DilateSize, cfg.DilateSize))
	}
	return s, nil
}

// Segment runs Canny with low threshold t and high threshold 2t, closes gaps and
// returns the bounding rectangles of the external contours.
func (s *Segmenter) Segment(t float32) ([]images.Rect, error) {
	gocv.Canny(s.Blurred, &s.Edges, t, 2*t)
	if !s.Kernel.Empty() {
		if err := gocv.Dilate(s.Edges, &s.Edges, s.Kernel); err != nil {
			return nil, errors.Wrap(err, "dilate edges")
		}
	}

	contours := gocv.FindContours(s.Edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	rects := make([]images.Rect, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		r := images.FromRectangle(gocv.BoundingRect(contours.At(i)))
		if r.Area() < s.minArea {
			continue
		}
		rects = append(rects, r)
	}
	return rects, nil
}

// Close releases all OpenCV native resources used by the segmenter.
func (s *Segmenter) Close() {
	s.Blurred.Close()
	s.Edges.Close()
	s.Kernel.Close()
}
