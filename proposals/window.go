package proposals

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// Window proposes square windows at several scales across the whole image.
type Window struct {
	config WindowConfig
}

// NewWindow validates cfg and returns a sliding window proposer.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if cfg.MinSize <= 0 {
		return nil, errors.Errorf("window min_size must be positive, got %d", cfg.MinSize)
	}
	if cfg.MaxSize != 0 && cfg.MaxSize < cfg.MinSize {
		return nil, errors.Errorf("window max_size %d is below min_size %d", cfg.MaxSize, cfg.MinSize)
	}
	if cfg.ScaleStep <= 1 {
		return nil, errors.Errorf("window scale_step must be above 1, got %v", cfg.ScaleStep)
	}
	if cfg.Stride <= 0 || cfg.Stride > 1 {
		return nil, errors.Errorf("window stride must be in (0, 1], got %v", cfg.Stride)
	}
	return &Window{config: cfg}, nil
}

// Propose returns every window that fits inside the image, smallest scale first.
func (w *Window) Propose(ctx context.Context, img image.Image) ([]images.Rect, error) {
	b := img.Bounds()
	maxSize := min(b.Dx(), b.Dy())
	if w.config.MaxSize > 0 {
		maxSize = min(maxSize, w.config.MaxSize)
	}

	var rects []images.Rect
	for size := float64(w.config.MinSize); int(size) <= maxSize; size *= w.config.ScaleStep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		side := int(size)
		step := max(1, int(float64(side)*w.config.Stride))
		for y := b.Min.Y; y+side <= b.Max.Y; y += step {
			for x := b.Min.X; x+side <= b.Max.X; x += step {
				rects = append(rects, images.Rect{X: x, Y: y, Width: side, Height: side})
			}
		}
	}
	return rects, nil
}
