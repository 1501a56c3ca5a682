package proposals

import (
	"context"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// Edges proposes the bounding boxes of connected edge regions.
//
// The image is blurred, run through a Sobel filter and thresholded at several
// levels. Every 8-connected component of each mask becomes one proposal, so
// low levels give large regions and high levels give tight ones.
type Edges struct {
	config EdgesConfig
}

// NewEdges validates cfg and returns an edge segmentation proposer.
func NewEdges(cfg EdgesConfig) (*Edges, error) {
	if len(cfg.Levels) == 0 {
		return nil, errors.New("edges levels must not be empty")
	}
	if cfg.BlurRadius < 0 || cfg.DilateRadius < 0 {
		return nil, errors.New("edges radii must not be negative")
	}
	if cfg.MaxSide < 0 || cfg.MinArea < 0 {
		return nil, errors.New("edges max_side and min_area must not be negative")
	}
	return &Edges{config: cfg}, nil
}

// Propose implements Proposer.
func (e *Edges) Propose(ctx context.Context, img image.Image) ([]images.Rect, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}

	src := image.Image(images.Grayscale(img))
	scale := 1.0
	if side := max(b.Dx(), b.Dy()); e.config.MaxSide > 0 && side > e.config.MaxSide {
		scale = float64(side) / float64(e.config.MaxSide)
		src = images.Resize(src, max(1, int(float64(b.Dx())/scale)), max(1, int(float64(b.Dy())/scale)))
	}

	if e.config.BlurRadius > 0 {
		src = blur.Gaussian(src, e.config.BlurRadius)
	}
	edges := luma(effect.Sobel(src))

	var rects []images.Rect
	for _, level := range e.config.Levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mask := segment.Threshold(edges, level)
		if e.config.DilateRadius > 0 {
			mask = segment.Threshold(luma(effect.Dilate(mask, e.config.DilateRadius)), 128)
		}

		for _, c := range Components(mask) {
			r := images.Rect{
				X:      b.Min.X + int(float64(c.X)*scale),
				Y:      b.Min.Y + int(float64(c.Y)*scale),
				Width:  int(float64(c.Width)*scale + 0.5),
				Height: int(float64(c.Height)*scale + 0.5),
			}
			if r.Area() < e.config.MinArea {
				continue
			}
			rects = append(rects, r.Clamp(b))
		}
	}
	return Dedupe(rects), nil
}

// Components returns the bounding boxes of the 8-connected regions of non-zero
// pixels in mask, in scan order of their first pixel. Coordinates are relative
// to the mask origin.
func Components(mask *image.Gray) []images.Rect {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)
	set := func(x, y int) bool {
		return mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] != 0
	}

	var rects []images.Rect
	var queue []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !set(x, y) {
				continue
			}

			minX, minY, maxX, maxY := x, y, x, y
			visited[y*w+x] = true
			queue = append(queue[:0], y*w+x)
			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				px, py := p%w, p/w
				minX, maxX = min(minX, px), max(maxX, px)
				minY, maxY = min(minY, py), max(maxY, py)

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						if n := ny*w + nx; !visited[n] && set(nx, ny) {
							visited[n] = true
							queue = append(queue, n)
						}
					}
				}
			}

			rects = append(rects, images.Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1})
		}
	}
	return rects
}

// luma copies the red channel of a gray RGBA image into an opaque *image.Gray.
// The alpha written by the bild filters is ignored.
func luma(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Pix[y*dst.Stride+x] = src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return dst
}
