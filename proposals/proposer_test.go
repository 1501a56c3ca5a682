package proposals

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// squareImage returns a black w x h image with a white filled square.
func squareImage(w, h int, square image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := square.Min.Y; y < square.Max.Y; y++ {
		for x := square.Min.X; x < square.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()

	for _, method := range []string{MethodWindow, MethodEdges} {
		t.Run(method, func(t *testing.T) {
			cfg.Method = method
			p, err := New(cfg)
			require.NoError(t, err)
			assert.NotNil(t, p)
		})
	}

	cfg.Method = "selective-search"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg.Method = MethodWindow
	cfg.Window.ScaleStep = 1
	_, err = New(cfg)
	assert.Error(t, err, "invalid settings are reported by New")
}

func TestNew_MaxProposals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = MethodWindow
	cfg.MaxProposals = 5

	p, err := New(cfg)
	require.NoError(t, err)

	rects, err := p.Propose(context.Background(), image.NewGray(image.Rect(0, 0, 200, 200)))
	require.NoError(t, err)
	assert.Len(t, rects, 5)
}

func TestNew_MaxProposalsCoversWholeSearch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = MethodWindow

	full, err := NewWindow(cfg.Window)
	require.NoError(t, err)
	img := image.NewGray(image.Rect(0, 0, 1280, 720))
	all, err := full.Propose(context.Background(), img)
	require.NoError(t, err)
	require.Greater(t, len(all), cfg.MaxProposals, "the default cap must bite on HD frames")

	p, err := New(cfg)
	require.NoError(t, err)
	rects, err := p.Propose(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, rects, cfg.MaxProposals)

	sides := map[int]bool{}
	bottom, largest := 0, 0
	for _, r := range rects {
		sides[r.Width] = true
		bottom = max(bottom, r.Y+r.Height)
		largest = max(largest, r.Width)
	}
	allSides := map[int]bool{}
	for _, r := range all {
		allSides[r.Width] = true
	}

	assert.Equal(t, allSides, sides, "every window scale survives the cap")
	assert.Equal(t, 720, bottom, "windows reach the bottom row")
	assert.Equal(t, all[len(all)-1], rects[len(rects)-1], "the largest scale is kept")
	assert.Greater(t, largest, 400)
}

func TestSample(t *testing.T) {
	var rects []images.Rect
	for i := 0; i < 10; i++ {
		rects = append(rects, images.Rect{X: i, Width: 1, Height: 1})
	}

	xs := func(rs []images.Rect) []int {
		out := make([]int, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.X)
		}
		return out
	}

	tests := []struct {
		name     string
		n        int
		expected []int
	}{
		{name: "no cap", n: 0, expected: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "cap above size", n: 20, expected: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "single", n: 1, expected: []int{0}},
		{name: "ends", n: 2, expected: []int{0, 9}},
		{name: "spread", n: 4, expected: []int{0, 3, 6, 9}},
		{name: "uneven", n: 3, expected: []int{0, 4, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, xs(Sample(rects, tt.n)))
		})
	}
}

func TestRegister(t *testing.T) {
	boom := errors.New("boom")
	Register("test-failing", func(Config) (Proposer, error) { return nil, boom })

	assert.Contains(t, Methods(), "test-failing")
	assert.Panics(t, func() {
		Register("test-failing", func(Config) (Proposer, error) { return nil, nil })
	})

	_, err := New(Config{Method: "test-failing"})
	assert.ErrorIs(t, err, boom)
}

func TestDedupe(t *testing.T) {
	a := images.Rect{X: 1, Y: 1, Width: 30, Height: 30}
	b := images.Rect{X: 2, Y: 1, Width: 30, Height: 30}

	assert.Equal(t, []images.Rect{a, b}, Dedupe([]images.Rect{a, b, a, b, a}))
	assert.Empty(t, Dedupe(nil))
}

func TestWindow_Propose(t *testing.T) {
	w, err := NewWindow(WindowConfig{MinSize: 50, ScaleStep: 2, Stride: 0.5})
	require.NoError(t, err)

	rects, err := w.Propose(context.Background(), image.NewGray(image.Rect(0, 0, 100, 100)))
	require.NoError(t, err)

	// 3x3 windows of 50 with stride 25, then a single 100 window.
	require.Len(t, rects, 10)
	assert.Equal(t, images.Rect{X: 0, Y: 0, Width: 50, Height: 50}, rects[0])
	assert.Equal(t, images.Rect{X: 50, Y: 50, Width: 50, Height: 50}, rects[8])
	assert.Equal(t, images.Rect{X: 0, Y: 0, Width: 100, Height: 100}, rects[9])

	bounds := image.Rect(0, 0, 100, 100)
	for _, r := range rects {
		assert.True(t, r.In(bounds), "%s lies outside the image", r)
		assert.Equal(t, r.Width, r.Height)
	}
}

func TestWindow_MaxSize(t *testing.T) {
	w, err := NewWindow(WindowConfig{MinSize: 40, MaxSize: 50, ScaleStep: 1.5, Stride: 1})
	require.NoError(t, err)

	rects, err := w.Propose(context.Background(), image.NewGray(image.Rect(0, 0, 120, 80)))
	require.NoError(t, err)
	assert.Len(t, rects, 6, "only the 40 pixel scale fits below max_size")
}

func TestWindow_Cancelled(t *testing.T) {
	w, err := NewWindow(WindowConfig{MinSize: 10, ScaleStep: 2, Stride: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Propose(ctx, image.NewGray(image.Rect(0, 0, 100, 100)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewWindow_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  WindowConfig
	}{
		{name: "zero min size", cfg: WindowConfig{MinSize: 0, ScaleStep: 2, Stride: 0.5}},
		{name: "max below min", cfg: WindowConfig{MinSize: 50, MaxSize: 40, ScaleStep: 2, Stride: 0.5}},
		{name: "scale step of one", cfg: WindowConfig{MinSize: 50, ScaleStep: 1, Stride: 0.5}},
		{name: "zero stride", cfg: WindowConfig{MinSize: 50, ScaleStep: 2, Stride: 0}},
		{name: "stride above one", cfg: WindowConfig{MinSize: 50, ScaleStep: 2, Stride: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindow(tt.cfg)
			assert.Error(t, err)
		})
	}
}
