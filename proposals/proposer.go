// Package proposals - Candidate region generators for hand detection.
//
// A Proposer returns rectangles that might contain a hand. Proposals are
// neither filtered nor ordered; the detector clips, filters and classifies them.
//
// Generators are selected by name through New. The pure Go generators
// ("window" and "edges") are always available; others register themselves
// with Register from their own package:
//
//	import _ "github.com/cruiser-KPI/hand-recognition/proposals/contours"
package proposals

import (
	"context"
	"image"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
)

// Proposer generates candidate regions for an image.
type Proposer interface {
	Propose(ctx context.Context, img image.Image) ([]images.Rect, error)
}

// ProposerFunc adapts a function to the Proposer interface.
type ProposerFunc func(ctx context.Context, img image.Image) ([]images.Rect, error)

// Propose calls f.
func (f ProposerFunc) Propose(ctx context.Context, img image.Image) ([]images.Rect, error) {
	return f(ctx, img)
}

// Factory builds a Proposer from configuration.
type Factory func(cfg Config) (Proposer, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a proposer available to New under name.
// It panics if name is empty or already registered.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || factory == nil {
		panic("proposals: Register requires a name and a factory")
	}
	if _, dup := registry[name]; dup {
		panic("proposals: Register called twice for " + name)
	}
	registry[name] = factory
}

// Methods returns the registered proposer names in sorted order.
func Methods() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the proposer named by cfg.Method.
//
// Arguments:
//   - cfg: The proposer configuration.
//
// Returns:
//   - Proposer: The configured proposer. When cfg.MaxProposals is positive the
//     output is thinned to that many rectangles with Sample.
//   - error: An error if the method is unknown or its settings are invalid.
func New(cfg Config) (Proposer, error) {
	registryMu.RLock()
	factory, ok := registry[cfg.Method]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown proposal method %q, registered: %v", cfg.Method, Methods())
	}

	p, err := factory(cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "proposal method %q", cfg.Method)
	}
	if cfg.MaxProposals > 0 {
		p = limit(p, cfg.MaxProposals)
	}
	return p, nil
}

func limit(p Proposer, n int) Proposer {
	return ProposerFunc(func(ctx context.Context, img image.Image) ([]images.Rect, error) {
		rects, err := p.Propose(ctx, img)
		if err != nil {
			return nil, err
		}
		return Sample(rects, n), nil
	})
}

// Sample keeps n rectangles spread evenly over rects, preserving their order.
//
// Generators emit proposals grouped by scale or threshold level, so keeping a
// prefix would drop whole groups. Sampling at a fixed stride keeps every group
// represented in proportion to its size, and always keeps the first and last
// rectangle.
//
// Arguments:
//   - rects: The proposals in generation order.
//   - n: The number to keep. Non-positive values keep everything.
//
// Returns:
//   - []images.Rect: rects itself when it has at most n entries, otherwise a new slice.
func Sample(rects []images.Rect, n int) []images.Rect {
	if n <= 0 || len(rects) <= n {
		return rects
	}
	if n == 1 {
		return []images.Rect{rects[0]}
	}

	out := make([]images.Rect, n)
	last := len(rects) - 1
	for i := range out {
		out[i] = rects[i*last/(n-1)]
	}
	return out
}

// Dedupe removes repeated rectangles, keeping the first occurrence of each.
func Dedupe(rects []images.Rect) []images.Rect {
	seen := make(map[images.Rect]struct{}, len(rects))
	out := rects[:0:0]
	for _, r := range rects {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func init() {
	Register(MethodWindow, func(cfg Config) (Proposer, error) { return NewWindow(cfg.Window) })
	Register(MethodEdges, func(cfg Config) (Proposer, error) { return NewEdges(cfg.Edges) })
}
