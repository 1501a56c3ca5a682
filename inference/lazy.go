package inference

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Opener loads a Predictor, typically by reading a model file.
type Opener func(ctx context.Context) (Predictor, error)

// Lazy is a Predictor that opens its underlying model on first use.
//
// A failed open is not remembered: the next call tries again.
type Lazy struct {
	open Opener

	mu        sync.Mutex
	predictor Predictor
}

// NewLazy returns a handle that calls open on the first Predict.
func NewLazy(open Opener) *Lazy {
	return &Lazy{open: open}
}

// Loaded reports whether the underlying predictor has been opened.
func (l *Lazy) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.predictor != nil
}

// Get returns the underlying predictor, opening it if needed.
func (l *Lazy) Get(ctx context.Context) (Predictor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.predictor != nil {
		return l.predictor, nil
	}

	p, err := l.open(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "open predictor")
	}
	if p == nil {
		return nil, errors.New("open predictor: opener returned nil")
	}
	l.predictor = p
	return p, nil
}

// Predict opens the predictor if needed and delegates to it.
func (l *Lazy) Predict(ctx context.Context, input *tensor.Dense) ([]float32, error) {
	p, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	return p.Predict(ctx, input)
}

// Close releases the underlying predictor if it was opened and can be closed.
// The handle may be reopened afterwards.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.predictor
	l.predictor = nil
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
