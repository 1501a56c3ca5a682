// Package inference - Hand classification of image regions.
package inference

import (
	"context"

	"github.com/chewxy/math32"
	"gorgonia.org/tensor"
)

// Predictor runs the hand classifier on one prepared input.
//
// The input is a float32 tensor of shape [1, height, width, 1] holding a
// grayscale crop normalized to [0, 1]. The returned vector holds one score per
// models.Label, in label order.
type Predictor interface {
	Predict(ctx context.Context, input *tensor.Dense) ([]float32, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, input *tensor.Dense) ([]float32, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, input *tensor.Dense) ([]float32, error) {
	return f(ctx, input)
}

// Softmax converts raw logits into probabilities.
//
// The maximum logit is subtracted before exponentiation to keep the result finite.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	out := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		out[i] = math32.Exp(v - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Argmax returns the index and value of the largest score. The first index wins
// on ties. It returns -1 for an empty slice.
func Argmax(scores []float32) (int, float32) {
	if len(scores) == 0 {
		return -1, 0
	}
	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}
	return best, scores[best]
}
