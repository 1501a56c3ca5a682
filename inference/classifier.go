package inference

import (
	"context"
	"image"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/models"
	"github.com/cruiser-KPI/hand-recognition/models/postprocess"
)

var (
	// ErrOutOfBounds is returned when a region lies outside the image.
	ErrOutOfBounds = errors.New("region outside image bounds")
	// ErrOutputSize is returned when a predictor returns the wrong number of scores.
	ErrOutputSize = errors.New("unexpected classifier output size")
)

// Config describes the classifier input and output.
type Config struct {
	// InputWidth is the width the crop is resized to.
	InputWidth int `json:"input_width" yaml:"input_width"`
	// InputHeight is the height the crop is resized to.
	InputHeight int `json:"input_height" yaml:"input_height"`
	// Softmax converts the model's output from logits to probabilities.
	Softmax bool `json:"softmax" yaml:"softmax"`
}

// DefaultConfig returns the 50x50 input used by the trained hand models.
func DefaultConfig() Config {
	return Config{
		InputWidth:  50,
		InputHeight: 50,
	}
}

// Validate checks that the input size is usable.
func (c Config) Validate() error {
	if c.InputWidth <= 0 || c.InputHeight <= 0 {
		return errors.Errorf("input size must be positive, got %dx%d", c.InputWidth, c.InputHeight)
	}
	return nil
}

// CropClassifier classifies single image regions as left hand, right hand or
// background.
//
// It is safe for concurrent use as long as its Predictor is.
type CropClassifier struct {
	predictor Predictor
	classes   *models.ClassSet
	config    Config
}

// NewCropClassifier creates a classifier around predictor.
//
// Arguments:
//   - predictor: The model that scores prepared crops.
//   - classes: Names for the predicted labels. Nil selects models.HandClasses.
//   - config: The input size and output handling.
//
// Returns:
//   - *CropClassifier: The classifier.
//   - error: An error if predictor is nil or config is invalid.
func NewCropClassifier(predictor Predictor, classes *models.ClassSet, config Config) (*CropClassifier, error) {
	if predictor == nil {
		return nil, errors.New("predictor is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if classes == nil {
		classes = models.HandClasses
	}
	return &CropClassifier{predictor: predictor, classes: classes, config: config}, nil
}

// Classes returns the label names used by the classifier.
func (c *CropClassifier) Classes() *models.ClassSet {
	return c.classes
}

// Classify predicts the label of the region r of img.
//
// The confidence of the returned box is the winning score scaled to percent.
// The box covers r clipped to the image bounds.
func (c *CropClassifier) Classify(ctx context.Context, img image.Image, r images.Rect) (postprocess.ClassifiedBox, error) {
	if err := ctx.Err(); err != nil {
		return postprocess.ClassifiedBox{}, err
	}

	clamped := r.Clamp(img.Bounds())
	if clamped.Empty() {
		return postprocess.ClassifiedBox{}, errors.Wrapf(ErrOutOfBounds, "region %s, bounds %v", r, img.Bounds())
	}

	input, err := CropTensor(img, clamped, c.config.InputWidth, c.config.InputHeight)
	if err != nil {
		return postprocess.ClassifiedBox{}, err
	}

	scores, err := c.predictor.Predict(ctx, input)
	if err != nil {
		return postprocess.ClassifiedBox{}, errors.Wrapf(err, "predict %s", clamped)
	}
	if len(scores) != models.NumLabels {
		return postprocess.ClassifiedBox{}, errors.Wrapf(ErrOutputSize, "got %d scores, want %d", len(scores), models.NumLabels)
	}
	if c.config.Softmax {
		scores = Softmax(scores)
	}

	idx, score := Argmax(scores)
	return postprocess.NewClassifiedBox(clamped, models.Label(idx), 100*float64(score)), nil
}
