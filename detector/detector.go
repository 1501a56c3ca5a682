// Package detector - Hand detection pipeline.
//
// A Detector turns an image into labeled, non-overlapping hand boxes:
//
//	image → proposals → clip + geometry filter → classify (parallel)
//	      → confidence filter → sort by confidence → suppression
//
// The proposal generator and the classifier are injected, so the pipeline can
// run against any model back-end or against fakes in tests.
package detector

import (
	"context"
	"image"
	"io"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/models/postprocess"
	"github.com/cruiser-KPI/hand-recognition/profiler"
	"github.com/cruiser-KPI/hand-recognition/proposals"
)

// Classifier labels a single region of an image.
type Classifier interface {
	Classify(ctx context.Context, img image.Image, r images.Rect) (postprocess.ClassifiedBox, error)
}

// Detector runs the detection pipeline. It is safe for concurrent use when its
// proposer and classifier are.
type Detector struct {
	proposer   proposals.Proposer
	classifier Classifier
	config     Config
	geometry   GeometryFilter
	logger     *log.Logger
	profiler   *profiler.Profiler
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for per-call summaries. By default nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProfiler records stage timings and candidate counts in p.
func WithProfiler(p *profiler.Profiler) Option {
	return func(d *Detector) {
		d.profiler = p
	}
}

// New creates a detector.
//
// Arguments:
//   - proposer: Generates candidate regions.
//   - classifier: Labels each candidate.
//   - config: Pipeline tunables. It is validated.
//   - opts: Optional logger and profiler.
//
// Returns:
//   - *Detector: The detector.
//   - error: An error if a collaborator is missing or config is invalid.
func New(proposer proposals.Proposer, classifier Classifier, config Config, opts ...Option) (*Detector, error) {
	if proposer == nil {
		return nil, errors.New("proposer is required")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid detector config")
	}

	d := &Detector{
		proposer:   proposer,
		classifier: classifier,
		config:     config,
		geometry:   config.Geometry(),
		logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.config
}

// DetectDefault runs Detect with the configured default thresholds.
func (d *Detector) DetectDefault(ctx context.Context, img image.Image) ([]postprocess.ClassifiedBox, error) {
	return d.Detect(ctx, img, d.config.MinConfidence, d.config.OverlapThreshold)
}

// Detect finds hands in img.
//
// Arguments:
//   - ctx: Cancels proposal generation and pending classifications.
//   - img: The image to search.
//   - minConfidence: Boxes need a confidence strictly above this, 0 to 100.
//   - overlapThreshold: Suppression threshold, 0 to 1.
//
// Returns:
//   - []postprocess.ClassifiedBox: Hand boxes in suppression pick order. Empty, never nil, when nothing is found.
//   - error: ErrInvalidInput for bad arguments, a *CollaboratorError (matching
//     ErrCollaborator) when the proposer or classifier fails, or the context error.
func (d *Detector) Detect(ctx context.Context, img image.Image, minConfidence, overlapThreshold float64) ([]postprocess.ClassifiedBox, error) {
	if err := validateInputs(img, minConfidence, overlapThreshold); err != nil {
		return nil, err
	}
	start := time.Now()

	stop := d.profiler.StartOperation(StagePropose)
	rects, err := d.proposer.Propose(ctx, img)
	stop()
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "detect")
		}
		return nil, &CollaboratorError{Stage: StagePropose, Err: err}
	}

	candidates := d.candidates(img.Bounds(), rects)
	d.profiler.RecordMetric("proposals", float64(len(rects)))
	d.profiler.RecordMetric("candidates", float64(len(candidates)))

	stop = d.profiler.StartOperation(StageClassify)
	boxes, err := d.classifyAll(ctx, img, candidates)
	stop()
	if err != nil {
		return nil, err
	}

	stop = d.profiler.StartOperation(StageSuppress)
	hands := postprocess.FilterByConfidence(boxes, minConfidence)
	postprocess.SortByConfidence(hands)
	result := postprocess.Suppress(hands, overlapThreshold)
	stop()

	d.logger.Printf("detect: %d proposals, %d candidates, %d hands, %d after suppression in %v",
		len(rects), len(candidates), len(hands), len(result), time.Since(start).Truncate(time.Microsecond))
	return result, nil
}

// candidates clips rects to bounds and keeps those that pass the geometry filter.
func (d *Detector) candidates(bounds image.Rectangle, rects []images.Rect) []images.Rect {
	kept := make([]images.Rect, 0, len(rects))
	for _, r := range rects {
		c := r.Clamp(bounds)
		if d.geometry.Accept(c) {
			kept = append(kept, c)
		}
	}
	return kept
}

// classifyAll classifies every candidate with at most config.Workers in flight.
// Results keep the candidate order. The first failure cancels the remaining work.
func (d *Detector) classifyAll(parent context.Context, img image.Image, candidates []images.Rect) ([]postprocess.ClassifiedBox, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	results := make([]postprocess.ClassifiedBox, len(candidates))
	sem := make(chan struct{}, d.config.workers())

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

loop:
	for i, r := range candidates {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			break loop
		}

		wg.Add(1)
		go func(idx int, r images.Rect) {
			defer wg.Done()
			defer func() { <-sem }()

			box, err := d.classifier.Classify(ctx, img, r)
			if err != nil {
				once.Do(func() {
					firstErr = errors.Wrapf(err, "candidate %d %s", idx, r)
					cancel()
				})
				return
			}
			results[idx] = box
		}(i, r)
	}
	wg.Wait()

	if err := parent.Err(); err != nil {
		return nil, errors.Wrap(err, "detect")
	}
	if firstErr != nil {
		return nil, &CollaboratorError{Stage: StageClassify, Err: firstErr}
	}
	return results, nil
}

func validateInputs(img image.Image, minConfidence, overlapThreshold float64) error {
	if img == nil {
		return errors.Wrap(ErrInvalidInput, "image is nil")
	}
	if img.Bounds().Empty() {
		return errors.Wrapf(ErrInvalidInput, "image is empty: %v", img.Bounds())
	}
	if err := checkConfidence(minConfidence); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	if err := checkOverlap(overlapThreshold); err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}
