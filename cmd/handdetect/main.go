// Command handdetect finds left and right hands in images and prints one JSON
// report per image.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/benchmark"
	"github.com/cruiser-KPI/hand-recognition/detector"
	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/inference"
	"github.com/cruiser-KPI/hand-recognition/models"
	"github.com/cruiser-KPI/hand-recognition/models/postprocess"
	"github.com/cruiser-KPI/hand-recognition/profiler"
	"github.com/cruiser-KPI/hand-recognition/proposals"
	_ "github.com/cruiser-KPI/hand-recognition/proposals/contours"
	"github.com/cruiser-KPI/hand-recognition/util"
)

// Hand is one detection in a report.
type Hand struct {
	Label string `json:"label"`
	postprocess.ClassifiedBox
}

// Report is the JSON line written for each processed image.
type Report struct {
	RunID     string `json:"run_id"`
	Image     string `json:"image"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Hands     []Hand `json:"hands"`
	Elapsed   string `json:"elapsed"`
	Annotated string `json:"annotated,omitempty"`
	Error     string `json:"error,omitempty"`
}

type options struct {
	configPath string
	imagePath  string
	dir        string
	modelPath  string
	runtime    string
	libPath    string
	proposer   string
	confidence float64
	overlap    float64
	workers    int
	annotate   string
	scale      float64
	verbose    bool
	bench      int
	benchOut   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (detector settings and a model section)")
	flag.StringVar(&opts.imagePath, "image", "", "Path to image file (.jpg, .jpeg, .png, .bmp, .webp)")
	flag.StringVar(&opts.dir, "dir", "", "Process every image in this directory in name order")
	flag.StringVar(&opts.modelPath, "model", "", "Path to the classifier model, overrides the config file")
	flag.StringVar(&opts.runtime, "runtime", "", "Model runtime: onnx or dnn, overrides the config file")
	flag.StringVar(&opts.libPath, "lib", "", "Path to the onnxruntime shared library")
	flag.StringVar(&opts.proposer, "proposer", "", "Proposal method: window, edges or contours")
	flag.Float64Var(&opts.confidence, "confidence", -1, "Minimum confidence in percent (default from config)")
	flag.Float64Var(&opts.overlap, "overlap", -1, "Suppression overlap threshold (default from config)")
	flag.IntVar(&opts.workers, "workers", -1, "Concurrent classifications, 0 for one per CPU (default from config)")
	flag.StringVar(&opts.annotate, "annotate", "", "Write annotated images to this directory")
	flag.Float64Var(&opts.scale, "scale", 2.0, "Scale factor of annotated images")
	flag.BoolVar(&opts.verbose, "v", false, "Log per-stage timings")
	flag.IntVar(&opts.bench, "bench", 0, "Benchmark every proposal method with this many iterations instead of printing detections")
	flag.StringVar(&opts.benchOut, "bench-out", "benchmark_results", "Output directory for benchmark results")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger, os.Stdout); err != nil {
		logger.Fatalf("handdetect: %v", err)
	}
}

func run(ctx context.Context, opts options, logger *log.Logger, out io.Writer) error {
	cfg, model, err := loadConfigs(opts)
	if err != nil {
		return err
	}

	files, err := util.ResolveInputs(opts.imagePath, opts.dir)
	if err != nil {
		return err
	}
	if opts.annotate != "" {
		if err := os.MkdirAll(opts.annotate, 0o755); err != nil {
			return errors.Wrap(err, "create annotation directory")
		}
	}

	classes, err := cfg.ClassSet()
	if err != nil {
		return err
	}
	predictor, err := model.opener(cfg.Classifier.InputWidth, cfg.Classifier.InputHeight)
	if err != nil {
		return err
	}
	defer predictor.Close()

	classifier, err := inference.NewCropClassifier(predictor, classes, cfg.Classifier)
	if err != nil {
		return err
	}
	if opts.bench > 0 {
		return runBenchmark(ctx, cfg, classifier, files, opts, logger)
	}

	proposer, err := proposals.New(cfg.Proposals)
	if err != nil {
		return err
	}

	prof := profiler.New(0)
	detOpts := []detector.Option{detector.WithProfiler(prof)}
	if opts.verbose {
		detOpts = append(detOpts, detector.WithLogger(logger))
	}
	det, err := detector.New(proposer, classifier, cfg, detOpts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report := process(ctx, det, classes, file, opts)
		if report.Error != "" {
			logger.Printf("%s: %s", file.Path, report.Error)
		}
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "write report")
		}
	}

	if opts.verbose {
		prof.Report(os.Stderr)
	}
	return nil
}

// runBenchmark measures each registered proposal method on the input images.
func runBenchmark(ctx context.Context, cfg detector.Config, classifier detector.Classifier, files []util.ImageFile, opts options, logger *log.Logger) error {
	suite := benchmark.NewSuite(func(s benchmark.Scenario, prof *profiler.Profiler) (benchmark.Detector, error) {
		c := cfg
		c.Proposals.Method = s.Method
		c.Workers = s.Workers
		proposer, err := proposals.New(c.Proposals)
		if err != nil {
			return nil, err
		}
		det, err := detector.New(proposer, classifier, c, detector.WithProfiler(prof))
		if err != nil {
			return nil, err
		}
		return det, nil
	}, opts.benchOut, logger)

	for _, file := range files {
		if err := suite.LoadImages(file.Path); err != nil {
			return err
		}
	}
	scenarios := benchmark.MethodComparison(benchmark.Native, opts.bench, 1)
	for i := range scenarios {
		scenarios[i].Workers = cfg.Workers
	}
	suite.AddScenario(scenarios...)

	if err := suite.RunAllScenarios(ctx); err != nil {
		return err
	}
	results, summary, err := suite.SaveResults()
	if err != nil {
		return err
	}
	logger.Printf("Results saved to: %s", results)
	logger.Printf("Summary saved to: %s", summary)
	return nil
}

// loadConfigs reads the config file and applies command line overrides.
func loadConfigs(opts options) (detector.Config, ModelConfig, error) {
	cfg := detector.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = detector.LoadConfig(opts.configPath); err != nil {
			return cfg, ModelConfig{}, err
		}
	}
	model, err := loadModelConfig(opts.configPath)
	if err != nil {
		return cfg, model, err
	}

	if opts.runtime != "" {
		model.Runtime = opts.runtime
	}
	if opts.modelPath != "" {
		model.setModelPath(opts.modelPath)
	}
	if opts.libPath != "" {
		model.ONNX.SharedLibraryPath = opts.libPath
	}
	if opts.proposer != "" {
		cfg.Proposals.Method = opts.proposer
	}
	if opts.confidence >= 0 {
		cfg.MinConfidence = opts.confidence
	}
	if opts.overlap >= 0 {
		cfg.OverlapThreshold = opts.overlap
	}
	if opts.workers >= 0 {
		cfg.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, model, errors.Wrap(err, "invalid flags")
	}
	return cfg, model, nil
}

// process detects hands in one file. Failures are reported, not returned, so a
// bad file does not stop a directory run.
func process(ctx context.Context, det *detector.Detector, classes *models.ClassSet, file util.ImageFile, opts options) (report Report) {
	report = Report{
		RunID: uuid.NewString(),
		Image: file.Path,
		Hands: []Hand{},
	}
	start := time.Now()
	defer func() { report.Elapsed = time.Since(start).String() }()

	img, err := images.Load(file.Path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Width, report.Height = img.Bounds().Dx(), img.Bounds().Dy()

	boxes, err := det.DetectDefault(ctx, img)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	for _, b := range boxes {
		report.Hands = append(report.Hands, Hand{Label: classes.Name(b.Class), ClassifiedBox: b})
	}

	if opts.annotate != "" {
		path, err := annotate(img, boxes, classes, opts.scale, opts.annotate, file.Path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Annotated = path
	}
	return report
}
