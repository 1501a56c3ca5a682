package benchmark

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/images"
	"github.com/cruiser-KPI/hand-recognition/models/postprocess"
	"github.com/cruiser-KPI/hand-recognition/profiler"
)

// Detector is the part of detector.Detector that the suite measures.
type Detector interface {
	DetectDefault(ctx context.Context, img image.Image) ([]postprocess.ClassifiedBox, error)
}

// Factory builds a detector for a scenario. Stage timings recorded in prof
// end up in the scenario's metrics. prof is nil for warmup detectors.
type Factory func(scenario Scenario, prof *profiler.Profiler) (Detector, error)

// Suite manages and executes benchmark scenarios.
type Suite struct {
	factory   Factory
	outputDir string
	logger    *log.Logger

	mu        sync.RWMutex
	scenarios []Scenario
	images    []image.Image
	results   []PerformanceMetrics
}

// NewSuite creates a suite.
//
// Arguments:
//   - factory: Builds the detector for each scenario.
//   - outputDir: Where SaveResults writes its files.
//   - logger: Progress output. Nil discards it.
//
// Returns:
//   - *Suite: The suite.
func NewSuite(factory Factory, outputDir string, logger *log.Logger) *Suite {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Suite{
		factory:   factory,
		outputDir: outputDir,
		logger:    logger,
	}
}

// AddScenario adds a scenario to the suite.
func (bs *Suite) AddScenario(scenarios ...Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenarios...)
}

// AddImages adds decoded test images.
func (bs *Suite) AddImages(imgs ...image.Image) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.images = append(bs.images, imgs...)
}

// LoadImages decodes the files at paths and adds them as test images.
func (bs *Suite) LoadImages(paths ...string) error {
	for _, path := range paths {
		img, err := images.Load(path)
		if err != nil {
			return err
		}
		bs.AddImages(img)
	}
	return nil
}

// RunScenario executes a single scenario.
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	bs.mu.RLock()
	inputs := resize(bs.images, scenario.Resolution)
	bs.mu.RUnlock()
	if len(inputs) == 0 {
		return nil, errors.New("no test images")
	}

	if scenario.WarmupRuns > 0 {
		// Warmup runs without a profiler so they do not skew the stage timings.
		warm, err := bs.factory(scenario, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
		}
		for i := 0; i < scenario.WarmupRuns; i++ {
			if _, err := warm.DetectDefault(ctx, inputs[i%len(inputs)]); err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}

	prof := profiler.New(scenario.Iterations)
	det, err := bs.factory(scenario, prof)
	if err != nil {
		return nil, errors.Wrapf(err, "scenario %s", scenario.Name)
	}

	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	samples := make([]time.Duration, 0, scenario.Iterations)
	detections, failures := 0, 0
	start := time.Now()

	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := time.Now()
		boxes, err := det.DetectDefault(ctx, inputs[i%len(inputs)])
		samples = append(samples, time.Since(t))
		if err != nil {
			failures++
			continue
		}
		detections += len(boxes)
	}
	total := time.Since(start)

	var endMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&endMem)

	return &PerformanceMetrics{
		Scenario:        scenario,
		Timestamp:       start,
		TotalDuration:   total,
		FramesPerSecond: float64(scenario.Iterations) / total.Seconds(),
		Latency:         latencies(samples),
		Stages:          prof.Operations(),
		MemoryStats: MemoryMetrics{
			AllocBytes:      endMem.Alloc,
			TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
			SysBytes:        endMem.Sys,
			NumGC:           endMem.NumGC - startMem.NumGC,
			HeapAllocBytes:  endMem.HeapAlloc,
			HeapSysBytes:    endMem.HeapSys,
		},
		CPUStats: CPUMetrics{
			NumCPU:     runtime.NumCPU(),
			GOMAXPROCS: runtime.GOMAXPROCS(0),
		},
		DetectionCount: detections,
		ErrorRate:      float64(failures) / float64(scenario.Iterations),
	}, nil
}

// RunAllScenarios executes every scenario. A failed scenario is logged and
// skipped; cancellation stops the run.
func (bs *Suite) RunAllScenarios(ctx context.Context) error {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	for _, scenario := range scenarios {
		metrics, err := bs.RunScenario(ctx, scenario)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			bs.logger.Printf("Scenario %s failed: %v", scenario.Name, err)
			continue
		}

		bs.mu.Lock()
		bs.results = append(bs.results, *metrics)
		bs.mu.Unlock()

		bs.logger.Printf("Scenario %s completed: %.2f FPS, p95 %v", scenario.Name, metrics.FramesPerSecond, metrics.Latency.P95)
	}
	return nil
}

// Results returns all benchmark results.
func (bs *Suite) Results() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	results := make([]PerformanceMetrics, len(bs.results))
	copy(results, bs.results)
	return results
}

// SaveResults writes the results as JSON and a CSV summary into the output
// directory and returns both paths.
func (bs *Suite) SaveResults() (string, string, error) {
	results := bs.Results()

	if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "create output directory")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_results_%s.json", timestamp))
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(err, "marshal results")
	}
	if err := os.WriteFile(resultsFile, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "write results")
	}

	summaryFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_summary_%s.csv", timestamp))
	if err := writeSummaryFile(summaryFile, results); err != nil {
		return "", "", err
	}
	return resultsFile, summaryFile, nil
}

// writeSummaryFile creates path and writes the CSV summary into it. A failed
// close is reported since buffered rows may not have reached the disk.
func writeSummaryFile(path string, results []PerformanceMetrics) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create summary")
	}
	if err := WriteSummary(f, results); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close summary")
}

// WriteSummary writes one CSV row per result.
func WriteSummary(w io.Writer, results []PerformanceMetrics) error {
	cw := csv.NewWriter(w)
	header := []string{"scenario", "method", "resolution", "workers", "fps", "p50_ms", "p95_ms", "alloc_mb", "detections", "error_rate"}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write summary")
	}
	for _, r := range results {
		row := []string{
			r.Scenario.Name,
			r.Scenario.Method,
			r.Scenario.Resolution.Name,
			strconv.Itoa(r.Scenario.Workers),
			strconv.FormatFloat(r.FramesPerSecond, 'f', 2, 64),
			strconv.FormatFloat(float64(r.Latency.P50)/float64(time.Millisecond), 'f', 2, 64),
			strconv.FormatFloat(float64(r.Latency.P95)/float64(time.Millisecond), 'f', 2, 64),
			strconv.FormatFloat(float64(r.MemoryStats.AllocBytes)/(1024*1024), 'f', 2, 64),
			strconv.Itoa(r.DetectionCount),
			strconv.FormatFloat(r.ErrorRate, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "write summary")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "write summary")
}

func resize(imgs []image.Image, r Resolution) []image.Image {
	if r.Width == 0 {
		return imgs
	}
	out := make([]image.Image, len(imgs))
	for i, img := range imgs {
		out[i] = images.Resize(img, r.Width, r.Height)
	}
	return out
}
