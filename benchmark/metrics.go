// Package benchmark - Throughput and latency measurements of the detection pipeline.
package benchmark

import (
	"math"
	"slices"
	"time"

	"github.com/cruiser-KPI/hand-recognition/profiler"
)

// PerformanceMetrics captures detailed performance data for one scenario.
type PerformanceMetrics struct {
	Scenario        Scenario                  `json:"scenario"`
	Timestamp       time.Time                 `json:"timestamp"`
	TotalDuration   time.Duration             `json:"total_duration"`
	FramesPerSecond float64                   `json:"frames_per_second"`
	Latency         LatencyMetrics            `json:"latency"`
	Stages          []profiler.OperationStats `json:"stages,omitempty"`
	MemoryStats     MemoryMetrics             `json:"memory_stats"`
	CPUStats        CPUMetrics                `json:"cpu_stats"`
	DetectionCount  int                       `json:"detection_count"`
	ErrorRate       float64                   `json:"error_rate"`
}

// LatencyMetrics summarizes per-image detection latency.
type LatencyMetrics struct {
	Min time.Duration `json:"min"`
	Avg time.Duration `json:"avg"`
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
	Max time.Duration `json:"max"`
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes    uint64 `json:"heap_sys_bytes"`
}

// CPUMetrics captures CPU usage statistics
type CPUMetrics struct {
	NumCPU     int `json:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs"`
}

// latencies computes the summary of samples. It sorts samples in place.
func latencies(samples []time.Duration) LatencyMetrics {
	if len(samples) == 0 {
		return LatencyMetrics{}
	}
	slices.Sort(samples)

	var total time.Duration
	for _, s := range samples {
		total += s
	}
	return LatencyMetrics{
		Min: samples[0],
		Avg: total / time.Duration(len(samples)),
		P50: percentile(samples, 0.50),
		P95: percentile(samples, 0.95),
		Max: samples[len(samples)-1],
	}
}

// percentile returns the nearest-rank percentile of sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	rank = max(0, min(rank, len(sorted)-1))
	return sorted[rank]
}
