package profiler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler_RecordOperation(t *testing.T) {
	p := New(0)
	p.RecordOperation("classify", 10*time.Millisecond)
	p.RecordOperation("classify", 30*time.Millisecond)
	p.RecordOperation("propose", 5*time.Millisecond)

	ops := p.Operations()
	require.Len(t, ops, 2)
	assert.Equal(t, OperationStats{
		Name:  "classify",
		Count: 2,
		Total: 40 * time.Millisecond,
		Avg:   20 * time.Millisecond,
		Min:   10 * time.Millisecond,
		Max:   30 * time.Millisecond,
	}, ops[0])
	assert.Equal(t, "propose", ops[1].Name)
}

func TestProfiler_SampleWindow(t *testing.T) {
	p := New(2)
	p.RecordOperation("suppress", 100*time.Millisecond)
	p.RecordOperation("suppress", 2*time.Millisecond)
	p.RecordOperation("suppress", 4*time.Millisecond)

	s := p.Operations()[0]
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 3*time.Millisecond, s.Avg, "average covers the last two samples")
	assert.Equal(t, 100*time.Millisecond, s.Max, "extremes cover every sample")
}

func TestProfiler_StartOperation(t *testing.T) {
	p := New(0)
	stop := p.StartOperation("propose")
	d := stop()

	ops := p.Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, d, ops[0].Total)
}

func TestProfiler_Metrics(t *testing.T) {
	p := New(0)
	p.RecordMetric("proposals", 10)
	p.RecordMetric("proposals", 30)

	metrics := p.Metrics()
	require.Len(t, metrics, 1)
	assert.Equal(t, MetricStats{Name: "proposals", Count: 2, Avg: 20, Min: 10, Max: 30}, metrics[0])
}

func TestProfiler_Concurrent(t *testing.T) {
	p := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.RecordOperation("classify", time.Millisecond)
			p.RecordMetric("boxes", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(16), p.Operations()[0].Count)
	assert.Equal(t, int64(16), p.Metrics()[0].Count)
}

func TestProfiler_Nil(t *testing.T) {
	var p *Profiler
	assert.NotPanics(t, func() {
		p.StartOperation("propose")()
		p.RecordMetric("proposals", 1)
		p.Report(&bytes.Buffer{})
	})
	assert.Nil(t, p.Operations())
}

func TestProfiler_Report(t *testing.T) {
	p := New(0)
	p.RecordOperation("classify", 1500*time.Microsecond)
	p.RecordMetric("proposals", 42)

	var buf bytes.Buffer
	p.Report(&buf)
	assert.Contains(t, buf.String(), "classify: avg=1.5ms")
	assert.Contains(t, buf.String(), "proposals: avg=42.00")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}
