package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	ingestDoneTotal             atomic.Uint64
	ingestRejectedTotal         atomic.Uint64
	ingestStorageFailedTotal    atomic.Uint64
	ingestExtractionFailedTotal atomic.Uint64
	ingestIndexingFailedTotal   atomic.Uint64

	ingestDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// ObserveIngest records one pipeline invocation by outcome tag and duration.
func ObserveIngest(outcome string, durationMs float64) {
	switch outcome {
	case "done":
		ingestDoneTotal.Add(1)
	case "rejected_invalid":
		ingestRejectedTotal.Add(1)
	case "storage_failed":
		ingestStorageFailedTotal.Add(1)
	case "extraction_failed":
		ingestExtractionFailedTotal.Add(1)
	case "indexing_failed":
		ingestIndexingFailedTotal.Add(1)
	}
	if durationMs < 0 {
		durationMs = 0
	}
	ingestDuration.Observe(durationMs)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ingest_done_total", "Total ingestions completed", ingestDoneTotal.Load())
	writeCounter(&buf, "ingest_rejected_total", "Total uploads rejected by validation", ingestRejectedTotal.Load())
	writeCounter(&buf, "ingest_storage_failed_total", "Total ingestions failed at the storage stage", ingestStorageFailedTotal.Load())
	writeCounter(&buf, "ingest_extraction_failed_total", "Total ingestions failed at the extraction stage", ingestExtractionFailedTotal.Load())
	writeCounter(&buf, "ingest_indexing_failed_total", "Total ingestions failed at the indexing stage", ingestIndexingFailedTotal.Load())
	writeHistogram(&buf, "ingest_duration_ms", "Pipeline duration in milliseconds", ingestDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %g\n", name, snap.sum)
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}
