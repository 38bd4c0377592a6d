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
	draftSavedTotal      atomic.Uint64
	submittedTotal       atomic.Uint64
	submitRejectedTotal  atomic.Uint64
	jobDetailFailedTotal atomic.Uint64

	jobDetailDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2000, 5000})
)

// IncDraftSaved increments the temp-save counter.
func IncDraftSaved() {
	draftSavedTotal.Add(1)
}

// IncSubmitted increments the submit counter.
func IncSubmitted() {
	submittedTotal.Add(1)
}

// IncSubmitRejected increments the duplicate-submission rejection counter.
func IncSubmitRejected() {
	submitRejectedTotal.Add(1)
}

// IncJobDetailFailed increments the job-detail fetch failure counter.
func IncJobDetailFailed() {
	jobDetailFailedTotal.Add(1)
}

// ObserveJobDetailDurationMs records a job-detail fetch duration in milliseconds.
func ObserveJobDetailDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	jobDetailDuration.Observe(value)
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
	writeCounter(&buf, "apply_draft_saved_total", "Total draft temp-saves", draftSavedTotal.Load())
	writeCounter(&buf, "apply_submitted_total", "Total application submissions", submittedTotal.Load())
	writeCounter(&buf, "apply_submit_rejected_total", "Total duplicate submissions rejected", submitRejectedTotal.Load())
	writeCounter(&buf, "job_detail_fetch_failed_total", "Total job detail fetches that failed", jobDetailFailedTotal.Load())
	writeHistogram(&buf, "job_detail_fetch_duration_ms", "Job detail fetch duration in milliseconds", jobDetailDuration.Snapshot())
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
		counts:  make([]uint64, len(buckets)+1),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sum += value
	h.count++
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
	h.counts[len(h.counts)-1]++
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	counts := make([]uint64, len(h.counts))
	copy(counts, h.counts)
	return histogramSnapshot{
		buckets: h.buckets,
		counts:  counts,
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
	cumulative := uint64(0)
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), cumulative)
	}
	cumulative += snap.counts[len(snap.counts)-1]
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, cumulative)
	fmt.Fprintf(buf, "%s_sum %s\n", name, strconv.FormatFloat(snap.sum, 'f', -1, 64))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}
