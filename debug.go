package sprig

import (
	"fmt"
	"os"
	"time"
)

// FrameStats holds the counters of one frame. Timings are only measured when
// the renderer is in debug mode.
type FrameStats struct {
	Instances        int // sprites recorded and drawn
	UniqueTransforms int // live slots in the transform buffer
	Culled           int // skipped by the camera before reaching the buffer
	Dropped          int // lost to transform overflow
	Reused           int // drawn with the nearest transform after overflow
	Unresolved       int // instances whose slot was missing from storage
	Batches          int // DrawTriangles32 calls
	UploadBytes      int // bytes uploaded to transform storage, 0 if unchanged

	RecordTime time.Duration // Begin to Flush
	CommitTime time.Duration
	SubmitTime time.Duration
}

// DedupRatio returns instances per unique transform, or 0 for an empty frame.
func (s FrameStats) DedupRatio() float64 {
	if s.UniqueTransforms == 0 {
		return 0
	}
	return float64(s.Instances) / float64(s.UniqueTransforms)
}

// debugLog prints timing and transform stats to stderr.
func (r *Renderer) debugLog(stats FrameStats) {
	if !r.cfg.Debug {
		return
	}
	total := stats.RecordTime + stats.CommitTime + stats.SubmitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[sprig] record: %v | commit: %v | submit: %v | total: %v\n",
		stats.RecordTime, stats.CommitTime, stats.SubmitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[sprig] instances: %d | transforms: %d/%d | upload: %dB | batches: %d\n",
		stats.Instances, stats.UniqueTransforms, r.sr.Cap(), stats.UploadBytes, stats.Batches)
	if stats.Dropped > 0 || stats.Reused > 0 {
		_, _ = fmt.Fprintf(os.Stderr,
			"[sprig] warning: transform overflow (%s): dropped %d, reused %d\n",
			r.cfg.Overflow, stats.Dropped, stats.Reused)
	}
}
