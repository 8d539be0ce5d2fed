package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/phanxgames/sprig"
)

// spinStep is the per-frame rotation added to every pair when spinning.
const spinStep = 2 * math.Pi / 240

type simOptions struct {
	sprites  int
	distinct int
	frames   int
	seed     uint64
	spin     bool
}

// Report summarizes a simulation run.
type Report struct {
	Config   sprig.Config `json:"config"`
	Sprites  int          `json:"sprites"`
	Distinct int          `json:"distinct"`
	Frames   int          `json:"frames"`

	// UniqueMin/Max/Mean count live slots per frame.
	UniqueMin  int     `json:"unique_min"`
	UniqueMax  int     `json:"unique_max"`
	UniqueMean float64 `json:"unique_mean"`
	DedupRatio float64 `json:"dedup_ratio"`

	Materialized int `json:"materialized"`
	Overflowed   int `json:"overflowed"`
	Uploads      int `json:"uploads"`
	UploadBytes  int `json:"upload_bytes"`
	// NaiveBytes is what uploading one matrix per sprite would have cost.
	NaiveBytes int `json:"naive_bytes"`

	NsPerFrame int64 `json:"ns_per_frame"`
}

// simulate draws opts.sprites sprites per frame, each using one of
// opts.distinct scale/rotation pairs, and records what the buffer did.
func simulate(cfg sprig.Config, opts simOptions) (Report, error) {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x5eed))

	type pair struct{ scale, rot float64 }
	pairs := make([]pair, opts.distinct)
	for i := range pairs {
		pairs[i] = pair{scale: 0.5 + 1.5*rng.Float64(), rot: 2 * math.Pi * rng.Float64()}
	}
	assign := make([]int, opts.sprites)
	for i := range assign {
		assign[i] = rng.IntN(opts.distinct)
	}

	buf := sprig.NewSRBuffer(cfg.Capacity)
	materialized := 0
	buf.SetMaterializer(func(k sprig.TransformKey) sprig.Mat {
		materialized++
		return k.Matrix()
	})

	report := Report{
		Config:    cfg,
		Sprites:   opts.sprites,
		Distinct:  opts.distinct,
		Frames:    opts.frames,
		UniqueMin: math.MaxInt,
	}

	keys := make([]sprig.TransformKey, len(pairs))
	uniqueTotal := 0
	start := time.Now()

	for frame := 0; frame < opts.frames; frame++ {
		for i, p := range pairs {
			rot := p.rot
			if opts.spin {
				rot += float64(frame) * spinStep
			}
			keys[i] = sprig.MakeKey(p.scale, rot)
		}

		buf.Reset()
		for _, idx := range assign {
			if _, err := buf.Add(keys[idx]); err != nil {
				if !errors.Is(err, sprig.ErrCapacityExceeded) {
					return Report{}, err
				}
				if cfg.Overflow == sprig.OverflowFail {
					return Report{}, fmt.Errorf("frame %d: %w", frame, err)
				}
				report.Overflowed++
			}
		}

		mats, changed := buf.CommitBytes()
		if changed {
			report.Uploads++
			report.UploadBytes += len(mats)
		}

		n := buf.Len()
		uniqueTotal += n
		report.UniqueMin = min(report.UniqueMin, n)
		report.UniqueMax = max(report.UniqueMax, n)
	}

	elapsed := time.Since(start)
	report.NsPerFrame = elapsed.Nanoseconds() / int64(opts.frames)
	report.Materialized = materialized
	report.UniqueMean = float64(uniqueTotal) / float64(opts.frames)
	if uniqueTotal > 0 {
		report.DedupRatio = float64(opts.sprites*opts.frames) / float64(uniqueTotal)
	}
	report.NaiveBytes = opts.sprites * opts.frames * len(sprig.Mat{}) * 4

	return report, nil
}
