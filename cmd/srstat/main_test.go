package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phanxgames/sprig"
)

func TestSimulateSharedPairs(t *testing.T) {
	cfg := sprig.DefaultConfig()
	report, err := simulate(cfg, simOptions{sprites: 1000, distinct: 8, frames: 3, seed: 1})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if report.UniqueMax > 8 || report.UniqueMin < 1 {
		t.Errorf("unique per frame = [%d, %d], want within [1, 8]", report.UniqueMin, report.UniqueMax)
	}
	if report.Overflowed != 0 {
		t.Errorf("Overflowed = %d, want 0", report.Overflowed)
	}
	if report.Uploads != 3 {
		t.Errorf("Uploads = %d, want one per frame", report.Uploads)
	}
	// Every unique key is materialized exactly once per frame.
	if want := int(math.Round(report.UniqueMean * 3)); report.Materialized != want {
		t.Errorf("Materialized = %d, want %d", report.Materialized, want)
	}
	if report.UploadBytes*10 > report.NaiveBytes {
		t.Errorf("UploadBytes = %d, want far below naive %d", report.UploadBytes, report.NaiveBytes)
	}
	if report.DedupRatio < 100 {
		t.Errorf("DedupRatio = %v, want >= 100", report.DedupRatio)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	opts := simOptions{sprites: 500, distinct: 32, frames: 4, seed: 42, spin: true}
	a, err := simulate(sprig.DefaultConfig(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := simulate(sprig.DefaultConfig(), opts)
	if err != nil {
		t.Fatal(err)
	}
	a.NsPerFrame, b.NsPerFrame = 0, 0
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different reports (-first +second):\n%s", diff)
	}
}

func TestSimulateOverflow(t *testing.T) {
	cfg := sprig.DefaultConfig()
	cfg.Capacity = 4

	report, err := simulate(cfg, simOptions{sprites: 200, distinct: 64, frames: 2, seed: 3})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if report.UniqueMax != 4 {
		t.Errorf("UniqueMax = %d, want capacity 4", report.UniqueMax)
	}
	if report.Overflowed == 0 {
		t.Error("Overflowed = 0, want > 0")
	}

	cfg.Overflow = sprig.OverflowFail
	_, err = simulate(cfg, simOptions{sprites: 200, distinct: 64, frames: 2, seed: 3})
	if !errors.Is(err, sprig.ErrCapacityExceeded) {
		t.Errorf("fail policy error = %v, want ErrCapacityExceeded", err)
	}
}

func TestRunWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sprig.jsonc")
	cfgData := "{\n  // small buffer\n  \"capacity\": 16,\n  \"overflow\": \"reuse-nearest\",\n}\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "report.json")

	var out, errOut bytes.Buffer
	code := run([]string{"-n", "100", "-d", "4", "-f", "2", "-c", cfgPath, "-o", outPath}, &out, &errOut)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "wrote "+outPath) {
		t.Errorf("stdout = %q", out.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if got.Config.Capacity != 16 || got.Config.Overflow != sprig.OverflowReuseNearest {
		t.Errorf("report config = %+v, want capacity 16 reuse-nearest", got.Config)
	}
	if got.Sprites != 100 || got.Frames != 2 {
		t.Errorf("report sprites/frames = %d/%d, want 100/2", got.Sprites, got.Frames)
	}
}

func TestRunFlagOverridesConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"--sprites=10", "--frames=1", "--capacity=2", "--overflow=drop"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, errOut.String())
	}
	var got Report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if got.Config.Capacity != 2 {
		t.Errorf("capacity = %d, want 2", got.Config.Capacity)
	}
}

func TestRunBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"bad overflow", []string{"--overflow=sometimes"}},
		{"zero capacity", []string{"--capacity=0"}},
		{"zero frames", []string{"--frames=0"}},
		{"missing config", []string{"--config=/does/not/exist.jsonc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			if code := run(tt.args, &out, &errOut); code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if !strings.HasPrefix(errOut.String(), "error:") {
				t.Errorf("stderr = %q, want error prefix", errOut.String())
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := run([]string{"--help"}, &out, &errOut); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.HasPrefix(out.String(), "Usage: srstat") {
		t.Errorf("help = %q", out.String())
	}
}
