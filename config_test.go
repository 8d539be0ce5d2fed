package sprig

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Config
	}{
		{
			name: "empty object keeps defaults",
			data: `{}`,
			want: DefaultConfig(),
		},
		{
			name: "jsonc with comments and trailing commas",
			data: `{
				// per-frame unique transforms
				"capacity": 512,
				"overflow": "reuse-nearest", /* nearest live matrix */
				"debug": true,
			}`,
			want: Config{Capacity: 512, Overflow: OverflowReuseNearest, Debug: true, ScreenshotDir: "screenshots"},
		},
		{
			name: "clear color and screenshot dir",
			data: `{"screenshot_dir": "out", "clear_color": {"r": 0.5, "a": 1}, "overflow": "fail"}`,
			want: Config{
				Capacity:      DefaultSRCapacity,
				Overflow:      OverflowFail,
				ScreenshotDir: "out",
				ClearColor:    Color{R: 0.5, A: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `capacity = 4`},
		{"unknown policy", `{"overflow": "sometimes"}`},
		{"zero capacity", `{"capacity": 0}`},
		{"capacity too large", `{"capacity": 65537}`},
		{"wrong type", `{"capacity": "lots"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigValidateBounds(t *testing.T) {
	cfg := DefaultConfig()
	for _, c := range []int{1, MaxSRCapacity} {
		cfg.Capacity = c
		if err := cfg.Validate(); err != nil {
			t.Errorf("capacity %d: %v", c, err)
		}
	}
	cfg.Capacity = 8
	cfg.Overflow = OverflowPolicy(9)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown policy err = %v", err)
	}
}

func TestOverflowPolicyText(t *testing.T) {
	for _, p := range []OverflowPolicy{OverflowDrop, OverflowReuseNearest, OverflowFail} {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", p, err)
		}
		var back OverflowPolicy
		if err := back.UnmarshalText(text); err != nil || back != p {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", text, back, err, p)
		}
		if p.String() != string(text) {
			t.Errorf("String() = %q, MarshalText = %q", p.String(), text)
		}
	}
	if got := OverflowPolicy(7).String(); got != "OverflowPolicy(7)" {
		t.Errorf("String() of unknown = %q", got)
	}
	if _, err := OverflowPolicy(7).MarshalText(); err == nil {
		t.Error("MarshalText of unknown policy succeeded")
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	cfg := Config{Capacity: 64, Overflow: OverflowReuseNearest, ScreenshotDir: "s", ClearColor: Color{0.1, 0.2, 0.3, 1}}
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig(%s): %v", data, err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sprig.jsonc")
	if err := os.WriteFile(path, []byte("{\"capacity\": 32, // small\n}"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Capacity != 32 {
		t.Errorf("Capacity = %d, want 32", cfg.Capacity)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.jsonc")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrNotExist", err)
	}

	bad := filepath.Join(dir, "bad.jsonc")
	if err := os.WriteFile(bad, []byte(`{"capacity": -1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad file err = %v, want ErrInvalidConfig", err)
	}
}
