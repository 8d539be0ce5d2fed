// Command srstat replays synthetic frames through a transform buffer and
// reports how well a sprite population deduplicates.
//
// Usage:
//
//	srstat [--sprites=N] [--distinct=N] [--frames=N] [--capacity=N]
//	       [--overflow=drop|reuse-nearest|fail] [--config=path] [--out=path]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/phanxgames/sprig"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds parsed flags.
type options struct {
	sim  simOptions
	cfg  sprig.Config
	out  string
	help bool
}

func run(args []string, out, errOut io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 2
	}

	if opts.help {
		printHelp(out)

		return 0
	}

	report, err := simulate(opts.cfg, opts.sim)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}
	data = append(data, '\n')

	if opts.out == "" || opts.out == "-" {
		_, _ = out.Write(data)

		return 0
	}

	if err := atomic.WriteFile(opts.out, bytes.NewReader(data)); err != nil {
		fprintln(errOut, "error: write report:", err)

		return 1
	}

	fprintln(out, fmt.Sprintf("wrote %s (%d frames, dedup %.1fx)", opts.out, report.Frames, report.DedupRatio))

	return 0
}

func parseFlags(args []string) (options, error) {
	flagSet := flag.NewFlagSet("srstat", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	sprites := flagSet.IntP("sprites", "n", 10000, "Sprites drawn per frame")
	distinct := flagSet.IntP("distinct", "d", 64, "Distinct scale/rotation pairs in the population")
	frames := flagSet.IntP("frames", "f", 120, "Frames to simulate")
	seed := flagSet.Uint64("seed", 1, "Random seed")
	spin := flagSet.Bool("spin", false, "Advance each pair's rotation every frame")
	capacity := flagSet.Int("capacity", 0, "Transform capacity [default: from config]")
	overflow := flagSet.String("overflow", "", "Overflow policy: drop, reuse-nearest or fail")
	configPath := flagSet.StringP("config", "c", "", "JSONC config file")
	outPath := flagSet.StringP("out", "o", "", "Write the JSON report here instead of stdout")
	help := flagSet.BoolP("help", "h", false, "Show help")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}

	if *help {
		return options{help: true}, nil
	}

	cfg := sprig.DefaultConfig()
	if *configPath != "" {
		loaded, err := sprig.LoadConfig(*configPath)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}

	if flagSet.Changed("capacity") {
		cfg.Capacity = *capacity
	}

	if flagSet.Changed("overflow") {
		if err := cfg.Overflow.UnmarshalText([]byte(*overflow)); err != nil {
			return options{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	if *sprites < 0 || *frames < 1 || *distinct < 1 {
		return options{}, fmt.Errorf("--sprites must be >= 0, --frames and --distinct >= 1")
	}

	return options{
		sim: simOptions{
			sprites:  *sprites,
			distinct: *distinct,
			frames:   *frames,
			seed:     *seed,
			spin:     *spin,
		},
		cfg: cfg,
		out: *outPath,
	}, nil
}

func printHelp(out io.Writer) {
	fprintln(out, "Usage: srstat [options]")
	fprintln(out, "")
	fprintln(out, "Simulate frames of sprites through a transform buffer and print a JSON report.")
	fprintln(out, "")
	fprintln(out, "Options:")
	fprintln(out, "  -n, --sprites=N         Sprites per frame [default: 10000]")
	fprintln(out, "  -d, --distinct=N        Distinct scale/rotation pairs [default: 64]")
	fprintln(out, "  -f, --frames=N          Frames to simulate [default: 120]")
	fprintln(out, "      --seed=N            Random seed [default: 1]")
	fprintln(out, "      --spin              Rotate every pair a little each frame")
	fprintln(out, "      --capacity=N        Transform capacity per frame")
	fprintln(out, "      --overflow=POLICY   drop, reuse-nearest or fail")
	fprintln(out, "  -c, --config=PATH       JSONC config file")
	fprintln(out, "  -o, --out=PATH          Write the report to PATH")
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
