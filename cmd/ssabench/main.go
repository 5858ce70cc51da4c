// Command ssabench measures the wall-clock time of stochastic simulation runs.
//
// Usage:
//
//	ssabench [flags] model_name tfinal nsaves nreal seed n_sample
//
// The model is read from ./<model_name>/stochpy.psc. For every method, n_sample
// simulator calls of nreal trajectories each are timed, and the timings are
// appended to <out-dir>/<model_name>.txt, one per line.
//
// Flags:
//
//	-methods     Comma separated methods: Direct, FRM, NRM, TauLeap (default: Direct)
//	-out-dir     Directory for result files; must exist (default: stochpy)
//	-config      Simulator tuning JSON file
//	-summary     Print a result table after the run
//	-progress    Draw a progress bar on stderr when it is a terminal
//	-cpuprofile  Write a CPU profile to file
//
// Example:
//
//	# 50 timing samples of 1000 trajectories up to t=100 for ./dimer
//	go run ./cmd/ssabench dimer 100.0 101 1000 5357 50
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"golang.org/x/term"

	"github.com/sarchlab/ssabench/benchmarks"
	"github.com/sarchlab/ssabench/ssa"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// newSimulator builds the simulator under test.
var newSimulator = func(config *ssa.Config) benchmarks.Simulator {
	return ssa.NewSimulator(ssa.WithConfig(config))
}

// stderrIsTerminal reports whether progress bars can be drawn.
var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ssabench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	methodList := fs.String("methods", "Direct", "Comma separated simulation methods (Direct, FRM, NRM, TauLeap)")
	outDir := fs.String("out-dir", benchmarks.DefaultOutDir, "Directory for result files (must exist)")
	configPath := fs.String("config", "", "Path to simulator tuning JSON file")
	summary := fs.Bool("summary", false, "Print a result table after the run")
	progress := fs.Bool("progress", false, "Draw a progress bar on stderr when it is a terminal")
	cpuProfile := fs.String("cpuprofile", "", "Write a CPU profile to file")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: ssabench [options] model_name tfinal nsaves nreal seed n_sample\n")
		_, _ = fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	bench, err := benchmarks.ParseArgs(fs.Args())
	if err == nil {
		err = bench.Validate()
	}
	if err != nil {
		return usageError(fs, stderr, err)
	}

	methods, err := ssa.ParseMethods(*methodList)
	if err != nil {
		return usageError(fs, stderr, err)
	}

	simConfig := ssa.DefaultConfig()
	if *configPath != "" {
		simConfig, err = ssa.LoadConfig(*configPath)
		if err != nil {
			benchmarks.PrintError(stderr, err)
			return exitFailure
		}
	}
	if err := simConfig.Validate(); err != nil {
		benchmarks.PrintError(stderr, fmt.Errorf("invalid simulator config: %w", err))
		return exitFailure
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			benchmarks.PrintError(stderr, fmt.Errorf("creating CPU profile: %w", err))
			return exitFailure
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			benchmarks.PrintError(stderr, fmt.Errorf("starting CPU profile: %w", err))
			return exitFailure
		}
		defer pprof.StopCPUProfile()
	}

	config := benchmarks.DefaultConfig()
	config.Methods = methods
	config.OutDir = *outDir
	config.Output = stdout
	if *progress && stderrIsTerminal() {
		config.Progress = benchmarks.NewBarReporter(stderr)
	}

	harness := benchmarks.NewHarness(config, bench, newSimulator(simConfig))
	results, err := harness.RunAll()
	if err != nil {
		benchmarks.PrintError(stderr, err)
		return exitFailure
	}

	if *summary {
		_, _ = fmt.Fprintln(stdout, "")
		benchmarks.PrintHeader(stdout, bench, config)
		if err := benchmarks.PrintSummary(stdout, results); err != nil {
			benchmarks.PrintError(stderr, err)
			return exitFailure
		}
	}

	return exitOK
}

func usageError(fs *flag.FlagSet, stderr io.Writer, err error) int {
	benchmarks.PrintError(stderr, err)
	fs.Usage()
	return exitUsage
}
