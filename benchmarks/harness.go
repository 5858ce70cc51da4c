// Package benchmarks measures how long a stochastic simulator takes to
// produce a fixed batch of trajectories, and records the timings.
package benchmarks

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/sarchlab/ssabench/ssa"
)

// Simulator is the simulation library under test.
type Simulator interface {
	// Model loads the model file found in dir.
	Model(file, dir string) error

	// DoStochSim runs one batch of trajectories.
	DoStochSim(opts ssa.RunOptions) error

	// SimulationTime is the wall-clock seconds taken by the last DoStochSim.
	SimulationTime() float64
}

// ProgressReporter is notified after every completed sample.
type ProgressReporter interface {
	Start(method ssa.Method, total int)
	Advance()
	Finish()
}

// MethodResult holds the timing samples collected for one method.
type MethodResult struct {
	Method ssa.Method `json:"method"`

	// Times are the per-sample simulation times in seconds, in run order.
	Times []float64 `json:"times"`

	// Path is the result file the samples were appended to.
	Path string `json:"path"`
}

// Total returns the sum of all samples.
func (r MethodResult) Total() float64 {
	var total float64
	for _, t := range r.Times {
		total += t
	}
	return total
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Methods are benchmarked in order.
	Methods []ssa.Method

	// OutDir receives one result file per model. It must already exist.
	OutDir string

	// Output receives the per-sample progress lines (default: os.Stdout).
	Output io.Writer

	// Progress, if set, is advanced after every sample.
	Progress ProgressReporter
}

// DefaultConfig returns the default harness configuration: the direct
// method only, writing to ./stochpy.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Methods: []ssa.Method{ssa.Direct},
		OutDir:  DefaultOutDir,
		Output:  os.Stdout,
	}
}

// Harness runs timing benchmarks for one model.
type Harness struct {
	config HarnessConfig
	bench  BenchmarkConfig
	sim    Simulator
}

// NewHarness creates a harness that drives sim with the parameters in bench.
func NewHarness(config HarnessConfig, bench BenchmarkConfig, sim Simulator) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.OutDir == "" {
		config.OutDir = DefaultOutDir
	}
	if len(config.Methods) == 0 {
		config.Methods = []ssa.Method{ssa.Direct}
	}
	return &Harness{
		config: config,
		bench:  bench,
		sim:    sim,
	}
}

// ResultPath returns the file the harness appends samples to.
func (h *Harness) ResultPath() string {
	return h.bench.ResultPath(h.config.OutDir)
}

// RunAll benchmarks each method in turn: it (re)loads the model, seeds a
// fresh random source, collects the samples and appends them to the result
// file. A method's samples are written only after all of them were
// collected; an error stops the run and leaves the file of that method
// untouched.
func (h *Harness) RunAll() ([]MethodResult, error) {
	results := make([]MethodResult, 0, len(h.config.Methods))
	for _, method := range h.config.Methods {
		if err := h.sim.Model(ModelFile, h.bench.ModelDir()); err != nil {
			return results, fmt.Errorf("failed to load model %s: %w", h.bench.ModelName, err)
		}
		rng := ssa.NewRand(h.bench.Seed)

		times, err := h.Sample(method, rng)
		if err != nil {
			return results, err
		}

		path := h.ResultPath()
		if err := SaveResults(times, path); err != nil {
			return results, err
		}
		results = append(results, MethodResult{Method: method, Times: times, Path: path})
	}

	return results, nil
}

// Sample runs n_sample simulator calls with the given method and returns
// the reported simulation times. rng is advanced across samples, never
// reseeded. A progress line is written before every call.
func (h *Harness) Sample(method ssa.Method, rng *rand.Rand) ([]float64, error) {
	n := h.bench.NSample
	times := make([]float64, 0, max(n, 0))

	if h.config.Progress != nil && n > 0 {
		h.config.Progress.Start(method, n)
		defer h.config.Progress.Finish()
	}

	opts := ssa.RunOptions{
		Trajectories: h.bench.NReal,
		End:          h.bench.TFinal,
		Method:       method,
		Mode:         ssa.ModeTime,
		Rand:         rng,
	}

	for i := 1; i <= n; i++ {
		_, _ = fmt.Fprintf(h.config.Output, "sample %d / %d\n", i, n)

		if err := h.sim.DoStochSim(opts); err != nil {
			return nil, fmt.Errorf("%s sample %d / %d: %w", method, i, n, err)
		}
		times = append(times, h.sim.SimulationTime())

		if h.config.Progress != nil {
			h.config.Progress.Advance()
		}
	}

	return times, nil
}
