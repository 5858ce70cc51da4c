package benchmarks

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
)

// ErrUsage marks malformed command-line input.
var ErrUsage = errors.New("usage error")

// ModelFile is the model file name expected inside every model directory.
const ModelFile = "stochpy.psc"

// DefaultOutDir is the directory receiving the per-model result files.
const DefaultOutDir = "stochpy"

// ArgNames lists the positional arguments in order.
var ArgNames = []string{"model_name", "tfinal", "nsaves", "nreal", "seed", "n_sample"}

// BenchmarkConfig holds the parameters of one benchmark invocation.
type BenchmarkConfig struct {
	// ModelName selects the model directory and the result file name.
	ModelName string `json:"model_name"`

	// TFinal is the simulated end time of every trajectory.
	TFinal float64 `json:"tfinal"`

	// NSaves is accepted for compatibility with the other benchmark
	// drivers but is not used by the sampler.
	NSaves int `json:"nsaves"`

	// NReal is the number of trajectories per simulator call.
	NReal int `json:"nreal"`

	// Seed initializes the random source, once per method.
	Seed int64 `json:"seed"`

	// NSample is the number of timing samples per method.
	NSample int `json:"n_sample"`
}

// ParseArgs builds a BenchmarkConfig from exactly six positional arguments:
// model_name tfinal nsaves nreal seed n_sample.
func ParseArgs(args []string) (BenchmarkConfig, error) {
	var cfg BenchmarkConfig

	if len(args) != len(ArgNames) {
		return cfg, fmt.Errorf("%w: expected %d arguments, got %d", ErrUsage, len(ArgNames), len(args))
	}

	cfg.ModelName = args[0]
	if cfg.ModelName == "" {
		return cfg, fmt.Errorf("%w: model_name must not be empty", ErrUsage)
	}

	var err error
	if cfg.TFinal, err = strconv.ParseFloat(args[1], 64); err != nil {
		return cfg, argError("tfinal", "float", args[1])
	}
	if cfg.NSaves, err = strconv.Atoi(args[2]); err != nil {
		return cfg, argError("nsaves", "int", args[2])
	}
	if cfg.NReal, err = strconv.Atoi(args[3]); err != nil {
		return cfg, argError("nreal", "int", args[3])
	}
	if cfg.Seed, err = strconv.ParseInt(args[4], 10, 64); err != nil {
		return cfg, argError("seed", "int", args[4])
	}
	if cfg.NSample, err = strconv.Atoi(args[5]); err != nil {
		return cfg, argError("n_sample", "int", args[5])
	}

	return cfg, nil
}

func argError(name, kind, value string) error {
	return fmt.Errorf("%w: argument %s: invalid %s value: %q", ErrUsage, name, kind, value)
}

// Validate checks value ranges that parsing alone does not catch.
func (c BenchmarkConfig) Validate() error {
	if c.TFinal < 0 || math.IsNaN(c.TFinal) || math.IsInf(c.TFinal, 0) {
		return fmt.Errorf("%w: tfinal must be a finite number >= 0", ErrUsage)
	}
	if c.NReal < 1 {
		return fmt.Errorf("%w: nreal must be >= 1", ErrUsage)
	}
	if c.NSample < 0 {
		return fmt.Errorf("%w: n_sample must be >= 0", ErrUsage)
	}
	return nil
}

// ModelDir returns the directory holding the model file.
func (c BenchmarkConfig) ModelDir() string {
	return "./" + c.ModelName + "/"
}

// ResultPath returns the result file for this model inside outDir.
func (c BenchmarkConfig) ResultPath(outDir string) string {
	return filepath.Join(outDir, c.ModelName+".txt")
}
