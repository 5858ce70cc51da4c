package ssa

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// trajectory holds the mutable state of one simulated path. A single
// trajectory value is reused for all paths of a DoStochSim call.
type trajectory struct {
	m      *Model
	config *Config
	rng    *rand.Rand
	mode   Mode
	end    float64

	x     []float64 // species amounts
	a     []float64 // propensities
	t     float64
	steps uint64
}

func newTrajectory(m *Model, config *Config, opts RunOptions) *trajectory {
	return &trajectory{
		m:      m,
		config: config,
		rng:    opts.Rand,
		mode:   opts.Mode,
		end:    opts.End,
		x:      make([]float64, len(m.Species)),
		a:      make([]float64, len(m.Reactions)),
	}
}

func (tr *trajectory) reset() {
	tr.m.resetState(tr.x)
	tr.t = 0
	tr.steps = 0
}

// done reports whether the step budget of a ModeSteps run is used up.
func (tr *trajectory) done() bool {
	return tr.mode == ModeSteps && float64(tr.steps) >= tr.end
}

// beyond reports whether an event at time t falls after the end of a
// ModeTime run.
func (tr *trajectory) beyond(t float64) bool {
	return tr.mode == ModeTime && t > tr.end
}

// count records one event and enforces the step limit.
func (tr *trajectory) count() error {
	tr.steps++
	if tr.config.MaxSteps > 0 && tr.steps > tr.config.MaxSteps {
		return fmt.Errorf("%w (%d) at t=%g", ErrMaxSteps, tr.config.MaxSteps, tr.t)
	}
	return nil
}

// finish moves the clock to the end of a ModeTime run.
func (tr *trajectory) finish() {
	if tr.mode == ModeTime {
		tr.t = tr.end
	}
}

// selectReaction returns the reaction whose cumulative propensity interval
// contains target. Rounding at the top end falls back to the last reaction
// with a non-zero propensity.
func selectReaction(a []float64, target float64) int {
	sum := 0.0
	last := -1
	for j, v := range a {
		if v == 0 {
			continue
		}
		last = j
		sum += v
		if target < sum {
			return j
		}
	}
	return last
}

// poisson draws from a Poisson distribution with mean lambda. Small means use
// Knuth's multiplication method, large means a rounded normal approximation.
func poisson(rng *rand.Rand, lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		limit := math.Exp(-lambda)
		k := 0.0
		p := rng.Float64()
		for p > limit {
			k++
			p *= rng.Float64()
		}
		return k
	}
	return math.Max(0, math.Round(lambda+math.Sqrt(lambda)*rng.NormFloat64()))
}
