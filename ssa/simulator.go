package ssa

import (
	"fmt"
	"math"
	"path/filepath"
	"time"
)

// Simulator runs stochastic simulations of a loaded model.
type Simulator struct {
	config *Config
	cache  *modelCache

	model     *Model
	modelPath string

	// Results of the most recent DoStochSim call.
	state          []float64
	simTime        float64
	steps          uint64
	simulationTime float64
}

// SimulatorOption is a functional option for configuring the Simulator.
type SimulatorOption func(*Simulator)

// WithConfig sets the engine tuning values. A nil config keeps the defaults.
func WithConfig(config *Config) SimulatorOption {
	return func(s *Simulator) {
		if config != nil {
			s.config = config.Clone()
		}
	}
}

// NewSimulator creates a Simulator with no model loaded.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(s)
	}

	size := s.config.ModelCacheSize
	if size < 1 {
		size = 1
	}
	s.cache = newModelCache(size)

	return s
}

// Config returns a copy of the simulator's tuning values.
func (s *Simulator) Config() *Config {
	return s.config.Clone()
}

// Model loads the model in dir/file and makes it current. Models that were
// loaded before are served from the model cache without reading the file.
func (s *Simulator) Model(file, dir string) error {
	path := filepath.Join(dir, file)

	if m := s.cache.get(path); m != nil {
		s.setModel(path, m)
		return nil
	}

	m, err := LoadModel(path)
	if err != nil {
		return err
	}
	s.cache.put(path, m)
	s.setModel(path, m)
	return nil
}

// Reload re-reads the current model file, bypassing the cache.
func (s *Simulator) Reload() error {
	if s.model == nil {
		return ErrNoModel
	}
	s.cache.invalidate(s.modelPath)
	return s.Model(filepath.Base(s.modelPath), filepath.Dir(s.modelPath))
}

func (s *Simulator) setModel(path string, m *Model) {
	s.model = m
	s.modelPath = path
	s.state = m.InitialState()
	s.simTime = 0
	s.steps = 0
}

// LoadedModel returns the current model, or nil.
func (s *Simulator) LoadedModel() *Model {
	return s.model
}

// CacheStats returns model cache statistics.
func (s *Simulator) CacheStats() CacheStats {
	return s.cache.stats
}

// DoStochSim simulates opts.Trajectories trajectories of the current model.
// Every trajectory starts from the model's initial amounts. The wall-clock
// duration of the whole call is available from SimulationTime afterwards.
func (s *Simulator) DoStochSim(opts RunOptions) error {
	if err := s.checkOptions(opts); err != nil {
		return err
	}

	start := time.Now()
	tr := newTrajectory(s.model, s.config, opts)

	for i := 0; i < opts.Trajectories; i++ {
		tr.reset()

		var err error
		switch opts.Method {
		case Direct:
			err = tr.runDirect()
		case FirstReaction:
			err = tr.runFirstReaction()
		case NextReaction:
			err = tr.runNextReaction()
		case TauLeap:
			err = tr.runTauLeap()
		}
		if err != nil {
			s.simulationTime = time.Since(start).Seconds()
			return fmt.Errorf("trajectory %d: %w", i+1, err)
		}
	}

	s.simulationTime = time.Since(start).Seconds()
	s.state = tr.x
	s.simTime = tr.t
	s.steps = tr.steps
	return nil
}

func (s *Simulator) checkOptions(opts RunOptions) error {
	if s.model == nil {
		return ErrNoModel
	}
	if !opts.Method.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownMethod, opts.Method)
	}
	if opts.Trajectories < 1 {
		return fmt.Errorf("%w: trajectories must be >= 1, got %d", ErrInvalidOptions, opts.Trajectories)
	}
	if opts.End < 0 || math.IsNaN(opts.End) || math.IsInf(opts.End, 0) {
		return fmt.Errorf("%w: end must be finite and >= 0, got %g", ErrInvalidOptions, opts.End)
	}
	if opts.Mode != ModeTime && opts.Mode != ModeSteps {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidOptions, opts.Mode)
	}
	if opts.Rand == nil {
		return fmt.Errorf("%w: nil random source", ErrInvalidOptions)
	}
	return nil
}

// SimulationTime returns the wall-clock seconds taken by the last DoStochSim call.
func (s *Simulator) SimulationTime() float64 {
	return s.simulationTime
}

// State returns a copy of the species amounts at the end of the last trajectory.
func (s *Simulator) State() []float64 {
	out := make([]float64, len(s.state))
	copy(out, s.state)
	return out
}

// Amount returns the final amount of the named species.
func (s *Simulator) Amount(name string) (float64, bool) {
	if s.model == nil {
		return 0, false
	}
	i, ok := s.model.SpeciesIndex(name)
	if !ok {
		return 0, false
	}
	return s.state[i], true
}

// Time returns the simulated time reached by the last trajectory.
func (s *Simulator) Time() float64 {
	return s.simTime
}

// Steps returns the number of events in the last trajectory.
func (s *Simulator) Steps() uint64 {
	return s.steps
}
