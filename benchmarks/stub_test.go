package benchmarks_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/ssabench/ssa"
)

var errStub = errors.New("stub simulator failure")

// stubSimulator reports a fixed elapsed time and records how it was driven.
type stubSimulator struct {
	elapsed float64
	failOn  int // 1-indexed call that fails; 0 never fails
	loadErr error
	log     io.Writer // receives "run" before each call returns, if set

	file, dir  string
	modelCalls int
	calls      int
	opts      []ssa.RunOptions
	draws     []uint64
}

func (s *stubSimulator) Model(file, dir string) error {
	s.file, s.dir = file, dir
	s.modelCalls++
	return s.loadErr
}

func (s *stubSimulator) DoStochSim(opts ssa.RunOptions) error {
	s.calls++
	s.opts = append(s.opts, opts)
	s.draws = append(s.draws, opts.Rand.Uint64())
	if s.log != nil {
		_, _ = fmt.Fprintln(s.log, "run")
	}
	if s.failOn > 0 && s.calls == s.failOn {
		return errStub
	}
	return nil
}

func (s *stubSimulator) SimulationTime() float64 {
	return s.elapsed
}
