// Package ssa provides a stochastic simulation engine for chemical reaction
// networks described in PySCeS model files.
//
// A Simulator loads a model once and can then be run repeatedly with any of
// the supported algorithms:
//
//   - Direct: Gillespie's direct method
//   - FRM: first reaction method
//   - NRM: Gibson-Bruck next reaction method
//   - TauLeap: explicit tau-leaping with adaptive step selection
//
// Simulators are not safe for concurrent use.
package ssa

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Method identifies an SSA variant.
type Method int

const (
	// Direct is Gillespie's direct method.
	Direct Method = iota
	// FirstReaction is Gillespie's first reaction method.
	FirstReaction
	// NextReaction is the Gibson-Bruck next reaction method.
	NextReaction
	// TauLeap is explicit tau-leaping.
	TauLeap
)

// AllMethods lists every supported method in declaration order.
var AllMethods = []Method{Direct, FirstReaction, NextReaction, TauLeap}

// String returns the short name used on the command line and in reports.
func (m Method) String() string {
	switch m {
	case Direct:
		return "Direct"
	case FirstReaction:
		return "FRM"
	case NextReaction:
		return "NRM"
	case TauLeap:
		return "TauLeap"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Valid reports whether m is one of the declared methods.
func (m Method) Valid() bool {
	return m >= Direct && m <= TauLeap
}

// ParseMethod converts a method name to a Method. Matching is case-insensitive
// and accepts both short and long names ("NRM", "NextReaction").
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "direct":
		return Direct, nil
	case "frm", "firstreaction":
		return FirstReaction, nil
	case "nrm", "nextreaction":
		return NextReaction, nil
	case "tauleap", "tauleaping", "tau-leap":
		return TauLeap, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// ParseMethods parses a comma separated list of method names.
func ParseMethods(list string) ([]Method, error) {
	var methods []Method
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseMethod(part)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: empty method list", ErrUnknownMethod)
	}
	return methods, nil
}

// Mode selects what End means for a run.
type Mode int

const (
	// ModeTime stops each trajectory at simulated time End.
	ModeTime Mode = iota
	// ModeSteps stops each trajectory after End reaction events (or leaps).
	ModeSteps
)

func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeSteps:
		return "steps"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// RunOptions configures a single DoStochSim call.
type RunOptions struct {
	// Trajectories is the number of independent trajectories to simulate.
	Trajectories int

	// End is the stopping time (ModeTime) or step count (ModeSteps).
	End float64

	// Method selects the SSA variant.
	Method Method

	// Mode selects the stopping criterion.
	Mode Mode

	// Rand is the random source for the run. It is advanced, never reseeded.
	Rand *rand.Rand
}

// NewRand returns a deterministic random generator for the given seed.
func NewRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}
