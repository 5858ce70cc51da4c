package ssa

import (
	"fmt"
	"math"
)

// Species is a molecular species tracked by the model.
type Species struct {
	Name    string
	Initial float64
	// Fixed species keep their amount constant; reactions never change them.
	Fixed bool
}

// Term is one species with its stoichiometric coefficient.
type Term struct {
	Species int
	Coef    int
}

// Reaction is a single irreversible reaction channel.
type Reaction struct {
	Name      string
	Reactants []Term
	Products  []Term

	// Rate is the source text of the propensity expression.
	Rate string

	rate   expr
	change []Term // net change of non-fixed species when the reaction fires
	reads  []int  // species referenced by the rate expression
	order  int
}

// Order is the sum of the reactant coefficients.
func (r *Reaction) Order() int {
	return r.order
}

// Model is a compiled reaction network.
type Model struct {
	Name        string
	Description string
	File        string

	Species    []Species
	Parameters map[string]float64
	Reactions  []Reaction

	index map[string]int

	// deps[i] lists the reactions whose propensity may change when reaction
	// i fires, always including i itself.
	deps [][]int

	// Highest order of any reaction consuming each species, and the
	// largest coefficient of the species among reactions of that order.
	hor     []int
	horCoef []int
}

// SpeciesIndex returns the state-vector index of the named species.
func (m *Model) SpeciesIndex(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// InitialState returns a fresh copy of the initial species amounts.
func (m *Model) InitialState() []float64 {
	x := make([]float64, len(m.Species))
	m.resetState(x)
	return x
}

func (m *Model) resetState(x []float64) {
	for i, s := range m.Species {
		x[i] = s.Initial
	}
}

// Dependents returns the reactions affected by firing reaction i.
func (m *Model) Dependents(i int) []int {
	return m.deps[i]
}

// propensity evaluates the rate of reaction j in state x.
func (m *Model) propensity(j int, x []float64) (float64, error) {
	a := m.Reactions[j].rate.eval(x)
	if a < 0 || math.IsNaN(a) {
		return 0, fmt.Errorf("%w: reaction %s evaluates to %g",
			ErrNegativePropensity, m.Reactions[j].Name, a)
	}
	if math.IsInf(a, 1) {
		return 0, fmt.Errorf("%w: reaction %s", ErrInfinitePropensity, m.Reactions[j].Name)
	}
	return a, nil
}

// propensities fills a with all reaction rates and returns their sum.
func (m *Model) propensities(x, a []float64) (float64, error) {
	var a0 float64
	for j := range m.Reactions {
		v, err := m.propensity(j, x)
		if err != nil {
			return 0, err
		}
		a[j] = v
		a0 += v
	}
	return a0, nil
}

// fire applies reaction j to x k times.
func (m *Model) fire(j int, k float64, x []float64) {
	for _, t := range m.Reactions[j].change {
		x[t.Species] += k * float64(t.Coef)
	}
}

// link computes the derived per-reaction data and the dependency graph.
func (m *Model) link() {
	for j := range m.Reactions {
		r := &m.Reactions[j]
		net := make(map[int]int)
		r.order = 0
		for _, t := range r.Reactants {
			net[t.Species] -= t.Coef
			r.order += t.Coef
		}
		for _, t := range r.Products {
			net[t.Species] += t.Coef
		}
		r.change = r.change[:0]
		for i := range m.Species {
			if c := net[i]; c != 0 && !m.Species[i].Fixed {
				r.change = append(r.change, Term{Species: i, Coef: c})
			}
		}
	}

	m.hor = make([]int, len(m.Species))
	m.horCoef = make([]int, len(m.Species))
	for _, r := range m.Reactions {
		for _, t := range r.Reactants {
			switch {
			case r.order > m.hor[t.Species]:
				m.hor[t.Species] = r.order
				m.horCoef[t.Species] = t.Coef
			case r.order == m.hor[t.Species] && t.Coef > m.horCoef[t.Species]:
				m.horCoef[t.Species] = t.Coef
			}
		}
	}

	readers := make([][]int, len(m.Species))
	for j, r := range m.Reactions {
		for _, s := range r.reads {
			readers[s] = append(readers[s], j)
		}
	}

	m.deps = make([][]int, len(m.Reactions))
	for i, r := range m.Reactions {
		seen := map[int]bool{i: true}
		deps := []int{i}
		for _, t := range r.change {
			for _, j := range readers[t.Species] {
				if !seen[j] {
					seen[j] = true
					deps = append(deps, j)
				}
			}
		}
		m.deps[i] = deps
	}
}
