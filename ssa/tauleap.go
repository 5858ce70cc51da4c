package ssa

import "math"

// runTauLeap advances the state in leaps of length tau, firing a Poisson
// number of events per reaction. Leaps that would drive a species negative
// are retried with half the step. When tau becomes too small to pay off,
// a burst of exact direct-method steps is taken instead.
func (tr *trajectory) runTauLeap() error {
	n := len(tr.m.Species)
	mu := make([]float64, n)
	sigma := make([]float64, n)
	saved := make([]float64, n)

	for !tr.done() {
		a0, err := tr.m.propensities(tr.x, tr.a)
		if err != nil {
			return err
		}
		if a0 == 0 {
			break
		}

		tau := tr.selectTau(mu, sigma)
		// An unbounded tau only happens when no species is consumed; without
		// an end time there is nothing to clamp it to.
		unbounded := math.IsInf(tau, 1) && tr.mode != ModeTime
		if unbounded || tau < tr.config.TauLeapSSAThreshold/a0 {
			ok, err := tr.exactBurst()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			continue
		}

		if tr.mode == ModeTime {
			if remaining := tr.end - tr.t; tau > remaining {
				tau = remaining
			}
			if tau <= 0 {
				break
			}
		}

		copy(saved, tr.x)
		for !tr.leap(tau) {
			copy(tr.x, saved)
			tau /= 2
		}
		tr.t += tau
		if err := tr.count(); err != nil {
			return err
		}
	}
	tr.finish()
	return nil
}

// exactBurst takes up to TauLeapSSASteps direct-method steps.
func (tr *trajectory) exactBurst() (bool, error) {
	for i := 0; i < tr.config.TauLeapSSASteps && !tr.done(); i++ {
		ok, err := tr.directStep()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// leap fires every reaction a Poisson(a_j*tau) number of times using the
// propensities in tr.a. It reports false if a non-fixed species went negative.
func (tr *trajectory) leap(tau float64) bool {
	for j, aj := range tr.a {
		if k := poisson(tr.rng, aj*tau); k > 0 {
			tr.m.fire(j, k, tr.x)
		}
	}
	for i, s := range tr.m.Species {
		if !s.Fixed && tr.x[i] < 0 {
			return false
		}
	}
	return true
}

// selectTau picks the largest leap that keeps the expected relative change
// of every reactant species within TauLeapEpsilon (Cao, Gillespie and
// Petzold, 2006). mu and sigma are scratch space.
func (tr *trajectory) selectTau(mu, sigma []float64) float64 {
	for i := range mu {
		mu[i], sigma[i] = 0, 0
	}
	for j, r := range tr.m.Reactions {
		aj := tr.a[j]
		for _, t := range r.change {
			c := float64(t.Coef)
			mu[t.Species] += c * aj
			sigma[t.Species] += c * c * aj
		}
	}

	tau := math.Inf(1)
	for i, s := range tr.m.Species {
		if s.Fixed || tr.m.hor[i] == 0 {
			continue
		}
		bound := math.Max(tr.config.TauLeapEpsilon*tr.x[i]/tr.g(i), 1)
		if mu[i] != 0 {
			tau = math.Min(tau, bound/math.Abs(mu[i]))
		}
		if sigma[i] != 0 {
			tau = math.Min(tau, bound*bound/sigma[i])
		}
	}
	return tau
}

// g is the order-dependent factor of the tau selection bound for species i.
func (tr *trajectory) g(i int) float64 {
	x := tr.x[i]
	switch tr.m.hor[i] {
	case 1:
		return 1
	case 2:
		if tr.m.horCoef[i] >= 2 && x > 1 {
			return 2 + 1/(x-1)
		}
		return 2
	case 3:
		switch {
		case tr.m.horCoef[i] >= 3 && x > 2:
			return 3 + 1/(x-1) + 2/(x-2)
		case tr.m.horCoef[i] == 2 && x > 1:
			return 1.5 * (2 + 1/(x-1))
		}
		return 3
	}
	return float64(tr.m.hor[i])
}
