package ssa

import "math"

// directStep performs one step of Gillespie's direct method. It returns
// false when no further event happens before the end of the run.
func (tr *trajectory) directStep() (bool, error) {
	a0, err := tr.m.propensities(tr.x, tr.a)
	if err != nil {
		return false, err
	}
	if a0 == 0 {
		return false, nil
	}

	tau := tr.rng.ExpFloat64() / a0
	if tr.beyond(tr.t + tau) {
		return false, nil
	}

	j := selectReaction(tr.a, a0*tr.rng.Float64())
	tr.m.fire(j, 1, tr.x)
	tr.t += tau
	return true, tr.count()
}

func (tr *trajectory) runDirect() error {
	for !tr.done() {
		ok, err := tr.directStep()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	tr.finish()
	return nil
}

// runFirstReaction draws a tentative firing time for every reaction and
// fires the earliest one.
func (tr *trajectory) runFirstReaction() error {
	for !tr.done() {
		if _, err := tr.m.propensities(tr.x, tr.a); err != nil {
			return err
		}

		first := -1
		firstTau := math.Inf(1)
		for j, aj := range tr.a {
			if aj == 0 {
				continue
			}
			if tau := tr.rng.ExpFloat64() / aj; tau < firstTau {
				first, firstTau = j, tau
			}
		}
		if first < 0 || tr.beyond(tr.t+firstTau) {
			break
		}

		tr.m.fire(first, 1, tr.x)
		tr.t += firstTau
		if err := tr.count(); err != nil {
			return err
		}
	}
	tr.finish()
	return nil
}
