// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluidqueue

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// rowSumTol is the tolerance used when checking that a generator matrix's
// rows sum to zero and that a reflection matrix's rows sum to one. It is
// independent of the √ε conservation tolerance in the generator package,
// which checks the much larger discretised operator rather than a single
// N×N input matrix.
const rowSumTol = 1e-9

// PhaseSet is the fixed set of N phases of the modulating Markov chain: a
// drift rate per phase, the chain's generator T, and the per-phase
// membership flags that say which phases carry a lower and/or upper
// boundary point mass. Plwr and Pupr are nil unless the queue is bounded.
//
// A PhaseSet is immutable after construction.
type PhaseSet struct {
	rates []float64
	t     *mat.Dense
	lwr   []bool
	upr   []bool
	plwr  *mat.Dense
	pupr  *mat.Dense
}

// NewPhaseSet validates and constructs a PhaseSet for an unbounded queue.
// T must be square with rows summing to zero and non-negative
// off-diagonals. lwrMember and uprMember must be consistent with the sign
// of each rate: c_i<0 requires lwrMember[i], c_i>0 requires uprMember[i],
// and c_i==0 requires both (the reflection direction is chosen by the
// caller of the bounded variant, not by this package).
func NewPhaseSet(rates []float64, t *mat.Dense, lwrMember, uprMember []bool) (*PhaseSet, error) {
	const op = "NewPhaseSet"
	n := len(rates)
	if n == 0 {
		return nil, newError(Domain, op, "phase set must have at least one phase")
	}
	if len(lwrMember) != n || len(uprMember) != n {
		return nil, newError(ShapeMismatch, op, "membership vectors must have length %d", n)
	}
	r, c := t.Dims()
	if r != n || c != n {
		return nil, newError(ShapeMismatch, op, "T must be %d×%d, got %d×%d", n, n, r, c)
	}
	if err := validateGenerator(op, t); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		switch {
		case rates[i] < 0 && !lwrMember[i]:
			return nil, newError(Domain, op, "phase %d has negative rate but is not a lower-boundary member", i)
		case rates[i] > 0 && !uprMember[i]:
			return nil, newError(Domain, op, "phase %d has positive rate but is not an upper-boundary member", i)
		case rates[i] == 0 && !(lwrMember[i] && uprMember[i]):
			return nil, newError(Domain, op, "phase %d has zero rate and must be a member of both boundaries", i)
		}
	}
	return &PhaseSet{
		rates: append([]float64(nil), rates...),
		t:     mat.DenseCopyOf(t),
		lwr:   append([]bool(nil), lwrMember...),
		upr:   append([]bool(nil), uprMember...),
	}, nil
}

// validateGenerator checks that T's rows sum to zero and that
// off-diagonal entries are non-negative.
func validateGenerator(op string, t *mat.Dense) error {
	n, _ := t.Dims()
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		copy(row, t.RawRowView(i))
		for j, v := range row {
			if i != j && v < 0 {
				return newError(Domain, op, "T[%d,%d]=%g is a negative off-diagonal entry", i, j, v)
			}
		}
		if s := floats.Sum(row); !floats.EqualWithinAbs(s, 0, rowSumTol) {
			return newError(Domain, op, "T row %d sums to %g, want 0", i, s)
		}
	}
	return nil
}

// WithReflection returns a copy of p augmented with the bounded-queue
// reflection matrices Plwr and Pupr, each required to be N×N and
// row-stochastic (rows summing to one). Use this to build a bounded
// PhaseSet from an otherwise-identical unbounded one.
func (p *PhaseSet) WithReflection(plwr, pupr *mat.Dense) (*PhaseSet, error) {
	const op = "PhaseSet.WithReflection"
	n := p.N()
	for name, mtx := range map[string]*mat.Dense{"Plwr": plwr, "Pupr": pupr} {
		r, c := mtx.Dims()
		if r != n || c != n {
			return nil, newError(ShapeMismatch, op, "%s must be %d×%d, got %d×%d", name, n, n, r, c)
		}
		for i := 0; i < n; i++ {
			if s := floats.Sum(mtx.RawRowView(i)); !floats.EqualWithinAbs(s, 1, rowSumTol) {
				return nil, newError(Domain, op, "%s row %d sums to %g, want 1", name, i, s)
			}
		}
	}
	q := *p
	q.plwr = mat.DenseCopyOf(plwr)
	q.pupr = mat.DenseCopyOf(pupr)
	return &q, nil
}

// N returns the number of phases.
func (p *PhaseSet) N() int { return len(p.rates) }

// Rate returns the drift rate of phase i.
func (p *PhaseSet) Rate(i int) float64 { return p.rates[i] }

// Rates returns the drift rates of all phases. The returned slice must not
// be modified.
func (p *PhaseSet) Rates() []float64 { return p.rates }

// T returns entry (i,j) of the phase generator matrix.
func (p *PhaseSet) T(i, j int) float64 { return p.t.At(i, j) }

// TMatrix returns the phase generator matrix.
func (p *PhaseSet) TMatrix() *mat.Dense { return p.t }

// LwrMember reports whether phase i carries a lower boundary point mass.
func (p *PhaseSet) LwrMember(i int) bool { return p.lwr[i] }

// UprMember reports whether phase i carries an upper boundary point mass.
func (p *PhaseSet) UprMember(i int) bool { return p.upr[i] }

// Bounded reports whether the queue has reflection matrices, i.e. whether
// it is the bounded variant.
func (p *PhaseSet) Bounded() bool { return p.plwr != nil }

// Plwr returns the lower reflection matrix, or nil for an unbounded queue.
func (p *PhaseSet) Plwr() *mat.Dense { return p.plwr }

// Pupr returns the upper reflection matrix, or nil for an unbounded queue.
func (p *PhaseSet) Pupr() *mat.Dense { return p.pupr }

// NumLowerBoundary returns N₋, the number of lower-boundary member phases.
func (p *PhaseSet) NumLowerBoundary() int { return countMembers(p.lwr) }

// NumUpperBoundary returns N₊, the number of upper-boundary member phases.
func (p *PhaseSet) NumUpperBoundary() int { return countMembers(p.upr) }

func countMembers(member []bool) int {
	n := 0
	for _, m := range member {
		if m {
			n++
		}
	}
	return n
}

// Sign reports the sign of phase i's drift as -1, 0, or +1.
func (p *PhaseSet) Sign(i int) int {
	switch {
	case p.rates[i] < 0:
		return -1
	case p.rates[i] > 0:
		return 1
	default:
		return 0
	}
}

// AbsRate returns |c_i|.
func (p *PhaseSet) AbsRate(i int) float64 { return math.Abs(p.rates[i]) }
