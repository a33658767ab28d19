// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"fmt"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/mat"
)

// LazyGenerator is the structured, non-materialised representation of the
// discretised generator B. It stores the four p×p block recipes, the two
// boundary flux pairs, and the phase-membership-change matrix D, and
// derives every element and both multiply kernels from them. It holds a
// non-owning reference to its DiscretisedFluidQueue, which must outlive
// it.
type LazyGenerator struct {
	dq      *fq.DiscretisedFluidQueue
	blocks  *fq.Blocks
	flux    *fq.BoundaryFlux
	uniform bool
	// diagCache[i] is the precomputed combined diagonal block
	// |c_i|·B_diag(c_i)/Δ + T_ii·I for phase i, populated only when the
	// mesh is uniform (every cell the same width) so the per-cell
	// division can be folded into a single shared matrix. nil entries
	// mark zero-drift phases, which never need a diagonal block beyond
	// the scalar T_ii handled separately by the kernel.
	diagCache []*mat.Dense
}

// DQ returns the queue the generator was built over.
func (lg *LazyGenerator) DQ() *fq.DiscretisedFluidQueue { return lg.dq }

// Blocks returns the generator's four block recipes and D.
func (lg *LazyGenerator) Blocks() *fq.Blocks { return lg.blocks }

// Flux returns the generator's boundary flux vectors.
func (lg *LazyGenerator) Flux() *fq.BoundaryFlux { return lg.flux }

// Size returns (M, M), the dimensions of B.
func (lg *LazyGenerator) Size() (int, int) { m := lg.dq.Size(); return m, m }

// Dims implements mat.Matrix-compatible dimension reporting.
func (lg *LazyGenerator) Dims() (int, int) { return lg.Size() }

// membership partitions phases into two regions for cross-phase
// transitions: phases with strictly negative drift sit in one region,
// phases with non-negative drift (including the zero-drift phases,
// which do not use B2/B3 either) sit in the other. A transition
// crossing regions re-expresses the basis representation through D; one
// staying within a region carries T_ij unchanged.
func membership(ps *fq.PhaseSet, i int) bool { return ps.Rate(i) >= 0 }

// diagTerm returns the (q0,q) entry of the same-phase, same-cell
// contribution to B for phase i at cell k: |c_i|·B_diag(c_i)[q0,q]/Δ_k,
// plus T_ii on the basis diagonal. Zero-drift phases skip the block term
// entirely rather than dividing by |c_i|=0.
func (lg *LazyGenerator) diagTerm(i, k, q0, q int) float64 {
	ps := lg.dq.Phases()
	c := ps.Rate(i)
	v := 0.0
	switch {
	case c > 0:
		v = ps.AbsRate(i) * lg.blocks.B2.At(q0, q) / lg.dq.Mesh().CellWidth(k)
	case c < 0:
		v = ps.AbsRate(i) * lg.blocks.B3.At(q0, q) / lg.dq.Mesh().CellWidth(k)
	}
	if q0 == q {
		v += ps.T(i, i)
	}
	return v
}

// diagBlock returns the full p×p combined diagonal block for phase i at
// cell k (diagTerm evaluated over all (q0,q)), using the uniform-mesh
// cache when available.
func (lg *LazyGenerator) diagBlock(i, k int) *mat.Dense {
	if lg.uniform && lg.diagCache[i] != nil {
		return lg.diagCache[i]
	}
	ps := lg.dq.Phases()
	p := lg.dq.P()
	c := ps.Rate(i)
	d := mat.NewDense(p, p, nil)
	switch {
	case c > 0:
		d.Scale(ps.AbsRate(i)/lg.dq.Mesh().CellWidth(k), lg.blocks.B2)
	case c < 0:
		d.Scale(ps.AbsRate(i)/lg.dq.Mesh().CellWidth(k), lg.blocks.B3)
	}
	tii := ps.T(i, i)
	for q := 0; q < p; q++ {
		d.Set(q, q, d.At(q, q)+tii)
	}
	return d
}

func buildDiagCache(dq *fq.DiscretisedFluidQueue, blocks *fq.Blocks) []*mat.Dense {
	n, p := dq.N(), dq.P()
	ps := dq.Phases()
	delta := dq.Mesh().CellWidth(0)
	cache := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		c := ps.Rate(i)
		if c == 0 {
			continue
		}
		d := mat.NewDense(p, p, nil)
		if c > 0 {
			d.Scale(ps.AbsRate(i)/delta, blocks.B2)
		} else {
			d.Scale(ps.AbsRate(i)/delta, blocks.B3)
		}
		tii := ps.T(i, i)
		for q := 0; q < p; q++ {
			d.Set(q, q, d.At(q, q)+tii)
		}
		cache[i] = d
	}
	return cache
}

// Scale returns a new LazyGenerator equal to alpha·lg: every block,
// both boundary fluxes, and D are scaled, over the same queue.
func (lg *LazyGenerator) Scale(alpha float64) *LazyGenerator {
	scaleDense := func(m *mat.Dense) *mat.Dense {
		r, c := m.Dims()
		out := mat.NewDense(r, c, nil)
		out.Scale(alpha, m)
		return out
	}
	scaleVec := func(v *mat.VecDense) *mat.VecDense {
		out := mat.NewVecDense(v.Len(), nil)
		out.ScaleVec(alpha, v)
		return out
	}
	blocks := &fq.Blocks{
		B1: scaleDense(lg.blocks.B1),
		B2: scaleDense(lg.blocks.B2),
		B3: scaleDense(lg.blocks.B3),
		B4: scaleDense(lg.blocks.B4),
		D:  scaleDense(lg.blocks.D),
	}
	flux := &fq.BoundaryFlux{
		Lower: fq.FluxPair{In: scaleVec(lg.flux.Lower.In), Out: scaleVec(lg.flux.Lower.Out)},
		Upper: fq.FluxPair{In: scaleVec(lg.flux.Upper.In), Out: scaleVec(lg.flux.Upper.Out)},
	}
	out := &LazyGenerator{dq: lg.dq, blocks: blocks, flux: flux, uniform: lg.uniform}
	if lg.uniform {
		out.diagCache = buildDiagCache(lg.dq, blocks)
	}
	return out
}

func unsupportedSchemeError(op string, s fq.Scheme) error {
	return &fq.Error{Kind: fq.Unsupported, Op: op, Msg: fmt.Sprintf("mesh scheme %s has no lazy-generator construction", s)}
}
