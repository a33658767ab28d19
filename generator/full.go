// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"github.com/angus-lewis/fluidqueues/internal/csc"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/mat"
)

// FullGenerator is the materialised, sparse form of a discretised
// generator, stored in compressed-sparse-column layout. It satisfies
// mat.Matrix so it composes with the rest of gonum/mat.
type FullGenerator struct {
	m *csc.Matrix
}

// Dims satisfies mat.Matrix.
func (g *FullGenerator) Dims() (int, int) { return g.m.Dims() }

// At satisfies mat.Matrix.
func (g *FullGenerator) At(i, j int) float64 { return g.m.At(i, j) }

// T satisfies mat.Matrix.
func (g *FullGenerator) T() mat.Matrix { return g.m.T() }

// NNZ returns the number of stored non-zero entries.
func (g *FullGenerator) NNZ() int { return g.m.NNZ() }

// RowSums returns the sum of each row. For a conservative generator
// every row should sum to zero to within floating-point tolerance.
func (g *FullGenerator) RowSums() []float64 { return g.m.RowSums() }

// Dense returns a dense copy of g.
func (g *FullGenerator) Dense() *mat.Dense { return g.m.Dense() }

// Scale returns alpha·g.
func (g *FullGenerator) Scale(alpha float64) *FullGenerator {
	return &FullGenerator{m: g.m.Scale(alpha)}
}

// Add returns g+h.
func Add(g, h *FullGenerator) *FullGenerator { return &FullGenerator{m: csc.Add(g.m, h.m)} }

// Sub returns g-h.
func Sub(g, h *FullGenerator) *FullGenerator { return &FullGenerator{m: csc.Sub(g.m, h.m)} }

// Mul returns the matrix product g*h.
func Mul(g, h *FullGenerator) *FullGenerator { return &FullGenerator{m: csc.Mul(g.m, h.m)} }

// EqualApprox reports whether g and h have the same shape and agree
// entrywise to within tol.
func EqualApprox(g, h *FullGenerator, tol float64) bool { return csc.EqualApprox(g.m, h.m, tol) }

// Materialise builds the FullGenerator for lazy by evaluating its
// left-multiply kernel against each standard basis row: row i of B is
// MulLeft(e_i). Evaluating row by row, rather than constructing a dense
// M×M identity first, keeps the working set at O(M) instead of O(M²).
func Materialise(lazy *LazyGenerator) *FullGenerator {
	m, _ := lazy.Size()
	bld := csc.NewBuilder(m, m)
	e := make([]float64, m)
	for i := 0; i < m; i++ {
		e[i] = 1
		row := lazy.mulLeftRow(e)
		e[i] = 0
		for j, val := range row {
			if val != 0 {
				bld.Append(i, j, val)
			}
		}
	}
	return &FullGenerator{m: bld.Build()}
}

// buildFVGenerator assembles the direct first-order finite-volume
// generator for an FV mesh: dimension N·K, index i*K+k (phase-major,
// cell-minor), with no boundary point masses. Mass that would leave
// through the domain boundary is simply lost, matching an absorbing
// (rather than reflecting or point-mass) boundary condition, since an FV
// mesh carries no basis dimension to represent a boundary density
// against.
//
// Within a phase, transport is upwind: phase i with rate c_i>0 drains
// cell k into cell k+1 at rate c_i/Δ_k; c_i<0 drains cell k into cell
// k-1 at rate |c_i|/Δ_k. Phase transitions add T(i,j) between
// same-cell entries, exactly as the DG/FRAP interior-interior rule does
// for same-basis-index terms, since the FV scheme has only one basis
// function per cell (the cell average).
func buildFVGenerator(dq *fq.DiscretisedFluidQueue) *FullGenerator {
	ps := dq.Phases()
	n, k := dq.N(), dq.Mesh().NumCells()
	m := n * k
	bld := csc.NewBuilder(m, m)
	idx := func(i, cell int) int { return i*k + cell }

	for i := 0; i < n; i++ {
		c := ps.Rate(i)
		for cell := 0; cell < k; cell++ {
			row := idx(i, cell)
			delta := dq.Mesh().CellWidth(cell)
			switch {
			case c > 0:
				bld.Append(row, row, -c/delta)
				if cell < k-1 {
					bld.Append(row, idx(i, cell+1), c/delta)
				}
			case c < 0:
				bld.Append(row, row, -ps.AbsRate(i)/delta)
				if cell > 0 {
					bld.Append(row, idx(i, cell-1), ps.AbsRate(i)/delta)
				}
			}
			for j := 0; j < n; j++ {
				if tij := ps.T(i, j); tij != 0 {
					bld.Append(row, idx(j, cell), tij)
				}
			}
		}
	}
	return &FullGenerator{m: bld.Build()}
}
