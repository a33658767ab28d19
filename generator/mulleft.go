// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"fmt"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/mat"
)

// MulLeft computes v = u·B for u an m×M matrix, returning the m×M
// result. u may be any mat.Matrix with M columns (a *mat.VecDense is an
// M×1 column and is rejected); its entries are read through At. The
// result is always a dense *mat.Dense: a sparse operand such as a
// FullGenerator does not yield a sparse result.
func (lg *LazyGenerator) MulLeft(u mat.Matrix) (*mat.Dense, error) {
	const op = "LazyGenerator.MulLeft"
	m, _ := lg.Size()
	rows, cols := u.Dims()
	if cols != m {
		return nil, &fq.Error{Kind: fq.ShapeMismatch, Op: op, Msg: fmt.Sprintf("operand is %d×%d, want cols=%d", rows, cols, m)}
	}
	out := mat.NewDense(rows, m, nil)
	uRow := make([]float64, m)
	for r := 0; r < rows; r++ {
		for c := 0; c < m; c++ {
			uRow[c] = u.At(r, c)
		}
		v := lg.mulLeftRow(uRow)
		out.SetRow(r, v)
	}
	return out, nil
}

// mulLeftRow computes v = u·B for a single row u (length M). The
// structured operator is applied as a sum of block-sparse pieces: the
// boundary-to-boundary phase transitions, the flux coupling each
// boundary to its adjacent cell, the same-phase tridiagonal transport
// between cells, and the cross-phase transitions within a cell.
func (lg *LazyGenerator) mulLeftRow(u []float64) []float64 {
	dq := lg.dq
	ps := dq.Phases()
	lay := newLayout(dq)
	m, _ := lg.Size()
	v := make([]float64, m)

	// Boundary-to-boundary phase transitions on each side.
	addBoundaryToBoundaryLeft(dq, ps, lay, u, v, Lower)
	addBoundaryToBoundaryLeft(dq, ps, lay, u, v, Upper)

	// Flux between each boundary point mass and its adjacent cell.
	addBoundaryCouplingLeft(dq, ps, lay, lg.flux.Lower, u, v, Lower)
	addBoundaryCouplingLeft(dq, ps, lay, lg.flux.Upper, u, v, Upper)

	// Same-phase interior tridiagonal transport.
	addSamePhaseTridiagLeft(lg, lay, u, v)

	// Cross-phase transitions within a cell.
	addCrossPhaseLeft(lg, lay, u, v)

	return v
}

func addBoundaryToBoundaryLeft(dq *fq.DiscretisedFluidQueue, ps *fq.PhaseSet, lay *layout, u, v []float64, side Side) {
	members := memberIndices(ps, side)
	for _, i := range members {
		idxI := boundaryIdx(lay, side, i)
		ui := u[idxI]
		if ui == 0 {
			continue
		}
		for _, j := range members {
			v[boundaryIdx(lay, side, j)] += ui * ps.T(i, j)
		}
	}
}

func boundaryIdx(lay *layout, side Side, i int) int {
	if side == Lower {
		return lay.lowerBoundary(i)
	}
	return lay.upperBoundary(i)
}

func memberIndices(ps *fq.PhaseSet, side Side) []int {
	var out []int
	for i := 0; i < ps.N(); i++ {
		if side == Lower && ps.LwrMember(i) {
			out = append(out, i)
		} else if side == Upper && ps.UprMember(i) {
			out = append(out, i)
		}
	}
	return out
}

// addBoundaryCouplingLeft computes the flux between the boundary point
// masses on the given side (cell 0 for Lower, cell K-1 for Upper) and
// that cell's interior, matching access.go's interiorToBoundary and
// boundaryToInterior rules. Mass flowing from the cell to the boundary
// goes only to the same phase's point mass in an unbounded queue, and is
// redistributed through the reflection matrix in a bounded queue. Mass
// flowing from the boundary into the cell is weighted by T[i,j]; a bounded
// queue drops the drift-sign filter on j but does not apply the
// reflection matrix on this path.
func addBoundaryCouplingLeft(dq *fq.DiscretisedFluidQueue, ps *fq.PhaseSet, lay *layout, flux fq.FluxPair, u, v []float64, side Side) {
	p := lay.p
	cell := 0
	if side == Upper {
		cell = lay.k - 1
	}
	delta := dq.Mesh().CellWidth(cell)
	members := memberIndices(ps, side)
	refl := reflectionMatrix(ps, side)

	// Interior(i,cell,:) -> boundary: flux out of the cell.
	for i := 0; i < ps.N(); i++ {
		sign := ps.Rate(i)
		if (side == Lower && sign >= 0) || (side == Upper && sign <= 0) {
			continue
		}
		base := 0.0
		for q := 0; q < p; q++ {
			base += u[lay.interior(i, cell, q)] * flux.In.AtVec(q)
		}
		if base == 0 {
			continue
		}
		scalar := base * ps.AbsRate(i) / delta
		if refl != nil {
			for _, j := range members {
				v[boundaryIdx(lay, side, j)] += scalar * refl.At(i, j)
			}
		} else {
			v[boundaryIdx(lay, side, i)] += scalar
		}
	}

	// Boundary -> interior(j,cell,:): flux into the cell.
	for _, i := range members {
		ui := u[boundaryIdx(lay, side, i)]
		if ui == 0 {
			continue
		}
		for j := 0; j < ps.N(); j++ {
			sign := ps.Rate(j)
			if refl == nil {
				if (side == Lower && sign <= 0) || (side == Upper && sign >= 0) {
					continue
				}
			}
			coeff := ui * ps.T(i, j)
			if coeff == 0 {
				continue
			}
			for q := 0; q < p; q++ {
				v[lay.interior(j, cell, q)] += coeff * flux.Out.AtVec(q)
			}
		}
	}
}

func reflectionMatrix(ps *fq.PhaseSet, side Side) *mat.Dense {
	if !ps.Bounded() {
		return nil
	}
	if side == Lower {
		return ps.Plwr()
	}
	return ps.Pupr()
}

// addSamePhaseTridiagLeft adds, for each phase i, the same-cell diagonal
// block plus the one-cell-upwind off-diagonal block.
func addSamePhaseTridiagLeft(lg *LazyGenerator, lay *layout, u, v []float64) {
	dq := lg.dq
	ps := dq.Phases()
	p := lay.p
	uk := make([]float64, p)
	vk := make([]float64, p)
	for i := 0; i < lay.n; i++ {
		c := ps.Rate(i)
		for k := 0; k < lay.k; k++ {
			for q := 0; q < p; q++ {
				uk[q] = u[lay.interior(i, k, q)]
				vk[q] = 0
			}
			gemvAccumTrans(lg.diagBlock(i, k), uk, vk)
			switch {
			case c > 0 && k > 0:
				for q := 0; q < p; q++ {
					uk[q] = u[lay.interior(i, k-1, q)]
				}
				tmp := make([]float64, p)
				gemvAccumTrans(lg.blocks.B4, uk, tmp)
				coeff := c / dq.Mesh().CellWidth(k-1)
				for q := 0; q < p; q++ {
					vk[q] += coeff * tmp[q]
				}
			case c < 0 && k < lay.k-1:
				for q := 0; q < p; q++ {
					uk[q] = u[lay.interior(i, k+1, q)]
				}
				tmp := make([]float64, p)
				gemvAccumTrans(lg.blocks.B1, uk, tmp)
				coeff := ps.AbsRate(i) / dq.Mesh().CellWidth(k+1)
				for q := 0; q < p; q++ {
					vk[q] += coeff * tmp[q]
				}
			}
			for q := 0; q < p; q++ {
				v[lay.interior(i, k, q)] += vk[q]
			}
		}
	}
}

// addCrossPhaseLeft adds, for every ordered pair of distinct phases
// (i,j), either a same-basis T_ij transfer (same membership region) or a
// D-reflected transfer (different regions).
func addCrossPhaseLeft(lg *LazyGenerator, lay *layout, u, v []float64) {
	dq := lg.dq
	ps := dq.Phases()
	p := lay.p
	ui := make([]float64, p)
	tmp := make([]float64, p)
	for i := 0; i < lay.n; i++ {
		memI := membership(ps, i)
		for j := 0; j < lay.n; j++ {
			if i == j {
				continue
			}
			tij := ps.T(i, j)
			if tij == 0 {
				continue
			}
			sameRegion := memI == membership(ps, j)
			for k := 0; k < lay.k; k++ {
				for q := 0; q < p; q++ {
					ui[q] = u[lay.interior(i, k, q)]
				}
				if sameRegion {
					for q := 0; q < p; q++ {
						v[lay.interior(j, k, q)] += tij * ui[q]
					}
					continue
				}
				for q := range tmp {
					tmp[q] = 0
				}
				gemvAccumTrans(lg.blocks.D, ui, tmp)
				for q := 0; q < p; q++ {
					v[lay.interior(j, k, q)] += tij * tmp[q]
				}
			}
		}
	}
}
