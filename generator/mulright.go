// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"fmt"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/mat"
)

// MulRight computes v = B·u for u an M×m matrix, returning the M×m
// result. As with MulLeft, the result is always a dense *mat.Dense,
// whatever the operand's storage. The
// Plwr/Pupr reflection coupling is applied symmetrically to both
// kernels, matching the Get/At element rules in access.go.
func (lg *LazyGenerator) MulRight(u mat.Matrix) (*mat.Dense, error) {
	const op = "LazyGenerator.MulRight"
	m, _ := lg.Size()
	rows, cols := u.Dims()
	if rows != m {
		return nil, &fq.Error{Kind: fq.ShapeMismatch, Op: op, Msg: fmt.Sprintf("operand is %d×%d, want rows=%d", rows, cols, m)}
	}
	out := mat.NewDense(m, cols, nil)
	uCol := make([]float64, m)
	for c := 0; c < cols; c++ {
		for r := 0; r < m; r++ {
			uCol[r] = u.At(r, c)
		}
		v := lg.mulRightCol(uCol)
		out.SetCol(c, v)
	}
	return out, nil
}

// mulRightCol computes v = B·u for a single column u (length M), mirroring
// mulLeftRow's block decomposition with the contraction direction
// reversed: v[row] += B[row,col]·u[col].
func (lg *LazyGenerator) mulRightCol(u []float64) []float64 {
	dq := lg.dq
	ps := dq.Phases()
	lay := newLayout(dq)
	m, _ := lg.Size()
	v := make([]float64, m)

	addBoundaryToBoundaryRight(dq, ps, lay, u, v, Lower)
	addBoundaryToBoundaryRight(dq, ps, lay, u, v, Upper)

	addBoundaryCouplingRight(dq, ps, lay, lg.flux.Lower, u, v, Lower)
	addBoundaryCouplingRight(dq, ps, lay, lg.flux.Upper, u, v, Upper)

	addSamePhaseTridiagRight(lg, lay, u, v)
	addCrossPhaseRight(lg, lay, u, v)

	return v
}

func addBoundaryToBoundaryRight(dq *fq.DiscretisedFluidQueue, ps *fq.PhaseSet, lay *layout, u, v []float64, side Side) {
	members := memberIndices(ps, side)
	for _, i := range members {
		acc := 0.0
		for _, j := range members {
			acc += ps.T(i, j) * u[boundaryIdx(lay, side, j)]
		}
		v[boundaryIdx(lay, side, i)] += acc
	}
}

// addBoundaryCouplingRight mirrors addBoundaryCouplingLeft with the
// contraction direction reversed: the interior-to-boundary flux now
// accumulates into the interior row from the boundary column, and the
// boundary-to-interior flux accumulates into the boundary row from the
// interior column.
func addBoundaryCouplingRight(dq *fq.DiscretisedFluidQueue, ps *fq.PhaseSet, lay *layout, flux fq.FluxPair, u, v []float64, side Side) {
	p := lay.p
	cell := 0
	if side == Upper {
		cell = lay.k - 1
	}
	delta := dq.Mesh().CellWidth(cell)
	members := memberIndices(ps, side)
	refl := reflectionMatrix(ps, side)

	// Interior(i,cell,:) row, boundary(j) column: flux out of the cell.
	for i := 0; i < ps.N(); i++ {
		sign := ps.Rate(i)
		if (side == Lower && sign >= 0) || (side == Upper && sign <= 0) {
			continue
		}
		var acc float64
		if refl != nil {
			for _, j := range members {
				acc += refl.At(i, j) * u[boundaryIdx(lay, side, j)]
			}
		} else {
			acc = u[boundaryIdx(lay, side, i)]
		}
		if acc == 0 {
			continue
		}
		coeff := acc * ps.AbsRate(i) / delta
		for q := 0; q < p; q++ {
			v[lay.interior(i, cell, q)] += coeff * flux.In.AtVec(q)
		}
	}

	// Boundary(i) row, interior(j,cell,:) column: flux into the cell.
	for _, i := range members {
		var acc float64
		for j := 0; j < ps.N(); j++ {
			sign := ps.Rate(j)
			if refl == nil {
				if (side == Lower && sign <= 0) || (side == Upper && sign >= 0) {
					continue
				}
			}
			tij := ps.T(i, j)
			if tij == 0 {
				continue
			}
			dot := 0.0
			for q := 0; q < p; q++ {
				dot += flux.Out.AtVec(q) * u[lay.interior(j, cell, q)]
			}
			acc += tij * dot
		}
		v[boundaryIdx(lay, side, i)] += acc
	}
}

// addSamePhaseTridiagRight mirrors addSamePhaseTridiagLeft, contracting
// over the block's column index instead of its row index (gemvAccumNoTrans
// in place of gemvAccumTrans) and swapping which neighbour feeds which.
func addSamePhaseTridiagRight(lg *LazyGenerator, lay *layout, u, v []float64) {
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
			gemvAccumNoTrans(lg.diagBlock(i, k), uk, vk)
			switch {
			case c > 0 && k < lay.k-1:
				for q := 0; q < p; q++ {
					uk[q] = u[lay.interior(i, k+1, q)]
				}
				tmp := make([]float64, p)
				gemvAccumNoTrans(lg.blocks.B4, uk, tmp)
				coeff := c / dq.Mesh().CellWidth(k)
				for q := 0; q < p; q++ {
					vk[q] += coeff * tmp[q]
				}
			case c < 0 && k > 0:
				for q := 0; q < p; q++ {
					uk[q] = u[lay.interior(i, k-1, q)]
				}
				tmp := make([]float64, p)
				gemvAccumNoTrans(lg.blocks.B1, uk, tmp)
				coeff := ps.AbsRate(i) / dq.Mesh().CellWidth(k)
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

// addCrossPhaseRight mirrors addCrossPhaseLeft, contracting D over its
// column index via gemvAccumNoTrans.
func addCrossPhaseRight(lg *LazyGenerator, lay *layout, u, v []float64) {
	dq := lg.dq
	ps := dq.Phases()
	p := lay.p
	uj := make([]float64, p)
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
					uj[q] = u[lay.interior(j, k, q)]
				}
				if sameRegion {
					for q := 0; q < p; q++ {
						v[lay.interior(i, k, q)] += tij * uj[q]
					}
					continue
				}
				for q := range tmp {
					tmp[q] = 0
				}
				gemvAccumNoTrans(lg.blocks.D, uj, tmp)
				for q := 0; q < p; q++ {
					v[lay.interior(i, k, q)] += tij * tmp[q]
				}
			}
		}
	}
}
