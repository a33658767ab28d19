// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

// At computes a single element B[row,col] in O(1) by dispatching on
// whether each index is boundary or interior.
// It panics with a *fluidqueue.Error of kind OutOfRange if either index
// is outside [0, M).
func (lg *LazyGenerator) At(row, col int) float64 {
	v, err := lg.Get(row, col)
	if err != nil {
		panic(err)
	}
	return v
}

// Get is the non-panicking form of At.
func (lg *LazyGenerator) Get(row, col int) (float64, error) {
	const op = "LazyGenerator.Get"
	m, _ := lg.Size()
	if row < 0 || m <= row {
		return 0, oor(op, "row", row, m)
	}
	if col < 0 || m <= col {
		return 0, oor(op, "col", col, m)
	}

	rowBoundary := IsBoundary(lg.dq, row)
	colBoundary := IsBoundary(lg.dq, col)

	switch {
	case rowBoundary && colBoundary:
		return lg.boundaryToBoundary(row, col)
	case !rowBoundary && colBoundary:
		return lg.interiorToBoundary(row, col)
	case rowBoundary && !colBoundary:
		return lg.boundaryToInterior(row, col)
	default:
		return lg.interiorToInterior(row, col)
	}
}

// boundaryToBoundary computes B[i,j] = T[π(i),π(j)] when both indices
// are boundary phases on the same side; otherwise 0.
func (lg *LazyGenerator) boundaryToBoundary(row, col int) (float64, error) {
	sideR, phaseR, err := BoundarySide(lg.dq, row)
	if err != nil {
		return 0, err
	}
	sideC, phaseC, err := BoundarySide(lg.dq, col)
	if err != nil {
		return 0, err
	}
	if sideR != sideC {
		return 0, nil
	}
	return lg.dq.Phases().T(phaseR, phaseC), nil
}

// interiorToBoundary is non-zero only when row is at the first cell
// (lower) or last cell (upper) of a negative/positive-drift phase i
// respectively, and col is a boundary phase j reachable from i. For an
// unbounded queue the only reachable j is i itself; for a bounded queue
// the arriving mass is redistributed across boundary phases j by
// Plwr/Pupr, of which the unbounded identity behaviour is the special
// case Plwr=I.
func (lg *LazyGenerator) interiorToBoundary(row, col int) (float64, error) {
	i, k, q, err := FromInterior(lg.dq, row)
	if err != nil {
		return 0, err
	}
	side, j, err := BoundarySide(lg.dq, col)
	if err != nil {
		return 0, err
	}
	ps := lg.dq.Phases()
	switch side {
	case Lower:
		if ps.Rate(i) >= 0 || k != 0 {
			return 0, nil
		}
		base := ps.AbsRate(i) * lg.flux.Lower.In.AtVec(q) / lg.dq.Mesh().CellWidth(0)
		if ps.Bounded() {
			return base * ps.Plwr().At(i, j), nil
		}
		if i != j {
			return 0, nil
		}
		return base, nil
	default:
		if ps.Rate(i) <= 0 || k != lg.dq.K()-1 {
			return 0, nil
		}
		base := ps.AbsRate(i) * lg.flux.Upper.In.AtVec(q) / lg.dq.Mesh().CellWidth(lg.dq.K()-1)
		if ps.Bounded() {
			return base * ps.Pupr().At(i, j), nil
		}
		if i != j {
			return 0, nil
		}
		return base, nil
	}
}

// boundaryToInterior is non-zero only when the boundary phase is a
// source of flux out into the first/last cell; value =
// T[i,j]*flux.{lower,upper}.out[q]. For an unbounded queue j is
// restricted to the matching-sign phases; for a bounded queue the
// restriction is lifted, so every phase j's first (lower) or last (upper)
// cell receives T[i,j]*out[q]. The reflection matrix is not applied on
// this path; it enters only in interiorToBoundary.
func (lg *LazyGenerator) boundaryToInterior(row, col int) (float64, error) {
	side, i, err := BoundarySide(lg.dq, row)
	if err != nil {
		return 0, err
	}
	j, k, q, err := FromInterior(lg.dq, col)
	if err != nil {
		return 0, err
	}
	ps := lg.dq.Phases()
	switch side {
	case Lower:
		if k != 0 {
			return 0, nil
		}
		if !ps.Bounded() && ps.Rate(j) <= 0 {
			return 0, nil
		}
		return ps.T(i, j) * lg.flux.Lower.Out.AtVec(q), nil
	default:
		if k != lg.dq.K()-1 {
			return 0, nil
		}
		if !ps.Bounded() && ps.Rate(j) >= 0 {
			return 0, nil
		}
		return ps.T(i, j) * lg.flux.Upper.Out.AtVec(q), nil
	}
}

// interiorToInterior handles both indices addressing interior states:
// same-phase same-cell, same-phase neighbouring-cell upwind transfer,
// and cross-phase transitions within a cell.
func (lg *LazyGenerator) interiorToInterior(row, col int) (float64, error) {
	i, k, q0, err := FromInterior(lg.dq, row)
	if err != nil {
		return 0, err
	}
	j, l, q, err := FromInterior(lg.dq, col)
	if err != nil {
		return 0, err
	}
	ps := lg.dq.Phases()

	if i == j {
		switch {
		case k == l:
			return lg.diagTerm(i, k, q0, q), nil
		case l == k+1 && ps.Rate(i) > 0:
			return ps.Rate(i) * lg.blocks.B4.At(q0, q) / lg.dq.Mesh().CellWidth(k), nil
		case l == k-1 && ps.Rate(i) < 0:
			return ps.AbsRate(i) * lg.blocks.B1.At(q0, q) / lg.dq.Mesh().CellWidth(k), nil
		default:
			return 0, nil
		}
	}

	if k != l {
		return 0, nil
	}
	if membership(ps, i) != membership(ps, j) {
		return ps.T(i, j) * lg.blocks.D.At(q0, q), nil
	}
	if q0 == q {
		return ps.T(i, j), nil
	}
	return 0, nil
}
