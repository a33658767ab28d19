// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"fmt"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
)

// Side selects which boundary (lower or upper) an index or a phase
// belongs to.
type Side int

const (
	// Lower is the X=0 boundary.
	Lower Side = iota
	// Upper is the X=U boundary.
	Upper
)

func (s Side) String() string {
	if s == Lower {
		return "lower"
	}
	return "upper"
}

// InteriorIndex returns the global index of interior state (phase i, cell
// k, basis q), all 0-indexed, in a size-M vector acted on by B. The
// layout is phase-major, then cell, then basis, offset past the N₋
// lower-boundary entries.
func InteriorIndex(dq *fq.DiscretisedFluidQueue, i, k, q int) (int, error) {
	const op = "InteriorIndex"
	n, kk, p := dq.N(), dq.K(), dq.P()
	if i < 0 || n <= i {
		return 0, oor(op, "phase", i, n)
	}
	if k < 0 || kk <= k {
		return 0, oor(op, "cell", k, kk)
	}
	if q < 0 || p <= q {
		return 0, oor(op, "basis", q, p)
	}
	return dq.Phases().NumLowerBoundary() + i*kk*p + k*p + q, nil
}

// FromInterior is the inverse of InteriorIndex: given a global interior
// index n, it recovers (phase, cell, basis) by integer division and
// modulo on (K·p, p).
func FromInterior(dq *fq.DiscretisedFluidQueue, n int) (i, k, q int, err error) {
	const op = "FromInterior"
	kk, p := dq.K(), dq.P()
	base := n - dq.Phases().NumLowerBoundary()
	interiorSize := dq.N() * kk * p
	if n < 0 || n >= dq.Size() {
		return 0, 0, 0, oor(op, "index", n, dq.Size())
	}
	if base < 0 || base >= interiorSize {
		return 0, 0, 0, &fq.Error{Kind: fq.InvalidBoundary, Op: op,
			Msg: fmt.Sprintf("index %d addresses a boundary point mass, not an interior state", n)}
	}
	i = base / (kk * p)
	rem := base % (kk * p)
	k = rem / p
	q = rem % p
	return i, k, q, nil
}

// BoundaryIndex returns the global index of phase i's point mass on the
// given side. For the lower side it is the running count of
// lower-membership phases ≤ i, minus one for 0-indexing; for the upper
// side the analogous count is shifted past the interior block.
func BoundaryIndex(dq *fq.DiscretisedFluidQueue, side Side, i int) (int, error) {
	const op = "BoundaryIndex"
	n := dq.N()
	if i < 0 || n <= i {
		return 0, oor(op, "phase", i, n)
	}
	ps := dq.Phases()
	switch side {
	case Lower:
		if !ps.LwrMember(i) {
			return 0, &fq.Error{Kind: fq.InvalidBoundary, Op: op,
				Msg: fmt.Sprintf("phase %d is not a lower-boundary member", i)}
		}
		return rank(ps.LwrMember, i), nil
	case Upper:
		if !ps.UprMember(i) {
			return 0, &fq.Error{Kind: fq.InvalidBoundary, Op: op,
				Msg: fmt.Sprintf("phase %d is not an upper-boundary member", i)}
		}
		return dq.Phases().NumLowerBoundary() + dq.N()*dq.K()*dq.P() + rank(ps.UprMember, i), nil
	default:
		return 0, &fq.Error{Kind: fq.Domain, Op: op, Msg: "invalid side"}
	}
}

// rank returns the 0-indexed position of phase i among the phases for
// which member(j) holds, counting j from 0 to i inclusive.
func rank(member func(int) bool, i int) int {
	r := -1
	for j := 0; j <= i; j++ {
		if member(j) {
			r++
		}
	}
	return r
}

// IsBoundary reports whether global index n addresses a boundary point
// mass rather than an interior state.
func IsBoundary(dq *fq.DiscretisedFluidQueue, n int) bool {
	nm := dq.Phases().NumLowerBoundary()
	return n < nm || n >= nm+dq.N()*dq.K()*dq.P()
}

// BoundarySide resolves a boundary global index n to its side and the
// phase it belongs to. It returns an InvalidBoundary error if n is not a
// boundary index.
func BoundarySide(dq *fq.DiscretisedFluidQueue, n int) (side Side, phase int, err error) {
	const op = "BoundarySide"
	ps := dq.Phases()
	nm := ps.NumLowerBoundary()
	switch {
	case n < 0 || n >= dq.Size():
		return 0, 0, oor(op, "index", n, dq.Size())
	case n < nm:
		return Lower, phaseAtRank(ps.LwrMember, dq.N(), n), nil
	case n >= nm+dq.N()*dq.K()*dq.P():
		return Upper, phaseAtRank(ps.UprMember, dq.N(), n-nm-dq.N()*dq.K()*dq.P()), nil
	default:
		return 0, 0, &fq.Error{Kind: fq.InvalidBoundary, Op: op,
			Msg: fmt.Sprintf("index %d addresses an interior state", n)}
	}
}

// phaseAtRank inverts rank: it returns the phase index whose 0-indexed
// rank among member phases equals want.
func phaseAtRank(member func(int) bool, n, want int) int {
	r := -1
	for j := 0; j < n; j++ {
		if member(j) {
			r++
			if r == want {
				return j
			}
		}
	}
	return -1
}

func oor(op, what string, got, limit int) error {
	return &fq.Error{Kind: fq.OutOfRange, Op: op, Msg: indexMsg(what, got, limit)}
}

func indexMsg(what string, got, limit int) string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", what, got, limit)
}
