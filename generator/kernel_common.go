// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// layout precomputes the index arithmetic shared by both multiply
// kernels, avoiding a bounds-checked InteriorIndex/BoundaryIndex call per
// element on the kernel's hot path.
type layout struct {
	n, k, p     int
	lowerCount  int
	kp          int
	lowerRank   []int // lowerRank[i] is (lower members among phases 0..i) - 1: i's 0-indexed rank when i is a member
	upperRank   []int
}

func newLayout(dq *fq.DiscretisedFluidQueue) *layout {
	ps := dq.Phases()
	n, k, p := dq.N(), dq.K(), dq.P()
	lay := &layout{n: n, k: k, p: p, kp: k * p, lowerCount: ps.NumLowerBoundary()}
	lay.lowerRank = make([]int, n)
	lay.upperRank = make([]int, n)
	lr, ur := -1, -1
	for i := 0; i < n; i++ {
		if ps.LwrMember(i) {
			lr++
		}
		lay.lowerRank[i] = lr
		if ps.UprMember(i) {
			ur++
		}
		lay.upperRank[i] = ur
	}
	return lay
}

func (lay *layout) interior(i, k, q int) int {
	return lay.lowerCount + i*lay.kp + k*lay.p + q
}

func (lay *layout) lowerBoundary(i int) int { return lay.lowerRank[i] }

func (lay *layout) upperBoundary(i int) int {
	return lay.lowerCount + lay.n*lay.kp + lay.upperRank[i]
}

// gemvAccumTrans adds M^T·u to v in place: v[q] += Σ_q0 u[q0]·M[q0,q].
// This is the contraction a left-multiply needs for a p×p block applied
// to a basis-coefficient slice.
func gemvAccumTrans(m *mat.Dense, u, v []float64) {
	gm := m.RawMatrix()
	ux := blas64.Vector{N: len(u), Data: u, Inc: 1}
	vx := blas64.Vector{N: len(v), Data: v, Inc: 1}
	blas64.Gemv(blas.Trans, 1, gm, ux, 1, vx)
}

// gemvAccumNoTrans adds M·u to v in place: v[q0] += Σ_q M[q0,q]·u[q].
// This is the contraction a right-multiply needs for the same block.
func gemvAccumNoTrans(m *mat.Dense, u, v []float64) {
	gm := m.RawMatrix()
	ux := blas64.Vector{N: len(u), Data: u, Inc: 1}
	vx := blas64.Vector{N: len(v), Data: v, Inc: 1}
	blas64.Gemv(blas.NoTrans, 1, gm, ux, 1, vx)
}
