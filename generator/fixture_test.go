// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"testing"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/mat"
)

// newTestQueue builds a small, deliberately non-trivial 3-phase, 2-cell,
// p=2 DG queue: phase 0 has negative drift (lower member only), phase 1
// has positive drift (upper member only), phase 2 has zero drift (member
// of both boundaries), matching the membership rules NewPhaseSet
// enforces.
func newTestQueue(t *testing.T) *fq.DiscretisedFluidQueue {
	t.Helper()
	rates := []float64{-2, 3, 0}
	tMat := mat.NewDense(3, 3, []float64{
		-3, 2, 1,
		1, -4, 3,
		2, 1, -3,
	})
	lwr := []bool{true, false, true}
	upr := []bool{false, true, true}
	ps, err := fq.NewPhaseSet(rates, tMat, lwr, upr)
	if err != nil {
		t.Fatalf("NewPhaseSet: %v", err)
	}

	b1 := mat.NewDense(2, 2, []float64{0.5, 0.1, 0.2, 0.6})
	b2 := mat.NewDense(2, 2, []float64{-1, 0.3, 0.4, -1})
	b3 := mat.NewDense(2, 2, []float64{-0.8, 0.2, 0.1, -0.9})
	b4 := mat.NewDense(2, 2, []float64{0.7, 0.05, 0.15, 0.4})
	d := mat.NewDense(2, 2, []float64{0.9, 0.1, 0.2, 0.8})
	blocks, err := fq.NewBlocks(b1, b2, b3, b4, d)
	if err != nil {
		t.Fatalf("NewBlocks: %v", err)
	}

	flux, err := fq.NewBoundaryFlux(
		mat.NewVecDense(2, []float64{1, 0}),
		mat.NewVecDense(2, []float64{0.6, 0.4}),
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(2, []float64{0.3, 0.7}),
	)
	if err != nil {
		t.Fatalf("NewBoundaryFlux: %v", err)
	}

	mesh, err := fq.NewDGMesh([]float64{0, 1.5, 3}, 2, blocks, flux)
	if err != nil {
		t.Fatalf("NewDGMesh: %v", err)
	}
	dq, err := fq.NewDiscretisedFluidQueue(ps, mesh)
	if err != nil {
		t.Fatalf("NewDiscretisedFluidQueue: %v", err)
	}
	return dq
}

// newConservativeTestQueue builds a 3-phase, p=1 unbounded DG queue whose
// block recipes and flux vectors are chosen so that every row of the
// materialised generator sums to exactly zero: B4 = -B2 and the upper
// entry flux leg mirrors B4, B1 = -B3 and the lower entry flux leg
// mirrors B1, D is the identity (so crossing the negative/non-negative
// drift partition leaves a T_ij transfer unscaled), and both exit flux
// legs are 1 (so the mass a boundary point sends into the domain is not
// attenuated). Phase 0 has negative drift (lower member only), phase 1
// has positive drift (upper member only), phase 2 has zero drift (member
// of both boundaries).
func newConservativeTestQueue(t *testing.T) *fq.DiscretisedFluidQueue {
	t.Helper()
	rates := []float64{-2, 3, 0}
	tMat := mat.NewDense(3, 3, []float64{
		-1, 0.3, 0.7,
		0.2, -0.6, 0.4,
		0.1, 0.2, -0.3,
	})
	ps, err := fq.NewPhaseSet(rates, tMat, []bool{true, false, true}, []bool{false, true, true})
	if err != nil {
		t.Fatalf("NewPhaseSet: %v", err)
	}

	b2 := mat.NewDense(1, 1, []float64{0.4})
	b4 := mat.NewDense(1, 1, []float64{-0.4})
	b3 := mat.NewDense(1, 1, []float64{0.3})
	b1 := mat.NewDense(1, 1, []float64{-0.3})
	d := mat.NewDense(1, 1, []float64{1})
	blocks, err := fq.NewBlocks(b1, b2, b3, b4, d)
	if err != nil {
		t.Fatalf("NewBlocks: %v", err)
	}

	flux, err := fq.NewBoundaryFlux(
		mat.NewVecDense(1, []float64{-0.3}),
		mat.NewVecDense(1, []float64{1}),
		mat.NewVecDense(1, []float64{-0.4}),
		mat.NewVecDense(1, []float64{1}),
	)
	if err != nil {
		t.Fatalf("NewBoundaryFlux: %v", err)
	}

	mesh, err := fq.NewDGMesh([]float64{0, 1, 2, 3}, 1, blocks, flux)
	if err != nil {
		t.Fatalf("NewDGMesh: %v", err)
	}
	dq, err := fq.NewDiscretisedFluidQueue(ps, mesh)
	if err != nil {
		t.Fatalf("NewDiscretisedFluidQueue: %v", err)
	}
	return dq
}

// newFRAPTestQueue builds a 3-phase, 2-cell, p=2 FRAP (QBD-RAP) queue.
// low and up differ from mid so that the shared-mid-block convention
// (NewBlocksFromThree sets B2=B3=mid) is exercised distinctly from the
// DG fixtures, and the s/a exit vectors are asymmetric across basis
// entries to exercise both flux legs.
func newFRAPTestQueue(t *testing.T) *fq.DiscretisedFluidQueue {
	t.Helper()
	rates := []float64{-2, 3, 0}
	tMat := mat.NewDense(3, 3, []float64{
		-3, 2, 1,
		1, -4, 3,
		2, 1, -3,
	})
	ps, err := fq.NewPhaseSet(rates, tMat, []bool{true, false, true}, []bool{false, true, true})
	if err != nil {
		t.Fatalf("NewPhaseSet: %v", err)
	}

	low := mat.NewDense(2, 2, []float64{-1.2, 0.3, 0.2, -0.9})
	mid := mat.NewDense(2, 2, []float64{-0.8, 0.5, 0.4, -1.1})
	up := mat.NewDense(2, 2, []float64{-1.5, 0.6, 0.1, -0.7})
	d := mat.NewDense(2, 2, []float64{0.7, 0.3, 0.2, 0.8})
	s := mat.NewVecDense(2, []float64{0.6, 0.4})
	a := mat.NewVecDense(2, []float64{0.25, 0.75})

	mesh, err := fq.NewFRAPMesh([]float64{0, 1.5, 3}, 2, low, mid, up, d, s, a)
	if err != nil {
		t.Fatalf("NewFRAPMesh: %v", err)
	}
	dq, err := fq.NewDiscretisedFluidQueue(ps, mesh)
	if err != nil {
		t.Fatalf("NewDiscretisedFluidQueue: %v", err)
	}
	return dq
}

// newBoundedTestQueue is newTestQueue augmented with reflection matrices.
func newBoundedTestQueue(t *testing.T) *fq.DiscretisedFluidQueue {
	t.Helper()
	dq := newTestQueue(t)
	plwr := mat.NewDense(3, 3, []float64{
		0.5, 0.2, 0.3,
		0.1, 0.6, 0.3,
		0.2, 0.3, 0.5,
	})
	pupr := mat.NewDense(3, 3, []float64{
		0.4, 0.4, 0.2,
		0.2, 0.5, 0.3,
		0.3, 0.3, 0.4,
	})
	bounded, err := dq.Phases().WithReflection(plwr, pupr)
	if err != nil {
		t.Fatalf("WithReflection: %v", err)
	}
	out, err := fq.NewDiscretisedFluidQueue(bounded, dq.Mesh())
	if err != nil {
		t.Fatalf("NewDiscretisedFluidQueue: %v", err)
	}
	return out
}
