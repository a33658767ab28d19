// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"testing"

	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func newFVQueue(t *testing.T) *fq.DiscretisedFluidQueue {
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
	mesh, err := fq.NewFVMesh([]float64{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("NewFVMesh: %v", err)
	}
	dq, err := fq.NewDiscretisedFluidQueue(ps, mesh)
	if err != nil {
		t.Fatalf("NewDiscretisedFluidQueue: %v", err)
	}
	return dq
}

func TestBuildLazyGeneratorRejectsFV(t *testing.T) {
	dq := newFVQueue(t)
	_, err := BuildLazyGenerator(dq)
	if err == nil {
		t.Fatal("BuildLazyGenerator accepted an FV mesh, want Unsupported error")
	}
	fqErr, ok := err.(*fq.Error)
	if !ok {
		t.Fatalf("error is %T, want *fluidqueue.Error", err)
	}
	if fqErr.Kind != fq.Unsupported {
		t.Errorf("error kind = %v, want Unsupported", fqErr.Kind)
	}
}

func TestBuildFullGeneratorFallsBackForFV(t *testing.T) {
	dq := newFVQueue(t)
	full, err := BuildFullGenerator(dq)
	if err != nil {
		t.Fatalf("BuildFullGenerator: %v", err)
	}
	wantSize := dq.N() * dq.K()
	r, c := full.Dims()
	if r != wantSize || c != wantSize {
		t.Fatalf("Dims() = (%d,%d), want (%d,%d)", r, c, wantSize, wantSize)
	}

	// Interior rows (not at an absorbing boundary cell) conserve mass;
	// rows at an absorbing boundary do not, since mass leaves the system
	// there.
	sums := full.RowSums()
	ps := dq.Phases()
	k := dq.Mesh().NumCells()
	for i := 0; i < dq.N(); i++ {
		for cell := 0; cell < k; cell++ {
			row := i*k + cell
			c := ps.Rate(i)
			absorbing := (c > 0 && cell == k-1) || (c < 0 && cell == 0)
			if absorbing {
				continue
			}
			if !floats.EqualWithinAbs(sums[row], 0, 1e-9) {
				t.Errorf("row %d (phase %d, cell %d) sums to %v, want 0", row, i, cell, sums[row])
			}
		}
	}
}

func TestMaterialiseConservesForDG(t *testing.T) {
	dq := newConservativeTestQueue(t)
	lg, err := BuildLazyGenerator(dq)
	if err != nil {
		t.Fatalf("BuildLazyGenerator: %v", err)
	}
	full := Materialise(lg)
	sums := full.RowSums()
	const tol = 1.5e-8 // sqrt(machine epsilon)
	for row, s := range sums {
		if !floats.EqualWithinAbs(s, 0, tol) {
			t.Errorf("row %d sums to %v, want 0 within %v", row, s, tol)
		}
	}
}

func TestBuildFullGeneratorMatchesMaterialiseForDG(t *testing.T) {
	dq := newTestQueue(t)
	lg, err := BuildLazyGenerator(dq)
	if err != nil {
		t.Fatalf("BuildLazyGenerator: %v", err)
	}
	want := Materialise(lg)
	got, err := BuildFullGenerator(dq)
	if err != nil {
		t.Fatalf("BuildFullGenerator: %v", err)
	}
	if !EqualApprox(got, want, 1e-9) {
		t.Error("BuildFullGenerator(dq) != Materialise(BuildLazyGenerator(dq)) for a DG mesh")
	}
}
