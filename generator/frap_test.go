// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestBuildAndMaterialiseFRAP builds and materialises a FRAP-scheme
// LazyGenerator end to end, exercising the shared-mid-block convention
// (NewBlocksFromThree) and the s/a flux-leg path that a DG mesh never
// takes. It checks that a FRAP and a DG mesh of identical (N,K,p)
// materialise to the same size, and that the sparse self-product B·B
// agrees with a dense reference computed directly from B.
func TestBuildAndMaterialiseFRAP(t *testing.T) {
	frapDQ := newFRAPTestQueue(t)
	frapLG, err := BuildLazyGenerator(frapDQ)
	if err != nil {
		t.Fatalf("BuildLazyGenerator (FRAP): %v", err)
	}
	frapFull := Materialise(frapLG)

	dgDQ := newTestQueue(t)
	dgLG, err := BuildLazyGenerator(dgDQ)
	if err != nil {
		t.Fatalf("BuildLazyGenerator (DG): %v", err)
	}
	dgFull := Materialise(dgLG)

	fr, fc := frapFull.Dims()
	dr, dc := dgFull.Dims()
	if fr != dr || fc != dc {
		t.Fatalf("FRAP Dims() = (%d,%d), DG Dims() = (%d,%d), want equal for identical (N,K,p)", fr, fc, dr, dc)
	}

	got := Mul(frapFull, frapFull)
	dense := frapFull.Dense()
	var wantDense mat.Dense
	wantDense.Mul(dense, dense)

	r, c := got.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if diff := got.At(i, j) - wantDense.At(i, j); diff > 1e-3 || diff < -1e-3 {
				t.Errorf("(B*B)[%d,%d] = %v, want %v within 1e-3", i, j, got.At(i, j), wantDense.At(i, j))
			}
		}
	}
}
