// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package csc

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestBuilderSumsDuplicates(t *testing.T) {
	b := NewBuilder(2, 2)
	b.Append(0, 0, 1)
	b.Append(0, 0, 2)
	b.Append(1, 1, -3)
	m := b.Build()
	if got := m.At(0, 0); got != 3 {
		t.Errorf("At(0,0) = %v, want 3", got)
	}
	if got := m.At(1, 1); got != -3 {
		t.Errorf("At(1,1) = %v, want -3", got)
	}
	if got := m.NNZ(); got != 2 {
		t.Errorf("NNZ() = %d, want 2", got)
	}
}

func TestBuilderDropsExactZero(t *testing.T) {
	b := NewBuilder(2, 2)
	b.Append(0, 0, 1)
	b.Append(0, 0, -1)
	m := b.Build()
	if got := m.NNZ(); got != 0 {
		t.Errorf("NNZ() = %d, want 0 after cancelling append", got)
	}
	if got := m.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %v, want 0", got)
	}
}

func TestIdentity(t *testing.T) {
	m := Identity(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if got := m.At(i, j); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestTranspose(t *testing.T) {
	b := NewBuilder(2, 3)
	b.Append(0, 2, 5)
	b.Append(1, 0, -2)
	m := b.Build()
	tr := m.T()
	r, c := tr.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("T().Dims() = (%d,%d), want (3,2)", r, c)
	}
	if got := tr.At(2, 0); got != 5 {
		t.Errorf("T().At(2,0) = %v, want 5", got)
	}
	if got := tr.At(0, 1); got != -2 {
		t.Errorf("T().At(0,1) = %v, want -2", got)
	}
}

func TestRowSums(t *testing.T) {
	b := NewBuilder(2, 2)
	b.Append(0, 0, -1)
	b.Append(0, 1, 1)
	b.Append(1, 0, 2)
	b.Append(1, 1, -2)
	sums := b.Build().RowSums()
	for i, s := range sums {
		if s != 0 {
			t.Errorf("row %d sums to %v, want 0", i, s)
		}
	}
}

func TestAddSubMul(t *testing.T) {
	a := NewBuilder(2, 2)
	a.Append(0, 0, 1)
	a.Append(1, 1, 2)
	ma := a.Build()

	b := NewBuilder(2, 2)
	b.Append(0, 0, 3)
	b.Append(0, 1, 1)
	mb := b.Build()

	sum := Add(ma, mb)
	if got := sum.At(0, 0); got != 4 {
		t.Errorf("Add At(0,0) = %v, want 4", got)
	}
	if got := sum.At(0, 1); got != 1 {
		t.Errorf("Add At(0,1) = %v, want 1", got)
	}

	diff := Sub(ma, mb)
	if got := diff.At(0, 0); got != -2 {
		t.Errorf("Sub At(0,0) = %v, want -2", got)
	}

	prod := Mul(ma, mb)
	// ma = diag(1,2), mb row0 = [3,1], row1 = [0,0]
	// prod = ma*mb: row0 = 1*[3,1] = [3,1]; row1 = 2*[0,0] = [0,0]
	if got := prod.At(0, 0); got != 3 {
		t.Errorf("Mul At(0,0) = %v, want 3", got)
	}
	if got := prod.At(0, 1); got != 1 {
		t.Errorf("Mul At(0,1) = %v, want 1", got)
	}
	if got := prod.At(1, 0); got != 0 {
		t.Errorf("Mul At(1,0) = %v, want 0", got)
	}
}

func TestEqualApprox(t *testing.T) {
	a := NewBuilder(1, 1)
	a.Append(0, 0, 1.0000000001)
	b := NewBuilder(1, 1)
	b.Append(0, 0, 1.0)
	if !EqualApprox(a.Build(), b.Build(), 1e-6) {
		t.Error("EqualApprox = false, want true within tolerance")
	}
	if EqualApprox(a.Build(), b.Build(), 1e-12) {
		t.Error("EqualApprox = true, want false below tolerance")
	}
}

func TestDenseRoundTrip(t *testing.T) {
	b := NewBuilder(2, 2)
	b.Append(0, 1, 4)
	b.Append(1, 0, -4)
	m := b.Build()
	d := m.Dense()
	want := mat.NewDense(2, 2, []float64{0, 4, -4, 0})
	if !mat.Equal(d, want) {
		t.Errorf("Dense() = %v, want %v", mat.Formatted(d), mat.Formatted(want))
	}
}
