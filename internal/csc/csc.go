// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package csc provides a compressed-sparse-column matrix with the small
// set of operations FullGenerator needs (materialisation, arithmetic,
// element access). It promotes the accumulate-then-query pattern of
// gonum.org/v1/gonum/linsolve/internal/triplet, an internal,
// one-directional (MulVecTo only) triplet matrix, to an exported type
// with row/column access and the +, -, * operations a materialised
// generator requires, since the gonum module has no exported sparse
// matrix type.
package csc

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is an immutable compressed-sparse-column matrix.
type Matrix struct {
	r, c   int
	colPtr []int // len c+1
	rowIdx []int // len nnz, sorted ascending within each column
	data   []float64
}

var (
	_ mat.Matrix = (*Matrix)(nil)
	_ mat.Matrix = transpose{}
)

// Builder accumulates (row, col, value) triplets and compresses them into
// a Matrix, summing duplicate entries, the same accumulation discipline
// as triplet.Matrix.Append, generalised to support column compression.
type Builder struct {
	r, c int
	rows []int
	cols []int
	vals []float64
}

// NewBuilder returns a Builder for an r×c matrix.
func NewBuilder(r, c int) *Builder {
	if r <= 0 || c <= 0 {
		panic("csc: invalid shape")
	}
	return &Builder{r: r, c: c}
}

// Append records a non-zero contribution at (i,j). Zero values are
// dropped; duplicate (i,j) pairs are summed at Build time.
func (b *Builder) Append(i, j int, v float64) {
	if i < 0 || b.r <= i {
		panic("csc: row index out of range")
	}
	if j < 0 || b.c <= j {
		panic("csc: column index out of range")
	}
	if v == 0 {
		return
	}
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)
}

// Build compresses the accumulated triplets into a Matrix.
func (b *Builder) Build() *Matrix {
	n := len(b.vals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool {
		ox, oy := order[x], order[y]
		if b.cols[ox] != b.cols[oy] {
			return b.cols[ox] < b.cols[oy]
		}
		return b.rows[ox] < b.rows[oy]
	})

	colPtr := make([]int, b.c+1)
	var rowIdx []int
	var data []float64

	i := 0
	for col := 0; col < b.c; col++ {
		colPtr[col] = len(rowIdx)
		for i < n && b.cols[order[i]] == col {
			row := b.rows[order[i]]
			sum := 0.0
			for i < n && b.cols[order[i]] == col && b.rows[order[i]] == row {
				sum += b.vals[order[i]]
				i++
			}
			if sum != 0 {
				rowIdx = append(rowIdx, row)
				data = append(data, sum)
			}
		}
	}
	colPtr[b.c] = len(rowIdx)

	return &Matrix{r: b.r, c: b.c, colPtr: colPtr, rowIdx: rowIdx, data: data}
}

// Identity returns the n×n sparse identity matrix.
func Identity(n int) *Matrix {
	b := NewBuilder(n, n)
	for i := 0; i < n; i++ {
		b.Append(i, i, 1)
	}
	return b.Build()
}

// Dims returns the matrix's dimensions, satisfying mat.Matrix.
func (m *Matrix) Dims() (r, c int) { return m.r, m.c }

// At returns entry (i,j), satisfying mat.Matrix. It is O(log nnz_col).
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || m.r <= i || j < 0 || m.c <= j {
		panic("csc: index out of range")
	}
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	k := sort.Search(hi-lo, func(x int) bool { return m.rowIdx[lo+x] >= i }) + lo
	if k < hi && m.rowIdx[k] == i {
		return m.data[k]
	}
	return 0
}

// T returns the transpose of m as a mat.Matrix view (no copy).
func (m *Matrix) T() mat.Matrix { return transpose{m} }

type transpose struct{ m *Matrix }

func (t transpose) Dims() (r, c int) { c, r = t.m.Dims(); return r, c }
func (t transpose) At(i, j int) float64 { return t.m.At(j, i) }
func (t transpose) T() mat.Matrix       { return t.m }

// NNZ returns the number of stored (nominally non-zero) entries.
func (m *Matrix) NNZ() int { return len(m.data) }

// RowSums returns the sum of each row, used to check the conservation
// property (row sums of the discretised generator are zero).
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, m.r)
	for col := 0; col < m.c; col++ {
		for k := m.colPtr[col]; k < m.colPtr[col+1]; k++ {
			sums[m.rowIdx[k]] += m.data[k]
		}
	}
	return sums
}

// Dense returns a dense copy of m.
func (m *Matrix) Dense() *mat.Dense {
	d := mat.NewDense(m.r, m.c, nil)
	for col := 0; col < m.c; col++ {
		for k := m.colPtr[col]; k < m.colPtr[col+1]; k++ {
			d.Set(m.rowIdx[k], col, m.data[k])
		}
	}
	return d
}

// Scale returns a new matrix with every entry multiplied by alpha.
func (m *Matrix) Scale(alpha float64) *Matrix {
	data := append([]float64(nil), m.data...)
	floats.Scale(alpha, data)
	return &Matrix{
		r: m.r, c: m.c,
		colPtr: append([]int(nil), m.colPtr...),
		rowIdx: append([]int(nil), m.rowIdx...),
		data:   data,
	}
}

// Add returns a+b.
func Add(a, b *Matrix) *Matrix { return combine(a, b, 1) }

// Sub returns a-b.
func Sub(a, b *Matrix) *Matrix { return combine(a, b, -1) }

func combine(a, b *Matrix, bSign float64) *Matrix {
	if a.r != b.r || a.c != b.c {
		panic("csc: dimension mismatch")
	}
	bld := NewBuilder(a.r, a.c)
	for col := 0; col < a.c; col++ {
		for k := a.colPtr[col]; k < a.colPtr[col+1]; k++ {
			bld.Append(a.rowIdx[k], col, a.data[k])
		}
		for k := b.colPtr[col]; k < b.colPtr[col+1]; k++ {
			bld.Append(b.rowIdx[k], col, bSign*b.data[k])
		}
	}
	return bld.Build()
}

// Mul returns the matrix product a*b.
func Mul(a, b *Matrix) *Matrix {
	if a.c != b.r {
		panic("csc: dimension mismatch")
	}
	bld := NewBuilder(a.r, b.c)
	acc := make([]float64, a.r)
	touched := make([]int, 0, a.r)
	for col := 0; col < b.c; col++ {
		touched = touched[:0]
		for kb := b.colPtr[col]; kb < b.colPtr[col+1]; kb++ {
			inner := b.rowIdx[kb]
			vb := b.data[kb]
			for ka := a.colPtr[inner]; ka < a.colPtr[inner+1]; ka++ {
				row := a.rowIdx[ka]
				if acc[row] == 0 {
					touched = append(touched, row)
				}
				acc[row] += a.data[ka] * vb
			}
		}
		for _, row := range touched {
			bld.Append(row, col, acc[row])
			acc[row] = 0
		}
	}
	return bld.Build()
}

// EqualApprox reports whether a and b have the same shape and all entries
// equal to within tol.
func EqualApprox(a, b *Matrix, tol float64) bool {
	if a.r != b.r || a.c != b.c {
		return false
	}
	for j := 0; j < a.c; j++ {
		for i := 0; i < a.r; i++ {
			if !floats.EqualWithinAbsOrRel(a.At(i, j), b.At(i, j), tol, tol) {
				return false
			}
		}
	}
	return true
}
