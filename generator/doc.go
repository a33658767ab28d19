// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package generator builds, represents, and multiplies the discretised
// fluid-queue generator operator B (package fluidqueue supplies the
// model it is built from).
//
// Two representations are provided. LazyGenerator stores only the small
// per-cell block recipes and applies B through a structured matvec
// kernel (MulLeft, MulRight) rather than as a dense M×M matrix. Per row or
// column of the operand the cost is O(N·K·p²) for the same-phase terms
// plus O(N²·K·p²) in the worst case for the cross-phase terms, which visit
// every ordered phase pair with a non-zero T_ij; a dense product costs
// O(N²K²p²). FullGenerator materialises B into a sparse matrix
// (package internal/csc) for algorithms, such as eigendecomposition or
// stationary solves, that need direct matrix access. The lazy form
// remains the authoritative definition and is what a time-integrator
// stepping loop should consume directly.
package generator // import "github.com/angus-lewis/fluidqueues/generator"
