// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluidqueue

import "gonum.org/v1/gonum/mat"

// Scheme tags the spatial discretisation used on each cell of a Mesh.
// Scheme dispatch is a closed, statically known set, a tagged value
// rather than an interface, since every code path is known in advance.
type Scheme int

const (
	// DG is the discontinuous-Galerkin polynomial discretisation.
	DG Scheme = iota
	// FRAP is the matrix-exponential (QBD-RAP) discretisation.
	FRAP
	// FV is a first-order finite-volume discretisation. It has no
	// lazy-generator construction (see BuildLazyGenerator); it is
	// supported only as a direct fallback inside BuildFullGenerator.
	FV
)

func (s Scheme) String() string {
	switch s {
	case DG:
		return "DG"
	case FRAP:
		return "FRAP"
	case FV:
		return "FV"
	default:
		return "unknown scheme"
	}
}

// Blocks holds the four small p×p block recipes of the lazy generator
// (lower-diagonal negative-phase B1, diagonal positive-phase B2, diagonal
// negative-phase B3, upper-diagonal positive-phase B4) and the
// phase-membership-change matrix D, also p×p.
type Blocks struct {
	B1, B2, B3, B4 *mat.Dense
	D              *mat.Dense
}

// NewBlocks validates that all five matrices are square and of equal size
// and returns the owning Blocks value.
func NewBlocks(b1, b2, b3, b4, d *mat.Dense) (*Blocks, error) {
	const op = "NewBlocks"
	named := map[string]*mat.Dense{"B1": b1, "B2": b2, "B3": b3, "B4": b4, "D": d}
	p := -1
	for _, name := range []string{"B1", "B2", "B3", "B4", "D"} {
		m := named[name]
		r, c := m.Dims()
		if r != c {
			return nil, newError(Domain, op, "%s must be square, got %d×%d", name, r, c)
		}
		if p == -1 {
			p = r
		} else if r != p {
			return nil, newError(ShapeMismatch, op, "%s is %d×%d, want %d×%d", name, r, r, p, p)
		}
	}
	return &Blocks{
		B1: mat.DenseCopyOf(b1),
		B2: mat.DenseCopyOf(b2),
		B3: mat.DenseCopyOf(b3),
		B4: mat.DenseCopyOf(b4),
		D:  mat.DenseCopyOf(d),
	}, nil
}

// NewBlocksFromThree is the FRAP convenience constructor: it expands the
// three blocks (low, mid, up) into the canonical four by sharing mid
// between the positive- and negative-diagonal roles (B2 = B3 = mid),
// since a QBD-RAP cell's within-cell generator does not distinguish drift
// sign the way a DG mass/stiffness pair does.
func NewBlocksFromThree(low, mid, up, d *mat.Dense) (*Blocks, error) {
	return NewBlocks(low, mid, mid, up, d)
}

// FluxPair is the pair of basis-evaluation vectors, each of length p, that
// describe how mass flows between a boundary point mass and the
// neighbouring cell's basis coefficients: In for interior→boundary flux,
// Out for boundary→interior flux.
type FluxPair struct {
	In, Out *mat.VecDense
}

// BoundaryFlux holds the lower- and upper-boundary FluxPairs.
type BoundaryFlux struct {
	Lower, Upper FluxPair
}

// NewBoundaryFlux validates that the four vectors share a common length p
// and returns the owning BoundaryFlux.
func NewBoundaryFlux(lowerIn, lowerOut, upperIn, upperOut *mat.VecDense) (*BoundaryFlux, error) {
	const op = "NewBoundaryFlux"
	named := map[string]*mat.VecDense{
		"lowerIn": lowerIn, "lowerOut": lowerOut,
		"upperIn": upperIn, "upperOut": upperOut,
	}
	p := -1
	for _, name := range []string{"lowerIn", "lowerOut", "upperIn", "upperOut"} {
		v := named[name]
		if p == -1 {
			p = v.Len()
		} else if v.Len() != p {
			return nil, newError(ShapeMismatch, op, "%s has length %d, want %d", name, v.Len(), p)
		}
	}
	return &BoundaryFlux{
		Lower: FluxPair{In: mat.VecDenseCopyOf(lowerIn), Out: mat.VecDenseCopyOf(lowerOut)},
		Upper: FluxPair{In: mat.VecDenseCopyOf(upperIn), Out: mat.VecDenseCopyOf(upperOut)},
	}, nil
}

// Mesh is a strictly increasing sequence of K+1 nodes defining K cells,
// together with a per-cell basis count p and the scheme-specific block
// recipes that a DG or FRAP discretisation contributes. FV meshes carry
// only the nodes; Blocks and Flux are nil and BuildLazyGenerator refuses
// them with Unsupported.
type Mesh struct {
	nodes  []float64
	p      int
	scheme Scheme
	blocks *Blocks
	flux   *BoundaryFlux
}

func newMesh(op string, nodes []float64, p int, scheme Scheme, blocks *Blocks, flux *BoundaryFlux) (*Mesh, error) {
	if len(nodes) < 2 {
		return nil, newError(Domain, op, "mesh must have at least one cell (2 nodes), got %d", len(nodes))
	}
	for k := 1; k < len(nodes); k++ {
		if nodes[k] <= nodes[k-1] {
			return nil, newError(Domain, op, "nodes must be strictly increasing: node %d (%g) <= node %d (%g)", k, nodes[k], k-1, nodes[k-1])
		}
	}
	if blocks != nil {
		if bp, _ := blocks.B1.Dims(); bp != p {
			return nil, newError(ShapeMismatch, op, "blocks are %d×%d, want p=%d", bp, bp, p)
		}
	}
	if flux != nil && flux.Lower.In.Len() != p {
		return nil, newError(ShapeMismatch, op, "boundary flux vectors have length %d, want p=%d", flux.Lower.In.Len(), p)
	}
	return &Mesh{
		nodes:  append([]float64(nil), nodes...),
		p:      p,
		scheme: scheme,
		blocks: blocks,
		flux:   flux,
	}, nil
}

// NewDGMesh constructs a DG mesh from already-assembled block recipes and
// boundary flux vectors. Producing these from a polynomial basis and
// quadrature rule is the concern of an external basis-construction package,
// not this one.
func NewDGMesh(nodes []float64, p int, blocks *Blocks, flux *BoundaryFlux) (*Mesh, error) {
	const op = "NewDGMesh"
	if p < 1 {
		return nil, newError(Domain, op, "p must be >= 1, got %d", p)
	}
	return newMesh(op, nodes, p, DG, blocks, flux)
}

// NewFRAPMesh constructs a FRAP (QBD-RAP) mesh from the three block
// recipes (low, mid, up) and reflection matrix d supplied by the external
// matrix-exponential library, plus the renewal process's down- and
// up-exit vectors s and a.
//
// This implementation treats s as both legs (In and Out) of the lower
// boundary flux, and a as both legs of the upper boundary flux. A single
// matrix-exponential renewal process has one exit distribution per
// direction, so its entry and exit vectors coincide.
func NewFRAPMesh(nodes []float64, p int, low, mid, up, d *mat.Dense, s, a *mat.VecDense) (*Mesh, error) {
	const op = "NewFRAPMesh"
	if p < 1 {
		return nil, newError(Domain, op, "p must be >= 1, got %d", p)
	}
	blocks, err := NewBlocksFromThree(low, mid, up, d)
	if err != nil {
		return nil, err
	}
	flux, err := NewBoundaryFlux(s, s, a, a)
	if err != nil {
		return nil, err
	}
	return newMesh(op, nodes, p, FRAP, blocks, flux)
}

// NewFVMesh constructs a finite-volume mesh: cells only, no basis
// dimension. It is accepted only by BuildFullGenerator's direct fallback
// path, never by BuildLazyGenerator.
func NewFVMesh(nodes []float64) (*Mesh, error) {
	return newMesh("NewFVMesh", nodes, 1, FV, nil, nil)
}

// NumCells returns K, the number of mesh cells.
func (m *Mesh) NumCells() int { return len(m.nodes) - 1 }

// NumBasesPerCell returns p.
func (m *Mesh) NumBasesPerCell() int { return m.p }

// CellWidth returns Δ_k for 0-indexed cell k.
func (m *Mesh) CellWidth(k int) float64 { return m.nodes[k+1] - m.nodes[k] }

// Scheme returns the mesh's discretisation scheme tag.
func (m *Mesh) Scheme() Scheme { return m.scheme }

// Blocks returns the mesh's block recipes, or nil for an FV mesh.
func (m *Mesh) Blocks() *Blocks { return m.blocks }

// Flux returns the mesh's boundary flux vectors, or nil for an FV mesh.
func (m *Mesh) Flux() *BoundaryFlux { return m.flux }

// Uniform reports whether every cell has the same width, to within a
// relative tolerance of 1e-12. The structured kernel (package generator)
// uses this to precompute a shared per-phase diagonal block once instead
// of once per cell.
func (m *Mesh) Uniform() bool {
	if m.NumCells() <= 1 {
		return true
	}
	d0 := m.CellWidth(0)
	for k := 1; k < m.NumCells(); k++ {
		if dk := m.CellWidth(k); abs(dk-d0) > 1e-12*d0 {
			return false
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
