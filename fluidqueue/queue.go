// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluidqueue

// DiscretisedFluidQueue pairs a PhaseSet with a Mesh. It owns both; a
// LazyGenerator built over it (package generator) holds only a
// non-owning reference and must not outlive it.
type DiscretisedFluidQueue struct {
	phases *PhaseSet
	mesh   *Mesh
}

// NewDiscretisedFluidQueue validates and constructs a DiscretisedFluidQueue.
func NewDiscretisedFluidQueue(phases *PhaseSet, mesh *Mesh) (*DiscretisedFluidQueue, error) {
	const op = "NewDiscretisedFluidQueue"
	if phases == nil {
		return nil, newError(Domain, op, "phases must not be nil")
	}
	if mesh == nil {
		return nil, newError(Domain, op, "mesh must not be nil")
	}
	return &DiscretisedFluidQueue{phases: phases, mesh: mesh}, nil
}

// Phases returns the queue's phase set.
func (dq *DiscretisedFluidQueue) Phases() *PhaseSet { return dq.phases }

// Mesh returns the queue's mesh.
func (dq *DiscretisedFluidQueue) Mesh() *Mesh { return dq.mesh }

// N returns the number of phases.
func (dq *DiscretisedFluidQueue) N() int { return dq.phases.N() }

// K returns the number of mesh cells.
func (dq *DiscretisedFluidQueue) K() int { return dq.mesh.NumCells() }

// P returns the per-cell basis count.
func (dq *DiscretisedFluidQueue) P() int { return dq.mesh.NumBasesPerCell() }

// Size returns M = N₋ + N·K·p + N₊, the dimension of the discretised
// generator for a DG or FRAP mesh. It is not meaningful for an FV mesh,
// whose direct generator has dimension N·K (see generator.BuildFullGenerator).
func (dq *DiscretisedFluidQueue) Size() int {
	return dq.phases.NumLowerBoundary() + dq.N()*dq.K()*dq.P() + dq.phases.NumUpperBoundary()
}
