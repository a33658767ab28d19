// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package generator

import (
	fq "github.com/angus-lewis/fluidqueues/fluidqueue"
)

// BuildLazyGenerator constructs the LazyGenerator for dq, dispatching on
// dq.Mesh().Scheme(). It returns an Unsupported error for any scheme
// other than DG or FRAP (in particular, FV: see BuildFullGenerator for
// the FV fallback).
func BuildLazyGenerator(dq *fq.DiscretisedFluidQueue) (*LazyGenerator, error) {
	const op = "BuildLazyGenerator"
	scheme := dq.Mesh().Scheme()
	if scheme != fq.DG && scheme != fq.FRAP {
		return nil, unsupportedSchemeError(op, scheme)
	}
	blocks := dq.Mesh().Blocks()
	flux := dq.Mesh().Flux()
	if blocks == nil || flux == nil {
		return nil, &fq.Error{Kind: fq.Domain, Op: op, Msg: "mesh is missing block recipes or boundary flux"}
	}
	lg := &LazyGenerator{dq: dq, blocks: blocks, flux: flux}
	if dq.Mesh().Uniform() {
		lg.uniform = true
		lg.diagCache = buildDiagCache(dq, blocks)
	}
	return lg, nil
}

// BuildFullGenerator returns the materialised generator for dq. It is
// equal to Materialise(BuildLazyGenerator(dq)) for DG and FRAP meshes. For
// an FV mesh, where BuildLazyGenerator reports Unsupported,
// BuildFullGenerator instead assembles the direct first-order
// finite-volume generator: smaller (dimension N·K, no boundary point
// masses) and built without ever constructing a LazyGenerator.
func BuildFullGenerator(dq *fq.DiscretisedFluidQueue) (*FullGenerator, error) {
	const op = "BuildFullGenerator"
	lg, err := BuildLazyGenerator(dq)
	if err == nil {
		return Materialise(lg), nil
	}
	var fqErr *fq.Error
	if e, ok := err.(*fq.Error); ok {
		fqErr = e
	}
	if fqErr == nil || fqErr.Kind != fq.Unsupported {
		return nil, err
	}
	if dq.Mesh().Scheme() != fq.FV {
		return nil, err
	}
	return buildFVGenerator(dq), nil
}
