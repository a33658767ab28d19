// Copyright ©2026 The fluidqueues Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fluidqueue provides the data model for a Markov-modulated fluid
// queue: a finite phase set evolving under a continuous-time generator T,
// a deterministic level drifting at phase-dependent rate, and the mesh over
// which that level is discretised.
//
// The types in this package are immutable after construction. They are
// consumed by package generator, which builds and multiplies the
// discretised generator operator B.
package fluidqueue // import "github.com/angus-lewis/fluidqueues/fluidqueue"
