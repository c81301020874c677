// Package backend defines the contract between the input/tracking core and
// the modern VR runtime that performs the actual device I/O.
//
// The core consumes three things from the runtime (see [Runtime]):
//
//   - per-action state queries, restricted by device role
//   - per-entity pose queries, given a reference space and a time
//   - device attach/detach events
//
// It also defines the shared vocabulary used across the core: action types,
// device classes and roles, tracking origins, and pose samples with
// validity flags. Everything here is transport-agnostic; a concrete
// implementation adapts a real runtime binding, and the test harness
// provides a scriptable fake.
package backend
