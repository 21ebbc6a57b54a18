// Package model defines the core data structures used throughout Tsukuyomi.
//
// This package contains the following main types:
//   - Token: Opaque identifier for a generated trap page
//   - Coordinate: Bounded pseudo-fractal display coordinate
//   - PageRequest: Per-request state flowing through the pipeline
//   - VisitRecord: Per-client visit history kept by the tracker
//   - TrapReport: Operator-facing summary built from the hit log
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (fractal, pipeline, tracker, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
