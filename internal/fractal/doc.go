// Package fractal implements the deterministic page-generation engine at the
// heart of Tsukuyomi.
//
// The engine produces an infinite-looking directed link graph from O(1)
// state. Every page is identified by an opaque token derived one-way from its
// parent token, a secret salt, a branch index, and a depth counter. Child
// tokens are recomputed on demand, so nothing is ever stored. Depths beyond a
// configured threshold fold onto a small repeating set, which turns unbounded
// traversal into a finite cycle that a crawler cannot distinguish from normal
// graph structure by inspecting content.
//
// The components are:
//   - Digest / token encoding: one-way SHA3-256 identity derivation
//   - Deriver: canonical token derivation from parent/salt/index/depth
//   - Fold: depth cycle-folding
//   - Expander: fixed fan-out child token generation
//   - Synthesizer: bounded pseudo-fractal display coordinates
//   - DelayPolicy: per-request artificial response delay
//
// All of these are pure functions of their inputs and configuration. They
// require no synchronization and may run fully in parallel across requests.
package fractal
