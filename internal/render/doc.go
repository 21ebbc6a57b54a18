// Package render produces the trap's outward-facing content.
//
// Everything here is deterministic formatting: given the same view, a
// renderer emits byte-identical output on every call. Pages therefore carry
// no timestamps, counters, or random values; whatever looks generated (the
// narrative, the computation figures) is derived from the page token digest.
//
// The renderer never sees the salt or the raw configuration. Callers hand it
// tokens, depths, and coordinates that were already computed upstream.
package render
