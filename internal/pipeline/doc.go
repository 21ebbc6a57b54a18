// Package pipeline executes the trap's per-request steps in sequence.
//
// Every incoming HTTP request flows through the same ordered stages:
// resolution, depth folding, tracking, expansion, coordinate synthesis,
// rendering, the artificial delay, and hit logging. Each stage is a Step
// that mutates the shared PageRequest.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context, which matters for the delay step
// 4. Optional steps (tracking, hit log) drop out cleanly when disabled
package pipeline
