package fractal

// Fold maps a raw traversal depth onto its effective depth.
//
// Depths at or below the threshold pass through unchanged. Depths beyond it
// land on cycleLength distinct values starting at the threshold:
//
//	threshold + ((depth - threshold - 1) mod cycleLength)
//
// so the set of effective depths ever used is finite and bounded by
// threshold + cycleLength. Raw depth (and therefore the URL) keeps growing
// without bound while generation repeats, which is what folds a deep
// traversal into a cycle the crawler cannot detect from content alone.
//
// Edge cases: threshold 0 folds from the very first level; cycleLength 1
// degenerates to a self-loop. A cycleLength below 1 is a configuration bug
// and is clamped to 1; negative depth is clamped to 0.
func Fold(depth, threshold, cycleLength int) int {
	if depth < 0 {
		depth = 0
	}
	if threshold < 0 {
		threshold = 0
	}
	if cycleLength < 1 {
		cycleLength = 1
	}
	if depth <= threshold {
		return depth
	}
	return threshold + ((depth - threshold - 1) % cycleLength)
}
