package solver

// improvePass performs one first-improvement scan over the 2-opt
// neighborhood of t. Candidates are visited in order i = 1..n-2,
// j = i+1..n-1 (index 0 is the fixed rotation anchor and never moves).
// The first segment reversal whose resulting tour is strictly shorter than
// length is kept, and the new length is returned with improved == true.
// If no candidate improves, t is left untouched.
//
// First-improvement is deliberate: it makes each pass cheap and leaves
// quality to the shotgun restarts. Do not replace it with a full
// best-improvement scan, which changes which local optimum a run lands in.
//
// Each candidate is evaluated by reversing in place, recomputing the full
// tour length, and undoing the reversal when it does not improve. The full
// recomputation keeps asymmetric matrices exact, where a four-edge delta
// would not account for the reversed interior arcs.
func improvePass(m *DistanceModel, t Tour, length float64) (float64, bool) {
	n := len(t)
	for i := 1; i <= n-2; i++ {
		for j := i + 1; j <= n-1; j++ {
			t.Reverse(i, j)
			candidate := TourLength(m, t)
			if candidate < length {
				return candidate, true
			}
			t.Reverse(i, j)
		}
	}
	return length, false
}
