package solver

// TourLength computes the total length of the cyclic tour under the model:
// the sum of cost(t[k], t[k+1]) for all k, including the closing edge from
// the last node back to the first. A single-node tour costs its self-loop,
// which a zero-diagonal matrix makes 0.
func TourLength(m *DistanceModel, t Tour) float64 {
	n := len(t)
	length := 0.0
	for k := 0; k < n; k++ {
		length += m.Cost(t[k], t[(k+1)%n])
	}
	return length
}
