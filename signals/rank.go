package signals

import "sort"

// DefaultTopN is how many proposals a run selects when not configured.
const DefaultTopN = 5

// Rank orders the pool by score, then confidence, both descending, and
// returns the first n. Equal (score, confidence) pairs keep their discovery
// order. The pool itself is left untouched.
func Rank(pool []Signal, n int) []Signal {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	sorted := make([]Signal, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
