package alignment

import (
	"errors"

	"github.com/aria-lang/mismatch-go/internal/stats"
)

// ErrInvalidClusterCount is returned for a cluster count below 1.
var ErrInvalidClusterCount = errors.New("alignment: cluster count must be at least 1")

// ClusterMismatches splits mask into windows of ceil(len(mask)/k) columns and
// counts the mismatches in each. Only complete windows are reported: a
// shorter trailing window is dropped, so the histogram has
// len(mask) / ceil(len(mask)/k) entries.
func ClusterMismatches(mask []bool, k int) ([]int, error) {
	if k < 1 {
		return nil, ErrInvalidClusterCount
	}
	if len(mask) == 0 {
		return []int{}, nil
	}

	size := (len(mask) + k - 1) / k
	windows := len(mask) / size
	hist := make([]int, windows)
	for w := 0; w < windows; w++ {
		for _, match := range mask[w*size : (w+1)*size] {
			if !match {
				hist[w]++
			}
		}
	}
	return hist, nil
}

// ClusteredMismatches returns the mismatch histogram over k windows.
// See ClusterMismatches for the window rule.
func (r *Result) ClusteredMismatches(k int) ([]int, error) {
	return ClusterMismatches(r.MatchMask(), k)
}

// ClusteredMismatchVariance returns the population variance of
// ClusteredMismatches(k). An empty alignment has variance 0.
func (r *Result) ClusteredMismatchVariance(k int) (float64, error) {
	hist, err := r.ClusteredMismatches(k)
	if err != nil {
		return 0, err
	}
	if len(hist) == 0 {
		return 0, nil
	}
	return stats.PopulationVariance(hist)
}

// LargestMismatch returns the start column and length of the longest run of
// consecutive mismatches. The earliest run wins a tie. When the alignment has
// no mismatch it returns (-1, 0).
func (r *Result) LargestMismatch() (int, int) {
	bestStart, bestLen := -1, 0
	runStart := -1

	for i := 0; i <= len(r.alignedA); i++ {
		mismatch := i < len(r.alignedA) && r.alignedA[i] != r.alignedB[i]
		if mismatch {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			if i-runStart > bestLen {
				bestStart, bestLen = runStart, i-runStart
			}
			runStart = -1
		}
	}
	return bestStart, bestLen
}
