package alignment

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShapeMismatch is returned when the two aligned strings differ in length.
var ErrShapeMismatch = errors.New("alignment: aligned sequences must have equal length")

// Result is an immutable global alignment: two equal-length strings over the
// input alphabet extended with GapMarker, plus the optimal score.
// Every statistic is computed on demand from the two strings.
type Result struct {
	alignedA string
	alignedB string
	score    int
}

// NewResult creates a result, enforcing the equal-length invariant.
func NewResult(alignedA, alignedB string, score int) (*Result, error) {
	if len(alignedA) != len(alignedB) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(alignedA), len(alignedB))
	}
	return &Result{alignedA: alignedA, alignedB: alignedB, score: score}, nil
}

// AlignedA returns the aligned form of the first sequence.
func (r *Result) AlignedA() string { return r.alignedA }

// AlignedB returns the aligned form of the second sequence.
func (r *Result) AlignedB() string { return r.alignedB }

// Score returns the optimal alignment score.
func (r *Result) Score() int { return r.score }

// Length returns the number of alignment columns.
func (r *Result) Length() int {
	return len(r.alignedA)
}

// MatchMask reports, per column, whether both rows hold the same symbol.
// A gap facing a symbol is a mismatch.
func (r *Result) MatchMask() []bool {
	mask := make([]bool, len(r.alignedA))
	for i := range mask {
		mask[i] = r.alignedA[i] == r.alignedB[i]
	}
	return mask
}

// MatchCount returns the number of matching columns.
func (r *Result) MatchCount() int {
	count := 0
	for i := 0; i < len(r.alignedA); i++ {
		if r.alignedA[i] == r.alignedB[i] {
			count++
		}
	}
	return count
}

// HammingDistance returns Length() - MatchCount().
func (r *Result) HammingDistance() int {
	return r.Length() - r.MatchCount()
}

// PercentSimilarity returns 1 - HammingDistance/Length, or 0 for an empty alignment.
func (r *Result) PercentSimilarity() float64 {
	if r.Length() == 0 {
		return 0
	}
	return 1 - float64(r.HammingDistance())/float64(r.Length())
}

// GapsA returns the number of gaps in the first row.
func (r *Result) GapsA() int {
	return strings.Count(r.alignedA, string(GapMarker))
}

// GapsB returns the number of gaps in the second row.
func (r *Result) GapsB() int {
	return strings.Count(r.alignedB, string(GapMarker))
}

// ToCIGAR generates a CIGAR string: M match, X mismatch, I gap in the first
// row, D gap in the second row.
func (r *Result) ToCIGAR() string {
	if len(r.alignedA) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(r.alignedA); i++ {
		var op byte
		switch {
		case r.alignedA[i] == GapMarker:
			op = 'I'
		case r.alignedB[i] == GapMarker:
			op = 'D'
		case r.alignedA[i] == r.alignedB[i]:
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}
	fmt.Fprintf(&cigar, "%d%c", count, currentOp)

	return cigar.String()
}

// TrimIndels drops every column holding a gap in either row and then cuts
// both rows down to whole codons. The result is ready for dN/dS counting.
func (r *Result) TrimIndels() (string, string) {
	var a, b strings.Builder
	for i := 0; i < len(r.alignedA); i++ {
		if r.alignedA[i] == GapMarker || r.alignedB[i] == GapMarker {
			continue
		}
		a.WriteByte(r.alignedA[i])
		b.WriteByte(r.alignedB[i])
	}

	n := a.Len() / 3 * 3
	return a.String()[:n], b.String()[:n]
}

func (r *Result) String() string {
	return fmt.Sprintf("Alignment { score: %d, similarity: %.1f%%, length: %d }",
		r.score, r.PercentSimilarity()*100, r.Length())
}
