package alignment

import (
	"github.com/aria-lang/mismatch-go/internal/sequence"
)

// Align performs a global Needleman-Wunsch alignment of a against b.
//
// a runs along the rows of the matrix and b along the columns; in the result
// AlignedA() holds a and AlignedB() holds b. Empty inputs are valid and give
// an all-gap alignment.
func Align(a, b string, mode Mode) (*Result, error) {
	return AlignWithModel(a, b, NewScoringModel(mode))
}

// AlignWithModel aligns a and b with a caller-supplied scoring model.
func AlignWithModel(a, b string, model ScoringModel) (*Result, error) {
	if model.Classes == nil {
		model.Classes = NucleotideClasses
	}
	m := BuildMatrix(a, b, model)
	alignedA, alignedB := Traceback(m, a, b, model)
	return NewResult(alignedA, alignedB, m.Score())
}

// NeedlemanWunsch aligns two sequences, choosing nucleotide mode when both
// are nucleotide sequences.
func NeedlemanWunsch(seqA, seqB *sequence.Sequence) (*Result, error) {
	return Align(seqA.Residues(), seqB.Residues(), ModeFor(seqA, seqB))
}

// ModeFor returns Nucleotides when both sequences are nucleotide sequences.
func ModeFor(seqA, seqB *sequence.Sequence) Mode {
	if seqA.Alphabet() == sequence.Nucleotide && seqB.Alphabet() == sequence.Nucleotide {
		return Nucleotides
	}
	return Residues
}

// GlobalScoreOnly returns the optimal global score using two rows of memory.
func GlobalScoreOnly(a, b string, mode Mode) int {
	model := NewScoringModel(mode)
	n := len(b)

	prevRow := make([]int, n+1)
	currRow := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prevRow[j] = -j
	}

	for i := 1; i <= len(a); i++ {
		currRow[0] = -i
		for j := 1; j <= n; j++ {
			currRow[j] = model.Cell(prevRow[j-1], prevRow[j], currRow[j-1], a[i-1], b[j-1])
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[n]
}
