// Package alignment implements global (Needleman-Wunsch) pairwise alignment
// and the statistics derived from an alignment.
//
// The engine is split into the same stages the algorithm has: a scoring model
// for one cell, a matrix builder, a traceback that turns the matrix into two
// aligned strings, and an immutable Result carrying the statistics.
package alignment

// Move represents one traceback step in the alignment matrix.
type Move int

const (
	// Diagonal consumes one symbol from each sequence (match or mismatch).
	Diagonal Move = iota
	// Left consumes a symbol of B against a gap in A.
	Left
	// Up consumes a symbol of A against a gap in B.
	Up
)

func (m Move) String() string {
	switch m {
	case Diagonal:
		return "diagonal"
	case Left:
		return "left"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// Mode selects the penalty scheme.
type Mode int

const (
	// Residues scores every symbol pair alike (amino acids or plain strings).
	Residues Mode = iota
	// Nucleotides adds the transversion penalty and the extra gap penalty.
	Nucleotides
)

func (m Mode) String() string {
	if m == Nucleotides {
		return "nucleotides"
	}
	return "residues"
}

// Params holds the scoring constants of one alignment.
type Params struct {
	Gap          int
	Match        int
	Mismatch     int
	Transversion int // added in nucleotide mode, see ScoringModel
}

// DefaultParams returns gap -1, match +1, mismatch -1, transversion -1.
func DefaultParams() Params {
	return Params{
		Gap:          -1,
		Match:        1,
		Mismatch:     -1,
		Transversion: -1,
	}
}

// ChemicalClass groups nucleotides into purines and pyrimidines.
type ChemicalClass int

const (
	NoClass ChemicalClass = iota
	Purine
	Pyrimidine
)

// ClassTable maps a symbol to its chemical class. It is built once and only read.
type ClassTable [256]ChemicalClass

// NucleotideClasses is the purine {A,G} / pyrimidine {C,T} table.
var NucleotideClasses = func() *ClassTable {
	var t ClassTable
	t['A'], t['G'] = Purine, Purine
	t['C'], t['T'] = Pyrimidine, Pyrimidine
	return &t
}()

// Transversion reports whether a and b belong to different known classes.
func (t *ClassTable) Transversion(a, b byte) bool {
	ca, cb := t[a], t[b]
	return ca != NoClass && cb != NoClass && ca != cb
}

// ScoringModel scores one DP cell from its three neighbors.
type ScoringModel struct {
	Params  Params
	Mode    Mode
	Classes *ClassTable
}

// NewScoringModel returns the model with default parameters for mode.
func NewScoringModel(mode Mode) ScoringModel {
	return ScoringModel{
		Params:  DefaultParams(),
		Mode:    mode,
		Classes: NucleotideClasses,
	}
}

// Substitution returns the diagonal step score for aligning a against b.
func (m ScoringModel) Substitution(a, b byte) int {
	if a == b {
		return m.Params.Match
	}
	s := m.Params.Mismatch
	if m.Mode == Nucleotides && m.Classes.Transversion(a, b) {
		s += m.Params.Transversion
	}
	return s
}

// GapCost returns the step score of a gap move. In nucleotide mode the
// transversion penalty is applied to every gap as well.
func (m ScoringModel) GapCost() int {
	if m.Mode == Nucleotides {
		return m.Params.Gap + m.Params.Transversion
	}
	return m.Params.Gap
}

// Cell returns max(diag+substitution, up+gap, left+gap).
func (m ScoringModel) Cell(diag, up, left int, a, b byte) int {
	best := diag + m.Substitution(a, b)
	gap := m.GapCost()
	if v := up + gap; v > best {
		best = v
	}
	if v := left + gap; v > best {
		best = v
	}
	return best
}
