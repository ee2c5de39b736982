package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one residue"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidResidueError is returned when a symbol outside the alphabet is encountered.
type InvalidResidueError struct {
	Position int
	Found    rune
	Alphabet Alphabet
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("invalid %s residue '%c' at position %d", e.Alphabet, e.Found, e.Position)
}

func (e *InvalidResidueError) IsSequenceError() {}

// AlphabetError is returned when an operation requires a different alphabet.
type AlphabetError struct {
	Op       string
	Want     Alphabet
	Alphabet Alphabet
}

func (e *AlphabetError) Error() string {
	return fmt.Sprintf("%s requires a %s sequence, got %s", e.Op, e.Want, e.Alphabet)
}

func (e *AlphabetError) IsSequenceError() {}

var (
	nucleotideSymbols = symbolSet("ACGTN")
	aminoAcidSymbols  = symbolSet("ACDEFGHIKLMNPQRSTVWYBZXUO*")
)

func symbolSet(symbols string) [256]bool {
	var set [256]bool
	for i := 0; i < len(symbols); i++ {
		set[symbols[i]] = true
	}
	return set
}

// Validate checks that every symbol of residues belongs to the alphabet.
func Validate(residues string, alphabet Alphabet) error {
	set := &nucleotideSymbols
	if alphabet == AminoAcid {
		set = &aminoAcidSymbols
	}
	for i := 0; i < len(residues); i++ {
		if !set[residues[i]] {
			return &InvalidResidueError{Position: i, Found: rune(residues[i]), Alphabet: alphabet}
		}
	}
	return nil
}

// IsNucleotide reports whether c is a valid nucleotide symbol.
func IsNucleotide(c byte) bool {
	return nucleotideSymbols[c]
}

// IsAminoAcid reports whether c is a valid amino-acid symbol.
func IsAminoAcid(c byte) bool {
	return aminoAcidSymbols[c]
}
