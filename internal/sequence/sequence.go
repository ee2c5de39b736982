// Package sequence provides immutable nucleotide and amino-acid sequences.
//
// A Sequence is validated once at construction and never changes afterwards.
// Operations that derive a new sequence (shuffling, translation) always return
// a fresh value, so a Sequence can be shared freely between goroutines.
package sequence

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Alphabet identifies the symbol set of a sequence.
type Alphabet int

const (
	// Nucleotide sequences use A, C, G, T (and N for unknown bases).
	Nucleotide Alphabet = iota
	// AminoAcid sequences use the single-letter residue codes.
	AminoAcid
)

func (a Alphabet) String() string {
	switch a {
	case Nucleotide:
		return "nucleotide"
	case AminoAcid:
		return "amino-acid"
	default:
		return "unknown"
	}
}

// Sequence is a validated, immutable biological sequence.
type Sequence struct {
	id          string
	description string
	residues    string
	alphabet    Alphabet
}

// New creates a nucleotide sequence. Input is upper-cased before validation.
func New(residues string) (*Sequence, error) {
	return WithMetadata(residues, "", "", Nucleotide)
}

// NewProtein creates an amino-acid sequence.
func NewProtein(residues string) (*Sequence, error) {
	return WithMetadata(residues, "", "", AminoAcid)
}

// WithMetadata creates a sequence with an identifier and description.
func WithMetadata(residues, id, description string, alphabet Alphabet) (*Sequence, error) {
	normalized := strings.ToUpper(residues)
	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}
	if err := Validate(normalized, alphabet); err != nil {
		return nil, err
	}

	return &Sequence{
		id:          id,
		description: description,
		residues:    normalized,
		alphabet:    alphabet,
	}, nil
}

// ID returns the sequence identifier, if any.
func (s *Sequence) ID() string { return s.id }

// Description returns the free-text description, if any.
func (s *Sequence) Description() string { return s.description }

// Residues returns the residue string.
func (s *Sequence) Residues() string { return s.residues }

// Alphabet returns the alphabet of the sequence.
func (s *Sequence) Alphabet() Alphabet { return s.alphabet }

// Len returns the number of residues.
func (s *Sequence) Len() int {
	return len(s.residues)
}

// Shuffled returns a random permutation of the sequence drawn from rng.
// The receiver is left untouched; the permutation owns its own buffer.
func (s *Sequence) Shuffled(rng *rand.Rand) *Sequence {
	buf := []byte(s.residues)
	rng.Shuffle(len(buf), func(i, j int) {
		buf[i], buf[j] = buf[j], buf[i]
	})

	return &Sequence{
		id:          s.id,
		description: s.description,
		residues:    string(buf),
		alphabet:    s.alphabet,
	}
}

// Translate converts a nucleotide sequence into amino acids using the
// standard genetic code. Trailing bases that do not fill a codon are ignored.
// Stop codons translate to '*', codons containing N translate to 'X'.
func (s *Sequence) Translate() (*Sequence, error) {
	if s.alphabet != Nucleotide {
		return nil, &AlphabetError{Op: "translation", Want: Nucleotide, Alphabet: s.alphabet}
	}
	n := len(s.residues) / 3
	if n == 0 {
		return nil, &EmptySequenceError{}
	}

	protein := make([]byte, n)
	for i := 0; i < n; i++ {
		protein[i] = TranslateCodon(s.residues[i*3 : i*3+3])
	}

	return &Sequence{
		id:          s.id,
		description: s.description,
		residues:    string(protein),
		alphabet:    AminoAcid,
	}, nil
}

// ToFASTA returns the sequence in FASTA format with 80-column lines.
func (s *Sequence) ToFASTA() string {
	header := ">sequence"
	if s.id != "" {
		header = ">" + s.id
		if s.description != "" {
			header += " " + s.description
		}
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for i := 0; i < len(s.residues); i += 80 {
		end := min(i+80, len(s.residues))
		sb.WriteString(s.residues[i:end])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String returns a string representation of the sequence.
func (s *Sequence) String() string {
	if s.id != "" {
		return fmt.Sprintf(">%s\n%s", s.id, s.residues)
	}
	return s.residues
}

// Equal checks equality of residues and alphabet.
func (s *Sequence) Equal(other *Sequence) bool {
	if other == nil {
		return false
	}
	return s.residues == other.residues && s.alphabet == other.alphabet
}
