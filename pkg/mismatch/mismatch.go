// Package mismatch provides a high-level API for mismatch clustering analysis.
//
// It aligns two sequences globally, reports where their mismatches fall and
// tests whether the mismatches are more clustered than a shuffled query would
// produce.
//
// Example usage:
//
//	query, err := mismatch.LoadSequence("data/query.fa", mismatch.AminoAcid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reference, err := mismatch.LoadSequence("data/reference.fa", mismatch.AminoAcid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := mismatch.Align(query, reference)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Format(100))
//
//	outcomes, err := mismatch.TestClustering(ctx, query, reference, []int{20}, 1000, 1)
package mismatch

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/internal/clustering"
	"github.com/aria-lang/mismatch-go/internal/fasta"
	"github.com/aria-lang/mismatch-go/internal/report"
	"github.com/aria-lang/mismatch-go/internal/sequence"
	"github.com/aria-lang/mismatch-go/internal/simulation"
	"github.com/aria-lang/mismatch-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence         = sequence.Sequence
	Alphabet         = sequence.Alphabet
	Result           = alignment.Result
	Mode             = alignment.Mode
	SimulationResult = simulation.Result
	Outcome          = clustering.Outcome
	Record           = fasta.Record
	Meta             = report.Meta
	Composition      = stats.Composition
)

// Constants
const (
	Nucleotide  = sequence.Nucleotide
	AminoAcid   = sequence.AminoAcid
	Residues    = alignment.Residues
	Nucleotides = alignment.Nucleotides
)

// NewSequence creates a nucleotide sequence.
func NewSequence(residues string) (*Sequence, error) {
	return sequence.New(residues)
}

// NewProtein creates an amino-acid sequence.
func NewProtein(residues string) (*Sequence, error) {
	return sequence.NewProtein(residues)
}

// NewSequenceWithID creates a sequence with an identifier.
func NewSequenceWithID(residues, id string, alphabet Alphabet) (*Sequence, error) {
	return sequence.WithMetadata(residues, id, "", alphabet)
}

// Align performs a global alignment of query against reference. Nucleotide
// scoring is used when both are nucleotide sequences.
func Align(query, reference *Sequence) (*Result, error) {
	return alignment.NeedlemanWunsch(query, reference)
}

// AlignStrings aligns two raw strings without validating them.
func AlignStrings(a, b string, nucleotides bool) (*Result, error) {
	return alignment.Align(a, b, ModeOf(nucleotides))
}

// ModeOf returns Nucleotides when nucleotides is set, Residues otherwise.
func ModeOf(nucleotides bool) Mode {
	if nucleotides {
		return alignment.Nucleotides
	}
	return alignment.Residues
}

// AlphabetOf returns Nucleotide when nucleotides is set, AminoAcid otherwise.
func AlphabetOf(nucleotides bool) Alphabet {
	if nucleotides {
		return sequence.Nucleotide
	}
	return sequence.AminoAcid
}

// Score returns the optimal global score without building the full matrix.
func Score(a, b string, nucleotides bool) int {
	return alignment.GlobalScoreOnly(a, b, ModeOf(nucleotides))
}

// ReadFASTA reads every record of a FASTA file (plain or gzip).
func ReadFASTA(filename string) ([]Record, error) {
	return fasta.ReadFile(filename)
}

// ParseFASTA parses FASTA records from a reader.
func ParseFASTA(r io.Reader) ([]Record, error) {
	return fasta.Parse(r)
}

// WriteFASTA writes sequences to a FASTA file.
func WriteFASTA(filename string, sequences []*Sequence) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := fasta.Write(file, sequences...); err != nil {
		return err
	}
	return file.Close()
}

// LoadSequence reads the first record of a FASTA file as a sequence.
func LoadSequence(filename string, alphabet Alphabet) (*Sequence, error) {
	rec, err := fasta.First(filename)
	if err != nil {
		return nil, err
	}
	return rec.Sequence(alphabet)
}

// SequenceComposition counts the residues of a sequence.
func SequenceComposition(seq *Sequence) *Composition {
	return stats.FromSequence(seq)
}

// TestClustering runs trials Monte Carlo trials per cluster count in the
// calling goroutine. Use the orchestrate command to spread trials over
// several processes.
func TestClustering(ctx context.Context, query, reference *Sequence, clusterCounts []int, trials int, seed uint64) ([]Outcome, error) {
	job := clustering.Job{
		Query:         query,
		Reference:     reference,
		Mode:          alignment.ModeFor(query, reference),
		ClusterCounts: clusterCounts,
	}
	return job.Run(ctx, trials, rand.New(rand.NewPCG(seed, 0)), nil)
}

// WriteReport writes the alignment, text and JSON metadata files for every
// cluster count into dir.
func WriteReport(dir, name string, lineLength int, query, reference *Sequence, result *Result, clusterCounts []int) ([]Meta, error) {
	w := report.Writer{Dir: dir, LineLength: lineLength}
	return w.Write(name, report.Input{Query: query, Reference: reference, Result: result}, clusterCounts)
}

// Version returns the mismatch version.
func Version() string {
	return "1.0.0"
}

// Info returns information about mismatch.
func Info() string {
	return fmt.Sprintf(`mismatch v%s - Mismatch Clustering Analysis

Features:
  - Needleman-Wunsch global alignment with transversion-aware nucleotide scoring
  - Mismatch histograms, variance and longest mismatch run
  - Monte Carlo significance testing against shuffled queries
  - Multi-process trial orchestration with aggregated results
  - FASTA parsing (plain or gzip), codon translation
`, Version())
}
