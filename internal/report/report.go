// Package report writes the per-cluster-count analysis files of an alignment:
// <name>_<k>.aln.txt, <name>_<k>.meta.txt and <name>_<k>.meta.json.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/internal/sequence"
	"github.com/aria-lang/mismatch-go/internal/stats"
)

// Meta is the machine-readable summary of one alignment at one cluster count.
type Meta struct {
	Query                     string  `json:"query"`
	Reference                 string  `json:"reference"`
	Clusters                  int     `json:"clusters"`
	Score                     int     `json:"score"`
	Length                    int     `json:"length"`
	HammingDistance           int     `json:"hamming_distance"`
	PercentSimilarity         float64 `json:"percent_similarity"`
	LargestMismatchPos        int     `json:"largest_mismatch_pos"`
	LargestMismatch           int     `json:"largest_mismatch"`
	ClusteredMismatchVariance float64 `json:"clustered_mismatch_variance"`
	ClusteredMismatches       []int   `json:"clustered_mismatches"`
	CIGAR                     string  `json:"cigar"`
	// TrimmedCodons is the number of gap-free codons left for dN/dS counting.
	// Only set for nucleotide alignments.
	TrimmedCodons int `json:"trimmed_codons,omitempty"`

	queryComposition     string
	referenceComposition string
}

// Input is one aligned pair.
type Input struct {
	Query     *sequence.Sequence
	Reference *sequence.Sequence
	Result    *alignment.Result
}

func label(seq *sequence.Sequence) string {
	if seq.ID() != "" {
		return seq.ID()
	}
	return "sequence"
}

// Build computes the summary of in for k clusters.
func Build(in Input, clusters int) (Meta, error) {
	hist, err := in.Result.ClusteredMismatches(clusters)
	if err != nil {
		return Meta{}, err
	}
	variance, err := in.Result.ClusteredMismatchVariance(clusters)
	if err != nil {
		return Meta{}, err
	}
	pos, size := in.Result.LargestMismatch()

	m := Meta{
		Query:                     label(in.Query),
		Reference:                 label(in.Reference),
		Clusters:                  clusters,
		Score:                     in.Result.Score(),
		Length:                    in.Result.Length(),
		HammingDistance:           in.Result.HammingDistance(),
		PercentSimilarity:         in.Result.PercentSimilarity(),
		LargestMismatchPos:        pos,
		LargestMismatch:           size,
		ClusteredMismatchVariance: variance,
		ClusteredMismatches:       hist,
		CIGAR:                     in.Result.ToCIGAR(),
		queryComposition:          stats.FromSequence(in.Query).String(),
		referenceComposition:      stats.FromSequence(in.Reference).String(),
	}
	if in.Query.Alphabet() == sequence.Nucleotide && in.Reference.Alphabet() == sequence.Nucleotide {
		trimmed, _ := in.Result.TrimIndels()
		m.TrimmedCodons = len(trimmed) / 3
	}
	return m, nil
}

// Text renders the summary for humans.
func (m Meta) Text() string {
	var sb strings.Builder
	sb.WriteString("Formatted metadata -- not for programmatic use.\n\n")
	fmt.Fprintf(&sb, "Information for alignment of %s with %s:\n\n", m.Query, m.Reference)
	fmt.Fprintf(&sb, "Score: %d\n", m.Score)
	fmt.Fprintf(&sb, "Alignment length: %d\n", m.Length)
	fmt.Fprintf(&sb, "Percent similarity: %g\n", m.PercentSimilarity)
	fmt.Fprintf(&sb, "Largest mismatch location: %d\n", m.LargestMismatchPos)
	fmt.Fprintf(&sb, "Largest mismatch size: %dbp\n", m.LargestMismatch)
	fmt.Fprintf(&sb, "Variance between clusters (%d clusters): %g\n", m.Clusters, m.ClusteredMismatchVariance)
	fmt.Fprintf(&sb, "Clustered mismatches: %v\n", m.ClusteredMismatches)
	fmt.Fprintf(&sb, "CIGAR: %s\n", m.CIGAR)
	if m.TrimmedCodons > 0 {
		fmt.Fprintf(&sb, "Codons after indel trimming: %d\n", m.TrimmedCodons)
	}
	if m.queryComposition != "" {
		fmt.Fprintf(&sb, "Query composition: %s\n", m.queryComposition)
		fmt.Fprintf(&sb, "Reference composition: %s\n", m.referenceComposition)
	}
	return sb.String()
}

// Writer writes report files into Dir.
type Writer struct {
	Dir        string
	LineLength int
}

// Paths returns the three files written for name at k clusters.
func (w Writer) Paths(name string, clusters int) (aln, metaText, metaJSON string) {
	base := filepath.Join(w.Dir, fmt.Sprintf("%s_%d", name, clusters))
	return base + ".aln.txt", base + ".meta.txt", base + ".meta.json"
}

// Write renders in for every cluster count and returns the summaries.
func (w Writer) Write(name string, in Input, clusterCounts []int) ([]Meta, error) {
	formatted, err := in.Result.Format(w.LineLength)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	metas := make([]Meta, 0, len(clusterCounts))
	for _, k := range clusterCounts {
		m, err := Build(in, k)
		if err != nil {
			return nil, fmt.Errorf("%d clusters: %w", k, err)
		}
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}

		alnPath, textPath, jsonPath := w.Paths(name, k)
		for _, f := range []struct {
			path string
			data []byte
		}{
			{alnPath, []byte(formatted + "\n")},
			{textPath, []byte(m.Text())},
			{jsonPath, append(data, '\n')},
		} {
			if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
				return nil, fmt.Errorf("write report: %w", err)
			}
		}
		metas = append(metas, m)
	}
	return metas, nil
}
