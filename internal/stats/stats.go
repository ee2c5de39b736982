// Package stats provides the small statistical summaries used by the
// alignment reports: variance of histograms and residue composition.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/mismatch-go/internal/sequence"
)

var (
	// ErrEmptyData is returned when a statistic needs at least one value.
	ErrEmptyData = errors.New("stats: data must not be empty")
	// ErrTooFewSamples is returned when a sample variance has fewer than two values.
	ErrTooFewSamples = errors.New("stats: sample variance needs at least two values")
)

// Mean returns the arithmetic mean of data.
func Mean(data []int) (float64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}
	sum := 0
	for _, v := range data {
		sum += v
	}
	return float64(sum) / float64(len(data)), nil
}

// Variance returns the variance of data. When sample is true the n-1
// denominator is used, otherwise the population variance is returned.
func Variance(data []int, sample bool) (float64, error) {
	mean, err := Mean(data)
	if err != nil {
		return 0, err
	}
	denom := len(data)
	if sample {
		if len(data) < 2 {
			return 0, ErrTooFewSamples
		}
		denom--
	}

	ss := 0.0
	for _, v := range data {
		d := float64(v) - mean
		ss += d * d
	}
	return ss / float64(denom), nil
}

// PopulationVariance is Variance(data, false).
func PopulationVariance(data []int) (float64, error) {
	return Variance(data, false)
}

// Composition summarizes the residues of a single sequence.
type Composition struct {
	Length    int
	Alphabet  sequence.Alphabet
	Counts    map[byte]int
	GCContent float64 // nucleotide sequences only
}

// FromSequence calculates the residue composition of seq.
func FromSequence(seq *sequence.Sequence) *Composition {
	residues := seq.Residues()
	counts := make(map[byte]int)
	for i := 0; i < len(residues); i++ {
		counts[residues[i]]++
	}

	c := &Composition{
		Length:   len(residues),
		Alphabet: seq.Alphabet(),
		Counts:   counts,
	}
	if seq.Alphabet() == sequence.Nucleotide && len(residues) > 0 {
		c.GCContent = float64(counts['G']+counts['C']) / float64(len(residues))
	}
	return c
}

// String renders the counts in symbol order.
func (c *Composition) String() string {
	symbols := make([]byte, 0, len(c.Counts))
	for s := range c.Counts {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = fmt.Sprintf("%c=%d", s, c.Counts[s])
	}

	if c.Alphabet == sequence.Nucleotide {
		return fmt.Sprintf("length %d, GC %.1f%%, %s",
			c.Length, c.GCContent*100, strings.Join(parts, " "))
	}
	return fmt.Sprintf("length %d, %s", c.Length, strings.Join(parts, " "))
}
