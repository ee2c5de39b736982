package alignment

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/aria-lang/mismatch-go/internal/sequence"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringModel(t *testing.T) {
	t.Run("DefaultParams", func(t *testing.T) {
		p := DefaultParams()
		assert.Equal(t, -1, p.Gap)
		assert.Equal(t, 1, p.Match)
		assert.Equal(t, -1, p.Mismatch)
		assert.Equal(t, -1, p.Transversion)
	})

	tests := []struct {
		name string
		mode Mode
		a, b byte
		want int
	}{
		{"match", Residues, 'A', 'A', 1},
		{"mismatch", Residues, 'A', 'G', -1},
		{"residues ignore classes", Residues, 'A', 'C', -1},
		{"transition", Nucleotides, 'A', 'G', -1},
		{"transition pyrimidines", Nucleotides, 'C', 'T', -1},
		{"transversion", Nucleotides, 'A', 'C', -2},
		{"transversion reversed", Nucleotides, 'T', 'G', -2},
		{"unknown class", Nucleotides, 'A', 'N', -1},
		{"nucleotide match", Nucleotides, 'T', 'T', 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewScoringModel(tt.mode)
			assert.Equal(t, tt.want, m.Substitution(tt.a, tt.b))
		})
	}

	t.Run("GapCost", func(t *testing.T) {
		assert.Equal(t, -1, NewScoringModel(Residues).GapCost())
		assert.Equal(t, -2, NewScoringModel(Nucleotides).GapCost())
	})

	t.Run("Cell", func(t *testing.T) {
		m := NewScoringModel(Residues)
		assert.Equal(t, 1, m.Cell(0, -1, -1, 'A', 'A'))
		assert.Equal(t, 4, m.Cell(0, 5, 2, 'A', 'C'))
		assert.Equal(t, 6, m.Cell(0, 2, 7, 'A', 'C'))

		n := NewScoringModel(Nucleotides)
		assert.Equal(t, -2, n.Cell(0, -5, -5, 'A', 'T'))
	})
}

func TestMoveAndModeString(t *testing.T) {
	assert.Equal(t, "diagonal", Diagonal.String())
	assert.Equal(t, "left", Left.String())
	assert.Equal(t, "up", Up.String())
	assert.Equal(t, "unknown", Move(9).String())
	assert.Equal(t, "residues", Residues.String())
	assert.Equal(t, "nucleotides", Nucleotides.String())
}

func TestBuildMatrix(t *testing.T) {
	t.Run("boundaries", func(t *testing.T) {
		for _, mode := range []Mode{Residues, Nucleotides} {
			m := BuildMatrix("ACGT", "AC", NewScoringModel(mode))
			require.Equal(t, 5, m.Rows())
			require.Equal(t, 3, m.Cols())
			for i := 0; i < m.Rows(); i++ {
				assert.Equal(t, -i, m.At(i, 0))
			}
			for j := 0; j < m.Cols(); j++ {
				assert.Equal(t, -j, m.At(0, j))
			}
		}
	})

	t.Run("nucleotide table", func(t *testing.T) {
		want := [][]int{
			{0, -1, -2, -3, -4, -5, -6, -7},
			{-1, 1, -1, -3, -5, -3, -5, -7},
			{-2, -1, -1, 0, -2, -4, -5, -7},
			{-3, -3, -2, -2, 1, -1, -3, -4},
			{-4, -5, -4, -4, -1, -1, -2, -2},
			{-5, -5, -6, -3, -3, -2, -3, -4},
			{-6, -7, -4, -5, -4, -4, -1, -3},
			{-7, -7, -6, -3, -5, -5, -3, -3},
		}
		m := BuildMatrix("GATTACA", "GCATGCT", NewScoringModel(Nucleotides))
		got := make([][]int, m.Rows())
		for i := range got {
			got[i] = make([]int, m.Cols())
			for j := range got[i] {
				got[i][j] = m.At(i, j)
			}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s\n%s", diff, m)
		}
		assert.Equal(t, -3, m.Score())
	})

	t.Run("empty", func(t *testing.T) {
		m := BuildMatrix("", "", NewScoringModel(Residues))
		assert.Equal(t, 0, m.Score())
		assert.Equal(t, "  0\n", m.String())
	})
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		mode    Mode
		wantA   string
		wantB   string
		score   int
		hamming int
	}{
		{
			name:    "gattaca nucleotides",
			a:       "GATTACA",
			b:       "GCATGCT",
			mode:    Nucleotides,
			wantA:   "G-ATTACA",
			wantB:   "GCA-TGCT",
			score:   -3,
			hamming: 4,
		},
		{
			name:    "gattaca residues",
			a:       "GATTACA",
			b:       "GCATGCT",
			mode:    Residues,
			wantA:   "G-ATTACA",
			wantB:   "GCA-TGCT",
			score:   0,
			hamming: 4,
		},
		{
			name:    "gattaca swapped",
			a:       "GCATGCT",
			b:       "GATTACA",
			mode:    Nucleotides,
			wantA:   "GCA-TGCT",
			wantB:   "G-ATTACA",
			score:   -3,
			hamming: 4,
		},
		{
			name:  "identical",
			a:     "ACGT",
			b:     "ACGT",
			mode:  Nucleotides,
			wantA: "ACGT",
			wantB: "ACGT",
			score: 4,
		},
		{
			name:    "all mismatches",
			a:       "AAAA",
			b:       "TTTT",
			mode:    Residues,
			wantA:   "AAAA",
			wantB:   "TTTT",
			score:   -4,
			hamming: 4,
		},
		{
			name:    "leading gap run",
			a:       "ACGTACGT",
			b:       "ACGT",
			mode:    Nucleotides,
			wantA:   "ACGTACGT",
			wantB:   "----ACGT",
			score:   0,
			hamming: 4,
		},
		{
			name:    "single deletion",
			a:       "ACGT",
			b:       "AGT",
			mode:    Residues,
			wantA:   "ACGT",
			wantB:   "A-GT",
			score:   2,
			hamming: 1,
		},
		{
			name:    "protein",
			a:       "HEAGAWGHEE",
			b:       "PAWHEAE",
			mode:    Residues,
			wantA:   "HEAGAWGHE-E",
			wantB:   "---PAW-HEAE",
			score:   -1,
			hamming: 6,
		},
		{
			name:    "empty first",
			a:       "",
			b:       "ACG",
			mode:    Nucleotides,
			wantA:   "---",
			wantB:   "ACG",
			score:   -3,
			hamming: 3,
		},
		{
			name:    "empty second",
			a:       "ACG",
			b:       "",
			mode:    Nucleotides,
			wantA:   "ACG",
			wantB:   "---",
			score:   -3,
			hamming: 3,
		},
		{
			name: "both empty",
			mode: Residues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Align(tt.a, tt.b, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, res.AlignedA())
			assert.Equal(t, tt.wantB, res.AlignedB())
			assert.Equal(t, tt.score, res.Score())
			assert.Equal(t, tt.hamming, res.HammingDistance())
			assert.Equal(t, len(tt.wantA), res.Length())
			assert.Equal(t, tt.score, GlobalScoreOnly(tt.a, tt.b, tt.mode))
		})
	}
}

func TestNeedlemanWunsch(t *testing.T) {
	seqA, err := sequence.New("GATTACA")
	require.NoError(t, err)
	seqB, err := sequence.New("GCATGCT")
	require.NoError(t, err)

	assert.Equal(t, Nucleotides, ModeFor(seqA, seqB))

	res, err := NeedlemanWunsch(seqA, seqB)
	require.NoError(t, err)
	assert.Equal(t, "G-ATTACA", res.AlignedA())
	assert.Equal(t, -3, res.Score())

	protein, err := sequence.NewProtein("MKV")
	require.NoError(t, err)
	assert.Equal(t, Residues, ModeFor(seqA, protein))
}

func randomResidues(rng *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}

func TestAlignProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 300; i++ {
		alphabet := "ACGT"
		mode := Nucleotides
		if i%2 == 1 {
			alphabet = "ACDEFGHIKLMNPQRSTVWY"
			mode = Residues
		}
		a := randomResidues(rng, alphabet, rng.IntN(25))
		b := randomResidues(rng, alphabet, rng.IntN(25))

		res, err := Align(a, b, mode)
		require.NoError(t, err)

		// column count is bounded by both inputs
		assert.GreaterOrEqual(t, res.Length(), max(len(a), len(b)))
		assert.LessOrEqual(t, res.Length(), len(a)+len(b))

		// removing gaps recovers each input
		assert.Equal(t, a, strings.ReplaceAll(res.AlignedA(), "-", ""), "a=%q b=%q", a, b)
		assert.Equal(t, b, strings.ReplaceAll(res.AlignedB(), "-", ""), "a=%q b=%q", a, b)

		// no column pairs two gaps
		for c := 0; c < res.Length(); c++ {
			assert.False(t, res.AlignedA()[c] == GapMarker && res.AlignedB()[c] == GapMarker)
		}

		// the optimum does not depend on argument order
		swapped, err := Align(b, a, mode)
		require.NoError(t, err)
		assert.Equal(t, res.Score(), swapped.Score(), "a=%q b=%q", a, b)
		assert.Equal(t, res.Score(), GlobalScoreOnly(a, b, mode))
	}
}

func TestAlignSelfIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 50; i++ {
		a := randomResidues(rng, "ACGT", 1+rng.IntN(40))
		res, err := Align(a, a, Nucleotides)
		require.NoError(t, err)
		assert.Equal(t, a, res.AlignedA())
		assert.Equal(t, a, res.AlignedB())
		assert.Equal(t, 0, res.HammingDistance())
		assert.Equal(t, 1.0, res.PercentSimilarity())
		assert.Equal(t, len(a), res.Score())
	}
}

func TestNewResult(t *testing.T) {
	_, err := NewResult("AC-", "ACGT", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	res, err := NewResult("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Length())
	assert.Equal(t, 0.0, res.PercentSimilarity())
	assert.Equal(t, "", res.ToCIGAR())
}

func TestResultStatistics(t *testing.T) {
	res, err := NewResult("G-ATTACA", "GCA-TGCT", -3)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false, true, false, true, false, true, false}, res.MatchMask())
	assert.Equal(t, 4, res.MatchCount())
	assert.Equal(t, 4, res.HammingDistance())
	assert.InDelta(t, 0.5, res.PercentSimilarity(), 1e-9)
	assert.Equal(t, 1, res.GapsA())
	assert.Equal(t, 1, res.GapsB())
	assert.Equal(t, "1M1I1M1D1M1X1M1X", res.ToCIGAR())
	assert.Equal(t, "Alignment { score: -3, similarity: 50.0%, length: 8 }", res.String())
}

func TestTrimIndels(t *testing.T) {
	tests := []struct {
		name         string
		a, b         string
		wantA, wantB string
	}{
		{"gapped", "G-ATTACA", "GCA-TGCT", "GATACA", "GATGCT"},
		{"partial codon dropped", "ACGTA", "ACGTT", "ACG", "ACG"},
		{"all gaps", "---", "ACG", "", ""},
		{"empty", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewResult(tt.a, tt.b, 0)
			require.NoError(t, err)
			gotA, gotB := res.TrimIndels()
			assert.Equal(t, tt.wantA, gotA)
			assert.Equal(t, tt.wantB, gotB)
			assert.Zero(t, len(gotA)%3)
		})
	}
}

func TestClusterMismatches(t *testing.T) {
	tests := []struct {
		name string
		mask []bool
		k    int
		want []int
	}{
		{
			name: "two windows",
			mask: []bool{true, true, false, false, true, true, false, false},
			k:    2,
			want: []int{2, 2},
		},
		{
			name: "trailing window dropped",
			mask: []bool{true, false, true, false, true, false, true, false},
			k:    3,
			want: []int{1, 2},
		},
		{
			name: "more clusters than columns",
			mask: []bool{true, false, true, false, true, false, true, false},
			k:    20,
			want: []int{0, 1, 0, 1, 0, 1, 0, 1},
		},
		{
			name: "single cluster",
			mask: []bool{false, false, true},
			k:    1,
			want: []int{2},
		},
		{
			name: "empty",
			mask: nil,
			k:    4,
			want: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClusterMismatches(tt.mask, tt.k)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid k", func(t *testing.T) {
		for _, k := range []int{0, -3} {
			_, err := ClusterMismatches([]bool{true}, k)
			assert.ErrorIs(t, err, ErrInvalidClusterCount)
		}
	})

	t.Run("window count and total", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 1))
		for i := 0; i < 200; i++ {
			mask := make([]bool, 1+rng.IntN(120))
			total := 0
			for c := range mask {
				mask[c] = rng.IntN(3) > 0
				if !mask[c] {
					total++
				}
			}
			k := 1 + rng.IntN(30)

			hist, err := ClusterMismatches(mask, k)
			require.NoError(t, err)

			size := (len(mask) + k - 1) / k
			assert.Len(t, hist, len(mask)/size)
			assert.LessOrEqual(t, len(hist), k)

			sum := 0
			for _, h := range hist {
				sum += h
			}
			assert.LessOrEqual(t, sum, total)
		}
	})
}

func TestClusteredMismatchVariance(t *testing.T) {
	res, err := NewResult("TTTTGGGGAAAACCCCAAAA", "TTTTCCCCAAAAGGGGAAAA", -4)
	require.NoError(t, err)

	tests := []struct {
		k    int
		want float64
	}{
		{1, 0},
		{2, 0},
		{4, 1.0},
		{5, 3.84},
	}
	for _, tt := range tests {
		got, err := res.ClusteredMismatchVariance(tt.k)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "k=%d", tt.k)
	}

	hist, err := res.ClusteredMismatches(5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 0, 4, 0}, hist)

	empty, err := NewResult("", "", 0)
	require.NoError(t, err)
	v, err := empty.ClusteredMismatchVariance(3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = res.ClusteredMismatchVariance(0)
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
}

func TestLargestMismatch(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantStart int
		wantLen   int
	}{
		{"alternating", "G-ATTACA", "GCA-TGCT", 1, 1},
		{"leading run", "HEAGAWGHE-E", "---PAW-HEAE", 0, 4},
		{"interior run", "ACGTTTTTACGT", "ACG----TACGT", 3, 4},
		{"earliest tie", "TTTTGGGGAAAACCCCAAAA", "TTTTCCCCAAAAGGGGAAAA", 4, 4},
		{"trailing run", "ACGT", "ACTA", 2, 2},
		{"none", "ACGT", "ACGT", -1, 0},
		{"empty", "", "", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewResult(tt.a, tt.b, 0)
			require.NoError(t, err)
			start, length := res.LargestMismatch()
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantLen, length)
		})
	}
}

func TestFormat(t *testing.T) {
	res, err := NewResult("HEAGAWGHE-E", "---PAW-HEAE", -1)
	require.NoError(t, err)

	assert.Equal(t, "    || || |", res.PipeLine())

	got, err := res.Format(4)
	require.NoError(t, err)
	want := "HEAG\n    \n---P\n\n" +
		"AWGH\n|| |\nAW-H\n\n" +
		"E-E\n| |\nEAE"
	assert.Equal(t, want, got)

	single, err := res.Format(100)
	require.NoError(t, err)
	assert.Equal(t, "HEAGAWGHE-E\n    || || |\n---PAW-HEAE", single)

	_, err = res.Format(0)
	assert.ErrorIs(t, err, ErrInvalidLineLength)

	empty, err := NewResult("", "", 0)
	require.NoError(t, err)
	out, err := empty.Format(10)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func benchmarkPair() (string, string) {
	var a, b strings.Builder
	for i := 0; i < 250; i++ {
		a.WriteString("ACGT")
		b.WriteString("AGCT")
	}
	return a.String(), b.String()
}

func BenchmarkAlign(b *testing.B) {
	s1, s2 := benchmarkPair()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Align(s1, s2, Nucleotides)
	}
}

func BenchmarkGlobalScoreOnly(b *testing.B) {
	s1, s2 := benchmarkPair()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GlobalScoreOnly(s1, s2, Nucleotides)
	}
}

func BenchmarkClusteredMismatchVariance(b *testing.B) {
	s1, s2 := benchmarkPair()
	res, _ := Align(s1, s2, Nucleotides)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = res.ClusteredMismatchVariance(20)
	}
}
