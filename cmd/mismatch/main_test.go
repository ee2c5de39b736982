package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

func TestParseClusters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{"single", "20", []int{20}, false},
		{"list", "10,20,40", []int{10, 20, 40}, false},
		{"spaces and empty fields", " 5, ,8 ,", []int{5, 8}, false},
		{"negative kept for validation", "-1", []int{-1}, false},
		{"trailing junk", "3x", nil, true},
		{"float", "2.5", nil, true},
		{"word", "ten", nil, true},
		{"junk after valid field", "4,7abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClusters(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterSummary(t *testing.T) {
	result, err := mismatch.AlignStrings("HEAGAWGHEE", "PAWHEAE", false)
	require.NoError(t, err)

	hist, variance, err := clusterSummary(result, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 1}, hist)
	assert.InDelta(t, 8.0/9.0, variance, 1e-9)

	want, err := result.ClusteredMismatchVariance(4)
	require.NoError(t, err)
	assert.InDelta(t, want, variance, 1e-9)

	_, _, err = clusterSummary(result, 0)
	assert.ErrorIs(t, err, alignment.ErrInvalidClusterCount)

	empty, err := mismatch.AlignStrings("", "", false)
	require.NoError(t, err)
	hist, variance, err = clusterSummary(empty, 3)
	require.NoError(t, err)
	assert.Empty(t, hist)
	assert.Equal(t, 0.0, variance)
}
