package alignment

import (
	"fmt"
	"strings"
)

// Matrix is the filled dynamic-programming table of a global alignment.
// Cell (i, j) holds the best score of aligning a[:i] against b[:j].
// It is read-only once BuildMatrix returns.
type Matrix struct {
	rows, cols int
	cells      []int
}

// BuildMatrix fills the (len(a)+1) x (len(b)+1) table for a and b.
// Row 0 and column 0 hold 0, -1, -2, ... in every mode.
func BuildMatrix(a, b string, model ScoringModel) *Matrix {
	m := &Matrix{
		rows:  len(a) + 1,
		cols:  len(b) + 1,
		cells: make([]int, (len(a)+1)*(len(b)+1)),
	}

	for i := 0; i < m.rows; i++ {
		m.cells[i*m.cols] = -i
	}
	for j := 0; j < m.cols; j++ {
		m.cells[j] = -j
	}

	for i := 1; i < m.rows; i++ {
		row := m.cells[i*m.cols : (i+1)*m.cols]
		prev := m.cells[(i-1)*m.cols : i*m.cols]
		for j := 1; j < m.cols; j++ {
			row[j] = model.Cell(prev[j-1], prev[j], row[j-1], a[i-1], b[j-1])
		}
	}
	return m
}

// Rows returns len(a)+1.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns len(b)+1.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value of cell (i, j).
func (m *Matrix) At(i, j int) int {
	return m.cells[i*m.cols+j]
}

// Score returns the bottom-right cell, the optimal global alignment score.
func (m *Matrix) Score() int {
	return m.cells[len(m.cells)-1]
}

// String renders the table one row per line; useful when debugging ties.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%3d", m.At(i, j))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
