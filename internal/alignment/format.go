package alignment

import (
	"errors"
	"strings"
)

// ErrInvalidLineLength is returned by Format for a line length below 1.
var ErrInvalidLineLength = errors.New("alignment: line length must be at least 1")

// PipeLine returns a string with '|' under matching columns and ' ' elsewhere.
func (r *Result) PipeLine() string {
	line := make([]byte, len(r.alignedA))
	for i := range line {
		if r.alignedA[i] == r.alignedB[i] {
			line[i] = '|'
		} else {
			line[i] = ' '
		}
	}
	return string(line)
}

// Format renders the alignment in blocks of lineLength columns. Each block
// has three lines (first row, pipe line, second row); blocks are separated
// by an empty line.
func (r *Result) Format(lineLength int) (string, error) {
	if lineLength < 1 {
		return "", ErrInvalidLineLength
	}

	pipes := r.PipeLine()
	blocks := make([]string, 0, len(pipes)/lineLength+1)
	for start := 0; start < len(pipes); start += lineLength {
		end := min(start+lineLength, len(pipes))
		blocks = append(blocks, strings.Join([]string{
			r.alignedA[start:end],
			pipes[start:end],
			r.alignedB[start:end],
		}, "\n"))
	}
	return strings.Join(blocks, "\n\n"), nil
}
