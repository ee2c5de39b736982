// Package fasta reads FASTA files.
//
// A record name is the first whitespace-separated token of its header line.
// Sequence lines are trimmed, upper-cased and concatenated. Plain files are
// memory-mapped; gzip input (magic bytes 1F 8B or a .gz suffix) is streamed.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/aria-lang/mismatch-go/internal/sequence"
)

var (
	// ErrNotFASTA is returned when the input does not start with '>'.
	ErrNotFASTA = errors.New("fasta: input is not a FASTA file")
	// ErrNoRecords is returned by First for input without records.
	ErrNoRecords = errors.New("fasta: no records")
)

const maxLine = 64 << 20

// Record is one FASTA entry.
type Record struct {
	Name        string
	Description string
	Residues    string
}

// Sequence validates the record against alphabet.
func (r Record) Sequence(alphabet sequence.Alphabet) (*sequence.Sequence, error) {
	seq, err := sequence.WithMetadata(r.Residues, r.Name, r.Description, alphabet)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.Name, err)
	}
	return seq, nil
}

// Parse reads every record from r.
func Parse(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err != nil || first[0] != '>' {
		return nil, ErrNotFASTA
	}

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	var (
		records []Record
		current *Record
		body    strings.Builder
		lineNo  int
	)
	flush := func() {
		if current != nil {
			current.Residues = body.String()
			records = append(records, *current)
			body.Reset()
		}
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				return nil, fmt.Errorf("fasta: line %d: empty header", lineNo)
			}
			current = &Record{
				Name:        fields[0],
				Description: strings.Join(fields[1:], " "),
			}
			continue
		}
		body.WriteString(strings.ToUpper(strings.TrimSpace(line)))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("fasta: line %d: %w", lineNo+1, err)
	}
	flush()

	return records, nil
}

// ReadFile reads every record from the file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var sig [2]byte
	n, _ := io.ReadFull(f, sig[:])
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer gr.Close()
		records, err := Parse(gr)
		return wrap(path, records, err)
	}

	// Zero-length files cannot be mapped.
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFASTA)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: map: %w", path, err)
	}
	defer mm.Unmap()

	records, err := Parse(bytes.NewReader(mm))
	return wrap(path, records, err)
}

// First returns the first record of the file at path.
func First(path string) (Record, error) {
	records, err := ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("%s: %w", path, ErrNoRecords)
	}
	return records[0], nil
}

// Write writes sequences to w in FASTA format.
func Write(w io.Writer, seqs ...*sequence.Sequence) error {
	for _, seq := range seqs {
		if _, err := io.WriteString(w, seq.ToFASTA()); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}
	return nil
}

func wrap(path string, records []Record, err error) ([]Record, error) {
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
