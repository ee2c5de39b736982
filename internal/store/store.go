// Package store persists Monte Carlo results on disk.
//
// Each worker writes one partial result per cluster count to
// monte_carlo_<k>.<id>.json. The orchestrator reads them back and writes the
// aggregate to monte_carlo_<k>.agg.json and monte_carlo_<k>.agg.txt.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aria-lang/mismatch-go/internal/simulation"
)

var (
	// ErrMissingResult is returned when an expected result file does not exist.
	ErrMissingResult = errors.New("store: result not found")
	// ErrCorruptResult is returned when a result file cannot be decoded or
	// holds inconsistent counts.
	ErrCorruptResult = errors.New("store: corrupt result")
)

// Store is a directory of result files.
type Store struct {
	dir string
}

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the result files.
func (s *Store) Dir() string { return s.dir }

// PartialName returns the file name of worker id's result for k clusters.
func PartialName(clusters, id int) string {
	return fmt.Sprintf("monte_carlo_%d.%d.json", clusters, id)
}

// AggregateName returns the file name of the aggregate result for k clusters
// with the given extension ("json" or "txt").
func AggregateName(clusters int, ext string) string {
	return fmt.Sprintf("monte_carlo_%d.agg.%s", clusters, ext)
}

// PartialPath returns the full path of a partial result.
func (s *Store) PartialPath(clusters, id int) string {
	return filepath.Join(s.dir, PartialName(clusters, id))
}

// WritePartial persists worker id's result for the given cluster count.
func (s *Store) WritePartial(clusters, id int, r simulation.Result) error {
	return s.writeJSON(PartialName(clusters, id), r)
}

// ReadPartial loads worker id's result for the given cluster count.
func (s *Store) ReadPartial(clusters, id int) (simulation.Result, error) {
	return s.readJSON(PartialName(clusters, id))
}

// RemovePartial deletes a partial result. A missing file is not an error.
func (s *Store) RemovePartial(clusters, id int) error {
	err := os.Remove(s.PartialPath(clusters, id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove partial result: %w", err)
	}
	return nil
}

// WriteAggregate writes the aggregate result as JSON and as text.
func (s *Store) WriteAggregate(clusters int, r simulation.Result) error {
	if err := s.writeJSON(AggregateName(clusters, "json"), r); err != nil {
		return err
	}
	return s.writeFile(AggregateName(clusters, "txt"), []byte(r.Format()))
}

// ReadAggregate loads the aggregate result for the given cluster count.
func (s *Store) ReadAggregate(clusters int) (simulation.Result, error) {
	return s.readJSON(AggregateName(clusters, "json"))
}

func (s *Store) writeJSON(name string, r simulation.Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.writeFile(name, append(data, '\n'))
}

func (s *Store) readJSON(name string) (simulation.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return simulation.Result{}, fmt.Errorf("%w: %s", ErrMissingResult, name)
	}
	if err != nil {
		return simulation.Result{}, fmt.Errorf("read %s: %w", name, err)
	}

	var r simulation.Result
	if err := json.Unmarshal(data, &r); err != nil {
		return simulation.Result{}, fmt.Errorf("%w: %s: %v", ErrCorruptResult, name, err)
	}
	if err := r.Validate(); err != nil {
		return simulation.Result{}, fmt.Errorf("%w: %s: %v", ErrCorruptResult, name, err)
	}
	return r, nil
}

// writeFile writes through a temporary file and a rename, so a reader never
// sees a half-written result.
func (s *Store) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
