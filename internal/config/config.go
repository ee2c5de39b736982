// Package config holds the options shared by the CLI commands and the server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aria-lang/mismatch-go/internal/logging"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid options")

// Options configures an analysis or simulation run.
type Options struct {
	// ClusterCounts lists the window counts tested for mismatch clustering.
	ClusterCounts []int `yaml:"cluster_counts"`
	// SimulationCount is the total Monte Carlo trial budget.
	SimulationCount int `yaml:"simulation_count"`
	// Workers is the number of orchestrated workers.
	Workers int `yaml:"workers"`
	// Seed selects the random streams; 0 picks one from the clock.
	Seed uint64 `yaml:"seed"`

	DataDir    string `yaml:"data_dir"`
	OutputDir  string `yaml:"output_dir"`
	LineLength int    `yaml:"line_length"`
	// Nucleotides enables the transversion and gap penalties.
	Nucleotides bool `yaml:"nucleotides"`

	// WorkerTimeout bounds the orchestration join; 0 waits forever.
	WorkerTimeout time.Duration `yaml:"worker_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the stock options: 20 clusters, 1000 trials, one worker.
func Default() Options {
	return Options{
		ClusterCounts:   []int{20},
		SimulationCount: 1000,
		Workers:         1,
		DataDir:         "./data",
		OutputDir:       "./output",
		LineLength:      100,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads YAML options from path on top of Default. An empty path returns
// the defaults.
func Load(path string) (Options, error) {
	opts := Default()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config: %w", err)
	}
	if err := opts.decode(bytes.NewReader(data)); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse reads YAML options from r on top of Default.
func Parse(r io.Reader) (Options, error) {
	opts := Default()
	if err := opts.decode(r); err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o *Options) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(o); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Validate rejects options that cannot produce a run.
func (o Options) Validate() error {
	if len(o.ClusterCounts) == 0 {
		return fmt.Errorf("%w: cluster_counts is empty", ErrInvalid)
	}
	for _, k := range o.ClusterCounts {
		if k < 1 {
			return fmt.Errorf("%w: cluster count %d is below 1", ErrInvalid, k)
		}
	}
	if o.SimulationCount < 1 {
		return fmt.Errorf("%w: simulation_count must be at least 1", ErrInvalid)
	}
	if o.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalid)
	}
	if o.SimulationCount%o.Workers != 0 {
		return fmt.Errorf("%w: simulation_count %d is not divisible by %d workers", ErrInvalid, o.SimulationCount, o.Workers)
	}
	if o.LineLength < 1 {
		return fmt.Errorf("%w: line_length must be at least 1", ErrInvalid)
	}
	if o.WorkerTimeout < 0 {
		return fmt.Errorf("%w: worker_timeout is negative", ErrInvalid)
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if o.LogFormat != "text" && o.LogFormat != "json" {
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalid)
	}
	return nil
}

// ResolveSeed returns Seed, or a clock-derived seed when Seed is 0.
func (o Options) ResolveSeed() uint64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Marshal renders the options as YAML.
func (o Options) Marshal() ([]byte, error) {
	return yaml.Marshal(o)
}
