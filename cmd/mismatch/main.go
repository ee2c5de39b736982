// Command mismatch aligns two sequences and tests whether their mismatches
// cluster more than chance would allow.
//
// Usage:
//
//	mismatch [command] [options]
//
// Commands:
//
//	align        Align two sequences and print the alignment
//	analyze      Write alignment reports for every cluster count
//	simulate     Run one worker's share of the Monte Carlo trials
//	orchestrate  Split the trial budget across workers and aggregate
//	version      Show version information
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/aria-lang/mismatch-go/internal/config"
	"github.com/aria-lang/mismatch-go/internal/logging"
	"github.com/aria-lang/mismatch-go/internal/stats"
	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "align":
		alignCmd(os.Args[2:])
	case "analyze":
		analyzeCmd(os.Args[2:])
	case "simulate":
		simulateCmd(os.Args[2:])
	case "orchestrate":
		orchestrateCmd(os.Args[2:])
	case "version":
		fmt.Println(mismatch.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mismatch - Mismatch Clustering Analysis

Usage:
  mismatch <command> [options]

Commands:
  align        Align two sequences and print the alignment
  analyze      Write alignment reports for every cluster count
  simulate     Run one worker's share of the Monte Carlo trials
  orchestrate  Split the trial budget across workers and aggregate
  version      Show version information
  help         Show this help message

Use "mismatch <command> -h" for more information about a command.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// inputs are the flags shared by every command that reads a sequence pair.
type inputs struct {
	config      string
	query       string
	reference   string
	nucleotides bool
}

func (in *inputs) register(fs *flag.FlagSet) {
	fs.StringVar(&in.config, "config", "", "YAML options file")
	fs.StringVar(&in.query, "query", "", "FASTA file with the query sequence")
	fs.StringVar(&in.reference, "reference", "", "FASTA file with the reference sequence")
	fs.BoolVar(&in.nucleotides, "nucleotides", false, "Treat sequences as nucleotides")
}

// options loads the config file and lets explicitly set flags override it.
func (in *inputs) options(fs *flag.FlagSet) config.Options {
	opts, err := config.Load(in.config)
	if err != nil {
		fatal("%v", err)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "nucleotides" {
			opts.Nucleotides = in.nucleotides
		}
	})
	return opts
}

// pair reads the first record of the query and reference files.
func (in *inputs) pair(fs *flag.FlagSet, opts config.Options) (*mismatch.Sequence, *mismatch.Sequence) {
	if in.query == "" || in.reference == "" {
		fmt.Fprintln(os.Stderr, "Error: Both -query and -reference are required")
		fs.Usage()
		os.Exit(1)
	}

	alphabet := mismatch.AlphabetOf(opts.Nucleotides)
	query, err := mismatch.LoadSequence(in.query, alphabet)
	if err != nil {
		fatal("reading query: %v", err)
	}
	reference, err := mismatch.LoadSequence(in.reference, alphabet)
	if err != nil {
		fatal("reading reference: %v", err)
	}
	return query, reference
}

func newLogger(opts config.Options) *slog.Logger {
	logger, err := logging.New(os.Stderr, opts.LogLevel, opts.LogFormat)
	if err != nil {
		fatal("%v", err)
	}
	return logger
}

// parseClusters parses a comma separated list such as "10,20,40".
func parseClusters(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid cluster count %q", field)
		}
		counts = append(counts, k)
	}
	return counts, nil
}

// clusterSummary returns the mismatch histogram over k windows and its
// population variance. An empty histogram has variance 0.
func clusterSummary(result *mismatch.Result, k int) ([]int, float64, error) {
	hist, err := result.ClusteredMismatches(k)
	if err != nil {
		return nil, 0, err
	}
	if len(hist) == 0 {
		return hist, 0, nil
	}
	variance, err := stats.PopulationVariance(hist)
	if err != nil {
		return nil, 0, err
	}
	return hist, variance, nil
}

func alignCmd(args []string) {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	var in inputs
	in.register(fs)
	seq1 := fs.String("seq1", "", "Query sequence given inline")
	seq2 := fs.String("seq2", "", "Reference sequence given inline")
	lineLength := fs.Int("line-length", 0, "Columns per block (default from config)")
	clusters := fs.Int("clusters", 0, "Also report the mismatch histogram over this many windows")
	fs.Parse(args)

	opts := in.options(fs)
	if *lineLength > 0 {
		opts.LineLength = *lineLength
	}

	var query, reference *mismatch.Sequence
	if *seq1 != "" || *seq2 != "" {
		var err error
		alphabet := mismatch.AlphabetOf(opts.Nucleotides)
		if query, err = mismatch.NewSequenceWithID(*seq1, "query", alphabet); err != nil {
			fatal("creating query: %v", err)
		}
		if reference, err = mismatch.NewSequenceWithID(*seq2, "reference", alphabet); err != nil {
			fatal("creating reference: %v", err)
		}
	} else {
		query, reference = in.pair(fs, opts)
	}

	result, err := mismatch.Align(query, reference)
	if err != nil {
		fatal("aligning sequences: %v", err)
	}
	formatted, err := result.Format(opts.LineLength)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Println(formatted)
	fmt.Println()
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Score: %d\n", result.Score())
	fmt.Printf("Length: %s columns\n", humanize.Comma(int64(result.Length())))
	fmt.Printf("Hamming distance: %s\n", humanize.Comma(int64(result.HammingDistance())))
	fmt.Printf("Percent similarity: %.2f%%\n", result.PercentSimilarity()*100)
	if pos, size := result.LargestMismatch(); size > 0 {
		fmt.Printf("Largest mismatch: %d bp at column %d\n", size, pos)
	}
	if *clusters > 0 {
		hist, variance, err := clusterSummary(result, *clusters)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Clustered mismatches (%d): %v\n", *clusters, hist)
		fmt.Printf("Variance between clusters: %g\n", variance)
	}
}

func analyzeCmd(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var in inputs
	in.register(fs)
	output := fs.String("output", "", "Directory for the report files (default from config)")
	name := fs.String("name", "", "Report file prefix (default: query_reference)")
	clusterList := fs.String("clusters", "", "Comma separated cluster counts (default from config)")
	fs.Parse(args)

	opts := in.options(fs)
	if *output != "" {
		opts.OutputDir = *output
	}
	if *clusterList != "" {
		counts, err := parseClusters(*clusterList)
		if err != nil {
			fatal("%v", err)
		}
		opts.ClusterCounts = counts
	}
	if err := opts.Validate(); err != nil {
		fatal("%v", err)
	}
	logger := newLogger(opts)

	query, reference := in.pair(fs, opts)
	result, err := mismatch.Align(query, reference)
	if err != nil {
		fatal("aligning sequences: %v", err)
	}

	prefix := *name
	if prefix == "" {
		prefix = query.ID() + "_" + reference.ID()
	}
	metas, err := mismatch.WriteReport(opts.OutputDir, prefix, opts.LineLength, query, reference, result, opts.ClusterCounts)
	if err != nil {
		fatal("writing report: %v", err)
	}

	for _, m := range metas {
		logger.Info("report written",
			slog.String("name", prefix),
			slog.Int("clusters", m.Clusters),
			slog.Float64("variance", m.ClusteredMismatchVariance),
			slog.String("dir", opts.OutputDir),
		)
	}
	fmt.Printf("Score: %d, Hamming distance: %d, Percent similarity: %.2f%%\n",
		result.Score(), result.HammingDistance(), result.PercentSimilarity()*100)
}
