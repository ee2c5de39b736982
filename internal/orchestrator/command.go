package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CommandWorker runs each worker as a separate process:
//
//	<Path> <Args...> -id <id> -trials <trials>
//
// The process is expected to write its partial results to the shared store
// directory and exit 0.
type CommandWorker struct {
	Path string
	Args []string
	// Stdout receives the child's standard output; nil discards it.
	Stdout io.Writer
	// Stderr receives the child's standard error. When nil the tail of it is
	// kept and attached to the returned error.
	Stderr io.Writer
}

// NewSelfWorker returns a CommandWorker that re-executes the running binary.
func NewSelfWorker(args ...string) (*CommandWorker, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return &CommandWorker{Path: path, Args: args}, nil
}

// Run starts the process and waits for it. Cancelling ctx kills the process.
func (w *CommandWorker) Run(ctx context.Context, id, trials int) error {
	args := append(append([]string(nil), w.Args...),
		"-id", strconv.Itoa(id),
		"-trials", strconv.Itoa(trials),
	)
	cmd := exec.CommandContext(ctx, w.Path, args...)
	cmd.Stdout = w.Stdout

	var stderr bytes.Buffer
	if w.Stderr != nil {
		cmd.Stderr = w.Stderr
	} else {
		cmd.Stderr = &stderr
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", w.Path, ctxErr)
		}
		if msg := lastLine(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", w.Path, err, msg)
		}
		return fmt.Errorf("%s: %w", w.Path, err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
