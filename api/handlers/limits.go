package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Defaults applied to zero Limits fields. A 3000 x 3000 alignment fills a
// matrix of about 72 MB.
const (
	DefaultMaxLength        = 3000
	DefaultMaxTrials        = 1000
	DefaultMaxClusterCounts = 16
)

// ErrSequenceTooLong is returned for a sequence longer than Limits.MaxLength.
var ErrSequenceTooLong = errors.New("sequence exceeds the length limit")

// Limits bounds the work a single request may ask for.
type Limits struct {
	// MaxLength caps each sequence of an aligned pair.
	MaxLength int
	// MaxTrials caps the trials of /api/simulation/run.
	MaxTrials int
	// MaxClusterCounts caps the cluster counts of one simulation request.
	MaxClusterCounts int
}

func (l Limits) withDefaults() Limits {
	if l.MaxLength <= 0 {
		l.MaxLength = DefaultMaxLength
	}
	if l.MaxTrials <= 0 {
		l.MaxTrials = DefaultMaxTrials
	}
	if l.MaxClusterCounts <= 0 {
		l.MaxClusterCounts = DefaultMaxClusterCounts
	}
	return l
}

func (l Limits) checkLength(name string, residues string) error {
	if len(residues) > l.MaxLength {
		return fmt.Errorf("%s: %w: %d residues, limit %d", name, ErrSequenceTooLong, len(residues), l.MaxLength)
	}
	return nil
}

type limitsKey struct{}

// withLimits stores l in the request context for the handlers below it.
func withLimits(l Limits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), limitsKey{}, l)))
		})
	}
}

// limitsFrom returns the limits installed by Mount, or the defaults when a
// handler is served on its own.
func limitsFrom(ctx context.Context) Limits {
	if l, ok := ctx.Value(limitsKey{}).(Limits); ok {
		return l
	}
	return Limits{}.withDefaults()
}

// sequenceStatus maps a pair validation error to its response status.
func sequenceStatus(err error) int {
	if errors.Is(err, ErrSequenceTooLong) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
