package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAlignment(t *testing.T) {
	before := testutil.ToFloat64(alignmentsTotal.WithLabelValues("nucleotides"))
	ObserveAlignment("nucleotides", 120, 3*time.Millisecond)
	ObserveAlignment("nucleotides", 80, time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(alignmentsTotal.WithLabelValues("nucleotides")))
}

func TestTrialHook(t *testing.T) {
	success := trialsTotal.WithLabelValues("7", "success")
	failure := trialsTotal.WithLabelValues("7", "failure")
	s0, f0 := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	hook := TrialHook(7)
	hook(1.5, true)
	hook(0.2, false)
	hook(0.1, false)

	assert.Equal(t, s0+1, testutil.ToFloat64(success))
	assert.Equal(t, f0+2, testutil.ToFloat64(failure))
}

func TestObserveWorker(t *testing.T) {
	ok0 := testutil.ToFloat64(workerRuns.WithLabelValues("ok"))
	err0 := testutil.ToFloat64(workerRuns.WithLabelValues("error"))

	ObserveWorker(nil, time.Second)
	ObserveWorker(errors.New("exit status 1"), time.Second)

	assert.Equal(t, ok0+1, testutil.ToFloat64(workerRuns.WithLabelValues("ok")))
	assert.Equal(t, err0+1, testutil.ToFloat64(workerRuns.WithLabelValues("error")))
}

func TestObserveRequest(t *testing.T) {
	c := httpRequests.WithLabelValues("/health", "200")
	before := testutil.ToFloat64(c)
	ObserveRequest("/health", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
