package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

// SimulationRequest asks for a Monte Carlo clustering test.
type SimulationRequest struct {
	PairRequest
	ClusterCounts []int  `json:"cluster_counts"`
	Trials        int    `json:"trials"`
	Seed          uint64 `json:"seed"`
}

// SimulationOutcome is the test result for one cluster count.
type SimulationOutcome struct {
	Clusters         int     `json:"clusters"`
	ObservedVariance float64 `json:"observed_variance"`
	PValue           float64 `json:"p_value"`
	NTrials          int     `json:"n_trials"`
	NSuccesses       int     `json:"n_successes"`
}

// SimulationResponse represents the response for a simulation run.
type SimulationResponse struct {
	Outcomes []SimulationOutcome `json:"outcomes"`
}

// NewSimulationHandler returns a handler that runs the test in the request
// goroutine. Requests beyond limits are rejected; larger budgets belong to
// the orchestrate command.
func NewSimulationHandler(limits Limits, logger *slog.Logger) http.HandlerFunc {
	limits = limits.withDefaults()
	maxTrials := limits.MaxTrials
	return func(w http.ResponseWriter, r *http.Request) {
		var req SimulationRequest
		if !decode(w, r, &req) {
			return
		}
		if req.Trials < 1 || req.Trials > maxTrials {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("trials must be between 1 and %d", maxTrials))
			return
		}
		if len(req.ClusterCounts) > limits.MaxClusterCounts {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d cluster counts per request", limits.MaxClusterCounts))
			return
		}
		if len(req.ClusterCounts) == 0 {
			req.ClusterCounts = []int{20}
		}
		query, reference, err := req.sequences(limits)
		if err != nil {
			writeError(w, sequenceStatus(err), err.Error())
			return
		}

		outcomes, err := mismatch.TestClustering(r.Context(), query, reference, req.ClusterCounts, req.Trials, req.Seed)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "simulation cancelled")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		resp := SimulationResponse{Outcomes: make([]SimulationOutcome, len(outcomes))}
		for i, o := range outcomes {
			resp.Outcomes[i] = SimulationOutcome{
				Clusters:         o.Clusters,
				ObservedVariance: o.Observed,
				PValue:           o.Result.PValue,
				NTrials:          o.Result.NTrials,
				NSuccesses:       o.Result.NSuccesses,
			}
		}
		if logger != nil {
			logger.Info("simulation finished",
				slog.Int("trials", req.Trials),
				slog.Int("cluster_counts", len(outcomes)),
			)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
