package handlers

import (
	"errors"
	"net/http"

	"github.com/aria-lang/mismatch-go/internal/alignment"
	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

// AlignmentResponse represents the response for a global alignment.
type AlignmentResponse struct {
	AlignedQuery      string  `json:"aligned_query"`
	AlignedReference  string  `json:"aligned_reference"`
	Score             int     `json:"score"`
	Length            int     `json:"length"`
	Matches           int     `json:"matches"`
	HammingDistance   int     `json:"hamming_distance"`
	PercentSimilarity float64 `json:"percent_similarity"`
	GapsQuery         int     `json:"gaps_query"`
	GapsReference     int     `json:"gaps_reference"`
	CIGAR             string  `json:"cigar"`
}

// GlobalAlignHandler handles global alignment requests.
func GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !decode(w, r, &req) {
		return
	}
	_, _, res, ok := req.align(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, AlignmentResponse{
		AlignedQuery:      res.AlignedA(),
		AlignedReference:  res.AlignedB(),
		Score:             res.Score(),
		Length:            res.Length(),
		Matches:           res.MatchCount(),
		HammingDistance:   res.HammingDistance(),
		PercentSimilarity: res.PercentSimilarity(),
		GapsQuery:         res.GapsA(),
		GapsReference:     res.GapsB(),
		CIGAR:             res.ToCIGAR(),
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler returns only the optimal score.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !decode(w, r, &req) {
		return
	}
	query, reference, err := req.sequences(limitsFrom(r.Context()))
	if err != nil {
		writeError(w, sequenceStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{
		Score: mismatch.Score(query.Residues(), reference.Residues(), req.Nucleotides),
	})
}

// ClustersRequest asks for mismatch statistics at one cluster count.
type ClustersRequest struct {
	PairRequest
	Clusters int `json:"clusters"`
}

// ClustersResponse represents mismatch clustering statistics.
type ClustersResponse struct {
	Clusters                  int     `json:"clusters"`
	ClusteredMismatches       []int   `json:"clustered_mismatches"`
	ClusteredMismatchVariance float64 `json:"clustered_mismatch_variance"`
	LargestMismatchPos        int     `json:"largest_mismatch_pos"`
	LargestMismatch           int     `json:"largest_mismatch"`
	HammingDistance           int     `json:"hamming_distance"`
}

// ClustersHandler handles mismatch clustering requests.
func ClustersHandler(w http.ResponseWriter, r *http.Request) {
	var req ClustersRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Clusters < 1 {
		writeError(w, http.StatusBadRequest, alignment.ErrInvalidClusterCount.Error())
		return
	}
	_, _, res, ok := req.align(w, r)
	if !ok {
		return
	}

	hist, err := res.ClusteredMismatches(req.Clusters)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	variance, err := res.ClusteredMismatchVariance(req.Clusters)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pos, size := res.LargestMismatch()

	writeJSON(w, http.StatusOK, ClustersResponse{
		Clusters:                  req.Clusters,
		ClusteredMismatches:       hist,
		ClusteredMismatchVariance: variance,
		LargestMismatchPos:        pos,
		LargestMismatch:           size,
		HammingDistance:           res.HammingDistance(),
	})
}

// FormatRequest asks for a rendered alignment.
type FormatRequest struct {
	PairRequest
	LineLength int `json:"line_length"`
}

// FormatHandler renders the alignment as plain text.
func FormatHandler(w http.ResponseWriter, r *http.Request) {
	req := FormatRequest{LineLength: 100}
	if !decode(w, r, &req) {
		return
	}
	_, _, res, ok := req.align(w, r)
	if !ok {
		return
	}

	text, err := res.Format(req.LineLength)
	if errors.Is(err, alignment.ErrInvalidLineLength) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(text + "\n"))
}
