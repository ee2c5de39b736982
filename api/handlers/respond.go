// Package handlers provides HTTP handlers for the mismatch API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

// maxBodyBytes bounds request bodies; sequences are small compared to this.
const maxBodyBytes = 8 << 20

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// decode reads a JSON body into v and writes a 400 response on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "empty request body")
		default:
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return false
	}
	return true
}

// PairRequest names two sequences to align. Query runs along the rows.
type PairRequest struct {
	Query       string `json:"query"`
	Reference   string `json:"reference"`
	Nucleotides bool   `json:"nucleotides"`
}

func (p PairRequest) sequences(limits Limits) (*mismatch.Sequence, *mismatch.Sequence, error) {
	if err := limits.checkLength("query", p.Query); err != nil {
		return nil, nil, err
	}
	if err := limits.checkLength("reference", p.Reference); err != nil {
		return nil, nil, err
	}

	alphabet := mismatch.AlphabetOf(p.Nucleotides)
	query, err := mismatch.NewSequenceWithID(p.Query, "query", alphabet)
	if err != nil {
		return nil, nil, errors.New("query: " + err.Error())
	}
	reference, err := mismatch.NewSequenceWithID(p.Reference, "reference", alphabet)
	if err != nil {
		return nil, nil, errors.New("reference: " + err.Error())
	}
	return query, reference, nil
}

// align validates the pair and aligns it, writing an error response on failure.
func (p PairRequest) align(w http.ResponseWriter, r *http.Request) (*mismatch.Sequence, *mismatch.Sequence, *mismatch.Result, bool) {
	query, reference, err := p.sequences(limitsFrom(r.Context()))
	if err != nil {
		writeError(w, sequenceStatus(err), err.Error())
		return nil, nil, nil, false
	}
	res, err := mismatch.Align(query, reference)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, nil, false
	}
	return query, reference, res, true
}
