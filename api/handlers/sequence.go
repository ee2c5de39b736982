package handlers

import (
	"net/http"

	"github.com/aria-lang/mismatch-go/pkg/mismatch"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence    string `json:"sequence"`
	Nucleotides bool   `json:"nucleotides"`
}

func (s SequenceRequest) parse() (*mismatch.Sequence, error) {
	return mismatch.NewSequenceWithID(s.Sequence, "", mismatch.AlphabetOf(s.Nucleotides))
}

// SequenceInfoResponse represents sequence composition.
type SequenceInfoResponse struct {
	Length    int            `json:"length"`
	Alphabet  string         `json:"alphabet"`
	Counts    map[string]int `json:"counts"`
	GCContent *float64       `json:"gc_content,omitempty"`
}

// SequenceInfoHandler handles sequence info requests.
func SequenceInfoHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	seq, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comp := mismatch.SequenceComposition(seq)
	counts := make(map[string]int, len(comp.Counts))
	for symbol, n := range comp.Counts {
		counts[string(symbol)] = n
	}
	resp := SequenceInfoResponse{
		Length:   comp.Length,
		Alphabet: comp.Alphabet.String(),
		Counts:   counts,
	}
	if req.Nucleotides {
		gc := comp.GCContent
		resp.GCContent = &gc
	}
	writeJSON(w, http.StatusOK, resp)
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateHandler handles sequence validation requests.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	if _, err := req.parse(); err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
}

// TranslateResponse represents the response for translation.
type TranslateResponse struct {
	Protein string `json:"protein"`
	Codons  int    `json:"codons"`
}

// TranslateHandler translates a nucleotide sequence with the standard code.
func TranslateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}
	seq, err := mismatch.NewSequence(req.Sequence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	protein, err := seq.Translate()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TranslateResponse{
		Protein: protein.Residues(),
		Codons:  protein.Len(),
	})
}
