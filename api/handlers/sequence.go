// Package handlers provides HTTP handlers for the BioFlow API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/aria-lang/bioflow-msa/internal/stats"
	"github.com/aria-lang/bioflow-msa/pkg/bioflow"
)

// SequenceRequest represents a request with one sequence.
type SequenceRequest struct {
	ID       string `json:"id,omitempty"`
	Sequence string `json:"sequence"`
	Alphabet string `json:"alphabet,omitempty"`
}

func (req SequenceRequest) record(fallbackID string) (*bioflow.Record, error) {
	alpha, err := sequence.ParseAlphabet(req.Alphabet)
	if err != nil {
		return nil, err
	}
	id := req.ID
	if id == "" {
		id = fallbackID
	}
	return sequence.WithAlphabet(id, req.Sequence, alpha)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateHandler handles sequence validation requests.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := req.record("sequence"); err != nil {
		writeJSON(w, ValidateResponse{Valid: false, Message: err.Error()})
		return
	}
	writeJSON(w, ValidateResponse{Valid: true})
}

// SequenceStatsResponse represents per-record statistics.
type SequenceStatsResponse struct {
	ID          string         `json:"id"`
	Length      int            `json:"length"`
	Gaps        int            `json:"gaps"`
	Composition map[string]int `json:"composition"`
	GCContent   float64        `json:"gc_content"`
}

// SequenceStatsHandler handles sequence statistics requests.
func SequenceStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := req.record("sequence")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s := stats.FromRecord(rec)
	composition := make(map[string]int, len(s.Composition))
	for c, n := range s.Composition {
		composition[string(c)] = n
	}

	writeJSON(w, SequenceStatsResponse{
		ID:          s.ID,
		Length:      s.Length,
		Gaps:        s.Gaps,
		Composition: composition,
		GCContent:   s.GCContent,
	})
}

// SequenceSetRequest represents a request with multiple sequences.
type SequenceSetRequest struct {
	Sequences []SequenceRequest `json:"sequences"`
}

func (req SequenceSetRequest) records() ([]*bioflow.Record, error) {
	records := make([]*bioflow.Record, 0, len(req.Sequences))
	for i, s := range req.Sequences {
		rec, err := s.record(defaultID(i))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// SequenceSetStatsResponse represents statistics for a set of sequences.
type SequenceSetStatsResponse struct {
	Count         int     `json:"count"`
	TotalResidues int     `json:"total_residues"`
	MinLength     int     `json:"min_length"`
	MaxLength     int     `json:"max_length"`
	MeanLength    float64 `json:"mean_length"`
	MedianLength  int     `json:"median_length"`
	N50           int     `json:"n50"`
}

// SequenceSetStatsHandler handles sequence set statistics requests.
func SequenceSetStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, err := req.records()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := bioflow.RecordSetStats(records)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, SequenceSetStatsResponse{
		Count:         s.Count,
		TotalResidues: s.TotalResidues,
		MinLength:     s.MinLength,
		MaxLength:     s.MaxLength,
		MeanLength:    s.MeanLength,
		MedianLength:  s.MedianLength,
		N50:           s.N50,
	})
}
