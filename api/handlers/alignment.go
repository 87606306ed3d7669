package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/config"
	"github.com/aria-lang/bioflow-msa/pkg/bioflow"
)

// ScoringRequest overrides scoring defaults. Omitted fields keep the
// endpoint's defaults.
type ScoringRequest struct {
	Match        *int    `json:"match,omitempty"`
	Mismatch     *int    `json:"mismatch,omitempty"`
	Gap          *int    `json:"gap,omitempty"`
	Substitution *string `json:"substitution,omitempty"`
}

func (s ScoringRequest) apply(cfg *config.Config) (*alignment.Scoring, error) {
	if s.Match != nil {
		cfg.Match = *s.Match
	}
	if s.Mismatch != nil {
		cfg.Mismatch = *s.Mismatch
	}
	if s.Gap != nil {
		cfg.Gap = *s.Gap
	}
	if s.Substitution != nil {
		cfg.Substitution = *s.Substitution
	}
	return cfg.Scoring()
}

// pairwiseDefaults is the nucleotide scheme used by the pairwise endpoints.
func pairwiseDefaults() *config.Config {
	return &config.Config{
		Mode:         "global",
		Match:        2,
		Mismatch:     -1,
		Gap:          -2,
		Substitution: "none",
	}
}

// AlignmentRequest represents an alignment request.
type AlignmentRequest struct {
	ID1       string `json:"id1,omitempty"`
	Sequence1 string `json:"sequence1"`
	ID2       string `json:"id2,omitempty"`
	Sequence2 string `json:"sequence2"`
	Alphabet  string `json:"alphabet,omitempty"`
	ScoringRequest
}

func (req AlignmentRequest) records() (*bioflow.Record, *bioflow.Record, error) {
	a, err := SequenceRequest{ID: req.ID1, Sequence: req.Sequence1, Alphabet: req.Alphabet}.record("seq1")
	if err != nil {
		return nil, nil, fmt.Errorf("sequence1: %w", err)
	}
	b, err := SequenceRequest{ID: req.ID2, Sequence: req.Sequence2, Alphabet: req.Alphabet}.record("seq2")
	if err != nil {
		return nil, nil, fmt.Errorf("sequence2: %w", err)
	}
	return a, b, nil
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	ID1         string  `json:"id1"`
	ID2         string  `json:"id2"`
	Mode        string  `json:"mode"`
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       int     `json:"score"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
}

func decodePairwise(w http.ResponseWriter, r *http.Request) (*bioflow.Record, *bioflow.Record, *alignment.Scoring, bool) {
	var req AlignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, nil, false
	}

	a, b, err := req.records()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, nil, false
	}

	scoring, err := req.apply(pairwiseDefaults())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, nil, false
	}
	return a, b, scoring, true
}

func alignHandler(mode alignment.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, b, scoring, ok := decodePairwise(w, r)
		if !ok {
			return
		}

		p, err := bioflow.AlignWithScoring(a, b, mode, scoring)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, AlignmentResponse{
			ID1:         p.ID1,
			ID2:         p.ID2,
			Mode:        p.Mode.String(),
			AlignedSeq1: p.AlignedSeq1,
			AlignedSeq2: p.AlignedSeq2,
			Score:       p.Score,
			Identity:    p.Identity,
			CIGAR:       p.ToCIGAR(),
			Matches:     p.MatchCount(),
			Mismatches:  p.MismatchCount(),
			Gaps:        p.TotalGaps(),
		})
	}
}

// LocalAlignHandler handles local alignment requests. The response spans
// both sequences, unmatched flanks included.
func LocalAlignHandler(w http.ResponseWriter, r *http.Request) {
	alignHandler(alignment.Local)(w, r)
}

// GlobalAlignHandler handles global alignment requests.
func GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	alignHandler(alignment.Global)(w, r)
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// AlignmentScoreHandler returns the optimal local alignment score.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	a, b, scoring, ok := decodePairwise(w, r)
	if !ok {
		return
	}

	_, best, _, err := bioflow.FillMatrix(a, b, alignment.Local, scoring)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, ScoreResponse{Score: best})
}

// MatrixRequest represents a DP matrix request.
type MatrixRequest struct {
	AlignmentRequest
	Mode string `json:"mode,omitempty"`
}

// MatrixResponse exposes the filled score and direction grids.
type MatrixResponse struct {
	Mode       string       `json:"mode"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Scores     [][]int      `json:"scores"`
	Directions [][][]string `json:"directions"`
	Best       int          `json:"best"`
	BestCell   [2]int       `json:"best_cell"`
	Rendered   string       `json:"rendered"`
}

// MatrixHandler fills the DP matrix without traceback.
func MatrixHandler(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modeName := req.Mode
	if modeName == "" {
		modeName = "global"
	}
	mode, err := alignment.ParseMode(modeName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, b, err := req.records()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	scoring, err := req.apply(pairwiseDefaults())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, best, cell, err := bioflow.FillMatrix(a, b, mode, scoring)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dirs := make([][][]string, m.Rows())
	for i := range dirs {
		dirs[i] = make([][]string, m.Cols())
		for j := range dirs[i] {
			recorded := m.Directions[i][j]
			names := make([]string, len(recorded))
			for k, d := range recorded {
				names[k] = d.String()
			}
			dirs[i][j] = names
		}
	}

	writeJSON(w, MatrixResponse{
		Mode:       mode.String(),
		Rows:       m.Rows(),
		Cols:       m.Cols(),
		Scores:     m.Scores,
		Directions: dirs,
		Best:       best,
		BestCell:   [2]int{cell.I, cell.J},
		Rendered:   m.Render(a.Residues, b.Residues),
	})
}
