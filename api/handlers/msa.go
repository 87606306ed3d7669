package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aria-lang/bioflow-msa/internal/config"
	"github.com/aria-lang/bioflow-msa/internal/msa"
	"github.com/aria-lang/bioflow-msa/internal/stats"
)

// MaxMSASequences bounds the number of sequences of one request; pair
// scoring grows quadratically with it.
const MaxMSASequences = 200

func defaultID(i int) string {
	return fmt.Sprintf("seq%d", i+1)
}

// MSARequest represents a progressive alignment request.
type MSARequest struct {
	SequenceSetRequest
	Alphabet string `json:"alphabet,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Workers  int    `json:"workers,omitempty"`
	ScoringRequest
}

// AlignedMember is one row of the alignment.
type AlignedMember struct {
	ID      string `json:"id"`
	Aligned string `json:"aligned"`
}

// PairResponse is one entry of the pair ranking.
type PairResponse struct {
	A          string  `json:"a"`
	B          string  `json:"b"`
	Similarity float64 `json:"similarity"`
}

// MergeResponse describes one progressive merge.
type MergeResponse struct {
	Group          string  `json:"group"`
	Left           string  `json:"left"`
	Right          string  `json:"right"`
	Similarity     float64 `json:"similarity"`
	Score          int     `json:"score"`
	Size           int     `json:"size"`
	Representative string  `json:"representative"`
}

// MSAResponse represents the response for a progressive alignment.
type MSAResponse struct {
	Group            string             `json:"group"`
	Mode             string             `json:"mode"`
	Width            int                `json:"width"`
	Score            int                `json:"score"`
	Representative   string             `json:"representative"`
	Members          []AlignedMember    `json:"members"`
	Pairs            []PairResponse     `json:"pairs"`
	Merges           []MergeResponse    `json:"merges"`
	Totals           map[string]float64 `json:"totals"`
	IDs              []string           `json:"ids"`
	Similarity       [][]float64        `json:"similarity"`
	GapFraction      float64            `json:"gap_fraction"`
	ConservedColumns int                `json:"conserved_columns"`
	MeanIdentity     float64            `json:"mean_identity"`
	Consensus        string             `json:"consensus"`
}

// MSAHandler handles progressive alignment requests, logging with the
// default slog logger.
func MSAHandler(w http.ResponseWriter, r *http.Request) {
	NewMSAHandler(slog.Default())(w, r)
}

// NewMSAHandler returns a progressive alignment handler logging to logger.
// Scoring defaults to global mode, match 1, mismatch -1, gap -7 and
// BLOSUM62 for gap-free columns.
func NewMSAHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MSARequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Sequences) == 0 {
			writeError(w, http.StatusBadRequest, "at least one sequence is required")
			return
		}
		if len(req.Sequences) > MaxMSASequences {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d sequences per request", MaxMSASequences))
			return
		}

		for i := range req.Sequences {
			if req.Sequences[i].Alphabet == "" {
				req.Sequences[i].Alphabet = req.Alphabet
			}
		}
		records, err := req.records()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		cfg := config.Default()
		if req.Mode != "" {
			cfg.Mode = req.Mode
		}
		if req.Workers > 0 {
			cfg.Workers = req.Workers
		}
		scoring, err := req.apply(cfg)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode, err := cfg.AlignMode()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := msa.Align(r.Context(), records, msa.Options{
			Mode:    mode,
			Scoring: scoring,
			Workers: cfg.Workers,
			Logger:  logger,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err.Error())
			return
		}

		summary, err := stats.FromGroup(res.Group)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		resp := MSAResponse{
			Group:            res.Group.ID.String(),
			Mode:             mode.String(),
			Width:            summary.Width,
			Score:            res.Group.Score,
			Representative:   summary.Representative,
			Members:          make([]AlignedMember, 0, res.Group.Size()),
			Pairs:            make([]PairResponse, 0, len(res.Pairs)),
			Merges:           make([]MergeResponse, 0, len(res.Merges)),
			Totals:           make(map[string]float64, len(res.Totals)),
			IDs:              make([]string, 0, len(res.Inputs)),
			Similarity:       res.SimilarityRows(),
			GapFraction:      summary.GapFraction,
			ConservedColumns: summary.ConservedColumns,
			MeanIdentity:     summary.MeanIdentity,
			Consensus:        summary.Consensus,
		}
		for _, in := range res.Inputs {
			resp.IDs = append(resp.IDs, in.ID)
		}
		for _, m := range res.Members() {
			resp.Members = append(resp.Members, AlignedMember{ID: m.ID, Aligned: m.Residues})
		}
		for _, p := range res.Pairs {
			resp.Pairs = append(resp.Pairs, PairResponse{A: p.A.ID, B: p.B.ID, Similarity: p.Score})
		}
		for _, m := range res.Merges {
			resp.Merges = append(resp.Merges, MergeResponse{
				Group:          m.GroupID.String(),
				Left:           m.Left,
				Right:          m.Right,
				Similarity:     m.Similarity,
				Score:          m.Score,
				Size:           m.Size,
				Representative: m.Representative,
			})
		}
		for rec, total := range res.Totals {
			resp.Totals[rec.ID] += total
		}

		writeJSON(w, resp)
	}
}
