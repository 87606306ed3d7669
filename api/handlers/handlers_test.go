package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", ValidateHandler)
		})
		r.Route("/alignment", func(r chi.Router) {
			r.Post("/local", LocalAlignHandler)
			r.Post("/global", GlobalAlignHandler)
			r.Post("/score", AlignmentScoreHandler)
			r.Post("/matrix", MatrixHandler)
		})
		r.Post("/msa", NewMSAHandler(slog.New(slog.NewTextHandler(io.Discard, nil))))
		r.Route("/stats", func(r chi.Router) {
			r.Post("/sequence", SequenceStatsHandler)
			r.Post("/set", SequenceSetStatsHandler)
		})
	})
	return r
}

func post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&v), rec.Body.String())
	return v
}

func TestGlobalAlignHandler(t *testing.T) {
	rec := post(t, "/api/alignment/global",
		`{"sequence1":"AC","sequence2":"AGC","match":1,"mismatch":-1,"gap":-1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[AlignmentResponse](t, rec)
	assert.Equal(t, "A-C", resp.AlignedSeq1)
	assert.Equal(t, "AGC", resp.AlignedSeq2)
	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, "global", resp.Mode)
	assert.Equal(t, "seq1", resp.ID1)
	assert.Equal(t, "1M1I1M", resp.CIGAR)
	assert.Equal(t, 2, resp.Matches)
	assert.Equal(t, 1, resp.Gaps)
}

func TestLocalAlignHandler(t *testing.T) {
	rec := post(t, "/api/alignment/local",
		`{"id1":"x","sequence1":"ACGT","id2":"y","sequence2":"CGT","alphabet":"dna"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[AlignmentResponse](t, rec)
	assert.Equal(t, "ACGT", resp.AlignedSeq1)
	assert.Equal(t, "-CGT", resp.AlignedSeq2)
	assert.Equal(t, 6, resp.Score)
	assert.Equal(t, "local", resp.Mode)
	assert.Equal(t, "x", resp.ID1)
	assert.Equal(t, "y", resp.ID2)
}

func TestAlignHandlerErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"invalid body", `{"sequence1":`, "invalid request body"},
		{"invalid residue", `{"sequence1":"MKJ","sequence2":"MK"}`, "sequence1"},
		{"empty second", `{"sequence1":"MK","sequence2":""}`, "sequence2"},
		{"unknown alphabet", `{"sequence1":"MK","sequence2":"MK","alphabet":"codon"}`, "alphabet"},
		{"unknown model", `{"sequence1":"MK","sequence2":"MK","substitution":"pam30"}`, "pam30"},
		{"mismatch above match", `{"sequence1":"MK","sequence2":"MK","match":-3}`, "mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, "/api/alignment/global", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Contains(t, resp.Error, tt.wantMsg)
		})
	}
}

func TestSubstitutionOverride(t *testing.T) {
	rec := post(t, "/api/alignment/global",
		`{"sequence1":"WC","sequence2":"WC","substitution":"blosum62"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, decode[AlignmentResponse](t, rec).Score)

	rec = post(t, "/api/alignment/global",
		`{"sequence1":"ACGU","sequence2":"ACGA","alphabet":"rna","substitution":"blosum62"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error, "BLOSUM62")
}

func TestAlignmentScoreHandler(t *testing.T) {
	rec := post(t, "/api/alignment/score", `{"sequence1":"ACGT","sequence2":"CGT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, decode[ScoreResponse](t, rec).Score)
}

func TestMatrixHandler(t *testing.T) {
	rec := post(t, "/api/alignment/matrix",
		`{"sequence1":"AT","sequence2":"TA","match":1,"mismatch":-1,"gap":-1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[MatrixResponse](t, rec)
	assert.Equal(t, "global", resp.Mode)
	assert.Equal(t, 3, resp.Rows)
	assert.Equal(t, 3, resp.Cols)
	assert.Equal(t, [][]int{{0, -1, -2}, {-1, -1, 0}, {-2, 0, -1}}, resp.Scores)
	assert.Equal(t, []string{"up", "left"}, resp.Directions[2][2])
	assert.Equal(t, []string{"diag"}, resp.Directions[1][1])
	assert.Equal(t, -1, resp.Best)
	assert.Equal(t, [2]int{2, 2}, resp.BestCell)
	assert.NotEmpty(t, resp.Rendered)

	rec = post(t, "/api/alignment/matrix",
		`{"sequence1":"ACGT","sequence2":"CGT","mode":"local","match":1,"mismatch":-1,"gap":-1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[MatrixResponse](t, rec)
	assert.Equal(t, 3, resp.Best)
	assert.Equal(t, [2]int{3, 4}, resp.BestCell)
	assert.Equal(t, []string{"stop"}, resp.Directions[0][0])

	rec = post(t, "/api/alignment/matrix", `{"sequence1":"AT","sequence2":"TA","mode":"banded"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMSAHandler(t *testing.T) {
	body := `{
		"sequences": [
			{"id": "s1", "sequence": "AC"},
			{"id": "s2", "sequence": "AC"},
			{"id": "s3", "sequence": "AG"}
		],
		"match": 1, "mismatch": -1, "gap": -1, "substitution": "none"
	}`
	rec := post(t, "/api/msa", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[MSAResponse](t, rec)
	assert.Equal(t, "global", resp.Mode)
	assert.Equal(t, 3, resp.Width)
	assert.Equal(t, "s1", resp.Representative)
	assert.Equal(t, []AlignedMember{
		{ID: "s1", Aligned: "A-C"},
		{ID: "s2", Aligned: "A-C"},
		{ID: "s3", Aligned: "AG-"},
	}, resp.Members)

	require.Len(t, resp.Pairs, 3)
	assert.Equal(t, PairResponse{A: "s1", B: "s2", Similarity: 1.0}, resp.Pairs[0])
	require.Len(t, resp.Merges, 2)
	assert.Equal(t, resp.Group, resp.Merges[1].Group)
	assert.Equal(t, 1.5, resp.Totals["s1"])
	assert.Equal(t, 1, resp.ConservedColumns)

	assert.Equal(t, []string{"s1", "s2", "s3"}, resp.IDs)
	assert.Equal(t, [][]float64{
		{1, 1, 0.5},
		{1, 1, 0.5},
		{0.5, 0.5, 1},
	}, resp.Similarity)
}

func TestMSAHandlerDefaults(t *testing.T) {
	body := `{"sequences": [{"sequence": "MKV"}, {"sequence": "MRV"}], "workers": 2}`
	rec := post(t, "/api/msa", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[MSAResponse](t, rec)
	assert.Equal(t, "seq1", resp.Members[0].ID)
	assert.Equal(t, "MRV", resp.Members[1].Aligned)
	assert.Equal(t, 3, resp.Width)
	assert.Equal(t, []string{"seq1", "seq2"}, resp.IDs)
	require.Len(t, resp.Similarity, 2)
	assert.Equal(t, resp.Similarity[0][1], resp.Similarity[1][0])
	assert.Equal(t, 1.0, resp.Similarity[1][1])
}

func TestMSAHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid body", `[`},
		{"no sequences", `{"sequences": []}`},
		{"unknown mode", `{"sequences": [{"sequence": "MK"}], "mode": "banded"}`},
		{"invalid residue", `{"sequences": [{"sequence": "MK"}, {"sequence": "ACGU"}], "alphabet": "dna"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, "/api/msa", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}
}

func TestValidateHandler(t *testing.T) {
	rec := post(t, "/api/sequence/validate", `{"sequence":"ACGT","alphabet":"dna"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ValidateResponse](t, rec).Valid)

	rec = post(t, "/api/sequence/validate", `{"sequence":"ACGU","alphabet":"dna"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ValidateResponse](t, rec)
	assert.False(t, resp.Valid)
	assert.NotEmpty(t, resp.Message)
}

func TestStatsHandlers(t *testing.T) {
	rec := post(t, "/api/stats/sequence", `{"id":"r","sequence":"GGCA","alphabet":"dna"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[SequenceStatsResponse](t, rec)
	assert.Equal(t, 4, s.Length)
	assert.Equal(t, 2, s.Composition["G"])
	assert.InDelta(t, 0.75, s.GCContent, 0.0001)

	rec = post(t, "/api/stats/set", `{"sequences":[{"sequence":"MKV"},{"sequence":"MKVLA"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	set := decode[SequenceSetStatsResponse](t, rec)
	assert.Equal(t, 2, set.Count)
	assert.Equal(t, 8, set.TotalResidues)
	assert.Equal(t, 5, set.MaxLength)

	rec = post(t, "/api/stats/set", `{"sequences":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
