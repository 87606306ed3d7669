package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aria-lang/bioflow-msa/api/handlers"
	"github.com/aria-lang/bioflow-msa/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func newRouter(logger *slog.Logger, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", handlers.ValidateHandler)
		})

		r.Route("/alignment", func(r chi.Router) {
			r.Post("/local", handlers.LocalAlignHandler)
			r.Post("/global", handlers.GlobalAlignHandler)
			r.Post("/score", handlers.AlignmentScoreHandler)
			r.Post("/matrix", handlers.MatrixHandler)
		})

		r.Post("/msa", handlers.NewMSAHandler(logger))

		r.Route("/stats", func(r chi.Router) {
			r.Post("/sequence", handlers.SequenceStatsHandler)
			r.Post("/set", handlers.SequenceSetStatsHandler)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(homePage))
	})

	return r
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>BioFlow API</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
        h1 { color: #2563eb; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 0.5rem; overflow-x: auto; }
        .endpoint { margin: 1rem 0; padding: 1rem; border: 1px solid #e5e7eb; border-radius: 0.5rem; }
        .method { display: inline-block; padding: 0.25rem 0.5rem; background: #10b981; color: white; border-radius: 0.25rem; font-size: 0.875rem; }
    </style>
</head>
<body>
    <h1>BioFlow API</h1>
    <p>A REST API for pairwise and progressive multiple sequence alignment.</p>

    <h2>Endpoints</h2>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/global</code>
        <p>Global alignment (Needleman-Wunsch). Scoring defaults to match 2, mismatch -1, gap -2.</p>
        <pre>{"sequence1": "ACGTTGCA", "sequence2": "TGCA", "alphabet": "dna"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/local</code>
        <p>Local alignment (Smith-Waterman), unmatched flanks included.</p>
        <pre>{"sequence1": "ATGCATGC", "sequence2": "ATGCGGGG", "alphabet": "dna"}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/alignment/matrix</code>
        <p>Filled score and direction grids.</p>
        <pre>{"sequence1": "AT", "sequence2": "TA", "mode": "global", "match": 1, "mismatch": -1, "gap": -1}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/msa</code>
        <p>Progressive multiple alignment. Defaults to global mode with BLOSUM62 on gap-free columns.</p>
        <pre>{"sequences": [{"id": "a", "sequence": "MKVL"}, {"id": "b", "sequence": "MKL"}, {"id": "c", "sequence": "MRVL"}], "workers": 2}</pre>
    </div>

    <div class="endpoint">
        <span class="method">POST</span> <code>/api/stats/set</code>
        <p>Length statistics of a sequence set.</p>
        <pre>{"sequences": [{"sequence": "MKV"}, {"sequence": "MKVLA"}]}</pre>
    </div>
</body>
</html>`
