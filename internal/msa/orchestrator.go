// Package msa builds a progressive multiple sequence alignment.
//
// Every unordered pair of input records is aligned and ranked by similarity;
// pairs are then merged in descending order, each merge aligning whatever the
// two records currently belong to (a record or an earlier group). The run
// ends when every record belongs to one group.
package msa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
)

// Options controls a run.
type Options struct {
	Mode    alignment.Mode
	Scoring *alignment.Scoring // nil selects alignment.ProteinBLOSUM62
	Workers int                // goroutines scoring pairs; <= 1 scores inline
	Logger  *slog.Logger       // nil discards
}

// DefaultOptions returns global mode with BLOSUM62 scoring.
func DefaultOptions() Options {
	return Options{
		Mode:    alignment.Global,
		Scoring: alignment.ProteinBLOSUM62(),
		Workers: 1,
	}
}

// PairScore is one entry of the pair ranking: the similarity of the pairwise
// alignment of two input records.
type PairScore struct {
	A      *sequence.Record
	B      *sequence.Record
	IndexA int
	IndexB int
	Score  float64
}

// Merge records one step of the progressive phase.
type Merge struct {
	GroupID        uuid.UUID
	Left           string
	Right          string
	Similarity     float64
	Score          int
	Size           int
	Representative string
}

// Result is the outcome of a run.
type Result struct {
	// Group is the final alignment; nil for empty input.
	Group *alignment.Group
	// Pairs holds every pair score, sorted by descending similarity.
	Pairs []PairScore
	// Totals sums the pair scores each record takes part in.
	Totals map[*sequence.Record]float64
	// Inputs holds the records in input order; it indexes Similarity.
	Inputs []*sequence.Record
	// Similarity is the pair similarity in input order, with 1 on the
	// diagonal; nil for empty input.
	Similarity *mat.SymDense
	Merges     []Merge
}

// SimilarityRows copies Similarity into one slice per input record.
func (r *Result) SimilarityRows() [][]float64 {
	if r == nil || r.Similarity == nil {
		return nil
	}
	n, _ := r.Similarity.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, r.Similarity)
	}
	return rows
}

// SimilarityTable renders Similarity with record IDs as row and column
// labels, three decimals per cell.
func (r *Result) SimilarityTable() string {
	if r == nil || r.Similarity == nil {
		return ""
	}

	width := 6
	for _, rec := range r.Inputs {
		if len(rec.ID)+1 > width {
			width = len(rec.ID) + 1
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", width, "")
	for _, rec := range r.Inputs {
		fmt.Fprintf(&sb, "%*s", width, rec.ID)
	}
	sb.WriteByte('\n')

	row := make([]float64, len(r.Inputs))
	for i, rec := range r.Inputs {
		mat.Row(row, i, r.Similarity)
		fmt.Fprintf(&sb, "%-*s", width, rec.ID)
		for _, v := range row {
			fmt.Fprintf(&sb, "%*.3f", width, v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Members returns the aligned rows of the final group.
func (r *Result) Members() []*sequence.Record {
	if r == nil || r.Group == nil {
		return nil
	}
	return r.Group.Members()
}

// Align runs the progressive alignment of records.
func Align(ctx context.Context, records []*sequence.Record, opts Options) (*Result, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}
	if opts.Scoring == nil {
		opts.Scoring = alignment.ProteinBLOSUM62()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index := make(map[*sequence.Record]int, len(records))
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("record %d is nil", i)
		}
		if _, dup := index[r]; dup {
			return nil, fmt.Errorf("record %q is listed twice", r.ID)
		}
		index[r] = i
	}

	res := &Result{Totals: make(map[*sequence.Record]float64, len(records))}
	switch len(records) {
	case 0:
		return res, nil
	case 1:
		g, err := alignment.NewGroup(records[0])
		if err != nil {
			return nil, err
		}
		g.Mode = opts.Mode
		res.Group = g
		res.Inputs = []*sequence.Record{records[0]}
		res.Totals[records[0]] = 0
		res.Similarity = mat.NewSymDense(1, []float64{1})
		return res, nil
	}

	start := time.Now()

	pairs, err := scorePairs(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	res.Inputs = append([]*sequence.Record(nil), records...)
	res.Similarity = similarityMatrix(len(records), pairs)

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	res.Pairs = pairs

	for _, r := range records {
		res.Totals[r] = 0
	}
	for _, p := range pairs {
		res.Totals[p.A] += p.Score
		res.Totals[p.B] += p.Score
	}

	membership := make(map[*sequence.Record]alignment.Operand, len(records))
	for _, r := range records {
		membership[r] = r
	}

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		left, right := membership[p.A], membership[p.B]
		if left == right {
			continue
		}

		g, err := alignment.Align(left, right, opts.Mode, opts.Scoring)
		if err != nil {
			return nil, fmt.Errorf("merging %s with %s: %w", label(left), label(right), err)
		}
		if err := g.SetRepresentative(representative(g, res.Totals, index)); err != nil {
			return nil, err
		}
		for _, o := range g.Originals() {
			membership[o] = g
		}

		m := Merge{
			GroupID:        g.ID,
			Left:           label(left),
			Right:          label(right),
			Similarity:     p.Score,
			Score:          g.Score,
			Size:           g.Size(),
			Representative: g.Representative().ID,
		}
		res.Merges = append(res.Merges, m)
		logger.Debug("merged",
			"group", m.GroupID,
			"left", m.Left,
			"right", m.Right,
			"similarity", m.Similarity,
			"score", m.Score,
			"size", m.Size,
		)
	}

	final, ok := membership[records[0]].(*alignment.Group)
	if !ok || final.Size() != len(records) {
		return nil, fmt.Errorf("progressive merge left records outside the final group")
	}
	res.Group = final

	logger.Info("msa complete",
		"mode", opts.Mode,
		"records", len(records),
		"pairs", len(pairs),
		"merges", len(res.Merges),
		"width", final.Len(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

// scorePairs aligns every unordered pair in combination order. Each job
// writes only its own slot, so results are independent of scheduling.
func scorePairs(ctx context.Context, records []*sequence.Record, opts Options) ([]PairScore, error) {
	n := len(records)
	pairs := make([]PairScore, 0, n*(n-1)/2)
	for x := 0; x < n; x++ {
		for y := x + 1; y < n; y++ {
			pairs = append(pairs, PairScore{A: records[x], B: records[y], IndexA: x, IndexB: y})
		}
	}
	errs := make([]error, len(pairs))

	score := func(k int) {
		p := &pairs[k]
		g, err := alignment.Align(p.A, p.B, opts.Mode, opts.Scoring)
		if err == nil {
			p.Score, err = alignment.Similarity(g)
		}
		if err != nil {
			errs[k] = fmt.Errorf("scoring %s/%s: %w", p.A.ID, p.B.ID, err)
		}
	}

	if opts.Workers <= 1 {
		for k := range pairs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			score(k)
			if errs[k] != nil {
				return nil, errs[k]
			}
		}
		return pairs, nil
	}

	jobs := make(chan int, opts.Workers*2)
	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case k, ok := <-jobs:
					if !ok {
						return
					}
					score(k)
				}
			}
		}()
	}

feed:
	for k := range pairs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- k:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func similarityMatrix(n int, pairs []PairScore) *mat.SymDense {
	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
	}
	for _, p := range pairs {
		sim.SetSym(p.IndexA, p.IndexB, p.Score)
	}
	return sim
}

// representative picks the member with the highest total, earliest input
// position first on ties.
func representative(g *alignment.Group, totals map[*sequence.Record]float64, index map[*sequence.Record]int) int {
	members := g.Originals()
	best := 0
	for i := 1; i < len(members); i++ {
		o, cur := members[i], members[best]
		switch {
		case totals[o] > totals[cur]:
			best = i
		case totals[o] == totals[cur] && index[o] < index[cur]:
			best = i
		}
	}
	return best
}

func label(op alignment.Operand) string {
	switch v := op.(type) {
	case *sequence.Record:
		return v.ID
	case *alignment.Group:
		return "group " + v.ID.String()
	default:
		return fmt.Sprintf("%T", op)
	}
}
