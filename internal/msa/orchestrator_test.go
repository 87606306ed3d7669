package msa

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(t testing.TB, pairs ...string) []*sequence.Record {
	t.Helper()
	require.Zero(t, len(pairs)%2)
	out := make([]*sequence.Record, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		r, err := sequence.New(pairs[i], pairs[i+1])
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}

func unitOptions(t testing.TB, mode alignment.Mode) Options {
	t.Helper()
	s, err := alignment.Simple(1, -1, -1)
	require.NoError(t, err)
	return Options{Mode: mode, Scoring: s}
}

func residues(res *Result) []string {
	var out []string
	for _, m := range res.Members() {
		out = append(out, m.Residues)
	}
	return out
}

func TestClusteringScenario(t *testing.T) {
	recs := records(t, "s1", "AC", "s2", "AC", "s3", "AG")
	s1, s2, s3 := recs[0], recs[1], recs[2]

	res, err := Align(context.Background(), recs, unitOptions(t, alignment.Global))
	require.NoError(t, err)

	require.Len(t, res.Pairs, 3)
	assert.Equal(t, []*sequence.Record{s1, s2}, []*sequence.Record{res.Pairs[0].A, res.Pairs[0].B})
	assert.Equal(t, 1.0, res.Pairs[0].Score)
	assert.Equal(t, []*sequence.Record{s1, s3}, []*sequence.Record{res.Pairs[1].A, res.Pairs[1].B})
	assert.Equal(t, 0.5, res.Pairs[1].Score)
	assert.Equal(t, []*sequence.Record{s2, s3}, []*sequence.Record{res.Pairs[2].A, res.Pairs[2].B})
	assert.Equal(t, 0.5, res.Pairs[2].Score)

	assert.Equal(t, 1.5, res.Totals[s1])
	assert.Equal(t, 1.5, res.Totals[s2])
	assert.Equal(t, 1.0, res.Totals[s3])

	assert.Equal(t, []string{"A-C", "A-C", "AG-"}, residues(res))
	assert.Equal(t, []*sequence.Record{s1, s2, s3}, res.Group.Originals())
	assert.Equal(t, 0, res.Group.RepresentativeIndex())
	assert.Equal(t, "s1", res.Group.Representative().ID)
	assert.Equal(t, 0, res.Group.Score)

	require.Len(t, res.Merges, 2)
	assert.Equal(t, "s1", res.Merges[0].Left)
	assert.Equal(t, "s2", res.Merges[0].Right)
	assert.Equal(t, "s1", res.Merges[0].Representative)
	assert.Equal(t, "s3", res.Merges[1].Right)
	assert.Equal(t, 3, res.Merges[1].Size)
	assert.Equal(t, res.Group.ID, res.Merges[1].GroupID)

	assert.Equal(t, 1.0, res.Similarity.At(0, 1))
	assert.Equal(t, 1.0, res.Similarity.At(1, 0))
	assert.Equal(t, 0.5, res.Similarity.At(0, 2))
	assert.Equal(t, 1.0, res.Similarity.At(2, 2))

	assert.Equal(t, recs, res.Inputs)
	assert.Equal(t, [][]float64{
		{1, 1, 0.5},
		{1, 1, 0.5},
		{0.5, 0.5, 1},
	}, res.SimilarityRows())
	assert.Equal(t, ""+
		"          s1    s2    s3\n"+
		"s1     1.000 1.000 0.500\n"+
		"s2     1.000 1.000 0.500\n"+
		"s3     0.500 0.500 1.000\n",
		res.SimilarityTable())
}

func TestSimilarityTableLabelWidth(t *testing.T) {
	recs := records(t, "long-record-id", "AC", "b", "AG")
	res, err := Align(context.Background(), recs, unitOptions(t, alignment.Global))
	require.NoError(t, err)

	assert.Equal(t, ""+
		"                long-record-id              b\n"+
		"long-record-id           1.000          0.500\n"+
		"b                        0.500          1.000\n",
		res.SimilarityTable())
}

func TestFourRecords(t *testing.T) {
	recs := records(t, "a", "GATTACA", "b", "GATTGCA", "c", "GCTTACA", "d", "TTTT")

	res, err := Align(context.Background(), recs, unitOptions(t, alignment.Global))
	require.NoError(t, err)

	wantOrder := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}, {"a", "d"}, {"b", "d"}, {"c", "d"}}
	wantScore := []float64{6.0 / 7, 6.0 / 7, 5.0 / 7, 2.0 / 7, 2.0 / 7, 2.0 / 7}
	require.Len(t, res.Pairs, len(wantOrder))
	for k, p := range res.Pairs {
		assert.Equal(t, wantOrder[k][0], p.A.ID, "pair %d", k)
		assert.Equal(t, wantOrder[k][1], p.B.ID, "pair %d", k)
		assert.InDelta(t, wantScore[k], p.Score, 1e-9, "pair %d", k)
	}

	assert.InDelta(t, 2.0, res.Totals[recs[0]], 1e-9)
	assert.InDelta(t, 13.0/7, res.Totals[recs[1]], 1e-9)
	assert.InDelta(t, 6.0/7, res.Totals[recs[3]], 1e-9)

	assert.Len(t, res.Merges, 3, "b/c is skipped once both share a group")
	assert.Equal(t, []string{
		"G-ATT--ACA",
		"G-ATT--GCA",
		"GC-TT--ACA",
		"---TTTT---",
	}, residues(res))
	assert.Equal(t, "a", res.Group.Representative().ID)

	for i, m := range res.Members() {
		assert.Equal(t, recs[i].ID, m.ID)
		assert.Equal(t, recs[i].Residues, m.Ungapped().Residues)
	}
}

func TestLocalMode(t *testing.T) {
	recs := records(t, "a", "ACGTAC", "b", "ACGTAC", "c", "ACGAC")

	res, err := Align(context.Background(), recs, unitOptions(t, alignment.Local))
	require.NoError(t, err)

	assert.Equal(t, []string{"ACGTAC", "ACGTAC", "ACG-AC"}, residues(res))
	assert.Equal(t, alignment.Local, res.Group.Mode)
}

func TestWorkersMatchSequential(t *testing.T) {
	recs := records(t,
		"p1", "MKVLAAGIVGLLLA",
		"p2", "MKVLSAGIVGLLA",
		"p3", "MRVLAAGLVG",
		"p4", "MKILAAGIVALLLA",
		"p5", "MSTNPKPQRKTKRN",
		"p6", "MKVLAAG",
	)

	seq, err := Align(context.Background(), recs, DefaultOptions())
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 16} {
		opts := DefaultOptions()
		opts.Workers = workers
		par, err := Align(context.Background(), recs, opts)
		require.NoError(t, err)

		require.Len(t, par.Pairs, len(seq.Pairs))
		for k := range seq.Pairs {
			assert.Same(t, seq.Pairs[k].A, par.Pairs[k].A)
			assert.Same(t, seq.Pairs[k].B, par.Pairs[k].B)
			assert.Equal(t, seq.Pairs[k].Score, par.Pairs[k].Score)
		}
		assert.Equal(t, seq.Totals, par.Totals)
		assert.Equal(t, residues(seq), residues(par))
		assert.Equal(t, seq.Group.Score, par.Group.Score)
	}
}

func TestEqualWidth(t *testing.T) {
	recs := records(t, "x", "MKVLAAGIVG", "y", "MKV", "z", "GIVGLL", "w", "AAGIV")

	for _, mode := range []alignment.Mode{alignment.Global, alignment.Local} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Mode = mode
			res, err := Align(context.Background(), recs, opts)
			require.NoError(t, err)

			want := make(map[string]string, len(recs))
			for _, r := range recs {
				want[r.ID] = r.Residues
			}

			// Members follow merge order, not input order.
			width := res.Group.Len()
			require.Equal(t, len(recs), res.Group.Size())
			seen := make(map[string]bool, len(recs))
			for _, m := range res.Members() {
				assert.Equal(t, width, m.Len(), m.ID)
				require.Contains(t, want, m.ID)
				assert.Equal(t, want[m.ID], m.Ungapped().Residues, m.ID)
				seen[m.ID] = true
			}
			assert.Len(t, seen, len(recs))
		})
	}
}

func TestUnsupportedMode(t *testing.T) {
	recs := records(t, "a", "AC", "b", "AC")
	opts := DefaultOptions()
	opts.Mode = alignment.Mode(5)

	res, err := Align(context.Background(), recs, opts)
	assert.Nil(t, res)
	var modeErr *alignment.UnsupportedModeError
	require.ErrorAs(t, err, &modeErr)
}

func TestDegenerateInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		res, err := Align(context.Background(), nil, DefaultOptions())
		require.NoError(t, err)
		assert.Nil(t, res.Group)
		assert.Nil(t, res.Members())
		assert.Empty(t, res.Pairs)
		assert.Nil(t, res.Similarity)
		assert.Nil(t, res.SimilarityRows())
		assert.Empty(t, res.SimilarityTable())
	})

	t.Run("single", func(t *testing.T) {
		recs := records(t, "only", "MKV")
		res, err := Align(context.Background(), recs, DefaultOptions())
		require.NoError(t, err)
		require.NotNil(t, res.Group)
		assert.Equal(t, []string{"MKV"}, residues(res))
		assert.Empty(t, res.Pairs)
		assert.Empty(t, res.Merges)
		assert.Equal(t, 1.0, res.Similarity.At(0, 0))
		assert.Equal(t, [][]float64{{1}}, res.SimilarityRows())
		assert.Equal(t, "        only\nonly   1.000\n", res.SimilarityTable())
	})
}

func TestInvalidInput(t *testing.T) {
	t.Run("duplicate record", func(t *testing.T) {
		recs := records(t, "a", "AC")
		_, err := Align(context.Background(), []*sequence.Record{recs[0], recs[0]}, DefaultOptions())
		require.Error(t, err)
	})

	t.Run("nil record", func(t *testing.T) {
		recs := records(t, "a", "AC")
		_, err := Align(context.Background(), []*sequence.Record{recs[0], nil}, DefaultOptions())
		require.Error(t, err)
	})

	t.Run("residue outside BLOSUM62", func(t *testing.T) {
		rna, err := sequence.WithAlphabet("r", "ACGU", sequence.RNA)
		require.NoError(t, err)
		recs := append(records(t, "a", "ACGA", "b", "ACGG"), rna)

		for _, workers := range []int{1, 3} {
			opts := DefaultOptions()
			opts.Workers = workers
			_, err := Align(context.Background(), recs, opts)
			var resErr *alignment.InvalidResidueError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, byte('U'), resErr.Residue)
		}
	})
}

func TestCanceledContext(t *testing.T) {
	recs := records(t, "a", "ACGT", "b", "ACGA", "c", "TCGA")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		opts := DefaultOptions()
		opts.Workers = workers
		_, err := Align(ctx, recs, opts)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	opts := unitOptions(t, alignment.Global)
	opts.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Align(context.Background(), records(t, "s1", "AC", "s2", "AC", "s3", "AG"), opts)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("msg=merged")))
	assert.Contains(t, out, `msg="msa complete"`)
	assert.Contains(t, out, "records=3")
	assert.Contains(t, out, "width=3")
}

func BenchmarkAlign(b *testing.B) {
	recs := records(b,
		"p1", "MKVLAAGIVGLLLAMKVLAAGIVGLLLA",
		"p2", "MKVLSAGIVGLLAMKVLSAGIVGLLA",
		"p3", "MRVLAAGLVGMRVLAAGLVG",
		"p4", "MKILAAGIVALLLAMKILAAGIVALLLA",
	)
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Align(context.Background(), recs, opts)
	}
}
