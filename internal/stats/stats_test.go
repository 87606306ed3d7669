package stats

import (
	"strings"
	"testing"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dna(t *testing.T, id, residues string) *sequence.Record {
	t.Helper()
	r, err := sequence.WithAlphabet(id, residues, sequence.DNA)
	require.NoError(t, err)
	return r
}

func TestFromRecord(t *testing.T) {
	s := FromRecord(dna(t, "r", "AATTTGGGCCCCN"))

	assert.Equal(t, 13, s.Length)
	assert.Equal(t, 0, s.Gaps)
	assert.Equal(t, 2, s.Composition['A'])
	assert.Equal(t, 4, s.Composition['C'])
	assert.Equal(t, 3, s.Composition['G'])
	assert.Equal(t, 3, s.Composition['T'])
	assert.Equal(t, 1, s.Composition['N'])
	assert.InDelta(t, 7.0/13.0, s.GCContent, 0.0001)
	assert.Contains(t, s.String(), "A: 2, C: 4")
}

func TestFromRecordGapped(t *testing.T) {
	rec, err := sequence.Aligned("g", "AC-G", sequence.DNA)
	require.NoError(t, err)

	s := FromRecord(rec)
	assert.Equal(t, 4, s.Length)
	assert.Equal(t, 1, s.Gaps)
	assert.Zero(t, s.Composition['-'])
	assert.InDelta(t, 2.0/3.0, s.GCContent, 0.0001)
}

func TestFromRecordProtein(t *testing.T) {
	rec, err := sequence.New("p", "MKGC")
	require.NoError(t, err)
	assert.Zero(t, FromRecord(rec).GCContent)
}

func TestFromRecords(t *testing.T) {
	records := []*sequence.Record{
		dna(t, "s1", "ATGC"),
		dna(t, "s2", "ATGCATGC"),
		dna(t, "s3", "GGCC"),
	}

	stats, err := FromRecords(records)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 16, stats.TotalResidues)
	assert.Equal(t, 4, stats.MinLength)
	assert.Equal(t, 8, stats.MaxLength)
	assert.InDelta(t, 16.0/3.0, stats.MeanLength, 0.0001)
	assert.Equal(t, 4, stats.MedianLength) // sorted: 4, 4, 8; middle = 4
	assert.Contains(t, stats.String(), "count: 3")
}

func TestFromRecordsEmpty(t *testing.T) {
	_, err := FromRecords(nil)
	require.Error(t, err)
}

func TestN50Calculation(t *testing.T) {
	// Lengths 100, 80, 60, 40, 20: total 300, half 150, 100 + 80 >= 150
	records := make([]*sequence.Record, 0)
	for _, n := range []int{100, 80, 60, 40, 20} {
		records = append(records, dna(t, "s", generateSeq(n)))
	}

	stats, err := FromRecords(records)
	require.NoError(t, err)
	assert.Equal(t, 80, stats.N50)
	assert.Equal(t, 60, stats.MedianLength)
}

func TestFromGroup(t *testing.T) {
	rows := make([]*sequence.Record, 0, 3)
	for _, r := range [][2]string{{"s1", "A-C"}, {"s2", "A-C"}, {"s3", "AG-"}} {
		rec, err := sequence.Aligned(r[0], r[1], sequence.DNA)
		require.NoError(t, err)
		rows = append(rows, rec)
	}
	g, err := alignment.NewGroup(rows...)
	require.NoError(t, err)
	require.NoError(t, g.SetRepresentative(0))

	s, err := FromGroup(g)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Members)
	assert.Equal(t, 3, s.Width)
	assert.Equal(t, "s1", s.Representative)
	assert.InDelta(t, 1.0/3.0, s.GapFraction, 0.0001)
	assert.Equal(t, 1, s.ConservedColumns)
	assert.Equal(t, "AGC", s.Consensus)
	// s1/s2 identical over 2 columns, each against s3 one match in 3 columns
	assert.InDelta(t, 5.0/9.0, s.MeanIdentity, 0.0001)
	assert.Contains(t, s.String(), "consensus: AGC")
}

func TestFromGroupAligned(t *testing.T) {
	a := dna(t, "a", "GATTACA")
	b := dna(t, "b", "GATTACA")

	g, err := alignment.Align(a, b, alignment.Global, alignment.DefaultDNA())
	require.NoError(t, err)

	s, err := FromGroup(g)
	require.NoError(t, err)
	assert.Equal(t, 7, s.ConservedColumns)
	assert.Equal(t, 1.0, s.MeanIdentity)
	assert.Zero(t, s.GapFraction)
	assert.Equal(t, "GATTACA", s.Consensus)
}

func TestFromGroupSingleMember(t *testing.T) {
	g, err := alignment.NewGroup(dna(t, "x", "ACGT"))
	require.NoError(t, err)

	s, err := FromGroup(g)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Members)
	assert.Equal(t, 1.0, s.MeanIdentity)
	assert.Equal(t, 4, s.ConservedColumns)
}

func TestFromGroupNotAligned(t *testing.T) {
	_, err := FromGroup(nil)
	require.Error(t, err)
}

func TestLengthHistogram(t *testing.T) {
	records := []*sequence.Record{
		dna(t, "a", generateSeq(10)),
		dna(t, "b", generateSeq(20)),
		dna(t, "c", generateSeq(30)),
	}

	h, err := NewLengthHistogram(records, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, h.Bins)
	assert.Equal(t, 10, h.BinWidth)
	assert.True(t, strings.HasPrefix(h.String(), "Length Histogram:\n"))

	_, err = NewLengthHistogram(records, 0)
	require.Error(t, err)
	_, err = NewLengthHistogram(nil, 3)
	require.Error(t, err)
}

func generateSeq(length int) string {
	bases := []byte{'A', 'T', 'G', 'C'}
	result := make([]byte, length)
	for i := range result {
		result[i] = bases[i%4]
	}
	return string(result)
}
