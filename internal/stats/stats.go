// Package stats provides statistical summaries for input record sets and
// finished alignments.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
)

// RecordStats represents statistics for a single record.
type RecordStats struct {
	ID          string
	Length      int
	Gaps        int
	Composition map[byte]int
	// GCContent is only meaningful for nucleotide alphabets; 0 otherwise.
	GCContent float64
}

// FromRecord counts the residues of a record. Gaps are counted separately
// and excluded from the composition.
func FromRecord(rec *sequence.Record) *RecordStats {
	s := &RecordStats{
		ID:          rec.ID,
		Length:      rec.Len(),
		Composition: make(map[byte]int),
	}

	for i := 0; i < len(rec.Residues); i++ {
		c := rec.Residues[i]
		if c == sequence.Gap {
			s.Gaps++
			continue
		}
		s.Composition[c]++
	}

	if rec.Alphabet == sequence.DNA || rec.Alphabet == sequence.RNA {
		if residues := s.Length - s.Gaps; residues > 0 {
			s.GCContent = float64(s.Composition['G']+s.Composition['C']) / float64(residues)
		}
	}

	return s
}

func (s *RecordStats) String() string {
	keys := make([]byte, 0, len(s.Composition))
	for k := range s.Composition {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%c: %d", k, s.Composition[k])
	}

	return fmt.Sprintf("%s: length %d, gaps %d, %s", s.ID, s.Length, s.Gaps, strings.Join(parts, ", "))
}

// SetStats represents aggregated statistics for multiple records.
type SetStats struct {
	Count         int
	TotalResidues int
	MinLength     int
	MaxLength     int
	MeanLength    float64
	MedianLength  int
	N50           int
}

// FromRecords calculates statistics for a collection of records.
func FromRecords(records []*sequence.Record) (*SetStats, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("record list cannot be empty")
	}

	count := len(records)
	lengths := make([]int, count)
	total := 0

	for i, rec := range records {
		lengths[i] = rec.Len() - rec.GapCount()
		total += lengths[i]
	}

	sorted := make([]int, count)
	copy(sorted, lengths)
	sort.Ints(sorted)

	mid := count / 2
	var median int
	if count%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	// N50: length at which half of all residues lie in records at least as long
	half := total / 2
	running := 0
	n50 := sorted[count-1]
	for k := count - 1; k >= 0; k-- {
		running += sorted[k]
		if running >= half {
			n50 = sorted[k]
			break
		}
	}

	return &SetStats{
		Count:         count,
		TotalResidues: total,
		MinLength:     sorted[0],
		MaxLength:     sorted[count-1],
		MeanLength:    float64(total) / float64(count),
		MedianLength:  median,
		N50:           n50,
	}, nil
}

func (s *SetStats) String() string {
	return fmt.Sprintf(`SetStats {
  count: %d
  total residues: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
}`, s.Count, s.TotalResidues, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50)
}

// AlignmentStats summarizes a finished alignment group.
type AlignmentStats struct {
	Members          int
	Width            int
	GapFraction      float64
	ConservedColumns int
	MeanIdentity     float64
	Consensus        string
	Representative   string
}

// FromGroup summarizes an aligned group. Identity between two rows is the
// share of identical residue columns among the columns where at least one
// of the two rows holds a residue.
func FromGroup(g *alignment.Group) (*AlignmentStats, error) {
	if g == nil || !g.IsAligned() {
		return nil, fmt.Errorf("group is not aligned")
	}

	rows := g.Members()
	width := g.Len()
	s := &AlignmentStats{
		Members: len(rows),
		Width:   width,
	}
	if rep := g.Representative(); rep != nil {
		s.Representative = rep.ID
	}
	if width == 0 {
		return s, nil
	}

	gaps := 0
	consensus := make([]byte, width)
	for col := 0; col < width; col++ {
		counts := make(map[byte]int)
		for _, r := range rows {
			c := r.Residues[col]
			if c == sequence.Gap {
				gaps++
				continue
			}
			counts[c]++
		}

		if len(counts) == 1 && counts[rows[0].Residues[col]] == len(rows) {
			s.ConservedColumns++
		}
		consensus[col] = majority(counts)
	}
	s.GapFraction = float64(gaps) / float64(width*len(rows))
	s.Consensus = string(consensus)

	pairs := 0
	sum := 0.0
	for x := 0; x < len(rows); x++ {
		for y := x + 1; y < len(rows); y++ {
			sum += identity(rows[x].Residues, rows[y].Residues)
			pairs++
		}
	}
	if pairs > 0 {
		s.MeanIdentity = sum / float64(pairs)
	} else {
		s.MeanIdentity = 1.0
	}

	return s, nil
}

// majority returns the most frequent residue of a column, the smallest byte
// on ties, or a gap for an all-gap column.
func majority(counts map[byte]int) byte {
	best, bestCount := sequence.Gap, 0
	for c, n := range counts {
		if n > bestCount || (n == bestCount && c < best) {
			best, bestCount = c, n
		}
	}
	return best
}

func identity(a, b string) float64 {
	matches, columns := 0, 0
	for i := 0; i < len(a); i++ {
		if a[i] == sequence.Gap && b[i] == sequence.Gap {
			continue
		}
		columns++
		if a[i] == b[i] {
			matches++
		}
	}
	if columns == 0 {
		return 0.0
	}
	return float64(matches) / float64(columns)
}

func (s *AlignmentStats) String() string {
	return fmt.Sprintf(`AlignmentStats {
  members: %d
  width: %d
  representative: %s
  gap fraction: %.1f%%
  conserved columns: %d
  mean identity: %.1f%%
  consensus: %s
}`, s.Members, s.Width, s.Representative, s.GapFraction*100,
		s.ConservedColumns, s.MeanIdentity*100, s.Consensus)
}

// LengthHistogram represents a length histogram for records.
type LengthHistogram struct {
	Bins      []int
	MinLength int
	MaxLength int
	BinWidth  int
	NumBins   int
}

// NewLengthHistogram creates a histogram of ungapped record lengths.
func NewLengthHistogram(records []*sequence.Record, numBins int) (*LengthHistogram, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("record list cannot be empty")
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	lengths := make([]int, len(records))
	for i, rec := range records {
		lengths[i] = rec.Len() - rec.GapCount()
	}

	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths {
		minLen = min(minLen, l)
		maxLen = max(maxLen, l)
	}

	binWidth := (maxLen - minLen) / numBins
	if binWidth < 1 {
		binWidth = 1
	}

	bins := make([]int, numBins)
	for _, length := range lengths {
		binIndex := (length - minLen) / binWidth
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &LengthHistogram{
		Bins:      bins,
		MinLength: minLen,
		MaxLength: maxLen,
		BinWidth:  binWidth,
		NumBins:   numBins,
	}, nil
}

func (h *LengthHistogram) String() string {
	var sb strings.Builder
	sb.WriteString("Length Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := h.MinLength + i*h.BinWidth
		end := start + h.BinWidth
		fmt.Fprintf(&sb, "%5d-%5d: %s (%d)\n", start, end, strings.Repeat("#", h.Bins[i]), h.Bins[i])
	}
	return sb.String()
}
