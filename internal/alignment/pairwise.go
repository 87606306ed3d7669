package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioflow-msa/internal/sequence"
)

// Pairwise is a two-row view over a finished group of exactly two members.
type Pairwise struct {
	ID1         string
	ID2         string
	AlignedSeq1 string
	AlignedSeq2 string
	Score       int
	Mode        Mode
	Identity    float64
}

// NewPairwise creates the view for a two-member group.
func NewPairwise(g *Group) (*Pairwise, error) {
	if g == nil || !g.IsAligned() {
		return nil, fmt.Errorf("pairwise view needs a finished group")
	}
	if g.Size() != 2 {
		return nil, fmt.Errorf("pairwise view needs 2 members, group has %d", g.Size())
	}

	a, b := g.finished[0], g.finished[1]
	p := &Pairwise{
		ID1:         a.ID,
		ID2:         b.ID,
		AlignedSeq1: a.Residues,
		AlignedSeq2: b.Residues,
		Score:       g.Score,
		Mode:        g.Mode,
	}
	p.Identity = p.calculateIdentity()
	return p, nil
}

// Similarity returns the fraction of identical columns of a two-member
// group, the measure used to rank pairs for progressive merging.
func Similarity(g *Group) (float64, error) {
	p, err := NewPairwise(g)
	if err != nil {
		return 0, err
	}
	return p.Identity, nil
}

// calculateIdentity divides identical non-gap columns by the width.
func (p *Pairwise) calculateIdentity() float64 {
	if len(p.AlignedSeq1) == 0 {
		return 0.0
	}
	return float64(p.MatchCount()) / float64(len(p.AlignedSeq1))
}

// Length returns the width of the alignment.
func (p *Pairwise) Length() int {
	return len(p.AlignedSeq1)
}

// MatchCount returns the number of identical residue columns.
func (p *Pairwise) MatchCount() int {
	count := 0
	for i := 0; i < len(p.AlignedSeq1); i++ {
		if p.AlignedSeq1[i] == p.AlignedSeq2[i] && p.AlignedSeq1[i] != sequence.Gap {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of differing residue columns.
func (p *Pairwise) MismatchCount() int {
	count := 0
	for i := 0; i < len(p.AlignedSeq1); i++ {
		if p.AlignedSeq1[i] != p.AlignedSeq2[i] &&
			p.AlignedSeq1[i] != sequence.Gap && p.AlignedSeq2[i] != sequence.Gap {
			count++
		}
	}
	return count
}

// GapsSeq1 returns the number of gaps in the first row.
func (p *Pairwise) GapsSeq1() int {
	return strings.Count(p.AlignedSeq1, "-")
}

// GapsSeq2 returns the number of gaps in the second row.
func (p *Pairwise) GapsSeq2() int {
	return strings.Count(p.AlignedSeq2, "-")
}

// TotalGaps returns the total number of gaps.
func (p *Pairwise) TotalGaps() int {
	return p.GapsSeq1() + p.GapsSeq2()
}

// GapOpenings counts runs of gaps in either row.
func (p *Pairwise) GapOpenings() int {
	openings := 0
	inGap1, inGap2 := false, false

	for i := 0; i < len(p.AlignedSeq1); i++ {
		if p.AlignedSeq1[i] == sequence.Gap && !inGap1 {
			openings++
			inGap1 = true
		} else if p.AlignedSeq1[i] != sequence.Gap {
			inGap1 = false
		}

		if p.AlignedSeq2[i] == sequence.Gap && !inGap2 {
			openings++
			inGap2 = true
		} else if p.AlignedSeq2[i] != sequence.Gap {
			inGap2 = false
		}
	}

	return openings
}

// ToCIGAR generates a CIGAR string with the first row as the query.
func (p *Pairwise) ToCIGAR() string {
	if len(p.AlignedSeq1) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	flush := func() {
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
	}

	for i := 0; i < len(p.AlignedSeq1); i++ {
		var op byte
		switch {
		case p.AlignedSeq1[i] == sequence.Gap:
			op = 'I'
		case p.AlignedSeq2[i] == sequence.Gap:
			op = 'D'
		case p.AlignedSeq1[i] == p.AlignedSeq2[i]:
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		flush()
		currentOp = op
		count = 1
	}
	flush()

	return cigar.String()
}

// Format returns the alignment with a match line for display.
func (p *Pairwise) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(p.AlignedSeq1); i++ {
		switch {
		case p.AlignedSeq1[i] == p.AlignedSeq2[i] && p.AlignedSeq1[i] != sequence.Gap:
			matchLine.WriteByte('|')
		case p.AlignedSeq1[i] == sequence.Gap || p.AlignedSeq2[i] == sequence.Gap:
			matchLine.WriteByte(' ')
		default:
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("%-10s %s\n%-10s %s\n%-10s %s\nScore: %d (%s)\nIdentity: %.1f%%\nCIGAR: %s",
		p.ID1, p.AlignedSeq1, "", matchLine.String(), p.ID2, p.AlignedSeq2,
		p.Score, p.Mode, p.Identity*100, p.ToCIGAR())
}

func (p *Pairwise) String() string {
	return fmt.Sprintf("Pairwise { score: %d, identity: %.1f%%, length: %d }",
		p.Score, p.Identity*100, p.Length())
}

// PercentIdentity calculates percent identity between two aligned strings.
func PercentIdentity(aligned1, aligned2 string) (float64, error) {
	if len(aligned1) != len(aligned2) {
		return 0, fmt.Errorf("aligned sequences must have equal length")
	}
	if len(aligned1) == 0 {
		return 0, fmt.Errorf("aligned sequences cannot be empty")
	}

	p := &Pairwise{AlignedSeq1: aligned1, AlignedSeq2: aligned2}
	return p.calculateIdentity() * 100.0, nil
}
