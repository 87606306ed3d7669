package alignment

import (
	"strings"

	"github.com/aria-lang/bioflow-msa/internal/sequence"
)

// DotPlot renders a residue identity grid: one row per residue of a, one
// column per residue of b, '*' where both hold the same residue. The first
// line lists b after a one-space margin. Gap positions never match.
func DotPlot(a, b *sequence.Record) string {
	var sb strings.Builder
	sb.Grow((a.Len() + 1) * (b.Len() + 2))

	sb.WriteByte(' ')
	sb.WriteString(b.Residues)
	sb.WriteByte('\n')

	for i := 0; i < a.Len(); i++ {
		ra := a.Residues[i]
		sb.WriteByte(ra)
		for j := 0; j < b.Len(); j++ {
			if ra == b.Residues[j] && !a.IsGapAt(i) {
				sb.WriteByte('*')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
