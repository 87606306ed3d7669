package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/google/uuid"
)

// Operand is one side of a pairwise alignment: either a *sequence.Record or
// a finished *Group. No other implementation is accepted.
type Operand interface {
	Len() int
}

// Group is a profile: records aligned to a common width.
//
// A group tracks the ungapped records it was built from (flattened across
// every merge that produced it) alongside the gapped rows of the finished
// alignment. Both lists share indices.
type Group struct {
	ID    uuid.UUID
	Mode  Mode
	Score int

	originals []*sequence.Record
	live      []*sequence.Record
	splitAt   int
	working   [][]byte
	finished  []*sequence.Record

	// representative indexes finished; -1 means the last member.
	representative int
}

// NewGroup seals already aligned records of equal length into a group.
// Gapped records are tracked by their ungapped form as originals.
func NewGroup(records ...*sequence.Record) (*Group, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("group needs at least one record")
	}

	width := records[0].Len()
	originals := make([]*sequence.Record, len(records))
	for i, r := range records {
		if r.Len() != width {
			return nil, fmt.Errorf("record %q has length %d, group width is %d", r.ID, r.Len(), width)
		}
		originals[i] = r
		if r.HasGaps() {
			originals[i] = r.Ungapped()
		}
	}

	return &Group{
		ID:             uuid.New(),
		originals:      originals,
		finished:       append([]*sequence.Record(nil), records...),
		representative: -1,
	}, nil
}

// mergeGroup starts a group absorbing the originals of both operands.
// Nested groups are flattened: a group never holds another group.
func mergeGroup(a, b Operand) (*Group, error) {
	origA, err := originalsOf(a)
	if err != nil {
		return nil, err
	}
	origB, err := originalsOf(b)
	if err != nil {
		return nil, err
	}

	originals := make([]*sequence.Record, 0, len(origA)+len(origB))
	originals = append(originals, origA...)
	originals = append(originals, origB...)

	return &Group{
		ID:             uuid.New(),
		originals:      originals,
		representative: -1,
	}, nil
}

// rowsOf returns the rows an operand contributes to each alignment column.
func rowsOf(op Operand) ([]*sequence.Record, error) {
	switch v := op.(type) {
	case *sequence.Record:
		if v == nil {
			return nil, fmt.Errorf("nil record operand")
		}
		return []*sequence.Record{v}, nil
	case *Group:
		if v == nil {
			return nil, fmt.Errorf("nil group operand")
		}
		if !v.IsAligned() {
			return nil, fmt.Errorf("group %s is not aligned yet", v.ID)
		}
		return v.finished, nil
	default:
		return nil, fmt.Errorf("unsupported operand type %T", op)
	}
}

func originalsOf(op Operand) ([]*sequence.Record, error) {
	switch v := op.(type) {
	case *sequence.Record:
		return []*sequence.Record{v}, nil
	case *Group:
		return v.originals, nil
	default:
		return nil, fmt.Errorf("unsupported operand type %T", op)
	}
}

// resetForAlignment snapshots the operand rows and replaces the working rows
// with empty ones keyed by the same records.
func (g *Group) resetForAlignment(rowsA, rowsB []*sequence.Record) {
	g.live = make([]*sequence.Record, 0, len(rowsA)+len(rowsB))
	g.live = append(g.live, rowsA...)
	g.live = append(g.live, rowsB...)
	g.splitAt = len(rowsA)

	g.working = make([][]byte, len(g.live))
	g.finished = nil
}

// appendColumn adds one alignment column during traceback. Columns arrive
// from the end of the alignment backwards; colA and colB index the operand
// columns consumed, -1 meaning a gap on that side.
func (g *Group) appendColumn(colA, colB int) {
	for k, row := range g.live {
		col := colA
		if k >= g.splitAt {
			col = colB
		}
		if col < 0 {
			g.working[k] = append(g.working[k], sequence.Gap)
		} else {
			g.working[k] = append(g.working[k], row.Residues[col])
		}
	}
}

// markAligned reverses the working rows once and seals them as the finished
// alignment.
func (g *Group) markAligned() {
	g.finished = make([]*sequence.Record, len(g.live))
	for k, row := range g.working {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
		rec := g.live[k].EmptyLike()
		rec.Residues = string(row)
		g.finished[k] = rec
	}
	g.working = nil
}

// IsAligned reports whether the group holds a finished alignment.
func (g *Group) IsAligned() bool {
	return g.finished != nil
}

// Len returns the alignment width.
func (g *Group) Len() int {
	if rep := g.Representative(); rep != nil {
		return rep.Len()
	}
	return 0
}

// Size returns the number of member records.
func (g *Group) Size() int {
	return len(g.originals)
}

// Members returns the gapped rows of the finished alignment.
func (g *Group) Members() []*sequence.Record {
	return append([]*sequence.Record(nil), g.finished...)
}

// Originals returns the ungapped records the group was built from, in
// member order.
func (g *Group) Originals() []*sequence.Record {
	return append([]*sequence.Record(nil), g.originals...)
}

// Contains reports whether rec is one of the group's original records.
// Records are compared by identity.
func (g *Group) Contains(rec *sequence.Record) bool {
	return g.IndexOf(rec) >= 0
}

// IndexOf returns the member index of an original record, or -1.
func (g *Group) IndexOf(rec *sequence.Record) int {
	for i, o := range g.originals {
		if o == rec {
			return i
		}
	}
	return -1
}

// RepresentativeIndex returns the resolved representative member index.
func (g *Group) RepresentativeIndex() int {
	if g.representative < 0 {
		return len(g.finished) - 1
	}
	return g.representative
}

// Representative returns the finished row standing in for the group.
func (g *Group) Representative() *sequence.Record {
	idx := g.RepresentativeIndex()
	if idx < 0 || idx >= len(g.finished) {
		return nil
	}
	return g.finished[idx]
}

// SetRepresentative selects the member index standing in for the group;
// -1 restores the default of the last member.
func (g *Group) SetRepresentative(index int) error {
	if index < -1 || index >= len(g.originals) {
		return fmt.Errorf("representative index %d out of range for %d members", index, len(g.originals))
	}
	g.representative = index
	return nil
}

// SetRepresentativeRecord selects the representative by original record.
func (g *Group) SetRepresentativeRecord(rec *sequence.Record) error {
	idx := g.IndexOf(rec)
	if idx < 0 {
		return fmt.Errorf("record %q is not a member of group %s", rec.ID, g.ID)
	}
	g.representative = idx
	return nil
}

// String lists the finished members, one per line.
func (g *Group) String() string {
	var sb strings.Builder
	for i, m := range g.finished {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
