package alignment

import (
	"github.com/aria-lang/bioflow-msa/internal/sequence"
)

// Aligner fills the DP matrix for two operands and traces the optimal
// alignment back into a new Group.
//
// A is the first operand (matrix columns) and B the second (matrix rows).
// Fill and traceback are separate steps so callers can inspect Matrix()
// between them.
type Aligner struct {
	a, b         Operand
	rowsA, rowsB []*sequence.Record
	lenA, lenB   int
	scoring      *Scoring

	matrix   *Matrix
	mode     Mode
	filled   bool
	best     int
	bestCell Cell
}

// NewAligner prepares an alignment of a against b. Group operands must be
// finished alignments.
func NewAligner(a, b Operand, scoring *Scoring) (*Aligner, error) {
	if scoring == nil {
		scoring = DefaultDNA()
	}

	rowsA, err := rowsOf(a)
	if err != nil {
		return nil, err
	}
	rowsB, err := rowsOf(b)
	if err != nil {
		return nil, err
	}

	return &Aligner{
		a:       a,
		b:       b,
		rowsA:   rowsA,
		rowsB:   rowsB,
		lenA:    a.Len(),
		lenB:    b.Len(),
		scoring: scoring,
	}, nil
}

// Align runs fill and traceback for the given mode. Local alignments keep
// the unmatched flanks so the result spans both operands.
func Align(a, b Operand, mode Mode, scoring *Scoring) (*Group, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	al, err := NewAligner(a, b, scoring)
	if err != nil {
		return nil, err
	}

	switch mode {
	case Global:
		if err := al.FillGlobal(); err != nil {
			return nil, err
		}
		return al.TracebackGlobal()
	case Local:
		if err := al.FillLocal(); err != nil {
			return nil, err
		}
		return al.TracebackLocal(true)
	default:
		return nil, &UnsupportedModeError{Mode: mode.String()}
	}
}

// Matrix returns the filled matrix, or nil before any fill.
func (al *Aligner) Matrix() *Matrix {
	return al.matrix
}

// Best returns the optimum of the last fill and the cell traceback starts
// from: the bottom-right corner for global alignment, the first maximal cell
// in row-major order for local alignment.
func (al *Aligner) Best() (int, Cell) {
	return al.best, al.bestCell
}

// FillGlobal fills the matrix with the Needleman-Wunsch recurrence.
func (al *Aligner) FillGlobal() error {
	al.filled = false
	m := newMatrix(al.lenB+1, al.lenA+1)
	gap := al.scoring.GapPenalty

	for i := 0; i <= al.lenB; i++ {
		for j := 0; j <= al.lenA; j++ {
			if i == 0 || j == 0 {
				m.Scores[i][j] = gap * max(i, j)
				if j == 0 {
					m.Directions[i][j] = []AlignDirection{Up}
				} else {
					m.Directions[i][j] = []AlignDirection{Left}
				}
				continue
			}
			if _, err := al.fillCell(m, i, j, false); err != nil {
				return err
			}
		}
	}

	al.matrix = m
	al.mode = Global
	al.filled = true
	al.best = m.Scores[al.lenB][al.lenA]
	al.bestCell = Cell{I: al.lenB, J: al.lenA}
	return nil
}

// FillLocal fills the matrix with the Smith-Waterman recurrence and tracks
// the best scoring cell.
func (al *Aligner) FillLocal() error {
	al.filled = false
	m := newMatrix(al.lenB+1, al.lenA+1)
	gap := al.scoring.GapPenalty

	best, bestCell, seen := 0, Cell{}, false
	for i := 0; i <= al.lenB; i++ {
		for j := 0; j <= al.lenA; j++ {
			if i == 0 || j == 0 {
				m.Scores[i][j] = max(0, gap) * max(i, j)
				// A non-positive gap border is not an alignment step.
				switch {
				case gap <= 0:
					m.Directions[i][j] = []AlignDirection{Stop}
				case j == 0:
					m.Directions[i][j] = []AlignDirection{Up}
				default:
					m.Directions[i][j] = []AlignDirection{Left}
				}
				continue
			}

			score, err := al.fillCell(m, i, j, true)
			if err != nil {
				return err
			}
			if !seen || score > best {
				best, bestCell, seen = score, Cell{I: i, J: j}, true
			}
		}
	}

	al.matrix = m
	al.mode = Local
	al.filled = true
	al.best = best
	al.bestCell = bestCell
	return nil
}

// fillCell computes one interior cell and records every tied direction.
func (al *Aligner) fillCell(m *Matrix, i, j int, local bool) (int, error) {
	colScore, err := al.columnScore(j-1, i-1)
	if err != nil {
		return 0, err
	}

	gap := al.scoring.GapPenalty
	diag := m.Scores[i-1][j-1] + colScore
	up := m.Scores[i-1][j] + gap
	left := m.Scores[i][j-1] + gap

	best := max(diag, up, left)
	if local {
		best = max(best, 0)
	}

	dirs := make([]AlignDirection, 0, 4)
	if diag == best {
		dirs = append(dirs, Diagonal)
	}
	if up == best {
		dirs = append(dirs, Up)
	}
	if left == best {
		dirs = append(dirs, Left)
	}
	if local && best == 0 {
		dirs = append(dirs, Stop)
	}

	m.Scores[i][j] = best
	m.Directions[i][j] = dirs
	return best, nil
}

// columnScore scores column colA of the first operand against column colB of
// the second as the sum over every pair of residues the columns hold.
func (al *Aligner) columnScore(colA, colB int) (int, error) {
	useModel := al.scoring.UseSubstitution &&
		!columnHasGap(al.rowsA, colA) && !columnHasGap(al.rowsB, colB)
	model := al.scoring.model()

	total := 0
	for _, ra := range al.rowsA {
		x := ra.Residues[colA]
		for _, rb := range al.rowsB {
			y := rb.Residues[colB]
			if !useModel {
				total += al.scoring.Score(x, y)
				continue
			}
			s, err := model.Score(x, y)
			if err != nil {
				return 0, err
			}
			total += s
		}
	}
	return total, nil
}

func columnHasGap(rows []*sequence.Record, col int) bool {
	for _, r := range rows {
		if r.Residues[col] == sequence.Gap {
			return true
		}
	}
	return false
}

// TracebackGlobal walks from the bottom-right corner to the origin.
func (al *Aligner) TracebackGlobal() (*Group, error) {
	if !al.filled || al.mode != Global {
		return nil, &NoAlignmentComputedError{Mode: Global}
	}

	g, err := al.newResult()
	if err != nil {
		return nil, err
	}

	i, j := al.lenB, al.lenA
	for i > 0 || j > 0 {
		dir, ok := al.matrix.Followed(Cell{I: i, J: j})
		if !ok {
			return nil, &BacktrackError{Cell: Cell{I: i, J: j}, Reason: "no direction recorded"}
		}
		if dir == Stop {
			return nil, &BacktrackError{Cell: Cell{I: i, J: j}, Reason: "boundary inside a global alignment"}
		}
		if err := al.step(g, dir, &i, &j); err != nil {
			return nil, err
		}
	}

	g.markAligned()
	g.Mode = Global
	g.Score = al.best
	return g, nil
}

// TracebackLocal walks from the best cell until a boundary. With full set,
// the unmatched flanks of both operands are emitted as gapped columns so the
// result spans both operands end to end.
func (al *Aligner) TracebackLocal(full bool) (*Group, error) {
	if !al.filled || al.mode != Local {
		return nil, &NoAlignmentComputedError{Mode: Local}
	}

	g, err := al.newResult()
	if err != nil {
		return nil, err
	}

	i, j := al.bestCell.I, al.bestCell.J
	if full {
		al.emitFlank(g, al.lenA, j, al.lenB, i)
	}

	for i > 0 || j > 0 {
		dir, ok := al.matrix.Followed(Cell{I: i, J: j})
		if !ok {
			return nil, &BacktrackError{Cell: Cell{I: i, J: j}, Reason: "no direction recorded"}
		}
		if dir == Stop {
			break
		}
		if err := al.step(g, dir, &i, &j); err != nil {
			return nil, err
		}
	}

	if full {
		al.emitFlank(g, j, 0, i, 0)
	}

	g.markAligned()
	g.Mode = Local
	g.Score = al.best
	return g, nil
}

// emitFlank appends the unmatched first-operand columns (fromA down to toA)
// and then the unmatched second-operand columns (fromB down to toB), each
// against gaps.
func (al *Aligner) emitFlank(g *Group, fromA, toA, fromB, toB int) {
	for k := fromA; k > toA; k-- {
		g.appendColumn(k-1, -1)
	}
	for k := fromB; k > toB; k-- {
		g.appendColumn(-1, k-1)
	}
}

func (al *Aligner) step(g *Group, dir AlignDirection, i, j *int) error {
	here := Cell{I: *i, J: *j}
	switch dir {
	case Diagonal:
		if *i == 0 || *j == 0 {
			return &BacktrackError{Cell: here, Reason: "diagonal step off the matrix"}
		}
		g.appendColumn(*j-1, *i-1)
		*i--
		*j--
	case Up:
		if *i == 0 {
			return &BacktrackError{Cell: here, Reason: "up step off the matrix"}
		}
		g.appendColumn(-1, *i-1)
		*i--
	case Left:
		if *j == 0 {
			return &BacktrackError{Cell: here, Reason: "left step off the matrix"}
		}
		g.appendColumn(*j-1, -1)
		*j--
	default:
		return &BacktrackError{Cell: here, Reason: "unexpected direction " + dir.String()}
	}
	return nil
}

func (al *Aligner) newResult() (*Group, error) {
	g, err := mergeGroup(al.a, al.b)
	if err != nil {
		return nil, err
	}
	g.resetForAlignment(al.rowsA, al.rowsB)
	return g, nil
}
