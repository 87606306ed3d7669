package alignment

import (
	"fmt"
	"strings"
)

// Cell is a position in the DP matrix. I indexes the second operand
// (0..lenB) and J the first operand (0..lenA).
type Cell struct {
	I int
	J int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.I, c.J)
}

// Matrix holds the filled score and direction grids of one alignment.
//
// Every tied maximum of a cell is recorded in Directions, in the order
// Diagonal, Up, Left (then Stop for local alignment). Traceback follows the
// last recorded entry.
type Matrix struct {
	Scores     [][]int
	Directions [][][]AlignDirection
}

func newMatrix(rows, cols int) *Matrix {
	m := &Matrix{
		Scores:     make([][]int, rows),
		Directions: make([][][]AlignDirection, rows),
	}
	for i := range m.Scores {
		m.Scores[i] = make([]int, cols)
		m.Directions[i] = make([][]AlignDirection, cols)
	}
	return m
}

// Rows returns lenB+1.
func (m *Matrix) Rows() int {
	return len(m.Scores)
}

// Cols returns lenA+1.
func (m *Matrix) Cols() int {
	if len(m.Scores) == 0 {
		return 0
	}
	return len(m.Scores[0])
}

// At returns the score of a cell.
func (m *Matrix) At(c Cell) int {
	return m.Scores[c.I][c.J]
}

// Followed returns the direction traceback takes out of a cell.
func (m *Matrix) Followed(c Cell) (AlignDirection, bool) {
	dirs := m.Directions[c.I][c.J]
	if len(dirs) == 0 {
		return Stop, false
	}
	return dirs[len(dirs)-1], true
}

// Render draws the score grid with the followed direction of every cell.
// colLabels and rowLabels are the residues of the first and second operand;
// either may be empty.
func (m *Matrix) Render(colLabels, rowLabels string) string {
	var sb strings.Builder

	sb.WriteString("      ")
	for j := 0; j < m.Cols(); j++ {
		label := byte(' ')
		if j > 0 && j-1 < len(colLabels) {
			label = colLabels[j-1]
		}
		fmt.Fprintf(&sb, "%6c", label)
	}
	sb.WriteByte('\n')

	for i := 0; i < m.Rows(); i++ {
		label := byte(' ')
		if i > 0 && i-1 < len(rowLabels) {
			label = rowLabels[i-1]
		}
		fmt.Fprintf(&sb, "%6c", label)
		for j := 0; j < m.Cols(); j++ {
			dir, _ := m.Followed(Cell{I: i, J: j})
			fmt.Fprintf(&sb, "%5d%c", m.Scores[i][j], dir.Glyph())
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
