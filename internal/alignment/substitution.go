package alignment

import "fmt"

// Model supplies a symmetric score for a pair of residues.
type Model interface {
	Score(a, b byte) (int, error)
}

// Linear scores identical residues with Match and any other pair with
// Mismatch. It accepts every byte, gap placeholders included.
type Linear struct {
	Match    int
	Mismatch int
}

// Score implements Model.
func (l Linear) Score(a, b byte) (int, error) {
	if a == b {
		return l.Match, nil
	}
	return l.Mismatch, nil
}

// Table is a fixed substitution matrix over an alphabet.
type Table struct {
	name     string
	alphabet string
	index    [256]int
	scores   [][]int
}

// NewTable builds a substitution table. The scores must be square, sized to
// the alphabet and symmetric. Lookups are case-insensitive.
func NewTable(name, alphabet string, scores [][]int) (*Table, error) {
	if len(scores) != len(alphabet) {
		return nil, fmt.Errorf("table %s: %d rows for %d residues", name, len(scores), len(alphabet))
	}
	for i, row := range scores {
		if len(row) != len(alphabet) {
			return nil, fmt.Errorf("table %s: row %c has %d columns, want %d", name, alphabet[i], len(row), len(alphabet))
		}
	}
	for i := range scores {
		for j := 0; j < i; j++ {
			if scores[i][j] != scores[j][i] {
				return nil, fmt.Errorf("table %s: asymmetric entry %c/%c (%d vs %d)",
					name, alphabet[i], alphabet[j], scores[i][j], scores[j][i])
			}
		}
	}

	t := &Table{name: name, alphabet: alphabet, scores: scores}
	for i := range t.index {
		t.index[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		t.index[c] = i
		if c >= 'A' && c <= 'Z' {
			t.index[c+'a'-'A'] = i
		}
	}
	return t, nil
}

// MustTable is NewTable for static data; it panics on malformed input.
func MustTable(name, alphabet string, scores [][]int) *Table {
	t, err := NewTable(name, alphabet, scores)
	if err != nil {
		panic(err)
	}
	return t
}

// Score implements Model. Characters outside the alphabet, including the
// gap placeholder, yield an InvalidResidueError.
func (t *Table) Score(a, b byte) (int, error) {
	ia, ib := t.index[a], t.index[b]
	if ia < 0 {
		return 0, &InvalidResidueError{Residue: a, Table: t.name}
	}
	if ib < 0 {
		return 0, &InvalidResidueError{Residue: b, Table: t.name}
	}
	return t.scores[ia][ib], nil
}

// Alphabet returns the residues the table is defined for.
func (t *Table) Alphabet() string {
	return t.alphabet
}

func (t *Table) String() string {
	return t.name
}

// BLOSUM62 is the standard BLOSUM62 amino-acid substitution matrix.
var BLOSUM62 = MustTable("BLOSUM62", "ARNDCQEGHILKMFPSTWYVBZX*", [][]int{
	/*        A   R   N   D   C   Q   E   G   H   I   L   K   M   F   P   S   T   W   Y   V   B   Z   X   * */
	/* A */ {4, -1, -2, -2, 0, -1, -1, 0, -2, -1, -1, -1, -1, -2, -1, 1, 0, -3, -2, 0, -2, -1, 0, -4},
	/* R */ {-1, 5, 0, -2, -3, 1, 0, -2, 0, -3, -2, 2, -1, -3, -2, -1, -1, -3, -2, -3, -1, 0, -1, -4},
	/* N */ {-2, 0, 6, 1, -3, 0, 0, 0, 1, -3, -3, 0, -2, -3, -2, 1, 0, -4, -2, -3, 3, 0, -1, -4},
	/* D */ {-2, -2, 1, 6, -3, 0, 2, -1, -1, -3, -4, -1, -3, -3, -1, 0, -1, -4, -3, -3, 4, 1, -1, -4},
	/* C */ {0, -3, -3, -3, 9, -3, -4, -3, -3, -1, -1, -3, -1, -2, -3, -1, -1, -2, -2, -1, -3, -3, -2, -4},
	/* Q */ {-1, 1, 0, 0, -3, 5, 2, -2, 0, -3, -2, 1, 0, -3, -1, 0, -1, -2, -1, -2, 0, 3, -1, -4},
	/* E */ {-1, 0, 0, 2, -4, 2, 5, -2, 0, -3, -3, 1, -2, -3, -1, 0, -1, -3, -2, -2, 1, 4, -1, -4},
	/* G */ {0, -2, 0, -1, -3, -2, -2, 6, -2, -4, -4, -2, -3, -3, -2, 0, -2, -2, -3, -3, -1, -2, -1, -4},
	/* H */ {-2, 0, 1, -1, -3, 0, 0, -2, 8, -3, -3, -1, -2, -1, -2, -1, -2, -2, 2, -3, 0, 0, -1, -4},
	/* I */ {-1, -3, -3, -3, -1, -3, -3, -4, -3, 4, 2, -3, 1, 0, -3, -2, -1, -3, -1, 3, -3, -3, -1, -4},
	/* L */ {-1, -2, -3, -4, -1, -2, -3, -4, -3, 2, 4, -2, 2, 0, -3, -2, -1, -2, -1, 1, -4, -3, -1, -4},
	/* K */ {-1, 2, 0, -1, -3, 1, 1, -2, -1, -3, -2, 5, -1, -3, -1, 0, -1, -3, -2, -2, 0, 1, -1, -4},
	/* M */ {-1, -1, -2, -3, -1, 0, -2, -3, -2, 1, 2, -1, 5, 0, -2, -1, -1, -1, -1, 1, -3, -1, -1, -4},
	/* F */ {-2, -3, -3, -3, -2, -3, -3, -3, -1, 0, 0, -3, 0, 6, -4, -2, -2, 1, 3, -1, -3, -3, -1, -4},
	/* P */ {-1, -2, -2, -1, -3, -1, -1, -2, -2, -3, -3, -1, -2, -4, 7, -1, -1, -4, -3, -2, -2, -1, -2, -4},
	/* S */ {1, -1, 1, 0, -1, 0, 0, 0, -1, -2, -2, 0, -1, -2, -1, 4, 1, -3, -2, -2, 0, 0, 0, -4},
	/* T */ {0, -1, 0, -1, -1, -1, -1, -2, -2, -1, -1, -1, -1, -2, -1, 1, 5, -2, -2, 0, -1, -1, 0, -4},
	/* W */ {-3, -3, -4, -4, -2, -2, -3, -2, -2, -3, -2, -3, -1, 1, -4, -3, -2, 11, 2, -3, -4, -3, -2, -4},
	/* Y */ {-2, -2, -2, -3, -2, -1, -2, -3, 2, -1, -1, -2, -1, 3, -3, -2, -2, 2, 7, -1, -3, -2, -1, -4},
	/* V */ {0, -3, -3, -3, -1, -2, -2, -3, -3, 3, 1, -2, 1, -1, -2, -2, 0, -3, -1, 4, -3, -2, -1, -4},
	/* B */ {-2, -1, 3, 4, -3, 0, 1, -1, 0, -3, -4, 0, -3, -3, -2, 0, -1, -4, -3, -3, 4, 1, -1, -4},
	/* Z */ {-1, 0, 0, 1, -3, 3, 4, -2, 0, -3, -3, 1, -1, -3, -1, 0, -1, -3, -2, -2, 1, 4, -1, -4},
	/* X */ {0, -1, -1, -1, -2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -2, 0, 0, -2, -1, -1, -1, -1, -1, -4},
	/* * */ {-4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, -4, 1},
})
