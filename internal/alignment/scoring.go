// Package alignment provides pairwise sequence alignment on records and
// aligned groups.
//
// This package implements Needleman-Wunsch (global) and Smith-Waterman (local)
// alignment with a linear gap penalty. Either operand may be a single record
// or a previously aligned Group, in which case every column is scored as the
// cross product of the residues it holds.
package alignment

import (
	"fmt"
	"strings"
)

// AlignDirection represents the traceback direction in the alignment matrix.
type AlignDirection int

const (
	// Stop marks a local alignment boundary
	Stop AlignDirection = iota
	// Diagonal consumes one column from each operand
	Diagonal
	// Up consumes a column from the second operand, gapping the first
	Up
	// Left consumes a column from the first operand, gapping the second
	Left
)

func (d AlignDirection) String() string {
	switch d {
	case Stop:
		return "stop"
	case Diagonal:
		return "diag"
	case Up:
		return "up"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Glyph returns a single character used when rendering a direction grid.
func (d AlignDirection) Glyph() byte {
	switch d {
	case Diagonal:
		return '\\'
	case Up:
		return '|'
	case Left:
		return '-'
	default:
		return '.'
	}
}

// Mode selects the alignment algorithm.
type Mode int

const (
	// Global represents Needleman-Wunsch global alignment
	Global Mode = iota
	// Local represents Smith-Waterman local alignment
	Local
)

func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case Local:
		return "local"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Validate returns an UnsupportedModeError for values outside the known set.
func (m Mode) Validate() error {
	switch m {
	case Global, Local:
		return nil
	default:
		return &UnsupportedModeError{Mode: m.String()}
	}
}

// ParseMode converts a user supplied mode name.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "global", "nw", "nws", "needleman-wunsch":
		return Global, nil
	case "local", "sw", "smith-waterman":
		return Local, nil
	default:
		return 0, &UnsupportedModeError{Mode: name}
	}
}

// Scoring represents the scoring parameters for alignment.
//
// When UseSubstitution is set, columns without gaps are scored with the
// Substitution model (BLOSUM62 if nil); every other column falls back to the
// match/mismatch pair.
type Scoring struct {
	MatchScore      int
	MismatchPenalty int
	GapPenalty      int
	UseSubstitution bool
	Substitution    Model
}

// NewScoring creates a linear scoring scheme with validation.
func NewScoring(match, mismatch, gap int) (*Scoring, error) {
	if mismatch > match {
		return nil, fmt.Errorf("mismatch score %d must not exceed match score %d", mismatch, match)
	}

	return &Scoring{
		MatchScore:      match,
		MismatchPenalty: mismatch,
		GapPenalty:      gap,
	}, nil
}

// DefaultDNA creates a default nucleotide scoring scheme.
func DefaultDNA() *Scoring {
	return &Scoring{
		MatchScore:      2,
		MismatchPenalty: -1,
		GapPenalty:      -2,
	}
}

// Simple creates a linear scoring scheme; it is NewScoring under the name
// used throughout the CLI.
func Simple(match, mismatch, gap int) (*Scoring, error) {
	return NewScoring(match, mismatch, gap)
}

// ProteinBLOSUM62 is the protein preset used for multiple alignment.
func ProteinBLOSUM62() *Scoring {
	return &Scoring{
		MatchScore:      1,
		MismatchPenalty: -1,
		GapPenalty:      -7,
		UseSubstitution: true,
		Substitution:    BLOSUM62,
	}
}

// WithSubstitution returns a copy of s scoring gap-free columns with m.
func (s *Scoring) WithSubstitution(m Model) *Scoring {
	c := *s
	c.UseSubstitution = true
	c.Substitution = m
	return &c
}

// Score returns the linear score for comparing two residues.
func (s *Scoring) Score(a, b byte) int {
	if a == b {
		return s.MatchScore
	}
	return s.MismatchPenalty
}

func (s *Scoring) model() Model {
	if s.Substitution != nil {
		return s.Substitution
	}
	return BLOSUM62
}

// String returns a string representation of the scoring scheme.
func (s *Scoring) String() string {
	subst := "none"
	if s.UseSubstitution {
		subst = fmt.Sprint(s.model())
	}
	return fmt.Sprintf("Scoring { match: %d, mismatch: %d, gap: %d, substitution: %s }",
		s.MatchScore, s.MismatchPenalty, s.GapPenalty, subst)
}
