package sequence

import (
	"fmt"
	"strings"
)

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a record has no residues.
type EmptySequenceError struct {
	ID string
}

func (e *EmptySequenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("sequence %q must have at least one residue", e.ID)
	}
	return "sequence must have at least one residue"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidBaseError is returned when a residue outside the alphabet is found.
type InvalidBaseError struct {
	Position int
	Found    rune
	Alphabet Alphabet
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid %s residue '%c' at position %d", e.Alphabet, e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// Residues returns the accepted residue set of the alphabet.
func (a Alphabet) Residues() string {
	switch a {
	case DNA:
		return DNAResidues
	case RNA:
		return RNAResidues
	default:
		return ProteinResidues
	}
}

// Validate checks residues against an alphabet. Gaps are accepted only when
// allowGaps is set.
func Validate(residues string, alpha Alphabet, allowGaps bool) error {
	valid := alpha.Residues()
	for i, b := range residues {
		if allowGaps && b == rune(Gap) {
			continue
		}
		if !strings.ContainsRune(valid, b) {
			return &InvalidBaseError{Position: i, Found: b, Alphabet: alpha}
		}
	}
	return nil
}

// IsValidResidue checks if a character belongs to the alphabet.
func IsValidResidue(c byte, alpha Alphabet) bool {
	return strings.IndexByte(alpha.Residues(), c) >= 0
}
