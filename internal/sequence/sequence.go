// Package sequence provides identified residue sequences with validation.
//
// A Record is the unit every alignment operates on: an identifier plus an
// ordered string of residues. Records are validated at construction time and
// are not modified afterwards; aligned (gapped) records are produced as new
// values by the alignment package.
package sequence

import (
	"fmt"
	"strings"
)

// Gap is the placeholder residue used for insertions and deletions.
const Gap byte = '-'

// Alphabet identifies the residue set a record is validated against.
type Alphabet int

const (
	// Protein is the amino-acid alphabet (IUPAC one-letter codes, B, Z, X and *)
	Protein Alphabet = iota
	// DNA represents nucleotides A, C, G, T and the ambiguity code N
	DNA
	// RNA represents nucleotides A, C, G, U and the ambiguity code N
	RNA
)

func (a Alphabet) String() string {
	switch a {
	case Protein:
		return "protein"
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	default:
		return "unknown"
	}
}

// ParseAlphabet converts a user supplied alphabet name. An empty name
// selects Protein.
func ParseAlphabet(name string) (Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "protein", "aa":
		return Protein, nil
	case "dna":
		return DNA, nil
	case "rna":
		return RNA, nil
	default:
		return Protein, fmt.Errorf("unknown alphabet %q", name)
	}
}

// Residues accepted by each alphabet.
const (
	ProteinResidues = "ARNDCQEGHILKMFPSTWYVBZX*"
	DNAResidues     = "ACGTN"
	RNAResidues     = "ACGUN"
)

// Record is an identified sequence of residues.
type Record struct {
	ID          string
	Description string
	Residues    string
	Alphabet    Alphabet
}

// New creates a protein record. DNA input is accepted as well since every
// nucleotide code is also an amino-acid code.
func New(id, residues string) (*Record, error) {
	return WithAlphabet(id, residues, Protein)
}

// WithAlphabet creates a record validated against the given alphabet.
func WithAlphabet(id, residues string, alpha Alphabet) (*Record, error) {
	normalized := strings.ToUpper(strings.TrimSpace(residues))

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{ID: id}
	}
	if err := Validate(normalized, alpha, false); err != nil {
		return nil, err
	}

	return &Record{
		ID:       id,
		Residues: normalized,
		Alphabet: alpha,
	}, nil
}

// Aligned creates a record that may contain gap placeholders, such as a row
// read back from an alignment file.
func Aligned(id, residues string, alpha Alphabet) (*Record, error) {
	normalized := strings.ToUpper(residues)
	if err := Validate(normalized, alpha, true); err != nil {
		return nil, err
	}
	return &Record{ID: id, Residues: normalized, Alphabet: alpha}, nil
}

// EmptyLike returns a zero-length record carrying the same identity.
func (r *Record) EmptyLike() *Record {
	return &Record{
		ID:          r.ID,
		Description: r.Description,
		Alphabet:    r.Alphabet,
	}
}

// Len returns the number of residues, gaps included.
func (r *Record) Len() int {
	return len(r.Residues)
}

// ResidueAt returns the residue at index, or false if out of bounds.
func (r *Record) ResidueAt(index int) (byte, bool) {
	if index < 0 || index >= len(r.Residues) {
		return 0, false
	}
	return r.Residues[index], true
}

// IsGapAt reports whether the residue at index is the gap placeholder.
func (r *Record) IsGapAt(index int) bool {
	b, ok := r.ResidueAt(index)
	return ok && b == Gap
}

// GapCount counts gap placeholders.
func (r *Record) GapCount() int {
	return strings.Count(r.Residues, string(Gap))
}

// HasGaps reports whether the record contains any gap placeholder.
func (r *Record) HasGaps() bool {
	return strings.IndexByte(r.Residues, Gap) >= 0
}

// Ungapped returns a copy of the record with all gaps removed.
func (r *Record) Ungapped() *Record {
	return &Record{
		ID:          r.ID,
		Description: r.Description,
		Residues:    strings.ReplaceAll(r.Residues, string(Gap), ""),
		Alphabet:    r.Alphabet,
	}
}

// ToFASTA returns the record in FASTA format, wrapped at 80 columns.
func (r *Record) ToFASTA() string {
	var header string
	if r.ID != "" {
		header = ">" + r.ID
		if r.Description != "" {
			header += " " + r.Description
		}
	} else {
		header = ">sequence"
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')

	for i := 0; i < len(r.Residues); i += 80 {
		end := min(i+80, len(r.Residues))
		sb.WriteString(r.Residues[i:end])
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (r *Record) String() string {
	if r.ID != "" {
		return fmt.Sprintf("%s : %s", r.ID, r.Residues)
	}
	return r.Residues
}

// Equal reports whether two records have the same identifier and residues.
func (r *Record) Equal(other *Record) bool {
	if other == nil {
		return false
	}
	return r.ID == other.ID && r.Residues == other.Residues
}
