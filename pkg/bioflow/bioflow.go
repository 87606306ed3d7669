// Package bioflow provides a high-level API for pairwise and progressive
// multiple sequence alignment.
//
// Example usage:
//
//	records, err := bioflow.ReadFASTA("proteins.fa")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := bioflow.MultipleAlign(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bioflow.WriteAlignment(os.Stdout, result.Group)
package bioflow

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aria-lang/bioflow-msa/internal/alignment"
	"github.com/aria-lang/bioflow-msa/internal/msa"
	"github.com/aria-lang/bioflow-msa/internal/seqio"
	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/aria-lang/bioflow-msa/internal/stats"
)

// Re-export types for convenience
type (
	Record         = sequence.Record
	Alphabet       = sequence.Alphabet
	Group          = alignment.Group
	Pairwise       = alignment.Pairwise
	Scoring        = alignment.Scoring
	Mode           = alignment.Mode
	Matrix         = alignment.Matrix
	MSAOptions     = msa.Options
	MSAResult      = msa.Result
	SetStats       = stats.SetStats
	AlignmentStats = stats.AlignmentStats
)

// Constants
const (
	Protein = sequence.Protein
	DNA     = sequence.DNA
	RNA     = sequence.RNA

	Global = alignment.Global
	Local  = alignment.Local
)

// NewRecord creates a protein record.
func NewRecord(id, residues string) (*Record, error) {
	return sequence.New(id, residues)
}

// NewDNARecord creates a DNA record.
func NewDNARecord(id, residues string) (*Record, error) {
	return sequence.WithAlphabet(id, residues, sequence.DNA)
}

// Align performs local alignment between two records, keeping the
// unmatched flanks.
func Align(a, b *Record) (*Pairwise, error) {
	return AlignWithScoring(a, b, alignment.Local, nil)
}

// AlignGlobal performs global alignment between two records.
func AlignGlobal(a, b *Record) (*Pairwise, error) {
	return AlignWithScoring(a, b, alignment.Global, nil)
}

// AlignWithScoring aligns two records with custom scoring; nil selects the
// default nucleotide scoring.
func AlignWithScoring(a, b *Record, mode Mode, scoring *Scoring) (*Pairwise, error) {
	g, err := alignment.Align(a, b, mode, scoring)
	if err != nil {
		return nil, err
	}
	return alignment.NewPairwise(g)
}

// DotPlot renders the residue identity grid of a against b.
func DotPlot(a, b *Record) string {
	return alignment.DotPlot(a, b)
}

// FillMatrix runs only the fill step and returns the DP matrix with the
// optimum and its cell.
func FillMatrix(a, b *Record, mode Mode, scoring *Scoring) (*Matrix, int, alignment.Cell, error) {
	al, err := alignment.NewAligner(a, b, scoring)
	if err != nil {
		return nil, 0, alignment.Cell{}, err
	}

	switch mode {
	case alignment.Global:
		err = al.FillGlobal()
	case alignment.Local:
		err = al.FillLocal()
	default:
		err = mode.Validate()
	}
	if err != nil {
		return nil, 0, alignment.Cell{}, err
	}

	best, cell := al.Best()
	return al.Matrix(), best, cell, nil
}

// DefaultScoring returns the default DNA scoring scheme.
func DefaultScoring() *Scoring {
	return alignment.DefaultDNA()
}

// ProteinScoring returns the BLOSUM62 protein scoring scheme.
func ProteinScoring() *Scoring {
	return alignment.ProteinBLOSUM62()
}

// MultipleAlign runs a progressive alignment with default options.
func MultipleAlign(ctx context.Context, records []*Record) (*MSAResult, error) {
	return msa.Align(ctx, records, msa.DefaultOptions())
}

// MultipleAlignWithOptions runs a progressive alignment.
func MultipleAlignWithOptions(ctx context.Context, records []*Record, opts MSAOptions) (*MSAResult, error) {
	return msa.Align(ctx, records, opts)
}

// RecordSetStats calculates statistics for multiple records.
func RecordSetStats(records []*Record) (*SetStats, error) {
	return stats.FromRecords(records)
}

// GroupStats summarizes a finished alignment.
func GroupStats(g *Group) (*AlignmentStats, error) {
	return stats.FromGroup(g)
}

// ReadFASTA reads protein records from a FASTA file.
func ReadFASTA(filename string) ([]*Record, error) {
	return seqio.ReadFASTA(filename, sequence.Protein)
}

// ParseFASTA parses FASTA format from a reader.
func ParseFASTA(r io.Reader, alpha Alphabet) ([]*Record, error) {
	return seqio.ParseFASTA(r, alpha)
}

// WriteFASTA writes records to a FASTA file.
func WriteFASTA(filename string, records []*Record) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	return seqio.WriteFASTA(file, records)
}

// WriteAlignment writes the rows of a finished group as FASTA.
func WriteAlignment(w io.Writer, g *Group) error {
	if g == nil || !g.IsAligned() {
		return fmt.Errorf("group is not aligned")
	}
	return seqio.WriteFASTA(w, g.Members())
}

// Version returns the BioFlow version.
func Version() string {
	return "1.1.0"
}

// Info returns information about BioFlow.
func Info() string {
	return fmt.Sprintf(`BioFlow v%s - Sequence Alignment Library

Features:
  - Needleman-Wunsch global alignment
  - Smith-Waterman local alignment
  - Linear and BLOSUM62 scoring
  - Profile (group) alignment
  - Progressive multiple sequence alignment
  - FASTA parsing and writing
`, Version())
}
