// Package seqio reads and writes records in FASTA format.
package seqio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aria-lang/bioflow-msa/internal/sequence"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
)

// LineWidth is the residue column width used when writing FASTA.
const LineWidth = 60

// ReadFASTA loads every record of a FASTA file.
func ReadFASTA(path string, alpha sequence.Alphabet) ([]*sequence.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := ParseFASTA(f, alpha)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// ParseFASTA parses FASTA records from r. Aligned input (containing gaps)
// is accepted; residues are validated against alpha.
func ParseFASTA(r io.Reader, alpha sequence.Alphabet) ([]*sequence.Record, error) {
	template := linear.NewSeq("", nil, biogoAlphabet(alpha))
	reader := fasta.NewReader(r, template)

	var records []*sequence.Record
	for {
		s, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record %d: %w", len(records)+1, err)
		}

		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type %T", s)
		}
		rec, err := fromLinear(ls, alpha)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no FASTA records found")
	}
	return records, nil
}

func fromLinear(s *linear.Seq, alpha sequence.Alphabet) (*sequence.Record, error) {
	raw := make([]byte, len(s.Seq))
	for i, l := range s.Seq {
		raw[i] = byte(l)
	}
	if len(raw) == 0 {
		return nil, &sequence.EmptySequenceError{ID: s.ID}
	}

	rec, err := sequence.Aligned(s.ID, string(raw), alpha)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", s.ID, err)
	}
	rec.Description = s.Desc
	return rec, nil
}

// WriteFASTA writes records, gapped or not, as FASTA.
func WriteFASTA(w io.Writer, records []*sequence.Record) error {
	fw := fasta.NewWriter(w, LineWidth)
	for _, rec := range records {
		if _, err := fw.Write(toLinear(rec)); err != nil {
			return fmt.Errorf("writing %q: %w", rec.ID, err)
		}
	}
	return nil
}

func toLinear(rec *sequence.Record) seq.Sequence {
	s := linear.NewSeq(rec.ID, alphabet.BytesToLetters([]byte(rec.Residues)), biogoAlphabet(rec.Alphabet))
	s.Desc = rec.Description
	return s
}

func biogoAlphabet(alpha sequence.Alphabet) alphabet.Alphabet {
	switch alpha {
	case sequence.DNA:
		return alphabet.DNA
	case sequence.RNA:
		return alphabet.RNA
	default:
		return alphabet.Protein
	}
}
