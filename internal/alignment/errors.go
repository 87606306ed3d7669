package alignment

import "fmt"

// AlignmentError is the base error type for alignment operations.
type AlignmentError interface {
	error
	IsAlignmentError()
}

// InvalidResidueError is returned when a substitution table is asked to
// score a character outside its alphabet.
type InvalidResidueError struct {
	Residue byte
	Table   string
}

func (e *InvalidResidueError) Error() string {
	return fmt.Sprintf("residue '%c' is not in the %s alphabet", e.Residue, e.Table)
}

func (e *InvalidResidueError) IsAlignmentError() {}

// NoAlignmentComputedError is returned when a traceback is requested before
// the matching matrix fill.
type NoAlignmentComputedError struct {
	Mode Mode
}

func (e *NoAlignmentComputedError) Error() string {
	return fmt.Sprintf("no %s alignment computed: fill the matrix before traceback", e.Mode)
}

func (e *NoAlignmentComputedError) IsAlignmentError() {}

// BacktrackError is returned when traceback reaches a cell it cannot leave.
type BacktrackError struct {
	Cell   Cell
	Reason string
}

func (e *BacktrackError) Error() string {
	return fmt.Sprintf("traceback stuck at %s: %s", e.Cell, e.Reason)
}

func (e *BacktrackError) IsAlignmentError() {}

// UnsupportedModeError is returned for an alignment mode that is not
// implemented.
type UnsupportedModeError struct {
	Mode string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("unsupported alignment mode %q", e.Mode)
}

func (e *UnsupportedModeError) IsAlignmentError() {}
