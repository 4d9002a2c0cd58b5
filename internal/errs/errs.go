// Package errs provides the error taxonomy for stub conversion.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// hints and errors.Is/As from a single import, and defines the sentinel
// defects raised when an input file does not follow the stub dialect.
package errs

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New   = crdb.New
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Is    = crdb.Is
	As    = crdb.As
)

// User-facing hints and details
var (
	WithHintf     = crdb.WithHintf
	WithDetailf   = crdb.WithDetailf
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Input-format defects. All of them are fatal for the run.
var (
	// ErrUnrecognizedLine: a line matches none of the recognised shapes.
	ErrUnrecognizedLine = New("unexpected file format")

	// ErrDuplicateClass: a file declares more than one class.
	ErrDuplicateClass = New("duplicate class declaration")

	// ErrUnterminatedBlock: a doc block or multi-line literal is still open at end of file.
	ErrUnterminatedBlock = New("unterminated block")

	// ErrMissingClass: the first declaration of a file is not a class.
	ErrMissingClass = New("missing class declaration")

	// ErrOrphanDoc: a doc block is not followed by any declaration.
	ErrOrphanDoc = New("doc block without declaration")

	// ErrExtendsBeforeClass: an extension statement appears before the class.
	ErrExtendsBeforeClass = New("extension statement before class declaration")
)

// FormatError locates an input-format defect in a source file.
type FormatError struct {
	File string
	Line int // 1-based; 0 when the defect has no single line
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Text == "" {
		return fmt.Sprintf("%s: %s", e.Err, loc)
	}
	return fmt.Sprintf("%s: %s: %q", e.Err, loc, e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError builds a FormatError wrapping the given sentinel.
func NewFormatError(sentinel error, file string, line int, text string) error {
	return crdb.WithStack(&FormatError{File: file, Line: line, Text: text, Err: sentinel})
}

// IsFormatError reports whether err is an input-format defect.
func IsFormatError(err error) bool {
	var fe *FormatError
	return err != nil && As(err, &fe)
}
