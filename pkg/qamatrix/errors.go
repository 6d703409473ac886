package qamatrix

import (
	"errors"
	"fmt"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/legacy"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/matrix"
)

// ErrUnsupportedFormat indicates the input is neither a .pptx nor a convertible .ppt.
var ErrUnsupportedFormat = errors.New("unsupported presentation format")

// ErrToolUnavailable indicates a legacy .ppt was given but no converter is installed.
var ErrToolUnavailable = legacy.ErrToolUnavailable

// ErrMalformedDocument indicates the presentation could not be parsed.
var ErrMalformedDocument = errors.New("malformed presentation")

// ErrNoSectionsFound indicates no section marker occurs in the deck. It is
// reported as a warning; the conversion still produces a workbook.
var ErrNoSectionsFound = errors.New("no compliance matrix sections found")

// ErrHeaderNotFound indicates a table without a Flag header row.
var ErrHeaderNotFound = matrix.ErrHeaderNotFound

// TableError is a table-local anomaly. The table is skipped for row
// interpretation and the conversion continues.
type TableError struct {
	Section string
	Slide   int
	Table   int
	Err     error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("section %q, slide %d, table %d: %v", e.Section, e.Slide, e.Table, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// NewTableError creates a new TableError.
func NewTableError(section string, slide, table int, err error) *TableError {
	return &TableError{
		Section: section,
		Slide:   slide,
		Table:   table,
		Err:     err,
	}
}

// missingToolError reports a legacy input that cannot be upgraded. It matches
// both ErrUnsupportedFormat and ErrToolUnavailable.
type missingToolError struct {
	cause error
}

func (e *missingToolError) Error() string {
	return fmt.Sprintf("%v: legacy .ppt needs LibreOffice (soffice) on PATH, or save the file as .pptx: %v", ErrUnsupportedFormat, e.cause)
}

func (e *missingToolError) Unwrap() []error {
	return []error{ErrUnsupportedFormat, e.cause}
}
