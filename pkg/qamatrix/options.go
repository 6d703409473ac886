// Package qamatrix converts compliance-matrix presentations into QA test
// case workbooks.
package qamatrix

import (
	"io"
	"log/slog"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/legacy"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/matrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/render"
)

// Options configures a conversion.
type Options struct {
	// Marker is the sentence that opens a section. Defaults to matrix.SectionMarker.
	Marker string
	// Columns declares condition columns and their expected outcomes.
	// If nil, defaults to matrix.DefaultColumns().
	Columns []matrix.ColumnSpec
	// IncludeUndeclaredColumns turns header cells missing from Columns into
	// condition columns with an empty expected outcome.
	IncludeUndeclaredColumns bool
	// Grey tunes grey separator detection.
	Grey matrix.GreyThresholds
	// Template is the sheet layout.
	Template render.Template
	// Legacy upgrades .ppt input. If nil, .ppt input fails with ErrToolUnavailable.
	Legacy legacy.Upgrader
	// Logger receives diagnostics. If nil, logging is discarded.
	Logger *slog.Logger
}

// DefaultOptions returns default conversion options.
func DefaultOptions() Options {
	return Options{
		Marker:                   matrix.SectionMarker,
		Columns:                  matrix.DefaultColumns(),
		IncludeUndeclaredColumns: true,
		Grey:                     matrix.DefaultGreyThresholds(),
		Template:                 render.DefaultTemplate(),
		Legacy:                   legacy.NewSoffice("", legacy.DefaultTimeout),
	}
}

// columns returns the declared condition columns.
func (o Options) columns() []matrix.ColumnSpec {
	if o.Columns != nil {
		return o.Columns
	}
	return matrix.DefaultColumns()
}

// logger returns the configured logger or a discarding one.
func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
