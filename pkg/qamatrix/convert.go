package qamatrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/legacy"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/matrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/parser"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/render"
)

// Result is a finished conversion.
type Result struct {
	// Workbook is the serialized xlsx file.
	Workbook []byte
	// Sections lists the rendered sections with their tab names.
	Sections []models.Section
	// Warnings holds non-fatal anomalies: ErrNoSectionsFound and *TableError values.
	Warnings []error
}

// Converter turns presentations into QA test case workbooks. It holds no
// per-conversion state and is safe for concurrent use.
type Converter struct {
	opts Options
	log  *slog.Logger
}

// NewConverter creates a Converter.
func NewConverter(opts Options) *Converter {
	if opts.Template.FirstDataRow == 0 {
		opts.Template = render.DefaultTemplate()
	}
	if opts.Grey == (matrix.GreyThresholds{}) {
		opts.Grey = matrix.DefaultGreyThresholds()
	}
	return &Converter{opts: opts, log: opts.logger()}
}

// Convert is shorthand for NewConverter(opts).Convert.
func Convert(ctx context.Context, data []byte, filename string, opts Options) (*Result, error) {
	return NewConverter(opts).Convert(ctx, data, filename)
}

// Convert converts a presentation. filename is only used to recognize the
// legacy .ppt extension. Either a complete workbook is returned or an error.
func (c *Converter) Convert(ctx context.Context, data []byte, filename string) (*Result, error) {
	pptx, err := c.prepare(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	deck, err := parser.Parse(pptx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	c.log.Debug("parsed presentation", "file", filename, "slides", len(deck.Slides))

	sections, warnings := c.Sections(deck)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	workbook, sheets, err := render.Render(sections, c.opts.Template)
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	for i := range sections {
		sections[i].Sheet = sheets[i]
	}

	return &Result{Workbook: workbook, Sections: sections, Warnings: warnings}, nil
}

// prepare validates the input format and returns .pptx bytes, upgrading
// legacy input first.
func (c *Converter) prepare(ctx context.Context, data []byte, filename string) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnsupportedFormat)
	}

	if !IsLegacyName(filename) {
		if DetectFormat(data, filename) != FormatPPTX {
			return nil, fmt.Errorf("%w: %s is not a .pptx presentation", ErrUnsupportedFormat, filename)
		}
		return data, nil
	}

	if err := c.checkUpgrader(); err != nil {
		return nil, err
	}
	if DetectFormat(data, filename) != FormatPPT {
		return nil, fmt.Errorf("%w: %s is not a PowerPoint 97-2003 presentation", ErrUnsupportedFormat, filename)
	}

	c.log.Debug("upgrading legacy presentation", "file", filename, "bytes", len(data))
	pptx, err := c.opts.Legacy.Upgrade(ctx, data)
	if errors.Is(err, legacy.ErrToolUnavailable) {
		return nil, &missingToolError{cause: err}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("upgrade legacy presentation: %w", ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return pptx, nil
}

func (c *Converter) checkUpgrader() error {
	if c.opts.Legacy == nil {
		return &missingToolError{cause: ErrToolUnavailable}
	}
	if a, ok := c.opts.Legacy.(interface{ Available() bool }); ok && !a.Available() {
		return &missingToolError{cause: ErrToolUnavailable}
	}
	return nil
}

// Sections segments deck and interprets every table and notes line of each
// section. Table-local anomalies are returned as warnings.
func (c *Converter) Sections(deck *models.Deck) ([]models.Section, []error) {
	seg := matrix.SegmentDeck(deck, c.opts.Marker)
	if n := seg.Orphans(); n > 0 {
		c.log.Debug("dropped content before the first section marker", "units", n)
	}

	var warnings []error
	segments := seg.Segments()
	if len(segments) == 0 {
		c.log.Warn("no section marker found; workbook will have no project tabs")
		warnings = append(warnings, ErrNoSectionsFound)
	}

	in := matrix.Interpreter{Grey: c.opts.Grey}
	sections := make([]models.Section, 0, len(segments))
	for _, s := range segments {
		sec := models.Section{Name: s.Name, Slide: s.Slide}
		for _, item := range s.Items {
			switch item.Kind {
			case matrix.ItemTable:
				rows, err := c.tableRows(in, item.Table)
				if err != nil {
					c.log.Warn("table skipped for row interpretation",
						"section", s.Name, "slide", item.Slide, "table", item.TableIndex, "error", err)
					warnings = append(warnings, NewTableError(s.Name, item.Slide, item.TableIndex, err))
				}
				sec.Rows = append(sec.Rows, rows...)
			case matrix.ItemNote:
				if gate, ok := matrix.NoteGate(item.Note); ok {
					sec.Rows = append(sec.Rows, gate)
				}
			}
		}
		c.log.Debug("section interpreted", "section", s.Name, "slide", s.Slide, "rows", len(sec.Rows))
		sections = append(sections, sec)
	}
	return sections, warnings
}

// tableRows interprets the rows below the header. A table without a header
// is still scanned for separators and gate notes, and the header error is
// returned alongside those rows.
func (c *Converter) tableRows(in matrix.Interpreter, table *models.Table) ([]models.OutputRow, error) {
	layout, err := matrix.LocateHeader(table, c.opts.columns(), c.opts.IncludeUndeclaredColumns)

	var lp *models.ColumnLayout
	body := table.Rows
	if err == nil {
		lp = &layout
		body = table.Rows[layout.HeaderRow+1:]
	}

	var rows []models.OutputRow
	for _, row := range body {
		rows = append(rows, in.Interpret(row, lp)...)
	}
	return rows, err
}
