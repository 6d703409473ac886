package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
	"github.com/xuri/excelize/v2"
)

// Template columns with a fixed meaning.
const (
	questionColumn  = "B"
	conditionColumn = "C"
	expectedColumn  = "D"
	actualColumn    = "E"
)

// defaultSheet is the sheet every new excelize workbook starts with.
const defaultSheet = "Sheet1"

// ErrWorkbookClosed is returned when a finished workbook is written to again.
var ErrWorkbookClosed = errors.New("workbook already finished")

type styleIDs struct {
	header    int
	spacer    int
	separator int
	// outcome holds cell styles, conditional holds differential styles.
	outcome     map[models.Outcome]int
	conditional map[models.Outcome]int
}

// Workbook builds one project tab per section. Sections are added in order
// and Bytes finishes the workbook with the hidden outcome lookup sheet.
type Workbook struct {
	file     *excelize.File
	tpl      Template
	styles   styleIDs
	namer    *sheetNamer
	sheets   []string
	finished bool
}

// NewWorkbook creates an empty workbook styled by tpl.
func NewWorkbook(tpl Template) (*Workbook, error) {
	w := &Workbook{
		file:  excelize.NewFile(),
		tpl:   tpl,
		namer: newSheetNamer(LookupsSheet),
	}
	if err := w.registerStyles(); err != nil {
		w.file.Close()
		return nil, err
	}
	return w, nil
}

// Sheets returns the project tab names in section order.
func (w *Workbook) Sheets() []string {
	return w.sheets
}

// Close releases the underlying workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

func fillStyle(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	}
}

func (w *Workbook) newFill(color string) (int, error) {
	if color == "" {
		return 0, nil
	}
	return w.file.NewStyle(fillStyle(color))
}

func (w *Workbook) registerStyles() error {
	var err error
	if w.styles.header, err = w.newFill(w.tpl.HeaderFill); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if w.styles.spacer, err = w.newFill(w.tpl.SpacerFill); err != nil {
		return fmt.Errorf("spacer style: %w", err)
	}
	if w.styles.separator, err = w.newFill(w.tpl.SeparatorFill); err != nil {
		return fmt.Errorf("separator style: %w", err)
	}

	w.styles.outcome = make(map[models.Outcome]int)
	w.styles.conditional = make(map[models.Outcome]int)
	for _, o := range w.tpl.highlighted() {
		hl := w.tpl.Outcomes[o]
		style := fillStyle(hl.Fill)
		style.Font = &excelize.Font{Color: hl.Font}

		id, err := w.file.NewStyle(style)
		if err != nil {
			return fmt.Errorf("%s outcome style: %w", o, err)
		}
		w.styles.outcome[o] = id

		cid, err := w.file.NewConditionalStyle(style)
		if err != nil {
			return fmt.Errorf("%s conditional style: %w", o, err)
		}
		w.styles.conditional[o] = cid
	}
	return nil
}

// AddSection renders sec on a new tab and returns the tab name.
func (w *Workbook) AddSection(sec models.Section) (string, error) {
	if w.finished {
		return "", ErrWorkbookClosed
	}

	name := w.namer.name(sec.Name, len(w.sheets)+1)
	if len(w.sheets) == 0 {
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			return "", fmt.Errorf("rename sheet to %q: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return "", fmt.Errorf("create sheet %q: %w", name, err)
	}
	w.sheets = append(w.sheets, name)

	if err := w.writeHeader(name); err != nil {
		return "", fmt.Errorf("sheet %q header: %w", name, err)
	}
	if err := w.writeRows(name, sec.Rows); err != nil {
		return "", fmt.Errorf("sheet %q rows: %w", name, err)
	}
	if err := w.applyOutcomeRules(name, sec.Rows); err != nil {
		return "", fmt.Errorf("sheet %q outcome rules: %w", name, err)
	}
	return name, nil
}

func (w *Workbook) writeHeader(sheet string) error {
	for i, label := range w.tpl.Labels {
		if err := w.file.SetCellStr(sheet, cellName(firstColumn, i+1), label); err != nil {
			return err
		}
	}

	for i, header := range w.tpl.Headers {
		cell, err := excelize.CoordinatesToCellName(i+2, w.tpl.HeaderRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStr(sheet, cell, header); err != nil {
			return err
		}
	}
	if err := w.styleRow(sheet, w.tpl.HeaderRow, w.styles.header); err != nil {
		return err
	}
	if err := w.styleRow(sheet, w.tpl.FirstDataRow-1, w.styles.spacer); err != nil {
		return err
	}

	for _, cw := range w.tpl.Widths {
		if err := w.file.SetColWidth(sheet, cw.From, cw.To, cw.Width); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) styleRow(sheet string, row, style int) error {
	if style == 0 || row < 1 {
		return nil
	}
	return w.file.SetCellStyle(sheet, cellName(firstColumn, row), cellName(lastColumn, row), style)
}

func (w *Workbook) writeRows(sheet string, rows []models.OutputRow) error {
	for i, row := range rows {
		r := w.tpl.FirstDataRow + i
		switch row.Kind {
		case models.RowContent:
			if err := w.file.SetCellStr(sheet, cellName(questionColumn, r), row.Question); err != nil {
				return err
			}
			if err := w.file.SetCellStr(sheet, cellName(conditionColumn, r), row.Condition); err != nil {
				return err
			}
			if row.Expected == models.OutcomeBlank {
				continue
			}
			expected := cellName(expectedColumn, r)
			if err := w.file.SetCellStr(sheet, expected, string(row.Expected)); err != nil {
				return err
			}
			if id, ok := w.styles.outcome[row.Expected]; ok {
				if err := w.file.SetCellStyle(sheet, expected, expected, id); err != nil {
					return err
				}
			}
		case models.RowGate:
			if err := w.file.SetCellStr(sheet, cellName(questionColumn, r), row.Text); err != nil {
				return err
			}
		case models.RowSeparator:
			if err := w.styleRow(sheet, r, w.styles.separator); err != nil {
				return err
			}
		}
	}
	return nil
}

// validationRanges returns the D:E ranges of contiguous rows with a non-empty
// condition cell.
func validationRanges(first int, rows []models.OutputRow) []string {
	var refs []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		refs = append(refs, cellName(expectedColumn, start)+":"+cellName(actualColumn, end))
		start = -1
	}

	for i, row := range rows {
		r := first + i
		if row.Kind == models.RowContent && strings.TrimSpace(row.Condition) != "" {
			if start < 0 {
				start = r
			}
			continue
		}
		flush(r - 1)
	}
	flush(first + len(rows) - 1)
	return refs
}

func (w *Workbook) applyOutcomeRules(sheet string, rows []models.OutputRow) error {
	first := w.tpl.FirstDataRow
	for _, ref := range validationRanges(first, rows) {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = ref
		dv.SetSqrefDropList(OutcomeRange)
		if err := w.file.AddDataValidation(sheet, dv); err != nil {
			return err
		}
	}

	highlighted := w.tpl.highlighted()
	if len(rows) == 0 || len(highlighted) == 0 {
		return nil
	}
	opts := make([]excelize.ConditionalFormatOptions, 0, len(highlighted))
	for _, o := range highlighted {
		format := w.styles.conditional[o]
		opts = append(opts, excelize.ConditionalFormatOptions{
			Type:     "cell",
			Criteria: "==",
			Value:    strconv.Quote(string(o)),
			Format:   &format,
		})
	}

	last := first + len(rows) - 1
	for _, col := range []string{expectedColumn, actualColumn} {
		ref := cellName(col, first) + ":" + cellName(col, last)
		if err := w.file.SetConditionalFormat(sheet, ref, opts); err != nil {
			return err
		}
	}
	return nil
}

// Bytes adds the hidden lookup sheet and serializes the workbook. The workbook
// accepts no further sections afterwards.
func (w *Workbook) Bytes() ([]byte, error) {
	if w.finished {
		return nil, ErrWorkbookClosed
	}
	w.finished = true

	if err := w.writeLookups(); err != nil {
		return nil, fmt.Errorf("lookup sheet: %w", err)
	}
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeLookups lays out the outcome domain under an "Outcome" heading in
// column C and names the value range.
func (w *Workbook) writeLookups() error {
	if _, err := w.file.NewSheet(LookupsSheet); err != nil {
		return err
	}
	if err := w.file.SetCellStr(LookupsSheet, "C2", OutcomeRange); err != nil {
		return err
	}
	for i, o := range models.OutcomeDomain {
		if o == models.OutcomeBlank {
			continue
		}
		if err := w.file.SetCellStr(LookupsSheet, cellName("C", 3+i), string(o)); err != nil {
			return err
		}
	}

	lastRow := 2 + len(models.OutcomeDomain)
	if err := w.file.SetDefinedName(&excelize.DefinedName{
		Name:     OutcomeRange,
		RefersTo: fmt.Sprintf("%s!$C$3:$C$%d", LookupsSheet, lastRow),
	}); err != nil {
		return err
	}

	w.file.SetActiveSheet(0)
	return w.file.SetSheetVisible(LookupsSheet, false)
}

func cellName(col string, row int) string {
	return col + strconv.Itoa(row)
}

// Render writes sections into a new workbook and returns its bytes together
// with the tab name chosen for each section.
func Render(sections []models.Section, tpl Template) ([]byte, []string, error) {
	w, err := NewWorkbook(tpl)
	if err != nil {
		return nil, nil, err
	}
	defer w.Close()

	for _, sec := range sections {
		if _, err := w.AddSection(sec); err != nil {
			return nil, nil, err
		}
	}
	data, err := w.Bytes()
	if err != nil {
		return nil, nil, err
	}
	return data, w.Sheets(), nil
}
