// Package render writes sections to an xlsx workbook laid out as a QA test sheet.
package render

import "github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"

// Names the workbook uses for the outcome lookup list.
const (
	LookupsSheet = "Lookups"
	OutcomeRange = "Outcome"
)

// Columns spanned by the template (A through I).
const (
	firstColumn = "A"
	lastColumn  = "I"
)

// ColumnWidth sets the width of a column range.
type ColumnWidth struct {
	From  string  `json:"from" yaml:"from"`
	To    string  `json:"to" yaml:"to"`
	Width float64 `json:"width" yaml:"width"`
}

// OutcomeStyle is the font and fill color pair for an outcome label.
type OutcomeStyle struct {
	Font string `json:"font" yaml:"font"`
	Fill string `json:"fill" yaml:"fill"`
}

// Template describes the fixed header block and styling of every project tab.
type Template struct {
	// Labels fill A1 downward.
	Labels []string `json:"labels" yaml:"labels"`
	// HeaderRow is the 1-based row holding Headers.
	HeaderRow int `json:"header_row" yaml:"header_row"`
	// Headers fill the header row starting at column B.
	Headers []string `json:"headers" yaml:"headers"`
	// FirstDataRow is where output rows start; the row above it is the spacer.
	FirstDataRow int `json:"first_data_row" yaml:"first_data_row"`

	HeaderFill    string `json:"header_fill" yaml:"header_fill"`
	SpacerFill    string `json:"spacer_fill" yaml:"spacer_fill"`
	SeparatorFill string `json:"separator_fill" yaml:"separator_fill"`

	Widths []ColumnWidth `json:"widths" yaml:"widths"`

	// Outcomes maps outcome labels to their highlight. Outcomes without an
	// entry render unstyled.
	Outcomes map[models.Outcome]OutcomeStyle `json:"outcomes" yaml:"outcomes"`
}

// DefaultTemplate returns the standard QA test sheet layout.
func DefaultTemplate() Template {
	return Template{
		Labels:    []string{"Employer", "Server", "Test AccountID", "Config #"},
		HeaderRow: 5,
		Headers: []string{
			"Question Name:",
			"Condition/Response",
			"Expected Outcome:",
			"Actual Outcome:",
			"Comments:",
			"Reviewed By:",
			"Date",
			"Comments",
		},
		FirstDataRow:  7,
		HeaderFill:    "FFFF00",
		SpacerFill:    "FFC000",
		SeparatorFill: "D9D9D9",
		Widths: []ColumnWidth{
			{From: "A", To: "A", Width: 20},
			{From: "B", To: "B", Width: 70},
			{From: "C", To: "C", Width: 30},
			{From: "D", To: "I", Width: 20},
		},
		Outcomes: map[models.Outcome]OutcomeStyle{
			models.OutcomeGreen:  {Font: "006100", Fill: "C6EFCE"},
			models.OutcomeYellow: {Font: "9C6500", Fill: "FFEB9C"},
			models.OutcomeRed:    {Font: "9C0006", Fill: "FFC7CE"},
		},
	}
}

// highlighted lists the styled outcomes in domain order.
func (t Template) highlighted() []models.Outcome {
	var out []models.Outcome
	for _, o := range models.OutcomeDomain {
		if _, ok := t.Outcomes[o]; ok {
			out = append(out, o)
		}
	}
	return out
}
