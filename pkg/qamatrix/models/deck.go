// Package models defines data structures for compliance-matrix conversion.
package models

// Deck is a parsed presentation: slides in presentation order.
type Deck struct {
	// Slides holds the slides in the order listed by the presentation part.
	Slides []Slide `json:"slides"`
}

// Slide is a single slide with its shapes in document (z-order) order.
type Slide struct {
	// Index is the 1-based slide position.
	Index int `json:"index"`
	// Shapes contains the text and table shapes on the slide.
	Shapes []Shape `json:"shapes,omitempty"`
	// Notes holds the speaker-notes text split into lines.
	Notes []string `json:"notes,omitempty"`
}

// ShapeKind distinguishes text-bearing shapes from tables.
type ShapeKind string

const (
	// ShapeText is a shape with a text body (title placeholder, text box, autoshape).
	ShapeText ShapeKind = "text"
	// ShapeTable is a graphic frame holding a table.
	ShapeTable ShapeKind = "table"
)

// Shape is either a text body or a table.
type Shape struct {
	// Kind is the shape kind.
	Kind ShapeKind `json:"kind"`
	// Name is the shape name from its non-visual properties.
	Name string `json:"name,omitempty"`
	// Title reports whether the shape is the slide's title placeholder.
	Title bool `json:"title,omitempty"`
	// Text is the shape text with paragraphs joined by newlines (text shapes only).
	Text string `json:"text,omitempty"`
	// Table is the table content (table shapes only).
	Table *Table `json:"table,omitempty"`
}

// Table is an ordered grid of rows.
type Table struct {
	Rows []TableRow `json:"rows"`
}

// TableRow is one table row.
type TableRow struct {
	Cells []TableCell `json:"cells"`
}

// TableCell holds a cell's text and its solid fill, if any.
type TableCell struct {
	// Text is the cell text with paragraphs joined by newlines.
	Text string `json:"text"`
	// Fill is the resolved solid fill color (nil when the cell has no solid fill
	// or the color could not be resolved).
	Fill *RGB `json:"fill,omitempty"`
}

// Cell returns the cell at idx, or a zero cell when the row is shorter.
func (r TableRow) Cell(idx int) TableCell {
	if idx < 0 || idx >= len(r.Cells) {
		return TableCell{}
	}
	return r.Cells[idx]
}
