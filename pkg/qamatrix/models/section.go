package models

// Section is one compliance-matrix project, rendered as one worksheet.
type Section struct {
	// Name is the text following the marker sentence, trimmed.
	Name string `json:"name"`
	// Sheet is the worksheet tab the section was rendered to.
	Sheet string `json:"sheet,omitempty"`
	// Slide is the 1-based slide where the marker was found.
	Slide int `json:"slide"`
	// Rows holds the output rows in emission order.
	Rows []OutputRow `json:"rows,omitempty"`
}

// RowKind discriminates OutputRow variants.
type RowKind string

const (
	// RowContent is a question/condition test case row.
	RowContent RowKind = "content"
	// RowGate is a synthetic "only applies if answered ..." row.
	RowGate RowKind = "gate"
	// RowSeparator is a blank grey grouping row.
	RowSeparator RowKind = "separator"
)

// Fixed gate texts. The spelling matches the QA template and must not be corrected.
const (
	GateYesText = "If anwered Yes to above queestion"
	GateNoText  = "If anwered No to above queestion"
)

// OutputRow is one physical spreadsheet row below the template header.
type OutputRow struct {
	// Kind selects which fields are meaningful.
	Kind RowKind `json:"kind"`
	// Question is the Flag column text (content rows).
	Question string `json:"question,omitempty"`
	// Condition is the condition/response text (content rows).
	Condition string `json:"condition,omitempty"`
	// Expected is the pre-filled expected outcome (content rows).
	Expected Outcome `json:"expected,omitempty"`
	// Text is the gate text (gate rows).
	Text string `json:"text,omitempty"`
}

// ContentRow builds a content row.
func ContentRow(question, condition string, expected Outcome) OutputRow {
	return OutputRow{Kind: RowContent, Question: question, Condition: condition, Expected: expected}
}

// GateRow builds a gate row with the given fixed text.
func GateRow(text string) OutputRow {
	return OutputRow{Kind: RowGate, Text: text}
}

// SeparatorRow builds a separator row.
func SeparatorRow() OutputRow {
	return OutputRow{Kind: RowSeparator}
}
