package models

// Standard condition column labels.
const (
	ColumnFlag                    = "Flag"
	ColumnApproved                = "Approved"
	ColumnApprovedWithRestriction = "Approved with Restriction"
	ColumnNotApproved             = "Not Approved"
)

// ConditionColumn is a located condition column and its expected outcome.
type ConditionColumn struct {
	// Label is the header text as declared (or as found, for undeclared columns).
	Label string `json:"label"`
	// Index is the 0-based column position.
	Index int `json:"index"`
	// Outcome is the expected outcome for rows generated from this column.
	Outcome Outcome `json:"outcome"`
}

// ColumnLayout maps the semantic columns of one table to positions.
type ColumnLayout struct {
	// HeaderRow is the 0-based index of the header row.
	HeaderRow int `json:"header_row"`
	// Flag is the 0-based index of the question column.
	Flag int `json:"flag"`
	// Conditions lists condition columns in header-row order.
	Conditions []ConditionColumn `json:"conditions"`
}

// Column returns the condition column with the given declared label.
func (l ColumnLayout) Column(label string) (ConditionColumn, bool) {
	for _, c := range l.Conditions {
		if c.Label == label {
			return c, true
		}
	}
	return ConditionColumn{}, false
}
