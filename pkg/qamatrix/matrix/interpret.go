package matrix

import (
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// Note sentences that gate the rows following them.
const (
	NoteYesMarker = "Please note: the following factors only apply if you have answered YES"
	NoteNoMarker  = "Please note: the following factors only apply if you have answered NO"
)

// Yes/No question phrasing in the Approved and Not Approved cells.
const (
	yesNoApproved         = "Has Answered Yes"
	yesNoNotApproved      = "Has Answered No"
	yesNoNotApprovedBlank = "Question Unanswered"
)

// RowClass is the single classification computed for a table row. The order
// of the constants is the priority order in which they are tested.
type RowClass int

const (
	// ClassBlank rows produce no output.
	ClassBlank RowClass = iota
	// ClassSeparator rows are blank with a grey fill.
	ClassSeparator
	// ClassGateYes rows hold the "answered YES" note.
	ClassGateYes
	// ClassGateNo rows hold the "answered NO" note.
	ClassGateNo
	// ClassYesNo rows are Yes/No questions expanded to Unanswered/No/Yes.
	ClassYesNo
	// ClassGeneric rows expand to one row per non-empty condition cell.
	ClassGeneric
)

func (c RowClass) String() string {
	switch c {
	case ClassSeparator:
		return "separator"
	case ClassGateYes:
		return "gate-yes"
	case ClassGateNo:
		return "gate-no"
	case ClassYesNo:
		return "yes-no"
	case ClassGeneric:
		return "generic"
	default:
		return "blank"
	}
}

// yesNoExpansion is the fixed Unanswered/No/Yes grammar with its outcomes.
var yesNoExpansion = []struct {
	condition string
	outcome   models.Outcome
}{
	{"Unanswered", models.OutcomeRed},
	{"No", models.OutcomeRed},
	{"Yes", models.OutcomeGreen},
}

// Interpreter turns table rows into output rows.
type Interpreter struct {
	Grey GreyThresholds
}

// Classify assigns row to exactly one RowClass. A nil layout (table without a
// Flag header) only recognizes separators and gate notes.
func (in Interpreter) Classify(row models.TableRow, layout *models.ColumnLayout) RowClass {
	if in.Grey.IsGreySeparator(row) {
		return ClassSeparator
	}
	for _, cell := range row.Cells {
		if containsFold(cell.Text, NoteYesMarker) {
			return ClassGateYes
		}
		if containsFold(cell.Text, NoteNoMarker) {
			return ClassGateNo
		}
	}
	if layout == nil {
		return ClassBlank
	}
	if CleanText(row.Cell(layout.Flag).Text) == "" {
		return ClassBlank
	}
	if isYesNo(row, layout) {
		return ClassYesNo
	}
	return ClassGeneric
}

func isYesNo(row models.TableRow, layout *models.ColumnLayout) bool {
	approved, ok := layout.Column(models.ColumnApproved)
	if !ok {
		return false
	}
	notApproved, ok := layout.Column(models.ColumnNotApproved)
	if !ok {
		return false
	}
	na := row.Cell(notApproved.Index).Text
	return containsFold(row.Cell(approved.Index).Text, yesNoApproved) &&
		containsFold(na, yesNoNotApproved) &&
		containsFold(na, yesNoNotApprovedBlank)
}

// Expand emits the output rows for a classified row.
func Expand(class RowClass, row models.TableRow, layout *models.ColumnLayout) []models.OutputRow {
	switch class {
	case ClassSeparator:
		return []models.OutputRow{models.SeparatorRow()}
	case ClassGateYes:
		return []models.OutputRow{models.GateRow(models.GateYesText)}
	case ClassGateNo:
		return []models.OutputRow{models.GateRow(models.GateNoText)}
	case ClassYesNo:
		question := CleanText(row.Cell(layout.Flag).Text)
		rows := make([]models.OutputRow, 0, len(yesNoExpansion))
		for _, e := range yesNoExpansion {
			rows = append(rows, models.ContentRow(question, e.condition, e.outcome))
		}
		return rows
	case ClassGeneric:
		question := CleanText(row.Cell(layout.Flag).Text)
		var rows []models.OutputRow
		for _, col := range layout.Conditions {
			condition := CleanText(row.Cell(col.Index).Text)
			if condition == "" {
				continue
			}
			rows = append(rows, models.ContentRow(question, condition, col.Outcome))
		}
		return rows
	default:
		return nil
	}
}

// Interpret classifies row and expands it.
func (in Interpreter) Interpret(row models.TableRow, layout *models.ColumnLayout) []models.OutputRow {
	return Expand(in.Classify(row, layout), row, layout)
}

// NoteGate returns the gate row for a speaker-notes line, if the line holds a
// note marker.
func NoteGate(line string) (models.OutputRow, bool) {
	switch {
	case containsFold(line, NoteYesMarker):
		return models.GateRow(models.GateYesText), true
	case containsFold(line, NoteNoMarker):
		return models.GateRow(models.GateNoText), true
	}
	return models.OutputRow{}, false
}
