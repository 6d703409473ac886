package matrix

import (
	"errors"
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// ErrHeaderNotFound indicates a table has no row with a Flag column.
var ErrHeaderNotFound = errors.New("no Flag header row")

// ColumnSpec declares a condition column label and its expected outcome.
type ColumnSpec struct {
	Label   string         `json:"label" yaml:"label"`
	Outcome models.Outcome `json:"outcome" yaml:"outcome"`
}

// DefaultColumns returns the standard approval columns.
func DefaultColumns() []ColumnSpec {
	return []ColumnSpec{
		{Label: models.ColumnApproved, Outcome: models.OutcomeGreen},
		{Label: models.ColumnApprovedWithRestriction, Outcome: models.OutcomeYellow},
		{Label: models.ColumnNotApproved, Outcome: models.OutcomeRed},
	}
}

// LocateHeader finds the first row holding a cell equal to "Flag" (ignoring case
// and surrounding whitespace) and maps the condition columns of that row.
// Declared columns keep their declared label and outcome; other non-empty
// header cells become condition columns with an empty outcome when
// includeUndeclared is set.
func LocateHeader(table *models.Table, declared []ColumnSpec, includeUndeclared bool) (models.ColumnLayout, error) {
	if table == nil {
		return models.ColumnLayout{}, ErrHeaderNotFound
	}

	flagKey := foldLabel(models.ColumnFlag)
	for rowIdx, row := range table.Rows {
		for colIdx, cell := range row.Cells {
			if foldLabel(cell.Text) != flagKey {
				continue
			}
			layout := models.ColumnLayout{HeaderRow: rowIdx, Flag: colIdx}
			layout.Conditions = conditionColumns(row, colIdx, declared, includeUndeclared)
			return layout, nil
		}
	}

	return models.ColumnLayout{}, ErrHeaderNotFound
}

// conditionColumns maps header cells to condition columns in header-row order.
func conditionColumns(header models.TableRow, flagCol int, declared []ColumnSpec, includeUndeclared bool) []models.ConditionColumn {
	specs := make(map[string]ColumnSpec, len(declared))
	for _, spec := range declared {
		specs[foldLabel(spec.Label)] = spec
	}

	var result []models.ConditionColumn
	seen := map[string]bool{foldLabel(models.ColumnFlag): true}
	for colIdx, cell := range header.Cells {
		key := foldLabel(cell.Text)
		if colIdx == flagCol || key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if spec, ok := specs[key]; ok {
			result = append(result, models.ConditionColumn{Label: spec.Label, Index: colIdx, Outcome: spec.Outcome})
			continue
		}
		if includeUndeclared {
			result = append(result, models.ConditionColumn{Label: strings.TrimSpace(cell.Text), Index: colIdx})
		}
	}
	return result
}
