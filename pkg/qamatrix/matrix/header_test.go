package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

func table(rows ...[]string) *models.Table {
	t := &models.Table{}
	for _, r := range rows {
		var row models.TableRow
		for _, text := range r {
			row.Cells = append(row.Cells, models.TableCell{Text: text})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestLocateHeader(t *testing.T) {
	tbl := table(
		[]string{"Section 3", "", "", ""},
		[]string{"Not Approved", " flag ", "Approved", "Notes"},
		[]string{"c", "q", "a", "n"},
	)

	layout, err := LocateHeader(tbl, DefaultColumns(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, layout.HeaderRow)
	assert.Equal(t, 1, layout.Flag)
	assert.Equal(t, []models.ConditionColumn{
		{Label: models.ColumnNotApproved, Index: 0, Outcome: models.OutcomeRed},
		{Label: models.ColumnApproved, Index: 2, Outcome: models.OutcomeGreen},
		{Label: "Notes", Index: 3, Outcome: models.OutcomeBlank},
	}, layout.Conditions)

	_, ok := layout.Column(models.ColumnApprovedWithRestriction)
	assert.False(t, ok, "absent columns are not an error")
}

func TestLocateHeaderDeclaredOnly(t *testing.T) {
	tbl := table([]string{"Flag", "  APPROVED WITH RESTRICTION\n", "Notes"})

	layout, err := LocateHeader(tbl, DefaultColumns(), false)
	require.NoError(t, err)
	require.Len(t, layout.Conditions, 1)
	assert.Equal(t, models.ColumnApprovedWithRestriction, layout.Conditions[0].Label)
	assert.Equal(t, models.OutcomeYellow, layout.Conditions[0].Outcome)
}

func TestLocateHeaderCustomDeclaration(t *testing.T) {
	tbl := table([]string{"Flag", "Pending Review"})
	cols := append(DefaultColumns(), ColumnSpec{Label: "Pending Review", Outcome: models.OutcomeNA})

	layout, err := LocateHeader(tbl, cols, false)
	require.NoError(t, err)
	require.Len(t, layout.Conditions, 1)
	assert.Equal(t, models.OutcomeNA, layout.Conditions[0].Outcome)
}

func TestLocateHeaderNotFound(t *testing.T) {
	tests := []struct {
		name  string
		table *models.Table
	}{
		{"nil table", nil},
		{"no flag", table([]string{"Question", "Approved"})},
		{"flag as substring", table([]string{"Flagged items", "Approved"})},
	}

	for _, tt := range tests {
		_, err := LocateHeader(tt.table, DefaultColumns(), true)
		if !errors.Is(err, ErrHeaderNotFound) {
			t.Errorf("%s: expected ErrHeaderNotFound, got %v", tt.name, err)
		}
	}
}

func TestLocateHeaderLabelsMatchExactly(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		matched bool
	}{
		{"trimmed", " Not Approved ", true},
		{"case", "not APPROVED", true},
		{"inner spaces", "Not   Approved", false},
		{"inner line break", "Not\nApproved", false},
		{"suffix", "Not Approved (Y/N)", false},
	}

	for _, tt := range tests {
		layout, err := LocateHeader(table([]string{"Flag", tt.label}), DefaultColumns(), false)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		_, ok := layout.Column(models.ColumnNotApproved)
		if ok != tt.matched {
			t.Errorf("%s: label %q matched = %v, want %v", tt.name, tt.label, ok, tt.matched)
		}
	}
}
