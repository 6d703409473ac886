package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
	"github.com/xuri/excelize/v2"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func fillColor(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if len(style.Fill.Color) == 0 {
		return ""
	}
	return strings.ToUpper(style.Fill.Color[0])
}

func sampleSection() models.Section {
	return models.Section{
		Name: "Contractor Class",
		Rows: []models.OutputRow{
			models.ContentRow("Enrolled?", "Unanswered", models.OutcomeRed),
			models.ContentRow("Enrolled?", "No", models.OutcomeRed),
			models.ContentRow("Enrolled?", "Yes", models.OutcomeGreen),
			models.GateRow(models.GateYesText),
			models.ContentRow("Age", "65-70", models.OutcomeYellow),
			models.SeparatorRow(),
			models.ContentRow("Notes", "free text", models.OutcomeBlank),
		},
	}
}

func TestRenderTemplate(t *testing.T) {
	data, sheets, err := Render([]models.Section{sampleSection()}, DefaultTemplate())
	require.NoError(t, err)
	require.Equal(t, []string{"Contractor Class"}, sheets)

	f := open(t, data)
	assert.Equal(t, []string{"Contractor Class", LookupsSheet}, f.GetSheetList())

	const sheet = "Contractor Class"
	for cell, expected := range map[string]string{
		"A1": "Employer", "A2": "Server", "A3": "Test AccountID", "A4": "Config #",
		"A5": "", "B5": "Question Name:", "C5": "Condition/Response", "D5": "Expected Outcome:",
		"E5": "Actual Outcome:", "F5": "Comments:", "G5": "Reviewed By:", "H5": "Date", "I5": "Comments",
	} {
		assert.Equal(t, expected, cellValue(t, f, sheet, cell), cell)
	}

	for _, col := range []string{"A", "E", "I"} {
		assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, col+"5"), "FFFF00"), "row 5 tint in %s", col)
		assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, col+"6"), "FFC000"), "row 6 tint in %s", col)
	}

	widths := map[string]float64{"A": 20, "B": 70, "C": 30, "D": 20, "G": 20, "I": 20}
	for col, expected := range widths {
		w, err := f.GetColWidth(sheet, col)
		require.NoError(t, err)
		assert.Equal(t, expected, w, "width of %s", col)
	}
}

func TestRenderRows(t *testing.T) {
	data, _, err := Render([]models.Section{sampleSection()}, DefaultTemplate())
	require.NoError(t, err)
	f := open(t, data)
	const sheet = "Contractor Class"

	expected := [][]string{
		{"", "Enrolled?", "Unanswered", "Red", ""},
		{"", "Enrolled?", "No", "Red", ""},
		{"", "Enrolled?", "Yes", "Green", ""},
		{"", models.GateYesText, "", "", ""},
		{"", "Age", "65-70", "Yellow", ""},
		{"", "", "", "", ""},
		{"", "Notes", "free text", "", ""},
	}
	for i, want := range expected {
		r := 7 + i
		for c, v := range want {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			require.NoError(t, err)
			assert.Equal(t, v, cellValue(t, f, sheet, cell), cell)
		}
	}

	assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, "D7"), "FFC7CE"))
	assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, "D9"), "C6EFCE"))
	assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, "D11"), "FFEB9C"))
	for _, col := range []string{"A", "B", "I"} {
		assert.True(t, strings.HasSuffix(fillColor(t, f, sheet, col+"12"), "D9D9D9"), "separator tint in %s", col)
	}
}

func TestRenderValidationAndFormatting(t *testing.T) {
	data, _, err := Render([]models.Section{sampleSection()}, DefaultTemplate())
	require.NoError(t, err)
	f := open(t, data)
	const sheet = "Contractor Class"

	dvs, err := f.GetDataValidations(sheet)
	require.NoError(t, err)
	var refs []string
	for _, dv := range dvs {
		refs = append(refs, dv.Sqref)
		assert.Equal(t, "list", dv.Type)
		assert.True(t, dv.AllowBlank)
		assert.False(t, dv.ShowDropDown)
		assert.Contains(t, dv.Formula1, OutcomeRange)
	}
	// gate row 10 and separator row 12 carry no validation
	assert.ElementsMatch(t, []string{"D7:E9", "D11:E11", "D13:E13"}, refs)

	formats, err := f.GetConditionalFormats(sheet)
	require.NoError(t, err)
	for _, ref := range []string{"D7:D13", "E7:E13"} {
		rules, ok := formats[ref]
		require.True(t, ok, "conditional format on %s", ref)
		var values []string
		for _, rule := range rules {
			values = append(values, rule.Value)
		}
		assert.Equal(t, []string{`"Green"`, `"Yellow"`, `"Red"`}, values)
	}
}

func TestRenderLookups(t *testing.T) {
	data, _, err := Render([]models.Section{sampleSection()}, DefaultTemplate())
	require.NoError(t, err)
	f := open(t, data)

	visible, err := f.GetSheetVisible(LookupsSheet)
	require.NoError(t, err)
	assert.False(t, visible)
	visible, err = f.GetSheetVisible("Contractor Class")
	require.NoError(t, err)
	assert.True(t, visible)

	assert.Equal(t, "Outcome", cellValue(t, f, LookupsSheet, "C2"))
	var domain []string
	for r := 3; r <= 8; r++ {
		domain = append(domain, cellValue(t, f, LookupsSheet, cellName("C", r)))
	}
	assert.Equal(t, []string{"", "Green", "Yellow", "Red", "No Flag", "N/A"}, domain)

	var found bool
	for _, dn := range f.GetDefinedName() {
		if dn.Name == OutcomeRange {
			found = true
			assert.Equal(t, "Lookups!$C$3:$C$8", dn.RefersTo)
		}
	}
	assert.True(t, found, "Outcome defined name")
}

func TestRenderNoSections(t *testing.T) {
	data, sheets, err := Render(nil, DefaultTemplate())
	require.NoError(t, err)
	assert.Empty(t, sheets)

	f := open(t, data)
	assert.Equal(t, []string{defaultSheet, LookupsSheet}, f.GetSheetList())
	visible, err := f.GetSheetVisible(defaultSheet)
	require.NoError(t, err)
	assert.True(t, visible)
	assert.Equal(t, "", cellValue(t, f, defaultSheet, "A1"))
}

func TestRenderDuplicateSectionNames(t *testing.T) {
	sections := []models.Section{
		{Name: "Alpha"},
		{Name: "Alpha"},
		{Name: "  "},
	}
	data, sheets, err := Render(sections, DefaultTemplate())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Alpha (2)", "Section 3"}, sheets)

	f := open(t, data)
	assert.Equal(t, []string{"Alpha", "Alpha (2)", "Section 3", LookupsSheet}, f.GetSheetList())

	// empty sections still get the template header and no outcome rules
	assert.Equal(t, "Question Name:", cellValue(t, f, "Section 3", "B5"))
	dvs, err := f.GetDataValidations("Section 3")
	require.NoError(t, err)
	assert.Empty(t, dvs)
}

func TestWorkbookFinished(t *testing.T) {
	w, err := NewWorkbook(DefaultTemplate())
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Bytes()
	require.NoError(t, err)
	_, err = w.AddSection(models.Section{Name: "late"})
	assert.ErrorIs(t, err, ErrWorkbookClosed)
	_, err = w.Bytes()
	assert.ErrorIs(t, err, ErrWorkbookClosed)
}

func TestValidationRanges(t *testing.T) {
	rows := []models.OutputRow{
		models.ContentRow("q", "a", models.OutcomeGreen),
		models.ContentRow("q", "b", models.OutcomeRed),
		models.GateRow(models.GateNoText),
		models.ContentRow("q", "c", models.OutcomeBlank),
		models.SeparatorRow(),
		models.ContentRow("q", " ", models.OutcomeBlank),
		models.ContentRow("q", "d", models.OutcomeYellow),
	}

	assert.Equal(t, []string{"D7:E8", "D10:E10", "D13:E13"}, validationRanges(7, rows))
	assert.Empty(t, validationRanges(7, nil))
}
