package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

func TestParseTemplateOverlay(t *testing.T) {
	tpl, err := ParseTemplate([]byte(`
header_fill: "FFF2CC"
first_data_row: 8
outcomes:
  "No Flag": {font: "595959", fill: "EDEDED"}
`))
	require.NoError(t, err)

	def := DefaultTemplate()
	assert.Equal(t, "FFF2CC", tpl.HeaderFill)
	assert.Equal(t, 8, tpl.FirstDataRow)
	assert.Equal(t, def.Labels, tpl.Labels)
	assert.Equal(t, def.Widths, tpl.Widths)
	assert.Equal(t, OutcomeStyle{Font: "595959", Fill: "EDEDED"}, tpl.Outcomes[models.OutcomeNoFlag])
	assert.Equal(t, def.Outcomes[models.OutcomeGreen], tpl.Outcomes[models.OutcomeGreen])
	assert.Equal(t, []models.Outcome{models.OutcomeGreen, models.OutcomeYellow, models.OutcomeRed, models.OutcomeNoFlag}, tpl.highlighted())
}

func TestParseTemplateInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "header_fill: [unterminated"},
		{"no spacer row", "first_data_row: 6"},
		{"header over labels", "header_row: 3"},
		{"bad color", "spacer_fill: orange"},
		{"unknown outcome", "outcomes: {Blue: {font: \"000000\", fill: \"0000FF\"}}"},
		{"too many headers", "headers: [a, b, c, d, e, f, g, h, i]"},
	}

	for _, tt := range tests {
		if _, err := ParseTemplate([]byte(tt.yaml)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte("separator_fill: BFBFBF\n"), 0o600))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "BFBFBF", tpl.SeparatorFill)

	_, err = LoadTemplate(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultTemplateValid(t *testing.T) {
	assert.NoError(t, DefaultTemplate().Validate())
}
