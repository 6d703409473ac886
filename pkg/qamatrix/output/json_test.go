package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

func TestToJSON(t *testing.T) {
	res := &qamatrix.Result{
		Sections: []models.Section{{
			Name:  "Contractor: Class",
			Sheet: "Contractor Class",
			Slide: 2,
			Rows: []models.OutputRow{
				models.ContentRow("Q", "Yes", models.OutcomeGreen),
				models.GateRow(models.GateYesText),
				models.SeparatorRow(),
			},
		}},
		Warnings: []error{qamatrix.NewTableError("Contractor: Class", 3, 1, qamatrix.ErrHeaderNotFound)},
	}

	data, err := ToJSON(NewSummary("deck.pptx", res), false)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"file": "deck.pptx",
		"sections": [{
			"name": "Contractor: Class",
			"sheet": "Contractor Class",
			"slide": 2,
			"rows": [
				{"kind": "content", "question": "Q", "condition": "Yes", "expected": "Green"},
				{"kind": "gate", "text": "If anwered Yes to above queestion"},
				{"kind": "separator"}
			]
		}],
		"warnings": ["section \"Contractor: Class\", slide 3, table 1: no Flag header row"]
	}`, string(data))
}

func TestToJSONEmpty(t *testing.T) {
	data, err := ToJSON(NewSummary("empty.pptx", &qamatrix.Result{}), true)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"sections\": []"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "warnings")
}

func TestSectionToJSON(t *testing.T) {
	data, err := SectionToJSON(&models.Section{Name: "A", Sheet: "A"}, false)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"A","sheet":"A","slide":0}`, string(data))
}
