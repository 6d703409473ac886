// Package output serializes conversion results to JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix"
	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// Summary is the JSON view of a conversion.
type Summary struct {
	File     string           `json:"file"`
	Sections []models.Section `json:"sections"`
	Warnings []string         `json:"warnings,omitempty"`
}

// NewSummary builds the summary of res for the input file name.
func NewSummary(file string, res *qamatrix.Result) Summary {
	s := Summary{File: file, Sections: res.Sections}
	if s.Sections == nil {
		s.Sections = []models.Section{}
	}
	for _, w := range res.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	return s
}

// ToJSON serializes a summary.
func ToJSON(s Summary, pretty bool) ([]byte, error) {
	return marshal(s, pretty)
}

// SectionToJSON serializes one section.
func SectionToJSON(sec *models.Section, pretty bool) ([]byte, error) {
	return marshal(sec, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
