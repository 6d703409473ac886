package render

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// LoadTemplate reads a YAML template from path. See ParseTemplate.
func LoadTemplate(path string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, err
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes a YAML template. Keys absent from data keep their
// DefaultTemplate values.
func ParseTemplate(data []byte) (Template, error) {
	tpl := DefaultTemplate()
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return Template{}, fmt.Errorf("parse template: %w", err)
	}
	if err := tpl.Validate(); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

// Validate checks that the template fits the A:I layout.
func (t Template) Validate() error {
	var errs []error
	if t.HeaderRow <= len(t.Labels) {
		errs = append(errs, fmt.Errorf("header_row %d overlaps the %d label rows", t.HeaderRow, len(t.Labels)))
	}
	if t.FirstDataRow < t.HeaderRow+2 {
		errs = append(errs, fmt.Errorf("first_data_row %d leaves no spacer row below header_row %d", t.FirstDataRow, t.HeaderRow))
	}
	if len(t.Headers) > 8 {
		errs = append(errs, fmt.Errorf("%d headers do not fit columns B through I", len(t.Headers)))
	}
	for name, c := range map[string]string{
		"header_fill":    t.HeaderFill,
		"spacer_fill":    t.SpacerFill,
		"separator_fill": t.SeparatorFill,
	} {
		if c != "" && !hexColor.MatchString(c) {
			errs = append(errs, fmt.Errorf("%s %q is not an RRGGBB color", name, c))
		}
	}
	for o, s := range t.Outcomes {
		if !o.Valid() {
			errs = append(errs, fmt.Errorf("outcome %q is not in the outcome list", o))
		}
		if !hexColor.MatchString(s.Font) || !hexColor.MatchString(s.Fill) {
			errs = append(errs, fmt.Errorf("outcome %q colors must be RRGGBB", o))
		}
	}
	for _, w := range t.Widths {
		if w.Width <= 0 || w.Width > 255 {
			errs = append(errs, fmt.Errorf("width %v for %s:%s is out of range", w.Width, w.From, w.To))
		}
	}
	return errors.Join(errs...)
}
