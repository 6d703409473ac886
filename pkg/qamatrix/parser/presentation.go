package parser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

const defaultPresentationPart = "ppt/presentation.xml"

// ErrNotPresentation indicates the package has no presentation part.
var ErrNotPresentation = errors.New("package has no presentation part")

// Parse reads a .pptx package and returns its slides in presentation order.
func Parse(data []byte) (*models.Deck, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, fmt.Errorf("opening package: %w", err)
	}

	presPart, err := findPresentationPart(pkg)
	if err != nil {
		return nil, err
	}

	presXML, err := pkg.read(presPart)
	if err != nil {
		return nil, err
	}
	slideIDs, err := parseSlideIDList(presXML)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", presPart, err)
	}

	presRels, err := pkg.relationships(presPart)
	if err != nil {
		return nil, err
	}
	relByID := make(map[string]relationship, len(presRels))
	for _, rel := range presRels {
		relByID[rel.ID] = rel
	}

	theme := loadTheme(pkg, presRels)

	deck := &models.Deck{}
	for i, rID := range slideIDs {
		rel, ok := relByID[rID]
		if !ok || !strings.HasSuffix(rel.Type, relSlide) {
			return nil, fmt.Errorf("slide %d: relationship %s does not point to a slide", i+1, rID)
		}
		slide, err := parseSlide(pkg, rel.Target, theme)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		slide.Index = i + 1
		deck.Slides = append(deck.Slides, slide)
	}

	return deck, nil
}

// findPresentationPart follows the package-level officeDocument relationship.
func findPresentationPart(pkg *opcPackage) (string, error) {
	rels, err := pkg.relationships("")
	if err != nil {
		return "", err
	}
	if rel, ok := findRelationship(rels, relOfficeDocument); ok && pkg.has(rel.Target) {
		return rel.Target, nil
	}
	if pkg.has(defaultPresentationPart) {
		return defaultPresentationPart, nil
	}
	return "", ErrNotPresentation
}

// parseSlideIDList returns the r:id values of p:sldIdLst in order.
func parseSlideIDList(data []byte) ([]string, error) {
	var ids []string
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && attr.Name.Space != "" {
				ids = append(ids, attr.Value)
			}
		}
	}

	return ids, nil
}

// loadTheme returns the presentation theme, or nil when it is missing or
// unreadable; scheme-colored fills then stay unresolved.
func loadTheme(pkg *opcPackage, presRels []relationship) *Theme {
	rel, ok := findRelationship(presRels, relTheme)
	if !ok {
		return nil
	}
	data, err := pkg.read(rel.Target)
	if err != nil {
		return nil
	}
	theme, err := parseTheme(data)
	if err != nil {
		return nil
	}
	return theme
}

func parseSlide(pkg *opcPackage, partName string, theme *Theme) (models.Slide, error) {
	var slide models.Slide

	data, err := pkg.read(partName)
	if err != nil {
		return slide, err
	}
	results, err := parseSlideXML(data, theme)
	if err != nil {
		return slide, fmt.Errorf("part %s: %w", partName, err)
	}
	for _, pr := range results {
		slide.Shapes = append(slide.Shapes, pr.shape)
	}

	rels, err := pkg.relationships(partName)
	if err != nil {
		return slide, err
	}
	if rel, ok := findRelationship(rels, relNotesSlide); ok {
		slide.Notes, err = parseNotes(pkg, rel.Target)
		if err != nil {
			return slide, err
		}
	}

	return slide, nil
}

// parseNotes returns the lines of the notes placeholder of a notes slide.
func parseNotes(pkg *opcPackage, partName string) ([]string, error) {
	if !pkg.has(partName) {
		return nil, nil
	}
	data, err := pkg.read(partName)
	if err != nil {
		return nil, err
	}
	results, err := parseSlideXML(data, nil)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", partName, err)
	}

	var lines []string
	for _, pr := range results {
		if pr.phType != "body" || pr.shape.Text == "" {
			continue
		}
		lines = append(lines, strings.Split(pr.shape.Text, "\n")...)
	}
	return lines, nil
}
