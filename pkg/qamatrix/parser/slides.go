package parser

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// titlePlaceholders are the placeholder types that identify a slide title.
var titlePlaceholders = map[string]bool{
	"title":    true,
	"ctrTitle": true,
}

// shapeParseResult holds intermediate parsing results.
type shapeParseResult struct {
	shape  models.Shape
	phType string
}

// parseSlideXML parses a slide (or notes slide) part and returns its shapes
// in document order. Group shapes are flattened.
func parseSlideXML(data []byte, theme *Theme) ([]shapeParseResult, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "spTree" {
			return parseShapeTree(decoder, theme)
		}
	}
}

// parseShapeTree consumes the children of p:spTree or p:grpSp up to the closing tag.
func parseShapeTree(decoder *xml.Decoder, theme *Theme) ([]shapeParseResult, error) {
	var results []shapeParseResult
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				pr, err := parseTextShape(decoder)
				if err != nil {
					return nil, err
				}
				results = append(results, pr)
			case "graphicFrame":
				pr, err := parseGraphicFrame(decoder, theme)
				if err != nil {
					return nil, err
				}
				if pr != nil {
					results = append(results, *pr)
				}
			case "grpSp":
				grpResults, err := parseShapeTree(decoder, theme)
				if err != nil {
					return nil, err
				}
				results = append(results, grpResults...)
			case "AlternateContent":
				altResults, err := parseAlternateContent(decoder, theme)
				if err != nil {
					return nil, err
				}
				results = append(results, altResults...)
			default:
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			return results, nil
		}
	}
}

// parseAlternateContent takes the first mc:Choice and ignores the fallbacks.
func parseAlternateContent(decoder *xml.Decoder, theme *Theme) ([]shapeParseResult, error) {
	var results []shapeParseResult
	taken := false
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "Choice" && !taken {
				taken = true
				results, err = parseShapeTree(decoder, theme)
				if err != nil {
					return nil, err
				}
				continue
			}
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			return results, nil
		}
	}
}

// parseTextShape parses a p:sp element: its name, placeholder type and text body.
func parseTextShape(decoder *xml.Decoder) (shapeParseResult, error) {
	var pr shapeParseResult
	pr.shape.Kind = models.ShapeText

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return pr, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				pr.shape.Name = attrValue(t, "name")
			case "ph":
				pr.phType = attrValue(t, "type")
				pr.shape.Title = titlePlaceholders[pr.phType]
			case "txBody":
				text, err := parseTextBody(decoder)
				if err != nil {
					return pr, err
				}
				pr.shape.Text = text
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return pr, nil
}

// parseGraphicFrame parses a p:graphicFrame and returns a table shape, or nil
// when the frame holds something else (chart, diagram, OLE object).
func parseGraphicFrame(decoder *xml.Decoder, theme *Theme) (*shapeParseResult, error) {
	var name string
	var table *models.Table

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				name = attrValue(t, "name")
			case "tbl":
				table, err = parseTable(decoder, theme)
				if err != nil {
					return nil, err
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if table == nil {
		return nil, nil
	}
	return &shapeParseResult{shape: models.Shape{Kind: models.ShapeTable, Name: name, Table: table}}, nil
}

func parseTable(decoder *xml.Decoder, theme *Theme) (*models.Table, error) {
	table := &models.Table{}
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "tr" {
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			row, err := parseTableRow(decoder, theme)
			if err != nil {
				return nil, err
			}
			table.Rows = append(table.Rows, row)
		case xml.EndElement:
			return table, nil
		}
	}
}

func parseTableRow(decoder *xml.Decoder, theme *Theme) (models.TableRow, error) {
	var row models.TableRow
	for {
		token, err := decoder.Token()
		if err != nil {
			return row, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "tc" {
				if err := decoder.Skip(); err != nil {
					return row, err
				}
				continue
			}
			cell, err := parseTableCell(decoder, theme)
			if err != nil {
				return row, err
			}
			row.Cells = append(row.Cells, cell)
		case xml.EndElement:
			return row, nil
		}
	}
}

func parseTableCell(decoder *xml.Decoder, theme *Theme) (models.TableCell, error) {
	var cell models.TableCell
	for {
		token, err := decoder.Token()
		if err != nil {
			return cell, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "txBody":
				text, err := parseTextBody(decoder)
				if err != nil {
					return cell, err
				}
				cell.Text = text
			case "tcPr":
				fill, err := parseCellProperties(decoder, theme)
				if err != nil {
					return cell, err
				}
				cell.Fill = fill
			default:
				if err := decoder.Skip(); err != nil {
					return cell, err
				}
			}
		case xml.EndElement:
			return cell, nil
		}
	}
}

// parseCellProperties returns the solid fill of a:tcPr. Border lines (a:lnL ...)
// carry their own solidFill and are skipped.
func parseCellProperties(decoder *xml.Decoder, theme *Theme) (*models.RGB, error) {
	var fill *models.RGB
	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "solidFill" {
				if err := decoder.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			fill, err = parseColorContainer(decoder, theme)
			if err != nil {
				return nil, err
			}
		case xml.EndElement:
			return fill, nil
		}
	}
}

// parseTextBody returns the text of a txBody with paragraphs joined by "\n".
func parseTextBody(decoder *xml.Decoder) (string, error) {
	var paragraphs []string
	for {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				if err := decoder.Skip(); err != nil {
					return "", err
				}
				continue
			}
			p, err := parseParagraph(decoder)
			if err != nil {
				return "", err
			}
			paragraphs = append(paragraphs, p)
		case xml.EndElement:
			return strings.Join(paragraphs, "\n"), nil
		}
	}
}

// parseParagraph concatenates the a:t runs (including field runs) of an a:p.
func parseParagraph(decoder *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				text, err := readElementText(decoder)
				if err != nil {
					return "", err
				}
				b.WriteString(text)
				depth--
			case "br":
				b.WriteString("\n")
			}
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}
