// Package pptxtest builds minimal .pptx packages in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Deck describes a presentation to build.
type Deck struct {
	Slides []Slide
}

// Slide describes one slide. Title, when set, becomes the title placeholder and
// precedes Shapes in document order.
type Slide struct {
	Title  string
	Shapes []Shape
	Notes  []string
}

// Shape is a text box (Text) or a table (Rows).
type Shape struct {
	Text  string
	Rows  [][]Cell
	Group bool
}

// Cell is one table cell. Fill is an RRGGBB literal; Scheme is a scheme color
// name (bg1, accent1, ...) with an optional LumMod in 1/1000 percent.
type Cell struct {
	Text   string
	Fill   string
	Scheme string
	LumMod int
}

// TextBox returns a text box shape.
func TextBox(text string) Shape {
	return Shape{Text: text}
}

// Table returns a table shape.
func Table(rows ...[]Cell) Shape {
	return Shape{Rows: rows}
}

// Row returns a row of plain text cells.
func Row(texts ...string) []Cell {
	cells := make([]Cell, len(texts))
	for i, t := range texts {
		cells[i] = Cell{Text: t}
	}
	return cells
}

// FilledRow returns a row of n empty cells with the given fill.
func FilledRow(n int, fill string) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Fill: fill}
	}
	return cells
}

const (
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Build returns the .pptx bytes for d.
func Build(d Deck) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	write("[Content_Types].xml", contentTypes(d))
	write("_rels/.rels", rels(rel{"rId1", relBase + "/officeDocument", "ppt/presentation.xml"}))
	write("ppt/presentation.xml", presentation(d))

	presRels := []rel{{"rId1", relBase + "/theme", "theme/theme1.xml"}}
	for i := range d.Slides {
		presRels = append(presRels, rel{fmt.Sprintf("rId%d", i+2), relBase + "/slide", fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	write("ppt/_rels/presentation.xml.rels", rels(presRels...))
	write("ppt/theme/theme1.xml", theme)

	for i, s := range d.Slides {
		n := i + 1
		write(fmt.Sprintf("ppt/slides/slide%d.xml", n), slideXML(s))
		if len(s.Notes) > 0 {
			write(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n),
				rels(rel{"rId1", relBase + "/notesSlide", fmt.Sprintf("../notesSlides/notesSlide%d.xml", n)}))
			write(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notesXML(s.Notes))
		}
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

type rel struct {
	id, typ, target string
}

func rels(rs ...rel) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rs {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func contentTypes(d Deck) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func presentation(d Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:sldIdLst>`, nsA, nsR, nsP)
	for i := range d.Slides {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
	}
	b.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/></p:presentation>`)
	return b.String()
}

func slideXML(s Slide) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree>`, nsA, nsR, nsP)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	id := 2
	if s.Title != "" {
		b.WriteString(textShape(id, "Title 1", "title", s.Title))
		id++
	}
	for _, sh := range s.Shapes {
		var inner string
		if sh.Rows != nil {
			inner = tableShape(id, sh.Rows)
		} else {
			inner = textShape(id, fmt.Sprintf("TextBox %d", id), "", sh.Text)
		}
		id++
		if sh.Group {
			inner = fmt.Sprintf(`<p:grpSp><p:nvGrpSpPr><p:cNvPr id="%d" name="Group %d"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:grpSp>`, id, id, inner)
			id++
		}
		b.WriteString(inner)
	}
	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func notesXML(lines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:notes xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree>`, nsA, nsR, nsP)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	b.WriteString(textShape(2, "Slide Image Placeholder 1", "sldImg", ""))
	b.WriteString(textShape(3, "Notes Placeholder 2", "body", strings.Join(lines, "\n")))
	b.WriteString(`</p:spTree></p:cSld></p:notes>`)
	return b.String()
}

func textShape(id int, name, phType, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr>`, id, escape(name))
	if phType != "" {
		fmt.Fprintf(&b, `<p:ph type="%s"/>`, phType)
	}
	b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr/>`)
	b.WriteString(txBody("p:txBody", text))
	b.WriteString(`</p:sp>`)
	return b.String()
}

func tableShape(id int, rows [][]Cell) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`, id, id)
	b.WriteString(`<p:xfrm><a:off x="0" y="0"/><a:ext cx="9144000" cy="1000000"/></p:xfrm>`)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	for i := 0; i < cols; i++ {
		b.WriteString(`<a:gridCol w="1828800"/>`)
	}
	b.WriteString(`</a:tblGrid>`)
	for _, r := range rows {
		b.WriteString(`<a:tr h="370840">`)
		for _, c := range r {
			b.WriteString(`<a:tc>`)
			b.WriteString(txBody("a:txBody", c.Text))
			b.WriteString(`<a:tcPr><a:lnL w="12700"><a:solidFill><a:srgbClr val="FF0000"/></a:solidFill></a:lnL>`)
			switch {
			case c.Fill != "":
				fmt.Fprintf(&b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, c.Fill)
			case c.Scheme != "":
				fmt.Fprintf(&b, `<a:solidFill><a:schemeClr val="%s">`, c.Scheme)
				if c.LumMod != 0 {
					fmt.Fprintf(&b, `<a:lumMod val="%d"/>`, c.LumMod)
				}
				b.WriteString(`</a:schemeClr></a:solidFill>`)
			}
			b.WriteString(`</a:tcPr></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	return b.String()
}

func txBody(tag, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<%s><a:bodyPr/><a:lstStyle/>`, tag)
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
			continue
		}
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>%s</a:t></a:r></a:p>`, escape(line))
	}
	fmt.Fprintf(&b, `</%s>`, tag)
	return b.String()
}

func escape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		panic(err)
	}
	return buf.String()
}

const theme = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office Theme"><a:themeElements><a:clrScheme name="Office">
<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>
<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>
<a:dk2><a:srgbClr val="44546A"/></a:dk2>
<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>
<a:accent1><a:srgbClr val="4472C4"/></a:accent1>
<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>
<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>
<a:accent4><a:srgbClr val="FFC000"/></a:accent4>
<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>
<a:accent6><a:srgbClr val="70AD47"/></a:accent6>
<a:hlink><a:srgbClr val="0563C1"/></a:hlink>
<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
</a:clrScheme></a:themeElements></a:theme>`
