package matrix

import (
	"strings"

	"github.com/ukaji3/qamatrix-go/pkg/qamatrix/models"
)

// SectionMarker is the sentence that opens a new section. The text after it
// names the section.
const SectionMarker = "This is the compliance matrix that has been applied to"

// ItemKind distinguishes the content units a segment carries.
type ItemKind int

const (
	// ItemTable is a table shape.
	ItemTable ItemKind = iota
	// ItemNote is one line of speaker notes.
	ItemNote
)

// Item is one content unit inside a segment, in document order.
type Item struct {
	Kind ItemKind
	// Slide is the 1-based slide index.
	Slide int
	// TableIndex is the 1-based table position on the slide (tables only).
	TableIndex int
	Table      *models.Table
	Note       string
}

// Segment is a section name with the content units that belong to it.
type Segment struct {
	Name  string
	Slide int
	Items []Item
}

type segState int

const (
	stateOutside segState = iota
	stateInside
)

// Segmenter splits an ordered stream of text, tables and notes into segments.
// It starts outside any section; the first marker moves it inside, and every
// further marker closes the current segment and opens the next one. Units seen
// while outside are counted as orphans and dropped.
type Segmenter struct {
	marker   string
	state    segState
	segments []Segment
	orphans  int
}

// NewSegmenter returns a Segmenter for marker (SectionMarker when empty).
func NewSegmenter(marker string) *Segmenter {
	if marker == "" {
		marker = SectionMarker
	}
	return &Segmenter{marker: marker}
}

// Text feeds a text unit. Each marker occurrence opens a section named by the
// text after it, up to the next occurrence or the end of the unit.
func (s *Segmenter) Text(slide int, text string) {
	rest := text
	for {
		start, end := indexFold(rest, s.marker)
		if start < 0 {
			return
		}
		after := rest[end:]
		name := after
		if next, _ := indexFold(after, s.marker); next >= 0 {
			name = after[:next]
		}
		s.open(slide, strings.TrimSpace(name))
		rest = after
	}
}

// Table feeds a table unit.
func (s *Segmenter) Table(slide, index int, table *models.Table) {
	s.add(Item{Kind: ItemTable, Slide: slide, TableIndex: index, Table: table})
}

// Note feeds one speaker-notes line.
func (s *Segmenter) Note(slide int, line string) {
	s.add(Item{Kind: ItemNote, Slide: slide, Note: line})
}

// Segments returns the segments opened so far.
func (s *Segmenter) Segments() []Segment {
	return s.segments
}

// Orphans returns the number of units dropped before the first marker.
func (s *Segmenter) Orphans() int {
	return s.orphans
}

func (s *Segmenter) open(slide int, name string) {
	s.segments = append(s.segments, Segment{Name: name, Slide: slide})
	s.state = stateInside
}

func (s *Segmenter) add(item Item) {
	if s.state == stateOutside {
		s.orphans++
		return
	}
	cur := &s.segments[len(s.segments)-1]
	cur.Items = append(cur.Items, item)
}

// SegmentDeck walks deck in reading order and returns its segments. Markers
// decide section boundaries per slide: the title placeholder and then the
// other text shapes are read first, so every table and notes line of a slide
// belongs to the last section opened on it.
func SegmentDeck(deck *models.Deck, marker string) *Segmenter {
	s := NewSegmenter(marker)
	if deck == nil {
		return s
	}

	for _, slide := range deck.Slides {
		for _, shape := range slide.Shapes {
			if shape.Title {
				s.Text(slide.Index, shape.Text)
			}
		}
		for _, shape := range slide.Shapes {
			if !shape.Title && shape.Kind == models.ShapeText {
				s.Text(slide.Index, shape.Text)
			}
		}
		tableIdx := 0
		for _, shape := range slide.Shapes {
			if shape.Kind == models.ShapeTable && shape.Table != nil {
				tableIdx++
				s.Table(slide.Index, tableIdx, shape.Table)
			}
		}
		for _, line := range slide.Notes {
			if strings.TrimSpace(line) != "" {
				s.Note(slide.Index, line)
			}
		}
	}

	return s
}
