package qamatrix

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/richardlehane/mscfb"
)

// Format is a presentation container format.
type Format int

const (
	// FormatUnknown is anything that is not a presentation.
	FormatUnknown Format = iota
	// FormatPPTX is an Office Open XML presentation.
	FormatPPTX
	// FormatPPT is a legacy binary presentation.
	FormatPPT
)

func (f Format) String() string {
	switch f {
	case FormatPPTX:
		return "pptx"
	case FormatPPT:
		return "ppt"
	default:
		return "unknown"
	}
}

const (
	mimeZip        = "application/zip"
	mimeOLEStorage = "application/x-ole-storage"
)

// powerPointStream is the stream every legacy presentation file carries.
const powerPointStream = "PowerPoint Document"

// IsLegacyName reports whether filename has the legacy .ppt extension.
func IsLegacyName(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".ppt")
}

// DetectFormat classifies data. A .ppt filename selects the legacy format when
// the content is a compound file with a PowerPoint stream; any other name
// needs a zip container.
func DetectFormat(data []byte, filename string) Format {
	mime := mimetype.Detect(data)
	if IsLegacyName(filename) {
		if hasAncestor(mime, mimeOLEStorage) && hasPowerPointStream(data) {
			return FormatPPT
		}
		return FormatUnknown
	}
	if hasAncestor(mime, mimeZip) {
		return FormatPPTX
	}
	return FormatUnknown
}

func hasAncestor(m *mimetype.MIME, expected string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(expected) {
			return true
		}
	}
	return false
}

func hasPowerPointStream(data []byte) bool {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return false
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name == powerPointStream {
			return true
		}
	}
	return false
}
