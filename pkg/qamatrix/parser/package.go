// Package parser reads compliance-matrix slides out of PresentationML (.pptx) packages.
package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// maxPartSize caps the decompressed size of a single package part.
const maxPartSize = 64 << 20

// Relationship types resolved by the reader.
const (
	relOfficeDocument = "/officeDocument"
	relSlide          = "/slide"
	relNotesSlide     = "/notesSlide"
	relTheme          = "/theme"
)

// opcPackage is an opened OPC zip package indexed by part name.
type opcPackage struct {
	files map[string]*zip.File
}

type relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

func openPackage(data []byte) (*opcPackage, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	p := &opcPackage{files: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		p.files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return p, nil
}

func (p *opcPackage) has(name string) bool {
	_, ok := p.files[name]
	return ok
}

// read returns the content of a part. Missing parts wrap fs.ErrNotExist.
func (p *opcPackage) read(name string) ([]byte, error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, fs.ErrNotExist)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("part %s exceeds %d bytes", name, maxPartSize)
	}
	return data, nil
}

// relationships returns the relationships of a part, or nil when it has none.
func (p *opcPackage) relationships(partName string) ([]relationship, error) {
	relsName := relsPath(partName)
	if !p.has(relsName) {
		return nil, nil
	}
	data, err := p.read(relsName)
	if err != nil {
		return nil, err
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", relsName, err)
	}
	for i := range rels {
		if !rels[i].External {
			rels[i].Target = resolveRelativePath(rels[i].Target, path.Dir(partName))
		}
	}
	return rels, nil
}

// relsPath maps "ppt/slides/slide1.xml" to "ppt/slides/_rels/slide1.xml.rels".
func relsPath(partName string) string {
	dir, file := path.Split(partName)
	return dir + "_rels/" + file + ".rels"
}

func parseRelationships(data []byte) ([]relationship, error) {
	var result []relationship
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
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var rel relationship
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				rel.ID = attr.Value
			case "Type":
				rel.Type = attr.Value
			case "Target":
				rel.Target = attr.Value
			case "TargetMode":
				rel.External = strings.EqualFold(attr.Value, "External")
			}
		}
		result = append(result, rel)
	}

	return result, nil
}

// findRelationship returns the first relationship whose type ends with suffix.
func findRelationship(rels []relationship, suffix string) (relationship, bool) {
	for _, rel := range rels {
		if strings.HasSuffix(rel.Type, suffix) {
			return rel, true
		}
	}
	return relationship{}, false
}

// resolveRelativePath resolves a relationship target against the directory of its source part.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(baseDir, target), "/")
}
