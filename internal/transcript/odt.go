package transcript

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ODTReader reads OpenDocument text files. Every `text:p` paragraph in
// content.xml becomes one raw block.
type ODTReader struct{}

// CanRead reports whether the file is an ODT document.
func (r *ODTReader) CanRead(path string) bool {
	return hasExt(path, ".odt")
}

// ReadBlocks extracts the paragraph texts from content.xml.
func (r *ODTReader) ReadBlocks(path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open odt archive: %w", err)
	}
	defer archive.Close()

	var content io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "content.xml" {
			content, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("open content.xml: %w", err)
			}
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("no content.xml in %s", path)
	}
	defer content.Close()

	return parseODTContent(content)
}

// parseODTContent walks the XML token stream and collects the text of each
// paragraph element. Tabs and line breaks inside a paragraph become spaces,
// `text:s` runs expand to spaces.
func parseODTContent(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var blocks []string
	var current strings.Builder
	depth := 0 // nesting depth inside text:p

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse content.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
			case "tab", "line-break":
				if depth > 0 {
					current.WriteByte(' ')
				}
			case "s":
				if depth > 0 {
					count := 1
					for _, attr := range t.Attr {
						if attr.Name.Local == "c" {
							fmt.Sscanf(attr.Value, "%d", &count)
						}
					}
					current.WriteString(strings.Repeat(" ", count))
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				depth--
				if depth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						blocks = append(blocks, text)
					}
					current.Reset()
				}
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		}
	}

	return blocks, nil
}
