package transcript

import (
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HTMLReader reads HTML transcript exports as produced by transcription
// tools. Block-level elements become raw blocks; scripts and styles are
// skipped.
type HTMLReader struct{}

// CanRead reports whether the file is an HTML document.
func (r *HTMLReader) CanRead(path string) bool {
	return hasExt(path, ".html", ".htm")
}

// ReadBlocks parses the document and returns one block per paragraph-like
// element.
func (r *HTMLReader) ReadBlocks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var blocks []string
	var current strings.Builder

	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			blocks = append(blocks, text)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "blockquote":
				flush()
			case "br":
				current.WriteByte(' ')
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if current.Len() > 0 {
					current.WriteByte(' ')
				}
				current.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "blockquote":
				flush()
			}
		}
	}

	walk(doc)
	flush()

	return blocks, nil
}
