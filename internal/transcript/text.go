package transcript

import (
	"bufio"
	"os"
	"strings"
)

// TextReader reads plain-text and Markdown transcripts. Blocks are separated
// by at least one blank line.
type TextReader struct{}

// CanRead reports whether the file looks like a text transcript.
func (r *TextReader) CanRead(path string) bool {
	return hasExt(path, ".txt", ".md", ".markdown")
}

// ReadBlocks splits the file into blank-line separated blocks.
func (r *TextReader) ReadBlocks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var blocks []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return blocks, nil
}
