package transcript

import (
	"path/filepath"
	"strings"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Reader extracts raw text blocks from one transcript file format.
// Implementations only perform raw text extraction; statement detection and
// metadata handling happen in Normalize.
type Reader interface {
	// CanRead reports whether this reader supports the given file.
	CanRead(path string) bool

	// ReadBlocks returns the raw text blocks of the transcript, in order.
	ReadBlocks(path string) ([]string, error)
}

// Readers returns the default reader set, in precedence order.
func Readers() []Reader {
	return []Reader{
		&ODTReader{},
		&HTMLReader{},
		&TextReader{},
	}
}

// Read parses a transcript file with the first reader that supports it and
// normalizes the result.
func Read(path string, opts Options) (*model.Transcript, error) {
	var blocks []string
	found := false
	for _, r := range Readers() {
		if !r.CanRead(path) {
			continue
		}
		var err error
		blocks, err = r.ReadBlocks(path)
		if err != nil {
			return nil, errs.Structural("read transcript %s: %v", path, err)
		}
		found = true
		break
	}
	if !found {
		return nil, errs.Config("unsupported transcript format: %s", path)
	}

	statements, metadata, err := Normalize(blocks, opts)
	if err != nil {
		return nil, errs.Structural("normalize transcript %s: %v", path, err)
	}
	if len(statements) == 0 {
		return nil, errs.Structural("transcript %s contains no speaker statements", path)
	}

	return &model.Transcript{
		ID:         DocumentID(path),
		SourcePath: path,
		Statements: statements,
		Metadata:   metadata,
	}, nil
}

func hasExt(path string, exts ...string) bool {
	got := strings.ToLower(filepath.Ext(path))
	for _, ext := range exts {
		if got == ext {
			return true
		}
	}
	return false
}
