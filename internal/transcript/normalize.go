// Package transcript turns raw transcript files into normalized statements
// with stable paragraph identifiers.
//
// File readers (TXT/Markdown, ODT, HTML) only extract raw text blocks. The
// normalizer in this file converts those blocks into statement records:
//
//   - Blocks starting with a `Speaker: ...` label begin a new statement.
//   - Unlabeled blocks continue the previous statement.
//   - Unlabeled blocks before the first statement are transcription-tool
//     headers and are discarded.
//   - `key = value` blocks are metadata and are extracted wherever they
//     appear.
package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Common Markdown prefixes (block quotes, bullets, numbered lists) are
// tolerated before the required `Label: ...` pattern.
var labelRe = regexp.MustCompile(`^(?:>\s*)*(?:[-+*]\s+|\d+[.)]\s+)?([^:\n]{1,80}):\s*(\S.*)$`)

// Metadata markers may be formatted like normal statements in Markdown.
var metaRe = regexp.MustCompile(`(?i)^(?:>\s*)*(?:[-+*]\s+|\d+[.)]\s+)?([A-Za-z][A-Za-z0-9_\-]{0,63})\s*=\s*(.*)$`)

// ContinuationRule controls how unlabeled blocks are handled.
type ContinuationRule int

const (
	// ContinuationAppend joins unlabeled blocks to the previous statement
	// with a paragraph break. This is the default.
	ContinuationAppend ContinuationRule = iota
	// ContinuationStrict treats an unlabeled non-metadata block before the
	// first statement as a structural error instead of discarding it.
	ContinuationStrict
)

// Options configure normalization.
type Options struct {
	Continuations ContinuationRule
}

// Normalize converts an ordered sequence of raw text blocks into statements
// and the extracted transcript metadata.
//
// Paragraph ids ("p0001", "p0002", ...) are assigned after metadata removal
// and stay stable across runs as long as statement count and order do not
// change. The function is pure: it only constructs its return values.
func Normalize(blocks []string, opts Options) ([]model.Statement, model.Metadata, error) {
	metadata := make(model.Metadata)

	type record struct {
		speaker string
		text    string
	}
	var records []record

	for _, block := range blocks {
		cleaned := strings.Join(strings.Fields(block), " ")
		if cleaned == "" {
			continue
		}

		if m := metaRe.FindStringSubmatch(cleaned); m != nil {
			key := strings.ToLower(strings.TrimSpace(m[1]))
			// Repeated keys overwrite, last wins.
			metadata[key] = strings.TrimSpace(m[2])
			continue
		}

		if m := labelRe.FindStringSubmatch(cleaned); m != nil {
			records = append(records, record{
				speaker: strings.TrimSpace(m[1]),
				text:    strings.TrimSpace(m[2]),
			})
			continue
		}

		if len(records) == 0 {
			if opts.Continuations == ContinuationStrict {
				return nil, nil, errs.Structural("continuation block before any statement: %q", excerpt(cleaned))
			}
			// Transcription tool header, ignore.
			continue
		}

		prev := &records[len(records)-1]
		prev.text = prev.text + "\n\n" + cleaned
	}

	interviewers := interviewerLabels(metadata)

	statements := make([]model.Statement, 0, len(records))
	for i, rec := range records {
		role := model.RoleParticipant
		if _, ok := interviewers[strings.ToLower(rec.speaker)]; ok {
			role = model.RoleInterviewer
		}
		statements = append(statements, model.Statement{
			ID:      fmt.Sprintf("p%04d", i+1),
			Speaker: rec.speaker,
			Text:    rec.text,
			Role:    role,
		})
	}

	return statements, metadata, nil
}

// interviewerLabels returns the lowercased interviewer labels declared in
// the metadata. The value may list several labels separated by commas.
func interviewerLabels(metadata model.Metadata) map[string]struct{} {
	labels := make(map[string]struct{})
	for _, part := range strings.Split(metadata.Interviewer(), ",") {
		label := strings.TrimSpace(part)
		label = strings.TrimRight(label, " :\t-")
		if label != "" {
			labels[strings.ToLower(label)] = struct{}{}
		}
	}
	return labels
}

func excerpt(text string) string {
	if len(text) > 80 {
		return text[:77] + "..."
	}
	return text
}
