// Package segment windows normalized statements into overlapping segments
// for annotation.
//
// The overlap exists to give the model local context. Overlap statements are
// flagged reference-only: they appear in the annotation payload but belong
// to the previous segment, so their assignments are never produced twice.
package segment

import (
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Split windows statements into overlapping segments.
//
// Windows advance by segmentParagraphs-overlapParagraphs statements. The
// first segment has no overlap; every later segment repeats exactly
// overlapParagraphs statements from its predecessor as reference-only
// context. A trailing window that would own no new statements is not
// emitted. Output is fully determined by the inputs.
func Split(transcriptID string, statements []model.Statement, segmentParagraphs, overlapParagraphs int) ([]model.Segment, error) {
	if segmentParagraphs <= 0 {
		return nil, errs.Config("segmentation: segment_paragraphs must be positive, got %d", segmentParagraphs)
	}
	if overlapParagraphs <= 0 {
		return nil, errs.Config("segmentation: overlap_paragraphs must be positive, got %d", overlapParagraphs)
	}
	if overlapParagraphs >= segmentParagraphs {
		return nil, errs.Config("segmentation: overlap_paragraphs (%d) must be smaller than segment_paragraphs (%d)",
			overlapParagraphs, segmentParagraphs)
	}

	total := len(statements)
	if total == 0 {
		return nil, nil
	}

	step := segmentParagraphs - overlapParagraphs
	var segments []model.Segment

	for start := 0; ; start += step {
		if start > 0 && start+overlapParagraphs >= total {
			// The remaining statements are all owned by the previous
			// segment already.
			break
		}

		end := start + segmentParagraphs
		if end > total {
			end = total
		}

		refs := make([]model.StatementRef, 0, end-start)
		for idx := start; idx < end; idx++ {
			refs = append(refs, model.StatementRef{
				ID:        statements[idx].ID,
				Reference: start > 0 && idx < start+overlapParagraphs,
			})
		}

		segments = append(segments, model.Segment{
			TranscriptID: transcriptID,
			Index:        len(segments) + 1,
			Statements:   refs,
		})

		if end == total {
			break
		}
	}

	return segments, nil
}
