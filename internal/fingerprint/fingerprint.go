// Package fingerprint computes the content hashes that gate incremental
// re-annotation.
//
// All hashes are SHA-256 over canonical byte serializations, so two runs on
// identical input always produce identical fingerprints and any source edit
// changes them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Record is the persisted fingerprint state of one transcript. It decides
// which segments must be resubmitted to annotation on the next run.
type Record struct {
	TranscriptHash string         `yaml:"transcript_hash" json:"transcript_hash"`
	CodebookHash   string         `yaml:"codebook_hash" json:"codebook_hash"`
	SegmentHashes  map[int]string `yaml:"segment_hashes" json:"segment_hashes"`
}

const sep = "\x1e" // record separator, cannot appear in normalized text

// TranscriptHash hashes the normalized statement sequence (ids and text).
// Any change to text, order, or count changes the hash.
func TranscriptHash(statements []model.Statement) string {
	h := sha256.New()
	for _, s := range statements {
		h.Write([]byte(s.ID))
		h.Write([]byte(sep))
		h.Write([]byte(s.Text))
		h.Write([]byte(sep))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CodebookHash hashes the full codebook definition: topic names and
// descriptions, orientation lists with order and descriptions, and the
// multiplicity flags. Any semantic edit to the codebook changes the hash.
func CodebookHash(cb model.Codebook) string {
	canonical, err := json.Marshal(cb)
	if err != nil {
		// Codebook marshals to plain structs; this cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// SegmentHash hashes a segment's owned statements together with the codebook
// hash in effect, so both a text edit and a codebook edit invalidate the
// segment.
func SegmentHash(seg model.Segment, textByID map[string]string, codebookHash string) string {
	h := sha256.New()
	h.Write([]byte(codebookHash))
	h.Write([]byte(sep))
	for _, id := range seg.OwnedIDs() {
		h.Write([]byte(id))
		h.Write([]byte(sep))
		h.Write([]byte(textByID[id]))
		h.Write([]byte(sep))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Compute builds the full fingerprint record for one transcript.
func Compute(t *model.Transcript, segments []model.Segment, cb model.Codebook) Record {
	textByID := make(map[string]string, len(t.Statements))
	for _, s := range t.Statements {
		textByID[s.ID] = s.Text
	}

	cbHash := CodebookHash(cb)
	segHashes := make(map[int]string, len(segments))
	for _, seg := range segments {
		segHashes[seg.Index] = SegmentHash(seg, textByID, cbHash)
	}

	return Record{
		TranscriptHash: TranscriptHash(t.Statements),
		CodebookHash:   cbHash,
		SegmentHashes:  segHashes,
	}
}

// Plan returns the segment indexes that must be resubmitted to annotation,
// sorted ascending.
//
// A segment is resubmitted iff its stored hash differs from the fresh one or
// no stored result exists. A codebook-hash mismatch invalidates every
// segment unconditionally, because topic and orientation semantics changed.
// The decision is a pure function of the two records and is independent of
// how annotation calls are dispatched.
func Plan(stored *Record, fresh Record) []int {
	indexes := make([]int, 0, len(fresh.SegmentHashes))

	invalidateAll := stored == nil || stored.CodebookHash != fresh.CodebookHash
	for idx, hash := range fresh.SegmentHashes {
		if invalidateAll || stored.SegmentHashes[idx] != hash {
			indexes = append(indexes, idx)
		}
	}

	sort.Ints(indexes)
	return indexes
}
