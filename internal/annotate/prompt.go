package annotate

import (
	"strings"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// systemPrompt builds the shared system prompt. The model is instructed to
// code, not interpret: assignments require verbatim textual evidence.
func systemPrompt(policy model.RunPolicy) string {
	parts := []string{
		"You are assisting with a qualitative content coding task.",
		"Do not interpret or infer.",
		"Only assign if there is explicit textual evidence.",
		"Always quote the exact evidence text from the statement.",
		"Respond with valid JSON matching the requested output format.",
	}
	if policy.AllowSecondary {
		parts = append(parts,
			"Mark the one central topic of a statement with role 'primary'.",
			"Additional topics get role 'secondary' and always require a short secondary_reason.")
	}
	return strings.Join(parts, " ")
}

// segmentPayload is the user payload for the full-codebook strategy.
func segmentPayload(req Request) map[string]any {
	return map[string]any{
		"segment_id": req.SegmentID,
		"task": "For each statement where target=true, assign zero or more topics from the codebook. " +
			"If the topic defines orientations, choose exactly one allowed orientation; the list is " +
			"ordered from highest to lowest rank, so pick the highest-ranked match when unsure. " +
			"If the topic has no orientations, omit the orientation. " +
			"Use topic and orientation descriptions (if present) as selection hints, but do not infer " +
			"beyond the statement text. Always provide an evidence quote that appears verbatim in the statement.",
		"codebook":      req.Codebook,
		"statements":    req.Statements,
		"output_format": segmentOutputFormat,
	}
}

// topicPayload is the user payload for the one-call-per-topic strategy.
func topicPayload(req Request, topic model.Topic) map[string]any {
	return map[string]any{
		"segment_id": req.SegmentID,
		"task": "For each statement where target=true, decide whether it explicitly addresses the given topic. " +
			"If yes and an orientations list is provided, select exactly one orientation from the allowed " +
			"list; it is ordered from highest to lowest rank, so pick the highest-ranked match when unsure. " +
			"Use the topic description and orientation descriptions (if provided) as selection hints, but do " +
			"not infer beyond the statement text. Always provide an evidence quote that appears verbatim in " +
			"the statement.",
		"topic":         topic,
		"statements":    req.Statements,
		"output_format": topicOutputFormat,
	}
}

var segmentOutputFormat = map[string]any{
	"statements": []map[string]any{{
		"id": "<statement id>",
		"assignments": []map[string]any{{
			"topic":            "<topic name from the codebook>",
			"orientation":      "<one allowed orientation, omit if the topic has none>",
			"role":             "<primary or secondary>",
			"secondary_reason": "<required when role is secondary>",
			"rationale":        "<optional one-sentence reasoning>",
			"evidence":         "<exact quote from the statement>",
		}},
	}},
}

var topicOutputFormat = map[string]any{
	"matches": []map[string]any{{
		"statement_id":     "<statement id>",
		"orientation":      "<one allowed orientation, omit if the topic has none>",
		"role":             "<primary or secondary>",
		"secondary_reason": "<required when role is secondary>",
		"rationale":        "<optional one-sentence reasoning>",
		"evidence":         "<exact quote from the statement>",
	}},
}
