package annotate

import (
	"encoding/json"
	"fmt"

	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Wire types for the two response shapes. Fields the model omits decode to
// their zero values; content validation against the codebook is the
// reconciler's job, only the envelope is checked here.

type wireAssignment struct {
	Topic           string `json:"topic"`
	Orientation     string `json:"orientation"`
	Role            string `json:"role"`
	SecondaryReason string `json:"secondary_reason"`
	Rationale       string `json:"rationale"`
	Evidence        string `json:"evidence"`
}

type wireStatement struct {
	ID          string           `json:"id"`
	Assignments []wireAssignment `json:"assignments"`
}

type segmentResponse struct {
	Statements []wireStatement `json:"statements"`
}

type wireMatch struct {
	StatementID     string `json:"statement_id"`
	Orientation     string `json:"orientation"`
	Role            string `json:"role"`
	SecondaryReason string `json:"secondary_reason"`
	Rationale       string `json:"rationale"`
	Evidence        string `json:"evidence"`
}

type topicResponse struct {
	Matches []wireMatch `json:"matches"`
}

// decodeSegmentResponse parses the full-codebook response shape.
func decodeSegmentResponse(content []byte) ([]model.Proposal, error) {
	var resp segmentResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Statements == nil {
		return nil, fmt.Errorf("response missing 'statements' list")
	}

	var proposals []model.Proposal
	for _, s := range resp.Statements {
		if s.ID == "" {
			continue
		}
		for _, a := range s.Assignments {
			proposals = append(proposals, model.Proposal{
				StatementID:     s.ID,
				Topic:           a.Topic,
				Orientation:     a.Orientation,
				Evidence:        a.Evidence,
				Rationale:       a.Rationale,
				Role:            model.ProposalRole(a.Role),
				SecondaryReason: a.SecondaryReason,
			})
		}
	}
	return proposals, nil
}

// decodeTopicResponse parses the per-topic response shape. The topic name
// comes from the request, not the response, so the model cannot smuggle in
// another topic.
func decodeTopicResponse(content []byte, topicName string) ([]model.Proposal, error) {
	var resp topicResponse
	if err := json.Unmarshal(content, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Matches == nil {
		return nil, fmt.Errorf("response missing 'matches' list")
	}

	var proposals []model.Proposal
	for _, m := range resp.Matches {
		if m.StatementID == "" {
			continue
		}
		proposals = append(proposals, model.Proposal{
			StatementID:     m.StatementID,
			Topic:           topicName,
			Orientation:     m.Orientation,
			Evidence:        m.Evidence,
			Rationale:       m.Rationale,
			Role:            model.ProposalRole(m.Role),
			SecondaryReason: m.SecondaryReason,
		})
	}
	return proposals, nil
}
