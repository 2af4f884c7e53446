// Package annotate calls the external model endpoint that proposes topic
// and orientation codings for transcript segments.
//
// The package owns transport concerns only: request batching per strategy,
// rate limiting, timeouts, and decoding the wire format into raw proposals.
// Whether a proposal is acceptable is decided later by the reconciler.
package annotate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// StatementPayload is one statement as sent to the model. Reference-only
// statements are included as context with Target=false.
type StatementPayload struct {
	ID     string `yaml:"id" json:"id"`
	Target bool   `yaml:"target" json:"target"`
	Text   string `yaml:"text" json:"text"`
}

// Request describes one segment-level unit of annotation work. Requests are
// independent of each other and safe to dispatch concurrently.
type Request struct {
	SegmentID  string
	Codebook   model.Codebook
	Policy     model.RunPolicy
	Statements []StatementPayload
}

// Annotator produces raw proposals for one segment.
type Annotator interface {
	Annotate(ctx context.Context, req Request) ([]model.Proposal, error)
}

// Config holds the connection settings for the OpenAI-compatible endpoint.
type Config struct {
	APIKey            string
	BaseURL           string // Optional, for compatible endpoints
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns conservative client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           2 * time.Minute,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// ConfigFromEnv reads the endpoint settings from the environment:
// LLM_OPENAI_API_KEY, LLM_OPENAI_MODEL and optionally LLM_OPENAI_BASE_URL.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("LLM_OPENAI_API_KEY")
	cfg.Model = os.Getenv("LLM_OPENAI_MODEL")
	cfg.BaseURL = os.Getenv("LLM_OPENAI_BASE_URL")
	if cfg.APIKey == "" {
		return cfg, errs.Config("missing required environment variable LLM_OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		return cfg, errs.Config("missing required environment variable LLM_OPENAI_MODEL")
	}
	return cfg, nil
}

// Client is the OpenAI-backed Annotator.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient creates an annotation client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errs.Config("annotation: API key is required")
	}
	if cfg.Model == "" {
		return nil, errs.Config("annotation: model name is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultConfig().RequestsPerSecond
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultConfig().Burst
	}

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// Annotate requests proposals for one segment, batching calls according to
// the run strategy. All failures are annotation errors: the caller leaves
// the segment stale and retries it on the next run.
func (c *Client) Annotate(ctx context.Context, req Request) ([]model.Proposal, error) {
	switch req.Policy.Strategy {
	case model.StrategyTopic:
		return c.annotatePerTopic(ctx, req)
	default:
		return c.annotateSegment(ctx, req)
	}
}

// annotateSegment sends one call covering the full codebook.
func (c *Client) annotateSegment(ctx context.Context, req Request) ([]model.Proposal, error) {
	payload := segmentPayload(req)

	content, err := c.complete(ctx, systemPrompt(req.Policy), payload)
	if err != nil {
		return nil, errs.Annotation("segment "+req.SegmentID, err)
	}

	proposals, err := decodeSegmentResponse(content)
	if err != nil {
		return nil, errs.Annotation("segment "+req.SegmentID, err)
	}
	return proposals, nil
}

// annotatePerTopic sends one call per codebook topic and merges the results.
// A failure of any call fails the whole segment: partial proposals must
// never look like a completed annotation.
func (c *Client) annotatePerTopic(ctx context.Context, req Request) ([]model.Proposal, error) {
	var proposals []model.Proposal
	for _, topic := range req.Codebook.Topics {
		payload := topicPayload(req, topic)

		content, err := c.complete(ctx, systemPrompt(req.Policy), payload)
		if err != nil {
			return nil, errs.Annotation(fmt.Sprintf("segment %s topic %q", req.SegmentID, topic.Name), err)
		}

		topicProposals, err := decodeTopicResponse(content, topic.Name)
		if err != nil {
			return nil, errs.Annotation(fmt.Sprintf("segment %s topic %q", req.SegmentID, topic.Name), err)
		}
		proposals = append(proposals, topicProposals...)
	}
	return proposals, nil
}

// complete runs one rate-limited chat completion. The user payload is
// YAML-serialized for readability; the response is forced to JSON.
func (c *Client) complete(ctx context.Context, system string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	user, err := yaml.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: string(user)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := []byte(resp.Choices[0].Message.Content)
	if !json.Valid(content) {
		return nil, fmt.Errorf("model returned invalid JSON")
	}
	return content, nil
}
