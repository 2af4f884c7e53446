// Package config loads and validates the interviews.yaml run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// Segmentation holds the windowing parameters.
type Segmentation struct {
	SegmentParagraphs int `yaml:"segment_paragraphs"`
	OverlapParagraphs int `yaml:"overlap_paragraphs"`
}

// Config is the validated configuration of one analysis run. Relative paths
// and glob patterns resolve against the directory containing the YAML file.
type Config struct {
	Path    string // Config file location
	BaseDir string // Directory the file lives in

	Include  string
	Exclude  string
	Workdir  string // Absolute
	Outfile  string // Absolute
	Codebook model.Codebook

	Segmentation Segmentation
	Analysis     model.RunPolicy
}

// DefaultSegmentation returns the documented windowing defaults.
func DefaultSegmentation() Segmentation {
	return Segmentation{SegmentParagraphs: 12, OverlapParagraphs: 3}
}

// DefaultAnalysis returns the default coding policy.
func DefaultAnalysis() model.RunPolicy {
	return model.RunPolicy{Strategy: model.StrategySegment}
}

type rawConfig struct {
	Include      string       `yaml:"include"`
	Exclude      string       `yaml:"exclude"`
	Workdir      string       `yaml:"workdir"`
	Outfile      string       `yaml:"outfile"`
	Topics       []yaml.Node  `yaml:"topics"`
	Segmentation yaml.Node    `yaml:"segmentation"`
	Analysis     *rawAnalysis `yaml:"analysis"`
}

type rawAnalysis struct {
	Strategy             *string `yaml:"strategy"`
	ExcludeInterviewer   *bool   `yaml:"exclude_interviewer"`
	AllowSecondary       *bool   `yaml:"allow_secondary_assignments"`
	AllowMultiplePrimary *bool   `yaml:"allow_multiple_primary_assignments"`
}

// Load reads and validates an interviews.yaml file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Config(
				"no config found at %s; use the 'template' command to create one or pass --config PATH", path)
		}
		return nil, errs.Config("read config %s: %v", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errs.Config("parse config %s: %v", path, err)
	}

	if raw.Include == "" {
		return nil, errs.Config("%s: 'include' must be a non-empty string", path)
	}
	if raw.Workdir == "" {
		return nil, errs.Config("%s: 'workdir' must be a non-empty string", path)
	}
	if raw.Outfile == "" {
		return nil, errs.Config("%s: 'outfile' must be a non-empty string", path)
	}

	codebook, err := parseTopics(raw.Topics)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := codebook.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	seg, err := parseSegmentation(&raw.Segmentation)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	analysis, err := parseAnalysis(raw.Analysis)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Config("resolve config path %s: %v", path, err)
	}
	baseDir := filepath.Dir(abs)

	return &Config{
		Path:         abs,
		BaseDir:      baseDir,
		Include:      raw.Include,
		Exclude:      raw.Exclude,
		Workdir:      resolveFrom(baseDir, raw.Workdir),
		Outfile:      resolveFrom(baseDir, raw.Outfile),
		Codebook:     codebook,
		Segmentation: seg,
		Analysis:     analysis,
	}, nil
}

func resolveFrom(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

func parseSegmentation(node *yaml.Node) (Segmentation, error) {
	seg := DefaultSegmentation()
	if node == nil || node.Kind == 0 {
		return seg, nil
	}
	if err := node.Decode(&seg); err != nil {
		return seg, errs.Config("'segmentation' section: %v", err)
	}
	if seg.SegmentParagraphs <= 0 {
		return seg, errs.Config("segmentation.segment_paragraphs must be > 0")
	}
	if seg.OverlapParagraphs <= 0 {
		return seg, errs.Config("segmentation.overlap_paragraphs must be > 0")
	}
	if seg.OverlapParagraphs >= seg.SegmentParagraphs {
		return seg, errs.Config("segmentation.overlap_paragraphs must be < segmentation.segment_paragraphs")
	}
	return seg, nil
}

func parseAnalysis(raw *rawAnalysis) (model.RunPolicy, error) {
	policy := DefaultAnalysis()
	if raw == nil {
		return policy, nil
	}
	if raw.Strategy != nil {
		switch model.Strategy(*raw.Strategy) {
		case model.StrategySegment, model.StrategyTopic:
			policy.Strategy = model.Strategy(*raw.Strategy)
		default:
			return policy, errs.Config("analysis.strategy must be 'segment' or 'topic', got %q", *raw.Strategy)
		}
	}
	if raw.ExcludeInterviewer != nil {
		policy.ExcludeInterviewer = *raw.ExcludeInterviewer
	}
	if raw.AllowSecondary != nil {
		policy.AllowSecondary = *raw.AllowSecondary
	}
	if raw.AllowMultiplePrimary != nil {
		policy.AllowMultiplePrimary = *raw.AllowMultiplePrimary
	}
	return policy, nil
}
