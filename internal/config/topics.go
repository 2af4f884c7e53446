package config

import (
	"gopkg.in/yaml.v3"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
	"github.com/DennisSchulmeister/interview-analysis/internal/model"
)

// parseTopics accepts the three topic notations the YAML config supports:
//
//  1. Bare string: a topic without orientations.
//     - "Motivation"
//  2. Legacy single-pair mapping: topic name to orientation list.
//     - Motivation: [High, Low]
//  3. Expanded mapping with optional description and multiplicity flag.
//     - topic: Motivation
//     orientations: [...]
//     description: "..."
//     allow_multiple_orientations: true
func parseTopics(nodes []yaml.Node) (model.Codebook, error) {
	if len(nodes) == 0 {
		return model.Codebook{}, errs.Config("'topics' must be a non-empty list")
	}

	topics := make([]model.Topic, 0, len(nodes))
	for i := range nodes {
		topic, err := parseTopic(&nodes[i], i+1)
		if err != nil {
			return model.Codebook{}, err
		}
		topics = append(topics, topic)
	}
	return model.Codebook{Topics: topics}, nil
}

func parseTopic(node *yaml.Node, pos int) (model.Topic, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil || name == "" {
			return model.Topic{}, errs.Config("topics[%d]: topic must be a non-empty string", pos)
		}
		return model.Topic{Name: name}, nil

	case yaml.MappingNode:
		if hasKey(node, "topic") {
			return parseExpandedTopic(node, pos)
		}
		return parseLegacyTopic(node, pos)

	default:
		return model.Topic{}, errs.Config("topics[%d]: must be a string or mapping", pos)
	}
}

func parseExpandedTopic(node *yaml.Node, pos int) (model.Topic, error) {
	var raw struct {
		Topic                     string      `yaml:"topic"`
		Description               string      `yaml:"description"`
		Hint                      string      `yaml:"hint"`
		AllowMultipleOrientations bool        `yaml:"allow_multiple_orientations"`
		Orientations              []yaml.Node `yaml:"orientations"`
	}
	if err := node.Decode(&raw); err != nil {
		return model.Topic{}, errs.Config("topics[%d]: %v", pos, err)
	}
	if raw.Topic == "" {
		return model.Topic{}, errs.Config("topics[%d]: expanded entry needs a non-empty 'topic' field", pos)
	}

	description := raw.Description
	if description == "" {
		description = raw.Hint
	}

	orientations, err := parseOrientations(raw.Orientations, raw.Topic, pos)
	if err != nil {
		return model.Topic{}, err
	}

	return model.Topic{
		Name:                      raw.Topic,
		Description:               description,
		AllowMultipleOrientations: raw.AllowMultipleOrientations,
		Orientations:              orientations,
	}, nil
}

// parseLegacyTopic handles `Topic name: [Orientation, ...]`.
func parseLegacyTopic(node *yaml.Node, pos int) (model.Topic, error) {
	if len(node.Content) != 2 {
		return model.Topic{}, errs.Config("topics[%d]: legacy mapping must have exactly one topic key", pos)
	}
	keyNode, valNode := node.Content[0], node.Content[1]

	var name string
	if err := keyNode.Decode(&name); err != nil || name == "" {
		return model.Topic{}, errs.Config("topics[%d]: topic name must be a non-empty string", pos)
	}

	if valNode.Tag == "!!null" {
		return model.Topic{Name: name}, nil
	}

	var items []yaml.Node
	if err := valNode.Decode(&items); err != nil {
		return model.Topic{}, errs.Config("topics[%d]: orientations for %q must be a list", pos, name)
	}
	orientations, err := parseOrientations(items, name, pos)
	if err != nil {
		return model.Topic{}, err
	}
	return model.Topic{Name: name, Orientations: orientations}, nil
}

// parseOrientations accepts "Label", {label: ..., description: ...},
// {orientation: ...} as an alias, and the short form {"Label": "description"}.
func parseOrientations(nodes []yaml.Node, topicName string, pos int) ([]model.Orientation, error) {
	orientations := make([]model.Orientation, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		switch node.Kind {
		case yaml.ScalarNode:
			var label string
			if err := node.Decode(&label); err != nil || label == "" {
				return nil, errs.Config("topics[%d]: orientation %d of %q must be a non-empty string", pos, i+1, topicName)
			}
			orientations = append(orientations, model.Orientation{Label: label})

		case yaml.MappingNode:
			if hasKey(node, "label") || hasKey(node, "orientation") {
				var raw struct {
					Label       string `yaml:"label"`
					Orientation string `yaml:"orientation"`
					Description string `yaml:"description"`
					Hint        string `yaml:"hint"`
				}
				if err := node.Decode(&raw); err != nil {
					return nil, errs.Config("topics[%d]: orientation %d of %q: %v", pos, i+1, topicName, err)
				}
				label := raw.Label
				if label == "" {
					label = raw.Orientation
				}
				if label == "" {
					return nil, errs.Config("topics[%d]: orientation %d of %q needs a non-empty label", pos, i+1, topicName)
				}
				description := raw.Description
				if description == "" {
					description = raw.Hint
				}
				orientations = append(orientations, model.Orientation{Label: label, Description: description})
				continue
			}

			if len(node.Content) != 2 {
				return nil, errs.Config("topics[%d]: orientation %d of %q must define exactly one label", pos, i+1, topicName)
			}
			var label, description string
			if err := node.Content[0].Decode(&label); err != nil || label == "" {
				return nil, errs.Config("topics[%d]: orientation %d of %q needs a non-empty label", pos, i+1, topicName)
			}
			if err := node.Content[1].Decode(&description); err != nil {
				return nil, errs.Config("topics[%d]: orientation %d of %q: description must be a string", pos, i+1, topicName)
			}
			orientations = append(orientations, model.Orientation{Label: label, Description: description})

		default:
			return nil, errs.Config("topics[%d]: orientation %d of %q must be a string or mapping", pos, i+1, topicName)
		}
	}
	return orientations, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
