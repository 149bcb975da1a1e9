// Package rules reads named relative date descriptions from YAML or JSON.
package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	cerrors "cloudeng.io/errors"
	"github.com/tartampluch/go-reldate/internal/config"
	"github.com/tartampluch/go-reldate/internal/reldate"
	"gopkg.in/yaml.v3"
)

// Rule names one description. Description is filled in by Parse.
type Rule struct {
	Name   string `yaml:"name" json:"name"`
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	When   When   `yaml:"when" json:"when"`

	Description reldate.Description `yaml:"-" json:"-"`
}

// Birthday reports whether the rule is resolved against contact birthdays.
func (r Rule) Birthday() bool {
	return r.Anchor == config.AnchorBirthday
}

// Set is the content of a rule file.
type Set struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// HasBirthdayRules reports whether any rule needs contacts.
func (s Set) HasBirthdayRules() bool {
	for _, r := range s.Rules {
		if r.Birthday() {
			return true
		}
	}
	return false
}

// FormatFromPath returns the rule file format implied by the extension of path.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case config.ExtYAML, config.ExtYML:
		return config.FormatYAML, nil
	case config.ExtJSON:
		return config.FormatJSON, nil
	}
	return "", fmt.Errorf("%s: %q", config.ErrRuleFormat, path)
}

// FormatFromMediaType returns the format of a rule file served as
// mediaType. ok is false for media types that name neither format.
func FormatFromMediaType(mediaType string) (format string, ok bool) {
	mt := strings.ToLower(mediaType)
	switch {
	case mt == config.MediaTypeJSON, mt == config.MediaTypeTextJSON, strings.HasSuffix(mt, config.MediaSuffixJSON):
		return config.FormatJSON, true
	case mt == config.MediaTypeYAML, mt == config.MediaTypeXYAML, mt == config.MediaTypeTextYAML,
		strings.HasSuffix(mt, config.MediaSuffixYAML):
		return config.FormatYAML, true
	}
	return "", false
}

// Parse decodes a rule file and checks every rule. All problems are
// reported together, each prefixed with the rule's position and name.
func Parse(r io.Reader, format string) (Set, error) {
	var set Set
	switch format {
	case config.FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&set); err != nil && !errors.Is(err, io.EOF) {
			return Set{}, fmt.Errorf("%s: %w", config.ErrRuleDecode, err)
		}
	case config.FormatJSON:
		if err := json.NewDecoder(r).Decode(&set); err != nil && !errors.Is(err, io.EOF) {
			return Set{}, fmt.Errorf("%s: %w", config.ErrRuleDecode, err)
		}
	default:
		return Set{}, fmt.Errorf("%s: %q", config.ErrRuleFormat, format)
	}

	if len(set.Rules) == 0 {
		return Set{}, errors.New(config.ErrRulesEmpty)
	}

	errs := &cerrors.M{}
	seen := make(map[string]bool, len(set.Rules))
	for i := range set.Rules {
		rule := &set.Rules[i]
		ruleErr := func(err error) error {
			return fmt.Errorf("rule %d (%q): %w", i+1, rule.Name, err)
		}

		switch {
		case rule.Name == "":
			errs.Append(ruleErr(errors.New(config.ErrRuleName)))
		case seen[rule.Name]:
			errs.Append(ruleErr(errors.New(config.ErrRuleDuplicate)))
		}
		seen[rule.Name] = true

		if rule.Anchor != config.AnchorNone && rule.Anchor != config.AnchorBirthday {
			errs.Append(ruleErr(fmt.Errorf("%s: %q", config.ErrRuleAnchor, rule.Anchor)))
		}

		d, err := reldate.Parse(rule.When.Value)
		if err != nil {
			errs.Append(ruleErr(err))
			continue
		}
		rule.Description = d
	}
	if err := errs.Err(); err != nil {
		return Set{}, err
	}
	return set, nil
}

// When holds a description exactly as written in the rule file.
type When struct {
	Value any
}

// UnmarshalYAML keeps integer scalars as their source text; YAML reads
// "+1" as the integer 1 and the sign is what makes it an offset. Float
// scalars become numbers, so 1.0 is read like the JSON number 1.0.
func (w *When) UnmarshalYAML(node *yaml.Node) error {
	v, err := fromNode(node)
	if err != nil {
		return err
	}
	w.Value = v
	return nil
}

// MarshalYAML writes the description back in its decoded shape.
func (w When) MarshalYAML() (any, error) {
	return w.Value, nil
}

// UnmarshalJSON decodes numbers as json.Number.
func (w *When) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(&w.Value)
}

// MarshalJSON writes the description back in its decoded shape.
func (w When) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Value)
}

func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = v
		}
		return m, nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!float":
			return json.Number(node.Value), nil
		}
		return node.Value, nil
	}
	return nil, fmt.Errorf("line %d: unexpected YAML node", node.Line)
}
