package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const (
	ABSENT          = "-"
	TAG_ALTERNATIVE = "|"
)

type Condition interface {
	Check(conf *transition.ParseConfiguration) bool
}

// TagCondition matches the tags around the stack top and buffer front. An
// empty field matches anything, ABSENT requires the position to be empty
// and "A|B" matches either tag.
type TagCondition struct {
	Stack0  string `yaml:"stack0"`
	Stack1  string `yaml:"stack1"`
	Buffer0 string `yaml:"buffer0"`
	Buffer1 string `yaml:"buffer1"`
}

func (c TagCondition) Check(conf *transition.ParseConfiguration) bool {
	return matchTag(c.Stack0, conf.StackAt(0)) &&
		matchTag(c.Stack1, conf.StackAt(1)) &&
		matchTag(c.Buffer0, conf.BufferAt(0)) &&
		matchTag(c.Buffer1, conf.BufferAt(1))
}

func matchTag(pattern string, token *nlp.Token) bool {
	switch pattern {
	case "":
		return true
	case ABSENT:
		return token == nil
	}
	if token == nil {
		return false
	}
	for _, alternative := range strings.Split(pattern, TAG_ALTERNATIVE) {
		if alternative == token.Tag {
			return true
		}
	}
	return false
}

// Rule forces (positive) or forbids (negative) a transition when its
// condition holds.
type Rule struct {
	Name       string
	Transition transition.Transition
	Negative   bool
	Condition  Condition
}

func (r *Rule) String() string {
	polarity := "+"
	if r.Negative {
		polarity = "!"
	}
	return fmt.Sprintf("%s%s:%s", polarity, r.Name, r.Transition.Code())
}

type RuleSet struct {
	Rules []*Rule
}

// Positive returns the first positive rule whose condition holds, or nil.
func (s *RuleSet) Positive(conf *transition.ParseConfiguration) *Rule {
	if s == nil {
		return nil
	}
	for _, rule := range s.Rules {
		if !rule.Negative && rule.Condition.Check(conf) {
			return rule
		}
	}
	return nil
}

// Negative drops the candidates forbidden by a matching negative rule. If
// every candidate would be dropped the candidates are returned unchanged.
func (s *RuleSet) Negative(conf *transition.ParseConfiguration, candidates []transition.Transition) []transition.Transition {
	if s == nil || len(candidates) == 0 {
		return candidates
	}
	forbidden := make(map[string]bool)
	for _, rule := range s.Rules {
		if rule.Negative && rule.Condition.Check(conf) {
			forbidden[rule.Transition.Code()] = true
		}
	}
	if len(forbidden) == 0 {
		return candidates
	}
	retval := make([]transition.Transition, 0, len(candidates))
	for _, candidate := range candidates {
		if !forbidden[candidate.Code()] {
			retval = append(retval, candidate)
		}
	}
	if len(retval) == 0 {
		return candidates
	}
	return retval
}

func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rules)
}

type yamlRule struct {
	Name       string       `yaml:"name"`
	Transition string       `yaml:"transition"`
	Negative   bool         `yaml:"negative"`
	Condition  TagCondition `yaml:"condition"`
}

// LoadRules reads a YAML list of rules; transitions are resolved against
// system.
func LoadRules(reader io.Reader, system transition.TransitionSystem) (*RuleSet, error) {
	var entries []yamlRule
	if err := yaml.NewDecoder(reader).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}
	set := &RuleSet{Rules: make([]*Rule, 0, len(entries))}
	for i, entry := range entries {
		t, err := system.TransitionByCode(entry.Transition)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, entry.Name, err)
		}
		name := entry.Name
		if name == "" {
			name = fmt.Sprintf("rule%d", i)
		}
		set.Rules = append(set.Rules, &Rule{
			Name:       name,
			Transition: t,
			Negative:   entry.Negative,
			Condition:  entry.Condition,
		})
	}
	return set, nil
}

func LoadRulesFile(fileName string, system transition.TransitionSystem) (*RuleSet, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadRules(file, system)
}
