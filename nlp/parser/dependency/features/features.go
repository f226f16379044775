package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joliciel-informatique/talismane-sub002/alg/featurevector"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/util"
)

const (
	FEATURE_SEPARATOR = "+" // separates the atoms of a combined feature
	GENERIC_SEPARATOR = "|" // separates atom values in a combined result
	MAX_DISTANCE      = 5
)

// Feature is a named function of a configuration. A feature that does not
// apply to a configuration returns false.
type Feature interface {
	Name() string
	Evaluate(conf *transition.ParseConfiguration) (string, bool)
}

type atom struct {
	name     string
	evaluate func(conf *transition.ParseConfiguration) (string, bool)
}

func (a *atom) Name() string {
	return a.name
}

func (a *atom) Evaluate(conf *transition.ParseConfiguration) (string, bool) {
	return a.evaluate(conf)
}

func tokenAttribute(token func(*transition.ParseConfiguration) *nlp.Token, attribute func(*nlp.Token) string) func(*transition.ParseConfiguration) (string, bool) {
	return func(conf *transition.ParseConfiguration) (string, bool) {
		if t := token(conf); t != nil {
			return attribute(t), true
		}
		return "", false
	}
}

func stack(i int) func(*transition.ParseConfiguration) *nlp.Token {
	return func(conf *transition.ParseConfiguration) *nlp.Token { return conf.StackAt(i) }
}

func buffer(i int) func(*transition.ParseConfiguration) *nlp.Token {
	return func(conf *transition.ParseConfiguration) *nlp.Token { return conf.BufferAt(i) }
}

func tag(t *nlp.Token) string  { return t.Tag }
func form(t *nlp.Token) string { return t.Form }

var atoms = map[string]func(*transition.ParseConfiguration) (string, bool){
	"S0p": tokenAttribute(stack(0), tag),
	"S1p": tokenAttribute(stack(1), tag),
	"B0p": tokenAttribute(buffer(0), tag),
	"B1p": tokenAttribute(buffer(1), tag),
	"S0w": tokenAttribute(stack(0), form),
	"B0w": tokenAttribute(buffer(0), form),
	// last transition
	"T": func(conf *transition.ParseConfiguration) (string, bool) {
		if last := conf.LastTransition(); last != nil {
			return last.Code(), true
		}
		return "", false
	},
	// number of dependents of the stack top
	"A": func(conf *transition.ParseConfiguration) (string, bool) {
		if s := conf.StackTop(); s != nil {
			return strconv.Itoa(len(conf.Dependents(s))), true
		}
		return "", false
	},
	// label attaching the stack top
	"S0l": func(conf *transition.ParseConfiguration) (string, bool) {
		if s := conf.StackTop(); s != nil {
			if arc := conf.GoverningDependency(s); arc != nil {
				return string(arc.Label), true
			}
		}
		return "", false
	},
	// distance from the stack top to the buffer front, capped
	"Dist": func(conf *transition.ParseConfiguration) (string, bool) {
		s, b := conf.StackTop(), conf.BufferHead()
		if s == nil || b == nil {
			return "", false
		}
		return strconv.Itoa(util.Min(util.AbsInt(b.Index-s.Index), MAX_DISTANCE)), true
	},
}

// Atoms lists the names accepted in descriptors.
func Atoms() []string {
	return []string{"S0p", "S1p", "B0p", "B1p", "S0w", "B0w", "T", "A", "S0l", "Dist"}
}

type combined struct {
	name  string
	parts []Feature
}

func (c *combined) Name() string {
	return c.name
}

func (c *combined) Evaluate(conf *transition.ParseConfiguration) (string, bool) {
	values := make([]string, len(c.parts))
	for i, part := range c.parts {
		value, ok := part.Evaluate(conf)
		if !ok {
			return "", false
		}
		values[i] = value
	}
	return strings.Join(values, GENERIC_SEPARATOR), true
}

// ParseFeature builds a feature from a descriptor such as "S0p+B0p".
func ParseFeature(descriptor string) (Feature, error) {
	names := strings.Split(strings.TrimSpace(descriptor), FEATURE_SEPARATOR)
	parts := make([]Feature, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		evaluate, exists := atoms[name]
		if !exists {
			return nil, fmt.Errorf("unknown feature atom %q in %q", name, descriptor)
		}
		names[i] = name
		parts[i] = &atom{name, evaluate}
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &combined{strings.Join(names, FEATURE_SEPARATOR), parts}, nil
}

func ParseFeatures(descriptors []string) ([]Feature, error) {
	retval := make([]Feature, 0, len(descriptors))
	seen := make(map[string]bool, len(descriptors))
	for _, descriptor := range descriptors {
		feature, err := ParseFeature(descriptor)
		if err != nil {
			return nil, err
		}
		if seen[feature.Name()] {
			continue
		}
		seen[feature.Name()] = true
		retval = append(retval, feature)
	}
	return retval, nil
}

// Extractor evaluates the scoring features, using the per-configuration
// feature cache.
type Extractor struct {
	Features []Feature
}

func NewExtractor(descriptors []string) (*Extractor, error) {
	features, err := ParseFeatures(descriptors)
	if err != nil {
		return nil, err
	}
	return &Extractor{features}, nil
}

func (e *Extractor) Results(conf *transition.ParseConfiguration) []featurevector.FeatureResult {
	if e == nil {
		return nil
	}
	results := make([]featurevector.FeatureResult, 0, len(e.Features))
	for _, feature := range e.Features {
		value, present, cached := conf.CachedFeature(feature.Name())
		if !cached {
			value, present = feature.Evaluate(conf)
			conf.CacheFeature(feature.Name(), value, present)
		}
		if present {
			results = append(results, featurevector.FeatureResult{Name: feature.Name(), Value: value})
		}
	}
	return results
}

// Score is the dot product of the feature results of conf with weights.
func (e *Extractor) Score(conf *transition.ParseConfiguration, weights *featurevector.WeightVector) float64 {
	if weights == nil {
		return 0
	}
	return weights.DotProduct(e.Results(conf))
}
