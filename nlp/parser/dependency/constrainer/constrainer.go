package constrainer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	"github.com/joliciel-informatique/talismane-sub002/storage"
	"github.com/joliciel-informatique/talismane-sub002/util"
)

const (
	ARCHIVE_ENTRY  = "constrainer.gob"
	EMPTY_CONTEXT  = ""
	CONTEXT_JOINER = "|"
)

// ContextKey is the coarse context of a configuration: the stack top tag
// and the buffer front tag, each EMPTY_CONTEXT when that side is empty.
func ContextKey(conf *transition.ParseConfiguration) string {
	stackTag, bufferTag := EMPTY_CONTEXT, EMPTY_CONTEXT
	if s := conf.StackTop(); s != nil {
		stackTag = s.Tag
	}
	if b := conf.BufferHead(); b != nil {
		bufferTag = b.Tag
	}
	return stackTag + CONTEXT_JOINER + bufferTag
}

// Constrainer restricts the transitions tried from a context to those seen
// after it in training data. Once trained it is read-only and may be
// shared between parsers.
type Constrainer struct {
	system   transition.TransitionSystem
	observed map[string]map[string]bool
	possible map[string][]transition.Transition
}

func New(system transition.TransitionSystem) *Constrainer {
	return &Constrainer{
		system:   system,
		observed: make(map[string]map[string]bool),
		possible: make(map[string][]transition.Transition),
	}
}

func (c *Constrainer) System() transition.TransitionSystem {
	return c.system
}

// PossibleTransitions returns the transitions learned for the context of
// conf, or every transition of the system for an unseen context.
func (c *Constrainer) PossibleTransitions(conf *transition.ParseConfiguration) []transition.Transition {
	if possible, exists := c.possible[ContextKey(conf)]; exists {
		return possible
	}
	return c.system.Transitions()
}

func (c *Constrainer) Contexts() int {
	return len(c.observed)
}

// OnNextParseConfiguration replays the derivation of conf from its initial
// configuration, recording each transition under the context it was
// taken from.
func (c *Constrainer) OnNextParseConfiguration(conf *transition.ParseConfiguration) error {
	replay := transition.NewConfiguration(conf.Sentence())
	for _, t := range conf.Transitions() {
		if err := c.record(ContextKey(replay), t.Code()); err != nil {
			return err
		}
		if err := transition.Apply(replay, t); err != nil {
			return fmt.Errorf("replaying derivation: %w", err)
		}
	}
	return nil
}

func (c *Constrainer) record(key, code string) error {
	codes, exists := c.observed[key]
	if !exists {
		codes = make(map[string]bool)
		c.observed[key] = codes
	}
	if codes[code] {
		return nil
	}
	codes[code] = true
	return c.resolve(key)
}

// resolve rebuilds the transitions of key in system order.
func (c *Constrainer) resolve(key string) error {
	codes := c.observed[key]
	possible := make([]transition.Transition, 0, len(codes))
	for code := range codes {
		t, err := c.system.TransitionByCode(code)
		if err != nil {
			return err
		}
		possible = append(possible, t)
	}
	order := make(map[string]int, len(codes))
	for i, t := range c.system.Transitions() {
		order[t.Code()] = i
	}
	sort.Slice(possible, func(i, j int) bool {
		return order[possible[i].Code()] < order[possible[j].Code()]
	})
	c.possible[key] = possible
	return nil
}

type serialized struct {
	System  string
	Labels  []string
	Context map[string][]string
}

func (c *Constrainer) serialize() *serialized {
	labels := c.system.Labels()
	s := &serialized{
		System:  c.system.Name(),
		Labels:  make([]string, len(labels)),
		Context: make(map[string][]string, len(c.observed)),
	}
	for i, label := range labels {
		s.Labels[i] = string(label)
	}
	for key := range c.observed {
		codes := make([]string, len(c.possible[key]))
		for i, t := range c.possible[key] {
			codes[i] = t.Code()
		}
		s.Context[key] = codes
	}
	return s
}

// Write stores the constrainer as a single entry zip archive.
func (c *Constrainer) Write(writer io.Writer) error {
	return util.WriteArchive(writer, ARCHIVE_ENTRY, c.serialize())
}

// Read loads a constrainer written by Write. With a nil system, the system
// recorded in the archive is rebuilt.
func Read(reader io.Reader, system transition.TransitionSystem) (*Constrainer, error) {
	var s serialized
	if err := util.ReadArchive(reader, ARCHIVE_ENTRY, &s); err != nil {
		return nil, fmt.Errorf("reading constrainer: %w", err)
	}
	if system == nil {
		var err error
		system, err = transition.NewTransitionSystem(s.System, transition.LabelsFromStrings(s.Labels))
		if err != nil {
			return nil, err
		}
	} else if system.Name() != s.System {
		return nil, fmt.Errorf("constrainer was trained for %s, not %s", s.System, system.Name())
	}
	c := New(system)
	for key, codes := range s.Context {
		c.observed[key] = make(map[string]bool, len(codes))
		for _, code := range codes {
			c.observed[key][code] = true
		}
		if err := c.resolve(key); err != nil {
			return nil, fmt.Errorf("reading constrainer: %w", err)
		}
	}
	return c, nil
}

func (c *Constrainer) Save(ctx context.Context, store storage.Store, key string) error {
	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.Bytes())
}

func Load(ctx context.Context, store storage.Store, key string, system transition.TransitionSystem) (*Constrainer, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(data), system)
}
