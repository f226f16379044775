package beam

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/joliciel-informatique/talismane-sub002/alg/featurevector"
	"github.com/joliciel-informatique/talismane-sub002/alg/search"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/constrainer"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/features"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/rules"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/util"
	"github.com/joliciel-informatique/talismane-sub002/util/conf"
	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

type CutoffReason string

const (
	CutoffNone   CutoffReason = ""
	CutoffTime   CutoffReason = "time"
	CutoffMemory CutoffReason = "memory"
)

type agenda = search.Agenda[*transition.ParseConfiguration]

// Result of parsing one sentence.
type Result struct {
	// Configurations holds at most BeamWidth configurations by descending
	// score. After a cutoff they may be partial.
	Configurations []*transition.ParseConfiguration
	Cutoff         CutoffReason
	// GoldLost is set in training mode when the search was abandoned.
	GoldLost bool
	// Wavefronts lists the comparison indices processed, in order.
	Wavefronts []int
	// Expansions counts the configurations created.
	Expansions int
	DeadEnds   int
}

// Best returns the highest scoring configuration, or nil.
func (r *Result) Best() *transition.ParseConfiguration {
	if len(r.Configurations) == 0 {
		return nil
	}
	return r.Configurations[0]
}

// Parser is a beam-search parser scoring transitions with a global linear
// model. A Parser holds no per-sentence state beyond a call to Parse and
// may be copied; System, Constrainer, Rules, Features and Weights are
// read-only and may be shared between copies.
type Parser struct {
	System      transition.TransitionSystem
	Constrainer *constrainer.Constrainer
	Rules       *rules.RuleSet
	Features    *features.Extractor
	Weights     *featurevector.WeightVector

	BeamWidth int
	// MaxAnalysisTime and MinFreeMemory are ignored when zero.
	MaxAnalysisTime time.Duration
	MinFreeMemory   uint64

	Comparison transition.ComparisonStrategy
	Memory     MemoryProbe
	Clock      func() time.Time
	Metrics    *Metrics
	Log        zerolog.Logger
}

func NewParser(system transition.TransitionSystem) *Parser {
	if system == nil {
		panic("beam parser needs a transition system")
	}
	return &Parser{
		System:     system,
		BeamWidth:  conf.DefaultBeamWidth,
		Comparison: transition.StackAndBuffer{},
		Memory:     SystemMemory{},
		Clock:      time.Now,
		Log:        logger.NewLogger("BeamParser"),
	}
}

// FromConfig builds a parser with the search settings and features of cfg.
func FromConfig(cfg *conf.ParserConfig, system transition.TransitionSystem) (*Parser, error) {
	p := NewParser(system)
	p.BeamWidth = cfg.BeamWidth
	p.MaxAnalysisTime = cfg.MaxAnalysisTimeValue()
	p.MinFreeMemory = cfg.MinFreeMemoryValue()
	comparison, err := transition.NewComparisonStrategy(cfg.ComparisonStrategy)
	if err != nil {
		return nil, err
	}
	p.Comparison = comparison
	if len(cfg.Features) > 0 {
		extractor, err := features.NewExtractor(cfg.Features)
		if err != nil {
			return nil, err
		}
		p.Features = extractor
	}
	return p, nil
}

// Copy returns a parser sharing the read-only resources of p.
func (p *Parser) Copy() *Parser {
	newParser := *p
	return &newParser
}

// Parse searches for the best derivations of a sentence given one or more
// candidate tag sequences for it.
func (p *Parser) Parse(seqs ...nlp.PosTagSequence) (*Result, error) {
	return p.parse(seqs, nil)
}

// ParseWithGold parses seq in training mode: the search is abandoned as
// soon as the derivation of gold leaves the beam.
func (p *Parser) ParseWithGold(seq nlp.PosTagSequence, gold *transition.ParseConfiguration) (*Result, error) {
	if gold == nil {
		return nil, errors.New("training parse without a gold configuration")
	}
	if gold.Length() != len(seq.WithoutRoot()) {
		return nil, errors.New("gold configuration does not match the sentence")
	}
	return p.parse([]nlp.PosTagSequence{seq}, gold)
}

func (p *Parser) parse(seqs []nlp.PosTagSequence, gold *transition.ParseConfiguration) (*Result, error) {
	if len(seqs) == 0 {
		return nil, errors.New("nothing to parse")
	}
	beamWidth := p.BeamWidth
	if beamWidth <= 0 {
		beamWidth = conf.DefaultBeamWidth
	}
	start := p.now()
	result := &Result{}

	heaps := search.NewHeapSet[*transition.ParseConfiguration]()
	for _, seq := range seqs {
		initial := transition.NewConfiguration(seq,
			transition.WithScoring(transition.Additive{}),
			transition.WithComparison(p.comparison()))
		initial.SetComparisonIndex(0)
		heaps.Push(0, initial)
	}
	final := search.NewAgenda[*transition.ParseConfiguration](beamWidth)
	var backup *agenda

	for {
		index, active, exists := heaps.Min()
		if !exists {
			break
		}
		if top, _ := active.Peek(); top.IsTerminal() {
			break
		}
		if result.Cutoff = p.budgetExceeded(start); result.Cutoff != CutoffNone {
			p.Log.Warn().Str("cutoff", string(result.Cutoff)).Int("wavefront", index).
				Str("sentence", seqs[0].String()).Msg("Analysis budget exceeded, returning partial parse")
			break
		}
		if gold != nil && !goldReachable(heaps, final, gold, beamWidth) {
			result.GoldLost = true
			break
		}

		heaps.Remove(index)
		result.Wavefronts = append(result.Wavefronts, index)
		expanded := 0
		for expanded < beamWidth {
			current, exists := active.Pop()
			if !exists {
				break
			}
			if current.IsTerminal() {
				final.Push(current)
				expanded++
				continue
			}
			candidates := p.candidates(current)
			if len(candidates) == 0 {
				p.Log.Debug().Str("configuration", current.String()).Msg("Dead end")
				if backup == nil {
					backup = search.NewAgenda[*transition.ParseConfiguration](beamWidth)
				}
				backup.Push(current)
				result.DeadEnds++
				p.Metrics.deadEnd()
				continue
			}
			for _, t := range candidates {
				next, err := p.expand(current, t)
				if err != nil {
					return nil, err
				}
				nextIndex := next.ComparisonIndex()
				if nextIndex <= index {
					nextIndex = index + 1
					next.SetComparisonIndex(nextIndex)
				}
				heaps.Push(nextIndex, next)
				result.Expansions++
			}
			expanded++
		}
	}

	final.AddCandidates(heaps.Merge())
	if final.Len() == 0 && backup != nil {
		final = backup
	}
	result.Configurations = final.TopB(beamWidth)
	p.Metrics.observe(result, p.now().Sub(start).Seconds())
	if best := result.Best(); best != nil {
		p.Log.Debug().Int("wavefronts", len(result.Wavefronts)).Int("expansions", result.Expansions).
			Float64("score", best.Score()).Msg("Parsed sentence")
	}
	return result, nil
}

// candidates returns the transitions to try from conf: the transition of a
// matching positive rule, or else the valid constrained transitions minus
// those forbidden by negative rules.
func (p *Parser) candidates(conf *transition.ParseConfiguration) []transition.Transition {
	if rule := p.Rules.Positive(conf); rule != nil {
		if rule.Transition.CheckPreconditions(conf) {
			return []transition.Transition{rule.Transition}
		}
		p.Log.Error().Str("rule", rule.String()).Str("configuration", conf.String()).
			Msg("Positive rule transition is invalid here, discarding rule")
	}
	var possible []transition.Transition
	if p.Constrainer != nil {
		possible = p.Constrainer.PossibleTransitions(conf)
	} else {
		possible = p.System.Transitions()
	}
	valid := make([]transition.Transition, 0, len(possible))
	for _, t := range possible {
		if t.CheckPreconditions(conf) {
			valid = append(valid, t)
		}
	}
	return p.Rules.Negative(conf, valid)
}

// expand forks conf, applies t and scores the decision on the features of
// the new configuration.
func (p *Parser) expand(conf *transition.ParseConfiguration, t transition.Transition) (*transition.ParseConfiguration, error) {
	next := conf.Fork()
	if err := transition.ApplyDecision(next, t, transition.Decision{Probability: 1}); err != nil {
		return nil, err
	}
	if p.Features != nil {
		next.ScoreLastDecision(p.Features.Score(next, p.Weights))
	}
	return next, nil
}

func (p *Parser) budgetExceeded(start time.Time) CutoffReason {
	if p.MaxAnalysisTime > 0 && p.now().Sub(start) > p.MaxAnalysisTime {
		return CutoffTime
	}
	if p.MinFreeMemory > 0 && p.Memory != nil {
		free, err := p.Memory.FreeMemory()
		if err != nil {
			p.Log.Warn().Err(err).Msg("Failed to read free memory")
			return CutoffNone
		}
		if free < p.MinFreeMemory {
			p.Log.Warn().Str("free", humanize.IBytes(free)).Str("min", humanize.IBytes(p.MinFreeMemory)).
				Msg("Free memory below threshold")
			util.LogMemory(p.Log)
			return CutoffMemory
		}
	}
	return CutoffNone
}

// goldReachable reports whether one of the best configurations still
// derives gold.
func goldReachable(heaps *search.HeapSet[*transition.ParseConfiguration], final *agenda, gold *transition.ParseConfiguration, beamWidth int) bool {
	for _, conf := range heaps.TopB(beamWidth) {
		if conf.IsPrefixOf(gold) {
			return true
		}
	}
	for _, conf := range final.Confs {
		if conf.IsPrefixOf(gold) {
			return true
		}
	}
	return false
}

func (p *Parser) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock()
}

func (p *Parser) comparison() transition.ComparisonStrategy {
	if p.Comparison == nil {
		return transition.StackAndBuffer{}
	}
	return p.Comparison
}
