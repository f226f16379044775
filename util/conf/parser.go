package conf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBeamWidth          = 1
	DefaultTransitionSystem   = "ArcEager"
	DefaultComparisonStrategy = "StackAndBuffer"
	DefaultScoringStrategy    = "Additive"
)

// ParserConfig is the YAML configuration of a parser instance.
type ParserConfig struct {
	TransitionSystem   string   `yaml:"transition_system" json:"transition_system"`
	Labels             []string `yaml:"labels" json:"labels"`
	LabelsFile         string   `yaml:"labels_file" json:"labels_file"`
	BeamWidth          int      `yaml:"beam_width" json:"beam_width"`
	MaxAnalysisTime    string   `yaml:"max_analysis_time" json:"max_analysis_time"`
	MinFreeMemory      string   `yaml:"min_free_memory" json:"min_free_memory"`
	ComparisonStrategy string   `yaml:"comparison_strategy" json:"comparison_strategy"`
	ScoringStrategy    string   `yaml:"scoring_strategy" json:"scoring_strategy"`
	Features           []string `yaml:"features" json:"features"`
	RulesFile          string   `yaml:"rules_file" json:"rules_file"`
	Constrainer        string   `yaml:"constrainer" json:"constrainer"`
	Weights            string   `yaml:"weights" json:"weights"`

	maxAnalysisTime time.Duration
	minFreeMemory   uint64
}

func ReadParserConfig(reader io.Reader) (*ParserConfig, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	cfg := &ParserConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parser configuration: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadParserConfigFile reads a parser configuration; a relative labels_file
// or rules_file is resolved against the configuration's directory.
func ReadParserConfigFile(filename string) (*ParserConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := ReadParserConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	dir := filepath.Dir(filename)
	if cfg.LabelsFile != "" && !filepath.IsAbs(cfg.LabelsFile) {
		cfg.LabelsFile = filepath.Join(dir, cfg.LabelsFile)
	}
	if cfg.RulesFile != "" && !filepath.IsAbs(cfg.RulesFile) {
		cfg.RulesFile = filepath.Join(dir, cfg.RulesFile)
	}
	if len(cfg.Labels) == 0 && cfg.LabelsFile != "" {
		labels, err := ReadFile(cfg.LabelsFile)
		if err != nil {
			return nil, fmt.Errorf("failed reading labels file %s: %w", cfg.LabelsFile, err)
		}
		cfg.Labels = labels.Values
	}
	return cfg, nil
}

func (c *ParserConfig) resolve() error {
	if c.TransitionSystem == "" {
		c.TransitionSystem = DefaultTransitionSystem
	}
	if c.ComparisonStrategy == "" {
		c.ComparisonStrategy = DefaultComparisonStrategy
	}
	if c.ScoringStrategy == "" {
		c.ScoringStrategy = DefaultScoringStrategy
	}
	if c.BeamWidth == 0 {
		c.BeamWidth = DefaultBeamWidth
	}
	if c.BeamWidth < 0 {
		return errors.New("beam_width must be positive")
	}
	if c.MaxAnalysisTime != "" {
		d, err := time.ParseDuration(c.MaxAnalysisTime)
		if err != nil {
			return fmt.Errorf("bad max_analysis_time %q: %w", c.MaxAnalysisTime, err)
		}
		c.maxAnalysisTime = d
	}
	if c.MinFreeMemory != "" {
		b, err := humanize.ParseBytes(c.MinFreeMemory)
		if err != nil {
			return fmt.Errorf("bad min_free_memory %q: %w", c.MinFreeMemory, err)
		}
		c.minFreeMemory = b
	}
	return nil
}

// MaxAnalysisTimeValue is the per-sentence time budget; zero means unlimited.
func (c *ParserConfig) MaxAnalysisTimeValue() time.Duration {
	return c.maxAnalysisTime
}

// MinFreeMemoryValue is the free memory threshold in bytes; zero disables the check.
func (c *ParserConfig) MinFreeMemoryValue() uint64 {
	return c.minFreeMemory
}
