// Package app holds the command line commands of the parser.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/rs/zerolog"

	"github.com/joliciel-informatique/talismane-sub002/alg/featurevector"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/beam"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/constrainer"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/rules"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	"github.com/joliciel-informatique/talismane-sub002/storage"
	"github.com/joliciel-informatique/talismane-sub002/util"
	"github.com/joliciel-informatique/talismane-sub002/util/conf"
	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

const (
	NUM_CPUS_FLAG = "cpus"
)

var (
	CPUs int

	appLogger = logger.NewLogger("App")
)

func AppCommands() []*commander.Command {
	return []*commander.Command{
		OracleCmd(),
		ConstrainCmd(),
		WeightsCmd(),
		ParseCmd(),
		ServeCmd(),
		EvaluateCmd(),
	}
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine:   os.Args[0],
		Short:       "transition-based dependency parser",
		Subcommands: AppCommands(),
		Flag:        *flag.NewFlagSet("app", flag.ExitOnError),
	}
	for _, app := range cmd.Subcommands {
		app.Run = NewAppWrapCommand(app.Run)
		app.Flag.IntVar(&CPUs, NUM_CPUS_FLAG, 0, "Max CPUS to use (runtime.GOMAXPROCS); 0 = all")
	}
	return cmd
}

func InitCommand(cmd *commander.Command, args []string) {
	maxCPUs := runtime.NumCPU()
	if CPUs > maxCPUs {
		appLogger.Warn().Int("cpus", maxCPUs).Msg("Number of CPUs capped to all available")
		CPUs = 0
	}
	if CPUs == 0 {
		CPUs = maxCPUs
	}
	runtime.GOMAXPROCS(CPUs)
}

func NewAppWrapCommand(f func(cmd *commander.Command, args []string) error) func(cmd *commander.Command, args []string) error {
	return func(cmd *commander.Command, args []string) error {
		InitCommand(cmd, args)
		return f(cmd, args)
	}
}

func VerifyExists(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("error accessing file %s: %w", filename, err)
	}
	return nil
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f == nil || f.Value.String() == "" {
			cmd.Usage()
			return fmt.Errorf("required flag %s not set", name)
		}
	}
	return nil
}

// readConfig reads the parser configuration file, or returns the defaults
// when filename is empty.
func readConfig(filename string) (*conf.ParserConfig, error) {
	if filename == "" {
		return conf.ReadParserConfig(strings.NewReader(""))
	}
	if err := VerifyExists(filename); err != nil {
		return nil, err
	}
	if hash, err := util.HashFile(filename); err == nil {
		appLogger.Info().Str("config", filename).Str("hash", fmt.Sprintf("%x", hash)).Msg("Reading parser configuration")
	}
	return conf.ReadParserConfigFile(filename)
}

func newSystem(cfg *conf.ParserConfig) (transition.TransitionSystem, error) {
	if len(cfg.Labels) == 0 {
		return nil, errors.New("no dependency labels configured")
	}
	return transition.NewTransitionSystem(cfg.TransitionSystem, transition.LabelsFromStrings(cfg.Labels))
}

// buildParser assembles a parser from cfg; the constrainer and weights
// named by cfg are loaded from store.
func buildParser(ctx context.Context, cfg *conf.ParserConfig, store storage.Store, log zerolog.Logger) (*beam.Parser, error) {
	system, err := newSystem(cfg)
	if err != nil {
		return nil, err
	}
	parser, err := beam.FromConfig(cfg, system)
	if err != nil {
		return nil, err
	}
	parser.Log = log
	if cfg.RulesFile != "" {
		ruleSet, err := rules.LoadRulesFile(cfg.RulesFile, system)
		if err != nil {
			return nil, err
		}
		parser.Rules = ruleSet
		log.Info().Int("rules", ruleSet.Len()).Str("file", cfg.RulesFile).Msg("Loaded rules")
	}
	if cfg.Constrainer != "" {
		c, err := constrainer.Load(ctx, store, cfg.Constrainer, system)
		if err != nil {
			return nil, fmt.Errorf("loading constrainer %s: %w", cfg.Constrainer, err)
		}
		parser.Constrainer = c
		log.Info().Int("contexts", c.Contexts()).Str("key", cfg.Constrainer).Msg("Loaded constrainer")
	}
	if cfg.Weights != "" {
		weights, err := featurevector.Load(ctx, store, cfg.Weights)
		if err != nil {
			return nil, fmt.Errorf("loading weights %s: %w", cfg.Weights, err)
		}
		parser.Weights = weights
		log.Info().Int("weights", weights.Len()).Str("key", cfg.Weights).Msg("Loaded weights")
	}
	return parser, nil
}

func openStore() (storage.Store, error) {
	cfg, err := storage.ReadConfig()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(cfg)
}
