package app

import (
	"context"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/constrainer"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	"github.com/joliciel-informatique/talismane-sub002/storage"
)

const DEFAULT_CONSTRAINER_KEY = "constrainer.zip"

var constrainerKey string

// trainConstrainer records the oracle derivation of every sentence.
// Sentences without a derivation are skipped.
func trainConstrainer(sents conll.Sentences, system transition.TransitionSystem) (*constrainer.Constrainer, error) {
	c := constrainer.New(system)
	skipped := 0
	for i, sent := range sents {
		conf, err := sent.Oracle(system)
		if err != nil {
			appLogger.Warn().Err(err).Int("sentence", i).Msg("Skipping sentence without oracle derivation")
			skipped++
			continue
		}
		if err := c.OnNextParseConfiguration(conf); err != nil {
			return nil, err
		}
	}
	appLogger.Info().Int("contexts", c.Contexts()).Int("skipped", skipped).Msg("Trained constrainer")
	return c, nil
}

func constrain(ctx context.Context, store storage.Store) error {
	cfg, err := readConfig(configFile)
	if err != nil {
		return err
	}
	system, err := newSystem(cfg)
	if err != nil {
		return err
	}
	sents, err := conll.ReadFile(input)
	if err != nil {
		return err
	}
	c, err := trainConstrainer(sents, system)
	if err != nil {
		return err
	}
	key := constrainerKey
	if key == "" {
		key = cfg.Constrainer
	}
	if key == "" {
		key = DEFAULT_CONSTRAINER_KEY
	}
	if err := c.Save(ctx, store, key); err != nil {
		return err
	}
	appLogger.Info().Str("key", key).Msg("Saved constrainer")
	return nil
}

func Constrain(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"in"}); err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	return constrain(context.Background(), store)
}

func ConstrainCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Constrain,
		UsageLine: "constrain -in <conll> [-c <config>] [-key <key>]",
		Short:     "trains a parsing constrainer from a parsed corpus",
		Long: `
trains a parsing constrainer from a parsed corpus and saves it to the store
selected by PARSER_STORE (file, s3 or redis)

	$ ./parser constrain -c parser.yaml -in train.conll -key constrainer.zip

`,
		Flag: *flag.NewFlagSet("constrain", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "c", "", "Parser Configuration File (YAML)")
	cmd.Flag.StringVar(&input, "in", "", "Training Conll File")
	cmd.Flag.StringVar(&constrainerKey, "key", "", "Optional - Store key (default: constrainer of the configuration)")
	return cmd
}
