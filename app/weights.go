package app

import (
	"context"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/joliciel-informatique/talismane-sub002/alg/featurevector"
	"github.com/joliciel-informatique/talismane-sub002/storage"
)

var weightsKey string

func importWeights(ctx context.Context, store storage.Store, filename, key string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	weights, err := featurevector.LoadYAML(file)
	if err != nil {
		return err
	}
	if err := weights.Save(ctx, store, key); err != nil {
		return err
	}
	appLogger.Info().Int("weights", weights.Len()).Str("key", key).Msg("Saved weights")
	return nil
}

func Weights(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"in", "key"}); err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	return importWeights(context.Background(), store, input, weightsKey)
}

func WeightsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Weights,
		UsageLine: "weights -in <yaml> -key <key>",
		Short:     "imports feature weights into the store",
		Long: `
imports a YAML list of feature/value/weight entries into the store selected
by PARSER_STORE

	$ ./parser weights -in weights.yaml -key weights.zip

`,
		Flag: *flag.NewFlagSet("weights", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&input, "in", "", "Weights File (YAML)")
	cmd.Flag.StringVar(&weightsKey, "key", "", "Store key")
	return cmd
}
