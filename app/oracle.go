package app

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
)

var (
	configFile string
	input      string
	outFile    string
)

// writeOracle writes the oracle derivation of each sentence on one line.
func writeOracle(w io.Writer, sents conll.Sentences, system transition.TransitionSystem) error {
	buffered := bufio.NewWriter(w)
	for i, sent := range sents {
		conf, err := sent.Oracle(system)
		if err != nil {
			appLogger.Error().Err(err).Int("sentence", i).Msg("No oracle derivation")
			return err
		}
		transitions := conf.Transitions()
		codes := make([]string, len(transitions))
		for j, t := range transitions {
			codes[j] = t.Code()
		}
		if _, err := buffered.WriteString(strings.Join(codes, " ") + "\n"); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

func Oracle(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"in"}); err != nil {
		return err
	}
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
	appLogger.Info().Int("sentences", len(sents)).Str("system", system.Name()).Msg("Computing oracle derivations")
	if outFile == "" {
		return writeOracle(os.Stdout, sents, system)
	}
	out, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := writeOracle(out, sents, system); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func OracleCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Oracle,
		UsageLine: "oracle -in <conll> [-c <config>] [-out <file>]",
		Short:     "prints the oracle transitions of a parsed corpus",
		Long: `
prints the oracle transitions of a parsed corpus, one sentence per line

	$ ./parser oracle -c parser.yaml -in train.conll

`,
		Flag: *flag.NewFlagSet("oracle", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "c", "", "Parser Configuration File (YAML)")
	cmd.Flag.StringVar(&input, "in", "", "Input Conll File")
	cmd.Flag.StringVar(&outFile, "out", "", "Optional - Output File (default stdout)")
	return cmd
}
