package app

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/joliciel-informatique/talismane-sub002/eval"
	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
)

var goldFile string

func writeEvaluation(w io.Writer, total *eval.Total) error {
	if _, err := fmt.Fprintf(w, "Sentences:\t%d\nTokens:\t\t%d\nUAS:\t\t%.4f\nLAS:\t\t%.4f\nExact:\t\t%.4f\n",
		total.Population, total.Tokens, total.UAS(), total.LAS(), total.ExactMatch()); err != nil {
		return err
	}
	byClass := total.ByClass()
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", class, byClass[class]); err != nil {
			return err
		}
	}
	return nil
}

func Evaluate(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"gold", "in"}); err != nil {
		return err
	}
	gold, err := conll.ReadFile(goldFile)
	if err != nil {
		return err
	}
	parsed, err := conll.ReadFile(input)
	if err != nil {
		return err
	}
	total, err := eval.Corpus(gold, parsed)
	if err != nil {
		return err
	}
	return writeEvaluation(os.Stdout, total)
}

func EvaluateCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Evaluate,
		UsageLine: "eval -gold <conll> -in <conll>",
		Short:     "computes attachment scores of a parsed corpus",
		Long: `
computes unlabeled and labeled attachment scores of a parsed corpus against
its gold parse

	$ ./parser eval -gold test.conll -in parsed.conll

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&goldFile, "gold", "", "Gold Conll File")
	cmd.Flag.StringVar(&input, "in", "", "Parsed Conll File")
	return cmd
}
