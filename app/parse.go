package app

import (
	"context"
	"errors"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"

	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/beam"
	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	"github.com/joliciel-informatique/talismane-sub002/nlp/tagger"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/service/worker"
	"github.com/joliciel-informatique/talismane-sub002/storage"
)

var (
	textInput string
	poolSize  int
)

// parseJobs parses jobs concurrently and returns one sentence per job.
// A sentence which failed to parse is written unattached.
func parseJobs(ctx context.Context, parser *beam.Parser, jobs []worker.Job, size int) (conll.Sentences, error) {
	outcomes, err := worker.NewPool(parser, size).Parse(ctx, jobs)
	if err != nil {
		return nil, err
	}
	sents := make(conll.Sentences, len(outcomes))
	cutoffs := 0
	for i, outcome := range outcomes {
		if outcome.Err != nil || outcome.Result.Best() == nil {
			appLogger.Error().Err(outcome.Err).Int("sentence", i).Msg("Failed to parse sentence")
			sents[i] = conll.FromConfiguration(transition.NewConfiguration(jobs[i].Candidates[0]))
			continue
		}
		if outcome.Result.Cutoff != beam.CutoffNone {
			cutoffs++
		}
		sents[i] = conll.FromConfiguration(outcome.Result.Best())
	}
	appLogger.Info().Int("sentences", len(sents)).Int("cutoffs", cutoffs).Msg("Parsed")
	return sents, nil
}

func readJobs() ([]worker.Job, error) {
	var seqs []nlp.PosTagSequence
	switch {
	case input != "":
		sents, err := conll.ReadFile(input)
		if err != nil {
			return nil, err
		}
		for _, sent := range sents {
			seqs = append(seqs, sent.PosTagSequence())
		}
	case textInput != "":
		text, err := os.ReadFile(textInput)
		if err != nil {
			return nil, err
		}
		seqs, err = tagger.ProseTagger{}.Tag(string(text))
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("one of -in or -text is required")
	}
	jobs := make([]worker.Job, len(seqs))
	for i, seq := range seqs {
		jobs[i] = worker.Job{Candidates: []nlp.PosTagSequence{seq}}
	}
	return jobs, nil
}

func parse(ctx context.Context, store storage.Store) error {
	cfg, err := readConfig(configFile)
	if err != nil {
		return err
	}
	parser, err := buildParser(ctx, cfg, store, appLogger)
	if err != nil {
		return err
	}
	jobs, err := readJobs()
	if err != nil {
		return err
	}
	size := poolSize
	if size <= 0 {
		size = CPUs
	}
	sents, err := parseJobs(ctx, parser, jobs, size)
	if err != nil {
		return err
	}
	if outFile == "" {
		return conll.Write(os.Stdout, sents)
	}
	return conll.WriteFile(outFile, sents)
}

func Parse(cmd *commander.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	return parse(context.Background(), store)
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Parse,
		UsageLine: "parse -c <config> (-in <conll> | -text <file>) [-out <conll>]",
		Short:     "runs beam search dependency parsing",
		Long: `
runs beam search dependency parsing over a tagged Conll corpus, or over raw
English text tagged on the fly; constrainer and weights are read from the
store selected by PARSER_STORE

	$ ./parser parse -c parser.yaml -in test.conll -out parsed.conll

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configFile, "c", "", "Parser Configuration File (YAML)")
	cmd.Flag.StringVar(&input, "in", "", "Input Tagged Conll File")
	cmd.Flag.StringVar(&textInput, "text", "", "Input Raw Text File")
	cmd.Flag.StringVar(&outFile, "out", "", "Optional - Output Conll File (default stdout)")
	cmd.Flag.IntVar(&poolSize, "p", 0, "Optional - Number of parsing goroutines (default: cpus)")
	return cmd
}
