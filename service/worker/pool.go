package worker

import (
	"context"
	"sync"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/beam"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

// Job is one sentence to parse, given as one or more candidate tag
// sequences.
type Job struct {
	Candidates []nlp.PosTagSequence
}

type Outcome struct {
	Result *beam.Result
	Err    error
}

// Pool parses sentences concurrently. Each goroutine owns a copy of the
// parser; the model resources are shared read-only.
type Pool struct {
	parsers []*beam.Parser
}

func NewPool(parser *beam.Parser, size int) *Pool {
	if size < 1 {
		size = 1
	}
	parsers := make([]*beam.Parser, size)
	for i := range parsers {
		parsers[i] = parser.Copy()
	}
	return &Pool{parsers: parsers}
}

func (p *Pool) Size() int {
	return len(p.parsers)
}

// Parse returns one outcome per job, in job order. Jobs not yet started
// when ctx is done are skipped and ctx.Err() is returned.
func (p *Pool) Parse(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))
	indices := make(chan int)
	var wg sync.WaitGroup
	for _, parser := range p.parsers {
		wg.Add(1)
		go func(parser *beam.Parser) {
			defer wg.Done()
			for i := range indices {
				result, err := parser.Parse(jobs[i].Candidates...)
				outcomes[i] = Outcome{Result: result, Err: err}
			}
		}(parser)
	}

	var err error
dispatch:
	for i := range jobs {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()
	return outcomes, err
}
