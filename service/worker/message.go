package worker

import (
	"bytes"
	"fmt"

	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const SENDER = "parser"

// Request asks for tagged sentences, or raw text, to be parsed.
type Request struct {
	ID        string            `json:"id"`
	Sentences []RequestSentence `json:"sentences,omitempty"`
	Text      string            `json:"text,omitempty"`
}

// RequestSentence carries the forms of a sentence and one or more
// candidate tag sequences for them.
type RequestSentence struct {
	Forms []string   `json:"forms"`
	Tags  [][]string `json:"tags"`
}

type Response struct {
	ID        string             `json:"id"`
	Sender    string             `json:"sender"`
	Sentences []ResponseSentence `json:"sentences,omitempty"`
	Conll     string             `json:"conll,omitempty"`
	Error     string             `json:"error,omitempty"`
}

type ResponseSentence struct {
	Score  float64 `json:"score"`
	Cutoff string  `json:"cutoff,omitempty"`
	Error  string  `json:"error,omitempty"`
}

func (s RequestSentence) job() (Job, error) {
	if len(s.Tags) == 0 {
		return Job{}, fmt.Errorf("sentence %v has no tags", s.Forms)
	}
	job := Job{Candidates: make([]nlp.PosTagSequence, len(s.Tags))}
	for i, tags := range s.Tags {
		seq, err := nlp.NewPosTagSequence(s.Forms, tags)
		if err != nil {
			return Job{}, err
		}
		job.Candidates[i] = seq
	}
	return job, nil
}

// response renders the best configuration of each outcome, as CoNLL and
// as per sentence metadata.
func response(id string, outcomes []Outcome) (*Response, error) {
	resp := &Response{ID: id, Sender: SENDER, Sentences: make([]ResponseSentence, len(outcomes))}
	sents := make(conll.Sentences, 0, len(outcomes))
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			resp.Sentences[i].Error = outcome.Err.Error()
			continue
		}
		best := outcome.Result.Best()
		if best == nil {
			resp.Sentences[i].Error = "no parse"
			continue
		}
		resp.Sentences[i].Score = best.Score()
		resp.Sentences[i].Cutoff = string(outcome.Result.Cutoff)
		sents = append(sents, conll.FromConfiguration(best))
	}
	var buf bytes.Buffer
	if err := conll.Write(&buf, sents); err != nil {
		return nil, err
	}
	resp.Conll = buf.String()
	return resp, nil
}
