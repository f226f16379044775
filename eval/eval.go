// Package eval scores parsed sentences against their gold parse.
package eval

import (
	"fmt"

	"github.com/joliciel-informatique/talismane-sub002/nlp/format/conll"
)

const (
	CLASS_HEAD  = "head"
	CLASS_LABEL = "label"
)

// AttachmentError is a token attached to the wrong head, or to the right
// head with the wrong label.
type AttachmentError struct {
	Sentence int
	Gold     conll.Row
	Parsed   conll.Row
}

func (e AttachmentError) Class() string {
	if e.Gold.Head != e.Parsed.Head {
		return CLASS_HEAD
	}
	return CLASS_LABEL
}

func (e AttachmentError) String() string {
	return fmt.Sprintf("sentence %d token %d (%s): gold %d/%s, parsed %d/%s",
		e.Sentence, e.Gold.ID, e.Gold.Form, e.Gold.Head, e.Gold.DepRel, e.Parsed.Head, e.Parsed.DepRel)
}

type Result struct {
	Tokens       int
	HeadCorrect  int
	LabelCorrect int
	Errors       []AttachmentError
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// UAS is the share of tokens attached to their gold head.
func (r *Result) UAS() float64 {
	return ratio(r.HeadCorrect, r.Tokens)
}

// LAS is the share of tokens attached to their gold head with the gold label.
func (r *Result) LAS() float64 {
	return ratio(r.LabelCorrect, r.Tokens)
}

func (r *Result) Exact() bool {
	return len(r.Errors) == 0
}

// Sentence compares one parsed sentence with its gold parse, token by token.
func Sentence(index int, gold, parsed conll.Sentence) (*Result, error) {
	if len(gold) != len(parsed) {
		return nil, fmt.Errorf("sentence %d: gold has %d tokens, parsed has %d", index, len(gold), len(parsed))
	}
	r := &Result{Tokens: len(gold)}
	for i, g := range gold {
		p := parsed[i]
		if g.Form != p.Form {
			return nil, fmt.Errorf("sentence %d token %d: gold form %q, parsed form %q", index, g.ID, g.Form, p.Form)
		}
		if g.Head != p.Head {
			r.Errors = append(r.Errors, AttachmentError{index, g, p})
			continue
		}
		r.HeadCorrect++
		if g.DepRel != p.DepRel {
			r.Errors = append(r.Errors, AttachmentError{index, g, p})
			continue
		}
		r.LabelCorrect++
	}
	return r, nil
}

// Total accumulates sentence results over a corpus.
type Total struct {
	Result
	Exact, Population int
}

func (t *Total) Add(r *Result) {
	t.Tokens += r.Tokens
	t.HeadCorrect += r.HeadCorrect
	t.LabelCorrect += r.LabelCorrect
	t.Errors = append(t.Errors, r.Errors...)
	if r.Exact() {
		t.Exact++
	}
	t.Population++
}

func (t *Total) ExactMatch() float64 {
	return ratio(t.Exact, t.Population)
}

// ByClass counts errors by class, and head errors by gold label.
func (t *Total) ByClass() map[string]int {
	retval := make(map[string]int)
	for _, e := range t.Errors {
		retval[e.Class()]++
		retval[e.Class()+":"+e.Gold.DepRel]++
	}
	return retval
}

func Corpus(gold, parsed conll.Sentences) (*Total, error) {
	if len(gold) != len(parsed) {
		return nil, fmt.Errorf("gold has %d sentences, parsed has %d", len(gold), len(parsed))
	}
	total := &Total{}
	for i := range gold {
		r, err := Sentence(i, gold[i], parsed[i])
		if err != nil {
			return nil, err
		}
		total.Add(r)
	}
	return total, nil
}
