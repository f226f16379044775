// Package tagger turns raw text into POS tagged sentences for the parser.
package tagger

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

type Tagger interface {
	// Tag segments text into sentences and tags each of them.
	Tag(text string) ([]nlp.PosTagSequence, error)
}

// ProseTagger tags English text with the averaged perceptron model of
// prose.
type ProseTagger struct{}

var _ Tagger = ProseTagger{}

func (ProseTagger) Tag(text string) ([]nlp.PosTagSequence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("segmenting text: %w", err)
	}
	sentences := doc.Sentences()
	retval := make([]nlp.PosTagSequence, 0, len(sentences))
	for _, sentence := range sentences {
		seq, err := tagSentence(sentence.Text)
		if err != nil {
			return nil, err
		}
		if len(seq) > 0 {
			retval = append(retval, seq)
		}
	}
	return retval, nil
}

func tagSentence(text string) (nlp.PosTagSequence, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("tagging %q: %w", text, err)
	}
	tokens := doc.Tokens()
	forms := make([]string, len(tokens))
	tags := make([]string, len(tokens))
	for i, token := range tokens {
		forms[i], tags[i] = token.Text, token.Tag
	}
	return nlp.NewPosTagSequence(forms, tags)
}
