package types

import (
	"fmt"
	"strings"
)

const (
	ROOT_TOKEN = "ROOT"
	ROOT_TAG   = "ROOT"
)

// Token is a POS tagged unit of a sentence. Index 0 is reserved for the
// synthetic ROOT token; sentence tokens are numbered from 1.
type Token struct {
	Index int
	Form  string
	Lemma string
	Tag   string
}

func (t *Token) IsRoot() bool {
	return t.Index == 0
}

func (t *Token) String() string {
	if t.IsRoot() {
		return ROOT_TOKEN
	}
	return fmt.Sprintf("%s/%s", t.Form, t.Tag)
}

func NewRootToken() *Token {
	return &Token{Index: 0, Form: ROOT_TOKEN, Lemma: ROOT_TOKEN, Tag: ROOT_TAG}
}

// PosTagSequence is an ordered tagged sentence, optionally prefixed by ROOT.
type PosTagSequence []*Token

func NewPosTagSequence(forms, tags []string) (PosTagSequence, error) {
	if len(forms) != len(tags) {
		return nil, fmt.Errorf("got %d forms but %d tags", len(forms), len(tags))
	}
	retval := make(PosTagSequence, len(forms))
	for i, form := range forms {
		retval[i] = &Token{Index: i + 1, Form: form, Tag: tags[i]}
	}
	return retval, nil
}

func (s PosTagSequence) HasRoot() bool {
	return len(s) > 0 && s[0].IsRoot() && s[0].Tag == ROOT_TAG
}

// WithRoot returns a copy of the sequence prefixed by a ROOT token; the
// tokens themselves are shared.
func (s PosTagSequence) WithRoot() PosTagSequence {
	if s.HasRoot() {
		retval := make(PosTagSequence, len(s))
		copy(retval, s)
		return retval
	}
	retval := make(PosTagSequence, len(s)+1)
	retval[0] = NewRootToken()
	copy(retval[1:], s)
	return retval
}

func (s PosTagSequence) WithoutRoot() PosTagSequence {
	if !s.HasRoot() {
		return s
	}
	return s[1:]
}

func (s PosTagSequence) Tags() []string {
	retval := make([]string, len(s))
	for i, token := range s {
		retval[i] = token.Tag
	}
	return retval
}

func (s PosTagSequence) Forms() []string {
	retval := make([]string, len(s))
	for i, token := range s {
		retval[i] = token.Form
	}
	return retval
}

func (s PosTagSequence) String() string {
	parts := make([]string, len(s))
	for i, token := range s {
		parts[i] = token.String()
	}
	return strings.Join(parts, " ")
}
