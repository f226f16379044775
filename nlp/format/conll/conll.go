// Package conll reads and writes CoNLL-X dependency corpora.
// For a description see http://ilk.uvt.nl/conll/#dataformat
package conll

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const (
	FIELD_SEPARATOR      = '\t'
	NUM_FIELDS           = 10
	FEATURES_SEPARATOR   = "|"
	FEATURE_SEPARATOR    = "="
	FEATURE_CONCAT_DELIM = ","
	EMPTY                = "_"
)

type Features map[string]string

func (f Features) String() string {
	return FormatFeatures(f)
}

func FormatFeatures(feat map[string]string) string {
	if len(feat) == 0 {
		return EMPTY
	}
	strs := make([]string, 0, len(feat))
	for k, v := range feat {
		strs = append(strs, fmt.Sprintf("%v%v%v", k, FEATURE_SEPARATOR, v))
	}
	sort.Strings(strs)
	return strings.Join(strs, FEATURES_SEPARATOR)
}

// A Row is a single parsed row of a conll data set. PHEAD and PDEPREL are
// not in use.
type Row struct {
	ID      int
	Form    string
	Lemma   string
	CPosTag string
	PosTag  string
	Feats   Features
	Head    int
	DepRel  string
}

func formatString(value string) string {
	if value == "" {
		return EMPTY
	}
	return value
}

func (r Row) String() string {
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		formatString(r.Lemma),
		formatString(r.CPosTag),
		formatString(r.PosTag),
		FormatFeatures(r.Feats),
		strconv.Itoa(r.Head),
		formatString(r.DepRel),
		EMPTY,
		EMPTY,
	}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A Sentence is a list of rows ordered by ID.
type Sentence []Row

type Sentences []Sentence

func ParseInt(value string) (int, error) {
	if value == EMPTY {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == EMPTY {
		return ""
	}
	return value
}

func ParseFeatures(featuresStr string) (Features, error) {
	var featureMap Features
	if featuresStr == EMPTY || featuresStr == "" {
		return featureMap, nil
	}

	featureList := strings.Split(featuresStr, FEATURES_SEPARATOR)
	featureMap = make(Features, len(featureList))
	for _, featureStr := range featureList {
		featureKV := strings.Split(featureStr, FEATURE_SEPARATOR)
		if len(featureKV) != 2 {
			return nil, fmt.Errorf("wrong number of fields for split of feature %s", featureStr)
		}
		featName := featureKV[0]
		featValue := featureKV[1]
		if existingFeatValue, featExist := featureMap[featName]; featExist {
			featureMap[featName] = existingFeatValue + FEATURE_CONCAT_DELIM + featValue
		} else {
			featureMap[featName] = featValue
		}
	}
	return featureMap, nil
}

// ParseRow parses one record. HEAD and DEPREL may be empty for sentences
// which are yet to be parsed.
func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) < 8 {
		return row, fmt.Errorf("expected %d fields, got %d", NUM_FIELDS, len(record))
	}
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id

	form := ParseString(record[1])
	if form == "" {
		return row, errors.New("empty FORM field")
	}
	row.Form = form
	row.Lemma = ParseString(record[2])

	cpostag := ParseString(record[3])
	if cpostag == "" {
		return row, errors.New("empty CPOSTAG field")
	}
	row.CPosTag = cpostag

	row.PosTag = ParseString(record[4])
	if row.PosTag == "" {
		row.PosTag = cpostag
	}

	features, err := ParseFeatures(record[5])
	if err != nil {
		return row, fmt.Errorf("error parsing FEATS field (%s): %w", record[5], err)
	}
	row.Feats = features

	head, err := ParseInt(record[6])
	if err != nil {
		return row, fmt.Errorf("error parsing HEAD field (%s): %w", record[6], err)
	}
	row.Head = head
	row.DepRel = ParseString(record[7])
	return row, nil
}

// Read reads every sentence of a corpus. Sentences are separated by empty
// lines, which the csv reader skips, so a row with ID 1 starts a sentence.
func Read(reader io.Reader) (Sentences, error) {
	var sentences Sentences
	csvReader := csv.NewReader(reader)
	csvReader.Comma = FIELD_SEPARATOR
	csvReader.Comment = '#'
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var currentSent Sentence
	for i := 0; ; i++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failure reading delimited file: %w", err)
		}
		if record[0] == "1" && currentSent != nil {
			sentences = append(sentences, currentSent)
			currentSent = nil
		}
		row, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("error processing record %d at sentence %d: %w", i, len(sentences), err)
		}
		if row.ID != len(currentSent)+1 {
			return nil, fmt.Errorf("record %d at sentence %d: expected ID %d, got %d", i, len(sentences), len(currentSent)+1, row.ID)
		}
		currentSent = append(currentSent, row)
	}
	if currentSent != nil {
		sentences = append(sentences, currentSent)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

func Write(writer io.Writer, sents Sentences) error {
	buffered := bufio.NewWriter(writer)
	for _, sent := range sents {
		for _, row := range sent {
			if _, err := buffered.WriteString(row.String() + "\n"); err != nil {
				return err
			}
		}
		if err := buffered.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

func WriteFile(filename string, sents Sentences) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := Write(file, sents); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// PosTagSequence returns the tagged tokens of the sentence, tagged with
// CPOSTAG.
func (s Sentence) PosTagSequence() nlp.PosTagSequence {
	seq := make(nlp.PosTagSequence, len(s))
	for i, row := range s {
		seq[i] = &nlp.Token{Index: i + 1, Form: row.Form, Lemma: row.Lemma, Tag: row.CPosTag}
	}
	return seq
}

// GoldArcs returns the arcs of the sentence over the tokens of conf.
// Rows without a DEPREL are skipped.
func (s Sentence) GoldArcs(conf *transition.ParseConfiguration) ([]*nlp.DependencyArc, error) {
	arcs := make([]*nlp.DependencyArc, 0, len(s))
	for i, row := range s {
		if row.DepRel == "" {
			continue
		}
		head, dependent := conf.Token(row.Head), conf.Token(i+1)
		if head == nil || dependent == nil {
			return nil, fmt.Errorf("row %d: head %d outside the sentence", row.ID, row.Head)
		}
		arcs = append(arcs, nlp.NewDependencyArc(head, dependent, nlp.DepRel(row.DepRel)))
	}
	return arcs, nil
}

// Oracle drives the initial configuration of the sentence to its gold
// tree under system.
func (s Sentence) Oracle(system transition.TransitionSystem) (*transition.ParseConfiguration, error) {
	conf := transition.NewConfiguration(s.PosTagSequence())
	arcs, err := s.GoldArcs(conf)
	if err != nil {
		return nil, err
	}
	if err := system.PredictTransitions(conf, arcs); err != nil {
		return nil, err
	}
	return conf, nil
}

// FromConfiguration writes the tokens and arcs of conf as rows. Tokens left
// unattached by a partial parse get head 0 and no DEPREL.
func FromConfiguration(conf *transition.ParseConfiguration) Sentence {
	tokens := conf.Sentence().WithoutRoot()
	sent := make(Sentence, len(tokens))
	for i, token := range tokens {
		row := Row{
			ID:      i + 1,
			Form:    token.Form,
			Lemma:   token.Lemma,
			CPosTag: token.Tag,
			PosTag:  token.Tag,
		}
		if arc := conf.GoverningDependency(token); arc != nil {
			row.Head = arc.Head.Index
			row.DepRel = string(arc.Label)
		}
		sent[i] = row
	}
	return sent
}
