package conll

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/transition"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

const corpus = `1	Jean	jean	NPP	NPP	g=m|n=s	2	suj	_	_
2	mange	manger	V	V	_	0	root	_	_
3	une	un	DET	DET	_	4	det	_	_
4	pomme	pomme	NC	NC	g=f	2	obj	_	_

# a second sentence
1	Il	il	CLS	CLS	_	2	suj	_	_
2	dort	dormir	V	V	_	0	root	_	_
`

var labels = []nlp.DepRel{"suj", "obj", "det", nlp.RootLabel}

func TestParseRow(t *testing.T) {
	row := strings.Split("1	EFRWT	_	CDT	CDT	gen=F|num=P	2	num	_	_",
		string(FIELD_SEPARATOR))

	parsed, err := ParseRow(row)
	if err != nil {
		t.Error(err.Error())
	}

	if parsed.ID != 1 {
		t.Errorf("Expected ID 1, got %d", parsed.ID)
	}

	if parsed.Form != "EFRWT" {
		t.Errorf("Expected FORM value EFRWT, got %s", parsed.Form)
	}

	if parsed.CPosTag != "CDT" {
		t.Errorf("Expected CPOSTAG value CDT, got %s", parsed.CPosTag)
	}

	if len(parsed.Feats) != 2 {
		t.Errorf("Expected 2 Features, got %d", len(parsed.Feats))
	}

	if genFeature := parsed.Feats["gen"]; genFeature != "F" {
		t.Errorf("Expected F for gen, got %s", genFeature)
	}

	if parsed.Head != 2 {
		t.Errorf("Expected HEAD value 2, got %d", parsed.Head)
	}
}

func TestParseRowWithoutDependency(t *testing.T) {
	row := strings.Split("8	KF	_	TEMP	_	_	_	_	_	_",
		string(FIELD_SEPARATOR))

	parsed, err := ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, 0, parsed.Head)
	assert.Equal(t, "", parsed.DepRel)
	assert.Equal(t, "TEMP", parsed.PosTag, "POSTAG defaults to CPOSTAG")
}

func TestParseRowWithRepeatingParams(t *testing.T) {
	row := strings.Split("19	PRCWPNW	_	NN	NN_S_PP	gen=M|num=S|suf_gen=F|suf_gen=M|suf_num=P|suf_per=1	18	pobj",
		string(FIELD_SEPARATOR))

	parsed, err := ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, "F,M", parsed.Feats["suf_gen"])
}

func TestParseRowErrors(t *testing.T) {
	for _, line := range []string{
		"x	Jean	_	NPP	NPP	_	2	suj	_	_",
		"1	_	_	NPP	NPP	_	2	suj	_	_",
		"1	Jean	_	_	NPP	_	2	suj	_	_",
		"1	Jean	_	NPP	NPP	broken	2	suj	_	_",
		"1	Jean	_	NPP	NPP	_	two	suj	_	_",
		"1	Jean",
	} {
		_, err := ParseRow(strings.Split(line, string(FIELD_SEPARATOR)))
		assert.Error(t, err, line)
	}
}

func TestReadWrite(t *testing.T) {
	sents, err := Read(strings.NewReader(corpus))
	require.NoError(t, err)
	require.Len(t, sents, 2)
	assert.Len(t, sents[0], 4)
	assert.Len(t, sents[1], 2)
	assert.Equal(t, "manger", sents[0][1].Lemma)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sents))
	reread, err := Read(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(sents, reread); diff != "" {
		t.Errorf("write/read mismatch (-want +got):\n%s", diff)
	}

	_, err = Read(strings.NewReader("1	Jean	_	NPP	NPP	_	0	root	_	_\n3	dort	_	V	V	_	1	mod	_	_\n"))
	assert.Error(t, err, "IDs must be consecutive")
}

func TestOracle(t *testing.T) {
	sents, err := Read(strings.NewReader(corpus))
	require.NoError(t, err)

	conf, err := sents[0].Oracle(transition.NewArcEager(labels))
	require.NoError(t, err)
	assert.True(t, conf.IsTerminal())
	assert.Equal(t, 4, conf.NumberOfArcs())

	if diff := cmp.Diff(sents[0], FromConfiguration(conf), cmp.Comparer(func(a, b Features) bool { return true })); diff != "" {
		t.Errorf("oracle output mismatch (-want +got):\n%s", diff)
	}

	broken := Sentence{{ID: 1, Form: "Jean", CPosTag: "NPP", PosTag: "NPP", Head: 7, DepRel: "suj"}}
	_, err = broken.Oracle(transition.NewArcEager(labels))
	assert.Error(t, err)
}

func TestFromPartialConfiguration(t *testing.T) {
	seq, err := nlp.NewPosTagSequence([]string{"Il", "dort"}, []string{"CLS", "V"})
	require.NoError(t, err)
	conf := transition.NewConfiguration(seq)
	require.NoError(t, transition.Apply(conf, transition.Shift{}))
	require.NoError(t, transition.Apply(conf, transition.LeftArc{Relation: "suj"}))

	sent := FromConfiguration(conf)
	require.Len(t, sent, 2)
	assert.Equal(t, 2, sent[0].Head)
	assert.Equal(t, "suj", sent[0].DepRel)
	assert.Equal(t, 0, sent[1].Head)
	assert.Equal(t, "", sent[1].DepRel)
	assert.Equal(t, "2	dort	_	V	V	_	0	_	_	_", sent[1].String())
}
