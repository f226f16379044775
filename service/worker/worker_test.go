package worker

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	taggedRequest = `{"id":"r1","sentences":[{"forms":["Jean","mange"],"tags":[["NPP","V"],["NC","V"]]}]}`
	textRequest   = `{"id":"r2","text":"Il dort."}`
)

type mockedClientsConfig struct {
	rmqMockConfig
	tagger failingMethod
}

type mockedClients struct {
	rmq    *rmqMock
	tagger *taggerMock
}

type methodsCalls struct {
	rmq    rmqMockCalls
	tagger taggerMockCalls
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	rmq := &rmqMock{config: config.rmqMockConfig}
	tag := &taggerMock{config: config.tagger}
	workerLogger := zerolog.Nop()
	return &Worker{
			config: Config{2},
			rmq:    rmq,
			pool:   NewPool(testParser(), 2),
			tagger: tag,
			logger: &workerLogger,
		}, &mockedClients{
			rmq:    rmq,
			tagger: tag,
		}
}

func testConfiguration(t *testing.T, body string, config mockedClientsConfig, expectedCalls methodsCalls) *Response {
	worker, mocks := configureWorker(config)
	worker.processMessage(context.Background(), &amqp.Delivery{
		Body: []byte(body),
	})
	calls := methodsCalls{
		rmq:    mocks.rmq.calls,
		tagger: mocks.tagger.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
	return mocks.rmq.published
}

func TestWorker(t *testing.T) {
	t.Run("Successful tagged sentences", testSuccessfulTagged)
	t.Run("Successful raw text", testSuccessfulText)
	t.Run("Malformed message", testMalformedMessage)
	t.Run("Empty request", testEmptyRequest)
	t.Run("Mismatched tags", testMismatchedTags)
	t.Run("Failed to tag text", testTaggerError)
	t.Run("Failed to publish result", testFailedPublish)
	t.Run("Failed to acknowledge delivery", testFailedAckDelivery)
}

func testSuccessfulTagged(t *testing.T) {
	resp := testConfiguration(
		t,
		taggedRequest,
		mockedClientsConfig{},
		methodsCalls{
			rmq: rmqMockCalls{publishResult: true, acknowledgeDelivery: true},
		},
	)
	require.NotNil(t, resp)
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, SENDER, resp.Sender)
	require.Len(t, resp.Sentences, 1)
	assert.Empty(t, resp.Sentences[0].Error)
	assert.True(t, strings.HasPrefix(resp.Conll, "1\tJean\t"))
}

func testSuccessfulText(t *testing.T) {
	resp := testConfiguration(
		t,
		textRequest,
		mockedClientsConfig{},
		methodsCalls{
			rmq:    rmqMockCalls{publishResult: true, acknowledgeDelivery: true},
			tagger: taggerMockCalls{tag: true},
		},
	)
	require.NotNil(t, resp)
	assert.Equal(t, "r2", resp.ID)
	assert.Contains(t, resp.Conll, "2\tdort\t")
}

func testMalformedMessage(t *testing.T) {
	testConfiguration(
		t,
		"{",
		mockedClientsConfig{},
		methodsCalls{
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testEmptyRequest(t *testing.T) {
	testConfiguration(
		t,
		`{"id":"r3"}`,
		mockedClientsConfig{},
		methodsCalls{
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testMismatchedTags(t *testing.T) {
	testConfiguration(
		t,
		`{"id":"r4","sentences":[{"forms":["Jean","mange"],"tags":[["NPP"]]}]}`,
		mockedClientsConfig{},
		methodsCalls{
			rmq: rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testTaggerError(t *testing.T) {
	testConfiguration(
		t,
		textRequest,
		mockedClientsConfig{tagger: failingMethod{true}},
		methodsCalls{
			rmq:    rmqMockCalls{rejectDelivery: true},
			tagger: taggerMockCalls{tag: true},
		},
	)
}

func testFailedPublish(t *testing.T) {
	testConfiguration(
		t,
		taggedRequest,
		mockedClientsConfig{rmqMockConfig: rmqMockConfig{publishResult: failingMethod{true}}},
		methodsCalls{
			rmq: rmqMockCalls{publishResult: true, rejectDelivery: true},
		},
	)
}

func testFailedAckDelivery(t *testing.T) {
	testConfiguration(
		t,
		taggedRequest,
		mockedClientsConfig{rmqMockConfig: rmqMockConfig{acknowledgeDelivery: failingMethod{true}}},
		methodsCalls{
			rmq: rmqMockCalls{publishResult: true, acknowledgeDelivery: true},
		},
	)
}
