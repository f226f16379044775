package worker

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
)

type failingMethod struct {
	fail bool
}

type rmqMock struct {
	config    rmqMockConfig
	calls     rmqMockCalls
	published *Response
}

type rmqMockConfig struct {
	publishResult       failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	publishResult       bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type taggerMock struct {
	config failingMethod
	calls  taggerMockCalls
}

type taggerMockCalls struct {
	tag bool
}

func (mock *rmqMock) close() {}

func (mock *rmqMock) publishResult(delivery *amqp.Delivery, response *Response) error {
	mock.calls.publishResult = true
	if mock.config.publishResult.fail {
		return errors.New("failed to publish result")
	}
	mock.published = response
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, workerLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *taggerMock) Tag(text string) ([]nlp.PosTagSequence, error) {
	mock.calls.tag = true
	if mock.config.fail {
		return nil, errors.New("failed to tag text")
	}
	seq, err := nlp.NewPosTagSequence([]string{"Il", "dort"}, []string{"CLS", "V"})
	if err != nil {
		return nil, err
	}
	return []nlp.PosTagSequence{seq}, nil
}
