package worker

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/joliciel-informatique/talismane-sub002/service/rmq"
)

type rmqTransactions interface {
	publishResult(delivery *amqp.Delivery, response *Response) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, workerLogger *zerolog.Logger)
	getDeliveriesCh() <-chan amqp.Delivery
	getReqChanErrorsCh() <-chan *amqp.Error
	getRespChanErrorsCh() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) getDeliveriesCh() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) getReqChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.ReqChanErrors
}

func (wrapper *rmqClientWrapper) getRespChanErrorsCh() <-chan *amqp.Error {
	return wrapper.rmqClient.RespChanErrors
}

func (wrapper *rmqClientWrapper) publishResult(delivery *amqp.Delivery, response *Response) error {
	b, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.SendResult(
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: delivery.CorrelationId,
			Body:          b,
		},
	)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, workerLogger *zerolog.Logger) {
	if delivery.Redelivered {
		workerLogger.Info().Msg("Rejecting delivery as it already has been redelivered")
		if err := delivery.Reject(false); err != nil {
			workerLogger.Err(err).Msg("Failed to reject delivery")
		}
		return
	}
	workerLogger.Info().Msg("Requeuing delivery as it has not been redelivered yet")
	if err := delivery.Reject(true); err != nil {
		workerLogger.Err(err).Msg("Failed to requeue delivery")
	}
}
