// Package worker consumes parse requests from RabbitMQ and publishes the
// parsed sentences back.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/joliciel-informatique/talismane-sub002/nlp/parser/dependency/beam"
	"github.com/joliciel-informatique/talismane-sub002/nlp/tagger"
	nlp "github.com/joliciel-informatique/talismane-sub002/nlp/types"
	"github.com/joliciel-informatique/talismane-sub002/service/rmq"
	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

type Config struct {
	PoolSize int `envconfig:"PARSER_WORKER_POOL_SIZE" default:"4"`
}

type Worker struct {
	config Config
	rmq    rmqTransactions
	pool   *Pool
	tagger tagger.Tagger
	logger *zerolog.Logger
}

func New(parser *beam.Parser, tag tagger.Tagger) (*Worker, error) {
	workerLogger := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		workerLogger.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := Worker{
		config: config,
		pool:   NewPool(parser, config.PoolSize),
		tagger: tag,
		logger: &workerLogger,
	}
	if err := worker.refreshRMQClient(); err != nil {
		workerLogger.Error().Err(err).Msg("Could not create RMQ client")
		return nil, err
	}
	return &worker, nil
}

func (worker *Worker) StartWorker(ctx context.Context) error {
	defer worker.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-worker.rmq.getDeliveriesCh():
			if ok {
				go worker.processMessage(ctx, &delivery)
				continue
			}
			worker.logger.Error().Msg("Deliveries channel closed, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"rmq deliveries channel has been closed and refresh returned error: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getRespChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.logger.Err(rmqErr).Msg("Response connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"response connection received error and refresh failed with: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getReqChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.logger.Err(rmqErr).Msg("Request connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"request connection received error and refresh failed with: %w",
					err,
				)
			}
		}
	}
}

func (worker *Worker) Close() {
	if worker.rmq != nil {
		worker.rmq.close()
	}
}

func (worker *Worker) refreshRMQClient() error {
	worker.logger.Info().Msg("Refreshing RMQ client")
	if oldClient := worker.rmq; oldClient != nil {
		defer oldClient.close()
	}
	rmqClient, err := rmq.NewClient()
	if err != nil {
		worker.logger.Err(err).Msg("Failed to refresh RMQ client")
		return err
	}
	worker.rmq = &rmqClientWrapper{rmqClient}
	worker.logger.Info().Msg("Refreshed RMQ client")
	return nil
}

// processMessage parses the request of a delivery and publishes the
// response. Requests which cannot be read are rejected; sentences which
// fail to parse are reported in the response.
func (worker *Worker) processMessage(ctx context.Context, delivery *amqp.Delivery) {
	rejectLogger := worker.logger.With().Str("message_id", delivery.MessageId).Logger()
	request, jobs, err := worker.createJobs(delivery)
	if err != nil {
		worker.logger.Err(err).
			Str("message_id", delivery.MessageId).
			Msg("Failed to create jobs for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	requestLogger := worker.logger.With().Str("request_id", request.ID).Int("sentences", len(jobs)).Logger()

	outcomes, err := worker.pool.Parse(ctx, jobs)
	if err != nil {
		requestLogger.Err(err).Msg("Parsing interrupted")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	resp, err := response(request.ID, outcomes)
	if err != nil {
		requestLogger.Err(err).Msg("Failed to write response")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.publishResult(delivery, resp); err != nil {
		requestLogger.Err(err).Msg("Got error while publishing result")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		requestLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	requestLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createJobs(delivery *amqp.Delivery) (*Request, []Job, error) {
	var request Request
	if err := json.Unmarshal(delivery.Body, &request); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	jobs := make([]Job, 0, len(request.Sentences))
	for _, sent := range request.Sentences {
		job, err := sent.job()
		if err != nil {
			return nil, nil, err
		}
		jobs = append(jobs, job)
	}
	if request.Text != "" {
		if worker.tagger == nil {
			return nil, nil, errors.New("raw text request but no tagger configured")
		}
		seqs, err := worker.tagger.Tag(request.Text)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to tag text: %w", err)
		}
		for _, seq := range seqs {
			jobs = append(jobs, Job{Candidates: []nlp.PosTagSequence{seq}})
		}
	}
	if len(jobs) == 0 {
		return nil, nil, errors.New("request has nothing to parse")
	}
	return &request, jobs, nil
}
