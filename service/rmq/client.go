package rmq

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/joliciel-informatique/talismane-sub002/util/logger"
)

type Config struct {
	Host                    string `envconfig:"PARSER_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"PARSER_RMQ_PORT" default:"5672"`
	Username                string `envconfig:"PARSER_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"PARSER_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"PARSER_RMQ_EXCHANGE" default:"parser-exchange"`
	MaxParallelRequestCount int    `envconfig:"PARSER_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	RequestQueue            string `envconfig:"PARSER_RMQ_REQUEST_QUEUE" required:"true"`
	ResultQueue             string `envconfig:"PARSER_RMQ_RESULT_QUEUE" required:"true"`
}

// Client consumes parse requests on one connection and publishes results
// on another.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	rmqLogger      *zerolog.Logger
}

func ReadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	config, err := ReadConfig()
	if err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	url := URL(*config)
	respConn, respChannel, err := setup(url)
	if err != nil {
		return nil, fmt.Errorf("failed connection: %w", err)
	}
	reqConn, reqChannel, err := setup(url)
	if err != nil {
		respConn.Close()
		return nil, fmt.Errorf("failed connection: %w", err)
	}

	q, err := reqChannel.QueueDeclare(
		config.RequestQueue, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return nil, err
	}
	if err := reqChannel.QueueBind(
		config.RequestQueue,
		config.RequestQueue,
		config.Exchange,
		false,
		nil); err != nil {
		return nil, err
	}
	if err := reqChannel.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}

	deliveries, err := reqChannel.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	reqChanErrors := reqChannel.NotifyClose(make(chan *amqp.Error))
	respChanErrors := respChannel.NotifyClose(make(chan *amqp.Error))

	rmqLogger.Info().Str("queue", q.Name).Msg("Consuming parse requests")
	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChanErrors,
		RespChanErrors: respChanErrors,
		config:         *config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		rmqLogger:      &rmqLogger,
	}, nil
}

func (c *Client) SendResult(msg amqp.Publishing) error {
	return c.respChannel.Publish(
		c.config.Exchange,
		c.config.ResultQueue,
		false,
		false,
		msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
}

func URL(config Config) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", config.Username, config.Password, config.Host, config.Port)
}

func setup(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
