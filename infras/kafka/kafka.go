package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"shareit/config"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type kafkaClientImpl struct {
	writer *kafkaGo.Writer
}

// New returns a publisher for the configured brokers, or a client that drops
// every message when Kafka is disabled.
func New(config *config.Config) Client {
	if !config.Kafka.Enable || len(config.Kafka.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, events will not be published")

		return noopClient{}
	}

	transport := &kafkaGo.Transport{}
	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	writer := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              transport,
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafkaGo.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("Failed to deliver messages to Kafka.")
			}
		},
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		writer: writer,
	}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msg.Topic = topic
		msgs = append(msgs, msg)
	}

	err = k.writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("messages", len(msgs)).Msg("Queued messages for Kafka.")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}

	return nil
}

type noopClient struct{}

func (noopClient) SendMessages(_ context.Context, _ string, _ ...Message) error {
	return nil
}

func (noopClient) Close() error {
	return nil
}
