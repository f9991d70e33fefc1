package broker

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaConfig configures the Kafka producer. SASL/PLAIN over TLS is used when
// a username is set.
type KafkaConfig struct {
	Brokers      []string
	ClientID     string
	SASLUsername string
	SASLPassword string
	TLS          bool
	WriteTimeout time.Duration
}

// Kafka publishes to Kafka topics; the partition key becomes the message key,
// so all events of one entity land on one partition.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}

	transport := &kafka.Transport{ClientID: cfg.ClientID}
	if cfg.SASLUsername != "" {
		transport.SASL = plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword}
	}
	if cfg.TLS || cfg.SASLUsername != "" {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
		Transport:    transport,
	}
	return &Kafka{writer: w}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, payload []byte, partitionKey string) error {
	return k.writer.WriteMessages(ctx, buildMessage(topic, payload, partitionKey))
}

func buildMessage(topic string, payload []byte, key string) kafka.Message {
	msg := kafka.Message{Topic: topic, Value: payload}
	if key != "" {
		msg.Key = []byte(key)
	}
	return msg
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
