package auditlogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const flushTimeoutMs = 5000

type KafkaConfig struct {
	Host  string `mapstructure:"host"`
	Port  string `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

func DecodeKafkaConfig(settings map[string]interface{}) (KafkaConfig, error) {
	var conf KafkaConfig
	if err := mapstructure.Decode(settings, &conf); err != nil {
		return conf, fmt.Errorf("invalid kafka config: %w", err)
	}
	if conf.Host == "" {
		return conf, errors.New("kafka host is required")
	}
	if conf.Port == "" {
		return conf, errors.New("kafka port is required")
	}
	if conf.Topic == "" {
		return conf, errors.New("kafka topic is required")
	}
	return conf, nil
}

// Producer is the subset of *kafka.Producer the sink uses.
//
type Producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

type KafkaSink struct {
	topic    string
	producer Producer
}

func NewKafkaSink(conf KafkaConfig) (*KafkaSink, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": fmt.Sprintf("%s:%s", conf.Host, conf.Port),
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaSinkWithProducer(producer, conf.Topic), nil
}

func NewKafkaSinkWithProducer(producer Producer, topic string) *KafkaSink {
	return &KafkaSink{topic: topic, producer: producer}
}

// Emit publishes the record keyed by actor, so one actor's records stay ordered, and waits
// for the delivery report.
func (s *KafkaSink) Emit(ctx context.Context, record moderation.AuditRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	delivery := make(chan kafka.Event, 1)
	err = s.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &s.topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.ActorID),
		Value:          data,
		Headers: []kafka.Header{
			{Key: "outcome", Value: []byte(record.Outcome)},
			{Key: "action", Value: []byte(record.Decision.Action)},
		},
	}, delivery)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case e := <-delivery:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event %T", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
		return nil
	}
}

func (s *KafkaSink) Close() {
	s.producer.Flush(flushTimeoutMs)
	s.producer.Close()
}
