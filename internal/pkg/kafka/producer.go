package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"marketplace/internal/pkg/config"
	"marketplace/pkg/logger"
)

const producerMaxRetries = 5

type Message struct {
	Key   string
	Value []byte
}

// Producer синхронно отправляет сообщения в один топик.
type Producer struct {
	log      logger.Logger
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka, brokers []string, topic string) (*Producer, error) {
	saramaConfig, err := NewSaramaConfig(
		cfg.Sarama.Version,
		cfg.Sarama.ConsumerOffsetsAutocommit,
		sarama.OffsetOldest,
		sarama.NewBalanceStrategyRoundRobin(),
	)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = producerMaxRetries
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("topic", topic),
	)

	err = pingKafka(ctx, kafkaLog, brokers, saramaConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync producer: %w", err)
	}

	return NewProducerWithClient(kafkaLog, producer, topic), nil
}

func NewProducerWithClient(log logger.Logger, producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{
		log:      log,
		producer: producer,
		topic:    topic,
	}
}

// SendMessages отправляет пачку целиком. Ключ задает партицию, поэтому
// события одной доставки приходят по порядку.
func (p *Producer) SendMessages(ctx context.Context, messages []Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]*sarama.ProducerMessage, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(m.Key),
			Value: sarama.ByteEncoder(m.Value),
		})
	}

	err := p.producer.SendMessages(batch)
	if err != nil {
		var producerErrs sarama.ProducerErrors
		if errors.As(err, &producerErrs) {
			return fmt.Errorf("send %d of %d messages failed: %w", len(producerErrs), len(batch), err)
		}
		return fmt.Errorf("send messages: %w", err)
	}

	p.log.Info("messages sent", logger.NewField("count", len(batch)))
	return nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
