package kafka

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/IBM/sarama"
	"marketplace/internal/pkg/config"
	"marketplace/pkg/logger"
	retrierconfig "marketplace/pkg/retrier"
	"marketplace/pkg/retrier/backoff_adapter"
)

const (
	connectInitialInterval = 1 * time.Second
	connectMaxInterval     = 30 * time.Second
	connectMaxElapsedTime  = 2 * time.Minute
	connectRandomization   = 0.5
	connectMultiplier      = 2
)

var ErrTopicMissing = errors.New("kafka topic does not exist")

// Consumer читает события доставок в составе consumer group.
type Consumer struct {
	log     logger.Logger
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
}

func NewSaramaConfig(
	versionStr string,
	autoCommit bool,
	initialOffset int64,
	rebalanceStrategy sarama.BalanceStrategy,
) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	version, err := sarama.ParseKafkaVersion(versionStr)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", versionStr, err)
	}
	cfg.Version = version

	cfg.Consumer.Offsets.Initial = initialOffset
	cfg.Consumer.Offsets.AutoCommit.Enable = autoCommit
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{rebalanceStrategy}
	cfg.Consumer.Return.Errors = true

	return cfg, nil
}

// NewConsumer дожидается, пока брокер станет доступен и все топики
// будут созданы, и только потом входит в группу.
func NewConsumer(ctx context.Context, log logger.Logger, cfg *config.Kafka, brokers []string, groupID string, topics []string, handler sarama.ConsumerGroupHandler) (*Consumer, error) {
	saramaConfig, err := NewSaramaConfig(
		cfg.Sarama.Version,
		cfg.Sarama.ConsumerOffsetsAutocommit,
		sarama.OffsetOldest,
		sarama.NewBalanceStrategySticky(),
	)
	if err != nil {
		return nil, fmt.Errorf("build saramaConfig: %w", err)
	}

	kafkaLog := log.With(
		logger.NewField("brokers", brokers),
		logger.NewField("group", groupID),
		logger.NewField("topics", topics),
	)

	if err := pingKafka(ctx, kafkaLog, brokers, saramaConfig, topics); err != nil {
		return nil, fmt.Errorf("kafka connection: %w", err)
	}

	group, err := sarama.NewConsumerGroup(brokers, groupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		log:     kafkaLog,
		group:   group,
		topics:  topics,
		handler: handler,
	}, nil
}

// Start блокирует до отмены ctx или закрытия группы. Consume
// возвращается после каждой ребалансировки, поэтому он крутится в цикле.
func (c *Consumer) Start(ctx context.Context) error {
	go c.logGroupErrors()

	for {
		err := c.group.Consume(ctx, c.topics, c.handler)
		switch {
		case errors.Is(err, sarama.ErrClosedConsumerGroup):
			return err
		case err != nil:
			c.log.With(
				logger.NewField("error", err),
			).Error("consume session failed")
			return fmt.Errorf("consumer error: %w", err)
		}

		if ctx.Err() != nil {
			c.log.Warn("context cancelled, stopping consumer")
			return ctx.Err()
		}

		c.log.Debug("consumer group rebalanced, rejoining")
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

// logGroupErrors вычитывает асинхронные ошибки группы (коммиты оффсетов,
// heartbeat). Канал закрывается вместе с группой.
func (c *Consumer) logGroupErrors() {
	for err := range c.group.Errors() {
		c.log.With(
			logger.NewField("error", err),
		).Warn("consumer group error")
	}
}

// missingTopics возвращает ожидаемые топики, которых нет среди существующих.
func missingTopics(existing, expected []string) []string {
	var missing []string
	for _, topic := range expected {
		if !slices.Contains(existing, topic) {
			missing = append(missing, topic)
		}
	}
	return missing
}

func pingKafka(ctx context.Context, log logger.Logger, brokers []string, cfg *sarama.Config, topics []string) error {
	retrier := backoff_adapter.New(retrierconfig.Config{
		InitialInterval: connectInitialInterval,
		MaxInterval:     connectMaxInterval,
		MaxElapsedTime:  connectMaxElapsedTime,
		Randomization:   connectRandomization,
		Multiplier:      connectMultiplier,
	})

	var attempt uint64
	err := retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++

		client, err := sarama.NewClient(brokers, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close Kafka connection",
					logger.NewField("error", err),
				)
			}
		}()

		existing, err := client.Topics()
		if err != nil {
			return err
		}

		if missing := missingTopics(existing, topics); len(missing) > 0 {
			log.With(
				logger.NewField("attempt", attempt),
				logger.NewField("missing", missing),
			).Info("waiting for Kafka topics")
			return fmt.Errorf("%w: %v", ErrTopicMissing, missing)
		}
		return nil
	})
	if err != nil {
		log.With(
			logger.NewField("error", err),
			logger.NewField("attempts", attempt),
		).Error("Kafka connection failed after retries")
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}

	log.With(
		logger.NewField("attempts", attempt),
	).Info("Kafka connection established")
	return nil
}
