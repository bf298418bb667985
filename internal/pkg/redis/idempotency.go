package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"marketplace/internal/service/settlement"
)

type IdempotencyConfig struct {
	KeyPrefix    string
	LockTTL      time.Duration
	ProcessedTTL time.Duration
	MaxRetries   int
	// RetryCooldown - время жизни счетчика неудач. После паузы событие снова
	// принимается в обработку.
	RetryCooldown time.Duration
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		KeyPrefix:    "settlement:",
		LockTTL:      30 * time.Second,
		ProcessedTTL: 24 * time.Hour,
		MaxRetries:   3,

		RetryCooldown: time.Minute,
	}
}

// IdempotencyGuard хранит три ключа на событие: короткую блокировку обработки,
// счетчик неудачных попыток и долгую отметку об успешной обработке.
type IdempotencyGuard struct {
	client goredis.UniversalClient
	cfg    IdempotencyConfig
}

func NewIdempotencyGuard(client goredis.UniversalClient, cfg IdempotencyConfig) *IdempotencyGuard {
	defaults := DefaultIdempotencyConfig()
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaults.KeyPrefix
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaults.LockTTL
	}
	if cfg.ProcessedTTL <= 0 {
		cfg.ProcessedTTL = defaults.ProcessedTTL
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryCooldown <= 0 {
		cfg.RetryCooldown = defaults.RetryCooldown
	}

	return &IdempotencyGuard{
		client: client,
		cfg:    cfg,
	}
}

func (g *IdempotencyGuard) Acquire(ctx context.Context, eventID string) error {
	processed, err := g.IsProcessed(ctx, eventID)
	if err != nil {
		return err
	}
	if processed {
		return settlement.ErrAlreadyProcessed
	}

	retries, err := g.retries(ctx, eventID)
	if err != nil {
		return err
	}
	if retries >= g.cfg.MaxRetries {
		return fmt.Errorf("%w: event %s, retries %d, cooldown %s", settlement.ErrRetriesExhausted, eventID, retries, g.cfg.RetryCooldown)
	}

	acquired, err := g.client.SetNX(ctx, g.lockKey(eventID), strconv.FormatInt(time.Now().UnixNano(), 10), g.cfg.LockTTL).Result()
	if err != nil {
		return fmt.Errorf("acquire processing lock: %w", err)
	}
	if !acquired {
		return settlement.ErrEventInProgress
	}

	return nil
}

func (g *IdempotencyGuard) MarkProcessed(ctx context.Context, eventID string) error {
	_, err := g.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, g.processedKey(eventID), "1", g.cfg.ProcessedTTL)
		pipe.Del(ctx, g.lockKey(eventID), g.retryKey(eventID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("set processed marker: %w", err)
	}
	return nil
}

// MarkFailed снимает блокировку и увеличивает счетчик неудач. Каждая неудача
// продлевает паузу на RetryCooldown.
func (g *IdempotencyGuard) MarkFailed(ctx context.Context, eventID string) error {
	_, err := g.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, g.retryKey(eventID))
		pipe.Expire(ctx, g.retryKey(eventID), g.cfg.RetryCooldown)
		pipe.Del(ctx, g.lockKey(eventID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("record failed attempt: %w", err)
	}
	return nil
}

// IsProcessed сообщает, сохранена ли отметка об успешной обработке события.
func (g *IdempotencyGuard) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.processedKey(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("check processed marker: %w", err)
	}
	return n > 0, nil
}

func (g *IdempotencyGuard) retries(ctx context.Context, eventID string) (int, error) {
	val, err := g.client.Get(ctx, g.retryKey(eventID)).Int()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("read retry counter: %w", err)
	}
	return val, nil
}

func (g *IdempotencyGuard) lockKey(eventID string) string {
	return g.cfg.KeyPrefix + "lock:" + eventID
}

func (g *IdempotencyGuard) retryKey(eventID string) string {
	return g.cfg.KeyPrefix + "retry:" + eventID
}

func (g *IdempotencyGuard) processedKey(eventID string) string {
	return g.cfg.KeyPrefix + "processed:" + eventID
}
