package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOperationTimeout = 10 * time.Second
	defaultOutboxBatchSize  = 100
	defaultOutboxRetention  = 7 * 24 * time.Hour
	defaultSettleAttempts   = 5
)

type (
	Tasks struct {
		OutboxRelayInterval   time.Duration
		OutboxCleanupInterval time.Duration
		OutboxBatchSize       int
		OutboxRetention       time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware rate limiter capacity
		RateLimiterBurst int           // middleware rate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
		GRPCHealthPort   string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Delivery struct {
		OperationTimeout  time.Duration
		DefaultDistanceKm float64 // 0 - значение по умолчанию оценщика
	}

	Kafka struct {
		PortHealthcheck string
		Brokers         string
		Topic           string
		ConsumerGroup   string
		Sarama          Sarama
		Handlers        KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		DeliveryEvents DeliveryEvents
	}

	DeliveryEvents struct {
		ProcessTimeout time.Duration
		MaxAttempts    int
	}

	Redis struct {
		Addr         string
		Password     string
		DB           int
		KeyPrefix    string
		LockTTL      time.Duration
		ProcessedTTL time.Duration
		MaxRetries   int

		RetryCooldown time.Duration
	}

	Log struct {
		Level string
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Delivery Delivery
		Kafka    Kafka
		Redis    Redis
		Log      Log
	}
)

// BrokerList разбирает KAFKA_BROKERS, разделенные запятой.
func (k Kafka) BrokerList() []string {
	parts := strings.Split(k.Brokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadDatabase читает только настройки Postgres, для утилит вроде миграций.
func LoadDatabase() (*Database, error) {
	db := loadDatabase()
	if err := validateDatabase(db); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return &db, nil
}

func loadDatabase() Database {
	return Database{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

func loadFromEnv() (*Config, error) {
	relayInterval, err := osGetEnvDuration("BACKGROUND_OUTBOX_RELAY_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cleanupInterval, err := osGetEnvDuration("BACKGROUND_OUTBOX_CLEANUP_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	outboxBatchSize, err := osGetInt("OUTBOX_BATCH_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if outboxBatchSize == 0 {
		outboxBatchSize = defaultOutboxBatchSize
	}

	outboxRetention, err := osGetEnvDuration("OUTBOX_RETENTION")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if outboxRetention == 0 {
		outboxRetention = defaultOutboxRetention
	}

	operationTimeout, err := osGetEnvDuration("DELIVERY_OPERATION_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if operationTimeout == 0 {
		operationTimeout = defaultOperationTimeout
	}

	defaultDistanceKm, err := osGetFloat("DELIVERY_DEFAULT_DISTANCE_KM")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	deliveryEventsTimeout, err := osGetEnvDuration("KAFKA_HANDLER_DELIVERY_EVENTS_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	deliveryEventsAttempts, err := osGetInt("KAFKA_HANDLER_DELIVERY_EVENTS_MAX_ATTEMPTS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if deliveryEventsAttempts == 0 {
		deliveryEventsAttempts = defaultSettleAttempts
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisDB, err := osGetInt("REDIS_DB")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisLockTTL, err := osGetEnvDuration("REDIS_IDEMPOTENCY_LOCK_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisProcessedTTL, err := osGetEnvDuration("REDIS_IDEMPOTENCY_PROCESSED_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisMaxRetries, err := osGetInt("REDIS_IDEMPOTENCY_MAX_RETRIES")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisRetryCooldown, err := osGetEnvDuration("REDIS_IDEMPOTENCY_RETRY_COOLDOWN")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks: Tasks{
			OutboxRelayInterval:   relayInterval,
			OutboxCleanupInterval: cleanupInterval,
			OutboxBatchSize:       outboxBatchSize,
			OutboxRetention:       outboxRetention,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
			GRPCHealthPort:   os.Getenv("GRPC_HEALTH_PORT"),
		},
		Database: loadDatabase(),
		Delivery: Delivery{
			OperationTimeout:  operationTimeout,
			DefaultDistanceKm: defaultDistanceKm,
		},
		Kafka: Kafka{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			Topic:           os.Getenv("KAFKA_EVENTS_TOPIC"),
			ConsumerGroup:   os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck: os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				DeliveryEvents: DeliveryEvents{
					ProcessTimeout: deliveryEventsTimeout,
					MaxAttempts:    deliveryEventsAttempts,
				},
			},
		},
		Redis: Redis{
			Addr:         os.Getenv("REDIS_ADDR"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           redisDB,
			KeyPrefix:    os.Getenv("REDIS_IDEMPOTENCY_KEY_PREFIX"),
			LockTTL:      redisLockTTL,
			ProcessedTTL: redisProcessedTTL,
			MaxRetries:   redisMaxRetries,

			RetryCooldown: redisRetryCooldown,
		},
		Log: Log{
			Level: os.Getenv("LOG_LEVEL"),
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}
	if cfg.Server.GRPCHealthPort == "" {
		return errors.New("GRPC_HEALTH_PORT is required")
	}

	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}

	if cfg.Delivery.DefaultDistanceKm < 0 {
		return errors.New("DELIVERY_DEFAULT_DISTANCE_KM must not be negative")
	}

	if cfg.Tasks.OutboxRelayInterval == time.Duration(0) {
		return errors.New("BACKGROUND_OUTBOX_RELAY_INTERVAL is required")
	}
	if cfg.Tasks.OutboxCleanupInterval == time.Duration(0) {
		return errors.New("BACKGROUND_OUTBOX_CLEANUP_INTERVAL is required")
	}
	if cfg.Tasks.OutboxBatchSize < 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_EVENTS_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.DeliveryEvents.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_DELIVERY_EVENTS_PROCESS_TIMEOUT is required")
	}
	if cfg.Kafka.Handlers.DeliveryEvents.MaxAttempts < 0 {
		return errors.New("KAFKA_HANDLER_DELIVERY_EVENTS_MAX_ATTEMPTS must not be negative")
	}

	if cfg.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	if cfg.Redis.MaxRetries < 0 {
		return errors.New("REDIS_IDEMPOTENCY_MAX_RETRIES must not be negative")
	}

	return nil
}

func validateDatabase(db Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
