//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"marketplace/internal/entities"
	deliveries_bulk_post "marketplace/internal/handlers/rest/deliveries_bulk_post"
	deliveries_get "marketplace/internal/handlers/rest/deliveries_get"
	delivery_advance_post "marketplace/internal/handlers/rest/delivery_advance_post"
	delivery_claim_post "marketplace/internal/handlers/rest/delivery_claim_post"
	delivery_feedback_post "marketplace/internal/handlers/rest/delivery_feedback_post"
	delivery_get "marketplace/internal/handlers/rest/delivery_get"
	delivery_post "marketplace/internal/handlers/rest/delivery_post"
	delivery_proof_post "marketplace/internal/handlers/rest/delivery_proof_post"
	driver_earnings_get "marketplace/internal/handlers/rest/driver_earnings_get"
	driver_location_put "marketplace/internal/handlers/rest/driver_location_put"
	fee_quote_get "marketplace/internal/handlers/rest/fee_quote_get"
	feed_get "marketplace/internal/handlers/rest/feed_get"
	seller_analytics_get "marketplace/internal/handlers/rest/seller_analytics_get"
	wallet_get "marketplace/internal/handlers/rest/wallet_get"
	wallet_transactions_get "marketplace/internal/handlers/rest/wallet_transactions_get"
	wallet_withdraw_post "marketplace/internal/handlers/rest/wallet_withdraw_post"
	"marketplace/internal/handlers/tasks/outbox_cleanup"
	"marketplace/internal/handlers/tasks/outbox_relay"
	"marketplace/internal/pkg/config"
	"marketplace/internal/pkg/factory/distance"
	"marketplace/internal/pkg/factory/event_handle"
	"marketplace/internal/pkg/kafka"
	redisguard "marketplace/internal/pkg/redis"

	deliveryRepo "marketplace/internal/repository/delivery"
	outboxRepo "marketplace/internal/repository/outbox"
	walletRepo "marketplace/internal/repository/wallet"
	deliveryService "marketplace/internal/service/delivery"
	feeService "marketplace/internal/service/fee"
	feedService "marketplace/internal/service/feed"
	outboxService "marketplace/internal/service/outbox"
	settlementService "marketplace/internal/service/settlement"
	walletService "marketplace/internal/service/wallet"

	"marketplace/pkg/background"
	"marketplace/pkg/logger"
	"marketplace/pkg/pubsub"
	"marketplace/pkg/querier"
	"marketplace/pkg/tx"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

type Application struct {
	ServiceDelivery   ServiceDelivery
	ServiceWallet     ServiceWallet
	ServiceFee        ServiceFee
	ServiceFeed       ServiceFeed
	BackgroundWorkers *background.Worker
}

type ServiceDelivery interface {
	delivery_post.Service
	deliveries_bulk_post.Service
	deliveries_get.Service
	delivery_get.Service
	delivery_claim_post.Service
	delivery_advance_post.Service
	delivery_proof_post.Service
	delivery_feedback_post.Service
	driver_location_put.Service
	seller_analytics_get.Service
	driver_earnings_get.Service
}

type ServiceWallet interface {
	wallet_get.Service
	wallet_transactions_get.Service
	wallet_withdraw_post.Service
}

type ServiceFee interface {
	fee_quote_get.Service
}

// ServiceFeed принимает уведомления слушателя Postgres и раздает живые ленты.
type ServiceFeed interface {
	feed_get.Service
	Notify(n entities.ChangeNotification)
}

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, func(), error) {
	wire.Build(
		provideTxManager,
		provideQuerier,
		provideHub,

		provideDeliveryRepository,
		provideWalletRepository,
		provideOutboxRepository,

		feeService.New,
		provideDistanceEstimator,
		provideServiceDelivery,
		provideServiceWallet,
		provideServiceFeed,

		provideKafkaProducer,
		provideServiceOutbox,

		provideOutboxRelayTask,
		provideOutboxCleanupTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceDelivery), new(*deliveryService.Delivery)),
		wire.Bind(new(ServiceWallet), new(*walletService.Wallet)),
		wire.Bind(new(ServiceFee), new(*feeService.Calculator)),
		wire.Bind(new(ServiceFeed), new(*feedService.Service)),

		wire.Bind(new(deliveryService.Repository), new(*deliveryRepo.Repository)),
		wire.Bind(new(deliveryService.FeeCalculator), new(*feeService.Calculator)),
		wire.Bind(new(deliveryService.DistanceEstimator), new(*distance.Estimator)),
		wire.Bind(new(deliveryService.EventPublisher), new(*outboxRepo.Repository)),
		wire.Bind(new(walletService.Repository), new(*walletRepo.Repository)),
		wire.Bind(new(outboxService.Repository), new(*outboxRepo.Repository)),
		wire.Bind(new(outboxService.Producer), new(*kafka.Producer)),

		wire.Bind(new(deliveryService.TxManager), new(*tx.Manager)),
		wire.Bind(new(walletService.TxManager), new(*tx.Manager)),
		wire.Bind(new(outboxService.TxManager), new(*tx.Manager)),

		wire.Bind(new(feedService.DeliveryReader), new(*deliveryService.Delivery)),
		wire.Bind(new(feedService.WalletReader), new(*walletService.Wallet)),

		wire.Bind(new(outbox_relay.Service), new(*outboxService.Service)),
		wire.Bind(new(outbox_cleanup.Service), new(*outboxService.Service)),
	)
	return nil, nil, nil
}

type SettlementWorkerApp struct {
	SettlementService *settlementService.Service
}

// InitializeSettlementWorkerApp для Kafka воркера (cmd/worker-delivery-settlement)
func InitializeSettlementWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	redisClient *goredis.Client,
	cfg *config.Config,
) (*SettlementWorkerApp, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideDeliveryRepository,
		provideWalletRepository,
		provideOutboxRepository,

		feeService.New,
		provideDistanceEstimator,
		provideServiceDelivery,
		provideSettlementWallet,

		provideIdempotencyGuard,
		provideEventHandlerFactory,
		provideSettlementService,

		wire.Bind(new(deliveryService.Repository), new(*deliveryRepo.Repository)),
		wire.Bind(new(deliveryService.FeeCalculator), new(*feeService.Calculator)),
		wire.Bind(new(deliveryService.DistanceEstimator), new(*distance.Estimator)),
		wire.Bind(new(deliveryService.EventPublisher), new(*outboxRepo.Repository)),
		wire.Bind(new(walletService.Repository), new(*walletRepo.Repository)),

		wire.Bind(new(deliveryService.TxManager), new(*tx.Manager)),
		wire.Bind(new(walletService.TxManager), new(*tx.Manager)),

		wire.Bind(new(settlementService.DeliveryReader), new(*deliveryService.Delivery)),
		wire.Bind(new(settlementService.WalletService), new(*walletService.Wallet)),
		wire.Bind(new(settlementService.IdempotencyGuard), new(*redisguard.IdempotencyGuard)),
		wire.Bind(new(settlementService.HandlerFactory), new(*event_handle.EventHandlerFactory)),

		wire.Struct(new(SettlementWorkerApp), "*"),
	)
	return nil, nil
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideHub() feedService.Hub {
	return pubsub.NewHub[entities.ChangeNotification]()
}

func provideDeliveryRepository(querier *querier.Querier) *deliveryRepo.Repository {
	return deliveryRepo.New(querier)
}

func provideWalletRepository(querier *querier.Querier) *walletRepo.Repository {
	return walletRepo.New(querier)
}

func provideOutboxRepository(querier *querier.Querier) *outboxRepo.Repository {
	return outboxRepo.New(querier)
}

func provideDistanceEstimator(cfg *config.Config) *distance.Estimator {
	return distance.New(cfg.Delivery.DefaultDistanceKm)
}

func provideServiceDelivery(
	repository deliveryService.Repository,
	feeCalculator deliveryService.FeeCalculator,
	distanceEstimator deliveryService.DistanceEstimator,
	publisher deliveryService.EventPublisher,
	txManager deliveryService.TxManager,
	cfg *config.Config,
) *deliveryService.Delivery {
	return deliveryService.New(
		repository,
		feeCalculator,
		distanceEstimator,
		publisher,
		txManager,
		cfg.Delivery.OperationTimeout,
	)
}

// provideServiceWallet - кошелек HTTP сервиса. Дедупликация начислений
// остается на вызывающей стороне.
func provideServiceWallet(
	repository walletService.Repository,
	txManager walletService.TxManager,
	cfg *config.Config,
) *walletService.Wallet {
	return walletService.New(repository, txManager, walletService.WithOperationTimeout(cfg.Delivery.OperationTimeout))
}

// provideSettlementWallet - кошелек воркера: повторное начисление за ту же
// доставку отклоняется, поэтому повтор события из Kafka безопасен.
func provideSettlementWallet(
	repository walletService.Repository,
	txManager walletService.TxManager,
	cfg *config.Config,
) *walletService.Wallet {
	return walletService.New(repository, txManager,
		walletService.WithCreditDeduplication(),
		walletService.WithOperationTimeout(cfg.Delivery.OperationTimeout),
	)
}

func provideServiceFeed(
	log logger.Logger,
	hub feedService.Hub,
	deliveries feedService.DeliveryReader,
	wallets feedService.WalletReader,
) *feedService.Service {
	return feedService.New(log, hub, deliveries, wallets)
}

func provideKafkaProducer(ctx context.Context, log logger.Logger, cfg *config.Config) (*kafka.Producer, func(), error) {
	producer, err := kafka.NewProducer(ctx, log, &cfg.Kafka, cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := producer.Close(); err != nil {
			log.Error("failed to close kafka producer", logger.NewField("error", err))
		}
	}
	return producer, cleanup, nil
}

func provideServiceOutbox(
	repository outboxService.Repository,
	producer outboxService.Producer,
	txManager outboxService.TxManager,
	cfg *config.Config,
) (*outboxService.Service, error) {
	return outboxService.New(repository, producer, txManager, cfg.Tasks.OutboxBatchSize, cfg.Tasks.OutboxRetention)
}

func provideOutboxRelayTask(
	log logger.Logger,
	service outbox_relay.Service,
	cfg *config.Config,
) *outbox_relay.OutboxRelay {
	return outbox_relay.NewOutboxRelay(log, service, cfg.Tasks.OutboxRelayInterval)
}

func provideOutboxCleanupTask(
	log logger.Logger,
	service outbox_cleanup.Service,
	cfg *config.Config,
) *outbox_cleanup.OutboxCleanup {
	return outbox_cleanup.NewOutboxCleanup(log, service, cfg.Tasks.OutboxCleanupInterval)
}

func provideTaskList(
	relayTask *outbox_relay.OutboxRelay,
	cleanupTask *outbox_cleanup.OutboxCleanup,
) []background.Task {
	return []background.Task{
		relayTask,
		cleanupTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

func provideIdempotencyGuard(client *goredis.Client, cfg *config.Config) *redisguard.IdempotencyGuard {
	return redisguard.NewIdempotencyGuard(client, redisguard.IdempotencyConfig{
		KeyPrefix:    cfg.Redis.KeyPrefix,
		LockTTL:      cfg.Redis.LockTTL,
		ProcessedTTL: cfg.Redis.ProcessedTTL,
		MaxRetries:   cfg.Redis.MaxRetries,

		RetryCooldown: cfg.Redis.RetryCooldown,
	})
}

func provideEventHandlerFactory(
	deliveries settlementService.DeliveryReader,
	wallets settlementService.WalletService,
) *event_handle.EventHandlerFactory {
	return event_handle.NewEventHandlerFactory(deliveries, wallets)
}

func provideSettlementService(
	guard settlementService.IdempotencyGuard,
	factory settlementService.HandlerFactory,
) *settlementService.Service {
	return settlementService.New(guard, factory)
}
