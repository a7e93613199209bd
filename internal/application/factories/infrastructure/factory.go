package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	pgxpool "github.com/jackc/pgx/v5/pgxpool"
	go_redis "github.com/redis/go-redis/v9"

	"github.com/kolyapvp/products-app/internal/config"
	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
	"github.com/kolyapvp/products-app/internal/infrastructure/dynamodb"
	"github.com/kolyapvp/products-app/internal/infrastructure/httpinvoke"
	"github.com/kolyapvp/products-app/internal/infrastructure/kafka"
	"github.com/kolyapvp/products-app/internal/infrastructure/lambda"
	"github.com/kolyapvp/products-app/internal/infrastructure/memory"
	"github.com/kolyapvp/products-app/internal/infrastructure/postgres"
	"github.com/kolyapvp/products-app/internal/infrastructure/redis"
	"github.com/kolyapvp/products-app/internal/usecase"
	"github.com/kolyapvp/products-app/internal/worker"
)

// ErrNoSweepNeeded means a standalone sweeper has nothing to do: DynamoDB
// expires rows itself and the memory store is swept by its owning process.
var ErrNoSweepNeeded = errors.New("event store needs no standalone sweeper")

// Factory builds clients lazily from config and memoises them so every
// component of a process shares one pool per backend.
type Factory struct {
	cfg *config.Config

	pgPool        *pgxpool.Pool
	redisCli      *go_redis.Client
	awsCfg        *aws.Config
	ddb           *awsdynamodb.Client
	kafkaProducer *kafka.Producer

	memProducts *memory.ProductStore
	memEvents   *memory.EventStore
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		cfg: cfg,
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	var pool *pgxpool.Pool
	var err error

	for i := 0; i < 5; i++ {
		pool, err = postgres.NewClient(ctx, postgres.Config{
			Host:     f.cfg.Postgres.Host,
			Port:     f.cfg.Postgres.Port,
			User:     f.cfg.Postgres.User,
			Password: f.cfg.Postgres.Password,
			DBName:   f.cfg.Postgres.DBName,
		})
		if err == nil {
			break
		}
		slog.Warn("failed to connect to postgres, retrying", "attempt", i+1, "max", 5, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init postgres after retries: %w", err)
	}

	if f.cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	f.pgPool = pool
	return pool, nil
}

func (f *Factory) Redis(ctx context.Context) (*go_redis.Client, error) {
	if f.redisCli != nil {
		return f.redisCli, nil
	}

	client, err := redis.NewClient(ctx, redis.Config{
		Addr: f.cfg.Redis.Addr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

// ProductCache returns nil when Redis is disabled or unreachable; reads then
// go straight to the repository.
func (f *Factory) ProductCache(ctx context.Context) (*go_redis.Client, usecase.ProductCache) {
	if !f.cfg.Redis.Enabled {
		return nil, nil
	}
	client, err := f.Redis(ctx)
	if err != nil {
		slog.Warn("running without redis", "error", err)
		return nil, nil
	}
	return client, redis.NewProductCache(client, f.cfg.Redis.CacheTTL)
}

func (f *Factory) AWS(ctx context.Context) (aws.Config, error) {
	if f.awsCfg != nil {
		return *f.awsCfg, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(f.cfg.AWS.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	f.awsCfg = &cfg
	return cfg, nil
}

func (f *Factory) DynamoDB(ctx context.Context) (*awsdynamodb.Client, error) {
	if f.ddb != nil {
		return f.ddb, nil
	}

	awsCfg, err := f.AWS(ctx)
	if err != nil {
		return nil, err
	}

	f.ddb = dynamodb.NewClient(awsCfg, f.cfg.AWS.Endpoint)
	return f.ddb, nil
}

func (f *Factory) ProductRepository(ctx context.Context) (product.Repository, error) {
	switch f.cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := f.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewProductRepository(pool), nil
	case config.BackendDynamoDB:
		client, err := f.DynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		return dynamodb.NewProductStore(client, f.cfg.AWS.ProductsTable), nil
	default:
		if f.memProducts == nil {
			f.memProducts = memory.NewProductStore()
		}
		return f.memProducts, nil
	}
}

func (f *Factory) EventStore(ctx context.Context) (event.Store, error) {
	switch f.cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := f.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewEventRepository(pool), nil
	case config.BackendDynamoDB:
		client, err := f.DynamoDB(ctx)
		if err != nil {
			return nil, err
		}
		return dynamodb.NewEventStore(client, f.cfg.AWS.EventsTable), nil
	default:
		return f.memoryEvents(), nil
	}
}

// Purger backs the standalone sweeper process. Only Postgres needs one.
func (f *Factory) Purger(ctx context.Context) (worker.Purger, error) {
	switch f.cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := f.Postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewEventRepository(pool), nil
	default:
		return nil, ErrNoSweepNeeded
	}
}

// LocalSweeper expires the in-process memory event store. It is nil for
// every other backend.
func (f *Factory) LocalSweeper() *worker.Sweeper {
	if f.cfg.Store.Backend != config.BackendMemory {
		return nil
	}
	return worker.NewSweeper(f.memoryEvents(), f.cfg.Events.SweepInterval)
}

func (f *Factory) memoryEvents() *memory.EventStore {
	if f.memEvents == nil {
		f.memEvents = memory.NewEventStore()
	}
	return f.memEvents
}

func (f *Factory) Recorder(ctx context.Context) (*usecase.RecordProductEvent, error) {
	store, err := f.EventStore(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewRecordProductEvent(store, f.cfg.Events.TTL), nil
}

// Invoker returns the emitter's transport to the recorder. The direct
// transport records in-process against this factory's event store.
func (f *Factory) Invoker(ctx context.Context) (event.Invoker, error) {
	switch f.cfg.Events.Transport {
	case config.TransportHTTP:
		return httpinvoke.New(f.cfg.Events.RecorderURL, &http.Client{Timeout: f.cfg.Events.Timeout}), nil
	case config.TransportLambda:
		awsCfg, err := f.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return lambda.NewInvoker(lambda.NewClient(awsCfg, f.cfg.AWS.Endpoint), f.cfg.AWS.EventsFunctionName), nil
	case config.TransportKafka:
		return f.KafkaProducer(), nil
	default:
		recorder, err := f.Recorder(ctx)
		if err != nil {
			return nil, err
		}
		return recorder.Invoker(), nil
	}
}

func (f *Factory) KafkaProducer() *kafka.Producer {
	if f.kafkaProducer == nil {
		f.kafkaProducer = kafka.NewProducer(f.kafkaConfig(), f.cfg.App.Name)
	}
	return f.kafkaProducer
}

func (f *Factory) KafkaConsumer(recorder *usecase.RecordProductEvent) *kafka.Consumer {
	return kafka.NewConsumer(f.kafkaConfig(), recorder.Execute)
}

func (f *Factory) kafkaConfig() kafka.Config {
	return kafka.Config{
		Brokers: f.cfg.Kafka.Brokers,
		Topic:   f.cfg.Kafka.Topic,
		GroupID: f.cfg.Kafka.GroupID,
	}
}

// AdminProduct wires the full mutation-then-emit path.
func (f *Factory) AdminProduct(ctx context.Context, cache usecase.ProductCache) (*usecase.AdminProduct, error) {
	repo, err := f.ProductRepository(ctx)
	if err != nil {
		return nil, err
	}
	invoker, err := f.Invoker(ctx)
	if err != nil {
		return nil, err
	}
	return usecase.NewAdminProduct(
		usecase.NewMutateProduct(repo),
		usecase.NewEmitProductEvent(invoker, f.cfg.Events.Timeout),
		cache,
		slog.Default(),
	), nil
}

func (f *Factory) Close() {
	if f.kafkaProducer != nil {
		_ = f.kafkaProducer.Close()
	}
	if f.pgPool != nil {
		f.pgPool.Close()
	}
	if f.redisCli != nil {
		_ = f.redisCli.Close()
	}
}
