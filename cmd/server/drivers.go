package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/store"
	"github.com/murkotick/catalog-service/internal/pkg/broker"
	"github.com/murkotick/catalog-service/internal/pkg/committer"
	"github.com/murkotick/catalog-service/internal/pkg/config"
	"github.com/murkotick/catalog-service/internal/pkg/objectstore"
)

type stores struct {
	categories contracts.CategoryStore
	products   contracts.ProductStore
	toppings   contracts.ToppingStore
	orphans    contracts.OrphanLedger
	close      func()
}

func openStores(ctx context.Context, cfg config.StoreConfig) (*stores, error) {
	if cfg.Driver == config.StoreMemory {
		categories := store.NewMemoryCategoryStore()
		return &stores{
			categories: categories,
			products:   store.NewMemoryProductStore(categories),
			toppings:   store.NewMemoryToppingStore(),
			orphans:    store.NewMemoryOrphanLedger(),
			close:      func() {},
		}, nil
	}

	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		opts = append(opts,
			option.WithEndpoint(cfg.EmulatorHost),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}
	client, err := spanner.NewClient(ctx, cfg.Database, opts...)
	if err != nil {
		return nil, fmt.Errorf("spanner.NewClient: %w", err)
	}
	cm := committer.NewAdapter(client)
	return &stores{
		categories: store.NewSpannerCategoryStore(client, cm),
		products:   store.NewSpannerProductStore(client, cm),
		toppings:   store.NewSpannerToppingStore(client, cm),
		orphans:    store.NewSpannerOrphanLedger(client, cm),
		close:      client.Close,
	}, nil
}

type objectStorage struct {
	contracts.ObjectStorage
	closer io.Closer
}

func (s objectStorage) close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (objectStorage, error) {
	switch cfg.Driver {
	case config.StorageGCS:
		g, err := objectstore.NewGCS(ctx, objectstore.GCSConfig{
			Bucket:        cfg.Bucket,
			PublicBaseURL: cfg.PublicBaseURL,
			Endpoint:      cfg.Endpoint,
		})
		if err != nil {
			return objectStorage{}, err
		}
		return objectStorage{ObjectStorage: g, closer: g}, nil
	case config.StorageS3:
		s, err := objectstore.NewS3(ctx, objectstore.S3Config{
			Bucket:        cfg.Bucket,
			Region:        cfg.Region,
			AccessKey:     cfg.AccessKey,
			SecretKey:     cfg.SecretKey,
			PublicBaseURL: cfg.PublicBaseURL,
			Endpoint:      cfg.Endpoint,
		})
		if err != nil {
			return objectStorage{}, err
		}
		return objectStorage{ObjectStorage: s}, nil
	}
	prefix := cfg.PublicBaseURL
	if prefix == "" {
		prefix = "http://localhost/images"
	}
	return objectStorage{ObjectStorage: objectstore.NewMemory(prefix)}, nil
}

type publisher struct {
	contracts.EventPublisher
	closer io.Closer
}

func (p publisher) close() {
	_ = p.closer.Close()
}

func openBroker(ctx context.Context, cfg config.BrokerConfig, log *zap.Logger) (publisher, error) {
	switch cfg.Driver {
	case config.BrokerPubSub:
		ps, err := broker.NewPubSub(ctx, cfg.ProjectID)
		if err != nil {
			return publisher{}, err
		}
		return publisher{EventPublisher: ps, closer: ps}, nil
	case config.BrokerKafka:
		k, err := broker.NewKafka(broker.KafkaConfig{
			Brokers:      cfg.Brokers,
			ClientID:     cfg.ClientID,
			SASLUsername: cfg.SASLUsername,
			SASLPassword: cfg.SASLPassword,
			TLS:          cfg.TLS,
			WriteTimeout: cfg.WriteTimeout,
		})
		if err != nil {
			return publisher{}, err
		}
		return publisher{EventPublisher: k, closer: k}, nil
	}

	local := broker.NewLocal()
	for _, topic := range []string{cfg.ProductTopic, cfg.ToppingTopic} {
		err := local.Subscribe(topic, func(payload []byte, key string) {
			log.Debug("event published", zap.String("topic", topic), zap.String("key", key), zap.ByteString("payload", payload))
		})
		if err != nil {
			return publisher{}, err
		}
	}
	return publisher{EventPublisher: local, closer: local}, nil
}

func shutdown(log *zap.Logger, name string, timeout time.Duration, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
