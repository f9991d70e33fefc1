package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/get_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/list_toppings"
	"github.com/murkotick/catalog-service/internal/app/catalog/queries/search_products"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/create_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/delete_topping"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/manage_categories"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/shared"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/sweep_orphans"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/murkotick/catalog-service/internal/app/catalog/usecases/update_topping"
	"github.com/murkotick/catalog-service/internal/pkg/clock"
	"github.com/murkotick/catalog-service/internal/pkg/config"
	"github.com/murkotick/catalog-service/internal/pkg/logger"
	"github.com/murkotick/catalog-service/internal/pkg/telemetry"
	"github.com/murkotick/catalog-service/internal/transport/http/auth"
	httpcatalog "github.com/murkotick/catalog-service/internal/transport/http/catalog"
	"github.com/murkotick/catalog-service/internal/transport/http/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	// Handle SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.New(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer shutdown(log, "telemetry", cfg.HTTP.ShutdownTimeout, tel.Shutdown)

	stores, err := openStores(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer stores.close()

	storage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer storage.close()

	publisher, err := openBroker(ctx, cfg.Broker, log)
	if err != nil {
		return err
	}
	defer publisher.close()

	clk := clock.RealClock{}
	meter := tel.MeterProvider.Meter("catalog-service")
	after := shared.NewBestEffort(storage, publisher, stores.orphans, clk, log, meter)
	topics := shared.Topics{Product: cfg.Broker.ProductTopic, Topping: cfg.Broker.ToppingTopic}

	// CQRS wiring
	cmds := httpcatalog.Commands{
		CreateProduct: create_product.NewInteractor(stores.products, storage, after, clk, topics.Product),
		UpdateProduct: update_product.NewInteractor(stores.products, storage, after, clk, topics.Product),
		DeleteProduct: delete_product.NewInteractor(stores.products, after, topics.Product),
		CreateTopping: create_topping.NewInteractor(stores.toppings, storage, after, clk, topics.Topping),
		UpdateTopping: update_topping.NewInteractor(stores.toppings, storage, after, clk, topics.Topping),
		DeleteTopping: delete_topping.NewInteractor(stores.toppings, after, topics.Topping),
		Categories:    manage_categories.NewService(stores.categories, clk),
	}
	qrys := httpcatalog.Queries{
		SearchProducts: search_products.NewHandler(stores.products, storage),
		GetProduct:     get_product.NewHandler(stores.products, storage),
		GetTopping:     get_topping.NewHandler(stores.toppings),
		ListToppings:   list_toppings.NewHandler(stores.toppings),
	}
	h := httpcatalog.NewHandler(cmds, qrys, log)
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)

	httpSrv := server.New(cfg.HTTP, func(r chi.Router) { h.Routes(r, verifier) }, tel.MetricsHandler(), tel.MeterProvider, log)

	// gRPC health server
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	lis, err := net.Listen("tcp", cfg.GRPC.HealthAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.HealthAddr, err)
	}

	referrers := []contracts.ImageReferrer{stores.products, stores.toppings}
	sweep := sweep_orphans.NewInteractor(stores.orphans, storage, referrers, clk, log, cfg.Sweeper.BatchSize)
	sweeper, err := newSweeper(cfg.Sweeper, sweep, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	g.Go(func() error {
		log.Info("gRPC health server listening", zap.String("addr", cfg.GRPC.HealthAddr))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		healthSrv.Shutdown()
		if sweeper != nil {
			<-sweeper.Stop().Done()
		}

		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(sctx)
		grpcSrv.GracefulStop()
		return err
	})

	if sweeper != nil {
		sweeper.Start()
	}
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	err = g.Wait()
	log.Info("server stopped")
	return err
}

// newSweeper schedules the orphan sweep. It returns nil when disabled.
func newSweeper(cfg config.SweeperConfig, sweep *sweep_orphans.Interactor, log *zap.Logger) (*cron.Cron, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(cfg.Spec, func() {
		res, err := sweep.Execute(context.Background())
		if err != nil {
			log.Warn("orphan sweep failed", zap.Error(err))
			return
		}
		if res.Failed > 0 {
			log.Warn("orphan sweep left entries for retry", zap.Int("failed", res.Failed))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("sweeper spec %q: %w", cfg.Spec, err)
	}
	return c, nil
}
