package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/crepeskaffee/pos/internal/cashier"
	"github.com/crepeskaffee/pos/internal/catalog"
	"github.com/crepeskaffee/pos/internal/mongo"
	"github.com/crepeskaffee/pos/internal/orders"
	"github.com/crepeskaffee/pos/internal/payments"
	"github.com/crepeskaffee/pos/internal/seeds"
	"github.com/crepeskaffee/pos/internal/sweep"
	"github.com/crepeskaffee/pos/internal/tables"
	"github.com/crepeskaffee/pos/pkg"
)

const (
	appNamespace = "POS"
	appName      = "pos"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	productRepo := mongo.NewProductRepo(db)
	tableRepo := mongo.NewTableRepo(db)
	orderRepo := mongo.NewOrderRepo(db)
	sessionRepo := mongo.NewSessionRepo(db)
	saleRepo := mongo.NewSaleRepo(db)

	if err := tableRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("%s(%s) cannot create table indexes: %v", appName, appVersion, err)
	}

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	registry := tables.NewRegistry(tableRepo, pub, logger)
	lifecycle := orders.NewLifecycle(orders.LifecycleDeps{
		OrderRepo: orderRepo,
		Products:  productRepo,
		Registry:  registry,
		Publisher: pub,
	}, logger)
	ledger := cashier.NewLedger(sessionRepo, saleRepo, pub, logger)
	processor := payments.NewProcessor(orderRepo, ledger, registry, pub, logger)

	tableStateCache := tables.NewStateCache(tableRepo, logger)
	tableStatusSub := tables.NewStatusSubscriber(sub, tableStateCache, logger)

	sweepInterval := sweep.DefaultInterval
	if raw := config.GetStringOrDef("sweep.interval", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("%s(%s) invalid sweep.interval %q: %v", appName, appVersion, raw, err)
		}
		sweepInterval = parsed
	}
	sweeper := sweep.NewSweeper(sweepInterval, lifecycle, registry, ledger, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	sweeperLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			sweeper.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			sweeper.Stop()
			return nil
		},
	}

	catalogHandler := catalog.NewHandler(productRepo, config, logger)
	tablesHandler := tables.NewHandler(tables.HandlerDeps{
		Registry:     registry,
		TableRepo:    tableRepo,
		Cache:        tableStateCache,
		ActiveOrders: lifecycle,
	}, config, logger)
	ordersHandler := orders.NewHandler(lifecycle, orderRepo, config, logger)
	cashierHandler := cashier.NewHandler(ledger, sessionRepo, saleRepo, config, logger)
	paymentsHandler := payments.NewHandler(processor, config, logger)

	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		seedHooks = apt.LifecycleHooks{
			OnStart: func(ctx context.Context) error {
				if err := catalog.ApplySeeds(ctx, productRepo, db, seeds.FS, logger); err != nil {
					return err
				}
				return tables.ApplySeeds(ctx, tableRepo, db, seeds.FS, logger)
			},
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		tableStatusSub,
		publisherLifecycle,
		subLifecycle,
		sweeperLifecycle,
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port",
			catalogHandler,
			tablesHandler,
			ordersHandler,
			cashierHandler,
			paymentsHandler,
		),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
