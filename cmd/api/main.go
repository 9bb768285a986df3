package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/lockerbox-backend/api/controllers"
	"github.com/angelmondragon/lockerbox-backend/api/routes"
	"github.com/angelmondragon/lockerbox-backend/internal/auth"
	"github.com/angelmondragon/lockerbox-backend/internal/categories"
	"github.com/angelmondragon/lockerbox-backend/internal/cities"
	"github.com/angelmondragon/lockerbox-backend/internal/lockers"
	"github.com/angelmondragon/lockerbox-backend/internal/machines"
	"github.com/angelmondragon/lockerbox-backend/internal/matrix"
	"github.com/angelmondragon/lockerbox-backend/internal/orders"
	"github.com/angelmondragon/lockerbox-backend/internal/producers"
	"github.com/angelmondragon/lockerbox-backend/internal/products"
	"github.com/angelmondragon/lockerbox-backend/internal/qrcodes"
	"github.com/angelmondragon/lockerbox-backend/internal/statuses"
	"github.com/angelmondragon/lockerbox-backend/internal/uploads"
	"github.com/angelmondragon/lockerbox-backend/internal/users"
	"github.com/angelmondragon/lockerbox-backend/pkg/auth/session"
	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/db"
	"github.com/angelmondragon/lockerbox-backend/pkg/env"
	"github.com/angelmondragon/lockerbox-backend/pkg/instance"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
	"github.com/angelmondragon/lockerbox-backend/pkg/maps"
	"github.com/angelmondragon/lockerbox-backend/pkg/metrics"
	"github.com/angelmondragon/lockerbox-backend/pkg/migrate"
	"github.com/angelmondragon/lockerbox-backend/pkg/outbox"
	"github.com/angelmondragon/lockerbox-backend/pkg/redis"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage/gcs"
	"github.com/angelmondragon/lockerbox-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	blobStore, err := newBlobStore(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap blob store", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conn := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(conn), logg)
	userService := users.NewService(conn, cfg.Password)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(conn),
		Users:          userService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	machineParams := machines.ServiceParams{
		DB:      conn,
		QRCodes: qrcodes.NewGenerator(blobStore),
		Outbox:  outboxService,
		Logger:  logg,
	}
	if cfg.GoogleMaps.APIKey != "" {
		geocoder, err := maps.NewClient(cfg.GoogleMaps.APIKey,
			maps.WithLanguage(cfg.GoogleMaps.Language),
			maps.WithHTTPClient(&http.Client{Timeout: cfg.GoogleMaps.Timeout}),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to create geocoder", err)
			os.Exit(1)
		}
		machineParams.Geocoder = geocoder
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		DB:       conn,
		Repo:     orders.NewRepository(conn),
		Tx:       dbClient,
		Outbox:   outboxService,
		Metrics:  metrics.NewOrderMetrics(registry),
		Logger:   logg,
		Location: cfg.Orders.Location(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config: cfg,
		Logger: logg,
		Ready: map[string]controllers.Pinger{
			"db":      dbClient,
			"redis":   redisClient,
			"storage": blobStore,
		},
		Redis:    redisClient,
		Sessions: sessionManager,
		Metrics:  metrics.NewHTTPMetrics(registry),
		Gatherer: registry,

		Auth:       authService,
		Uploads:    uploads.NewService(blobStore),
		Cities:     cities.NewService(conn),
		Producers:  producers.NewService(conn),
		Products:   products.NewService(conn),
		Categories: categories.NewService(conn),
		Statuses:   statuses.NewService(conn),
		Matrix:     matrix.NewService(conn),
		Users:      userService,
		Lockers:    lockers.NewService(conn),
		Machines:   machines.NewService(machineParams),
		Orders:     orderService,
	})

	addr := ":" + env.Get(cfg.App.Port, "PORT")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func newBlobStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.BlobStore, error) {
	if cfg.Storage.IsGCS() {
		client, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	store, err := local.New(cfg.Storage.LocalDir)
	if err != nil {
		return nil, err
	}
	return store, nil
}
