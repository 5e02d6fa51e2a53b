package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stockflow/stockflow-api/internal/application/aggregator"
	"github.com/stockflow/stockflow-api/internal/application/alerts"
	"github.com/stockflow/stockflow-api/internal/application/auth"
	"github.com/stockflow/stockflow-api/internal/application/inventory"
	"github.com/stockflow/stockflow-api/internal/application/usecase"
	"github.com/stockflow/stockflow-api/internal/infrastructure/postgres"
	"github.com/stockflow/stockflow-api/internal/infrastructure/rabbitmq"
	"github.com/stockflow/stockflow-api/internal/infrastructure/rediscache"
	httpRouter "github.com/stockflow/stockflow-api/internal/interfaces/http"
	"github.com/stockflow/stockflow-api/pkg/config"
	"github.com/stockflow/stockflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockLevelRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	bundleRepo := postgres.NewBundleRepository(pool)
	summaryRepo := postgres.NewSalesSummaryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	applyUC := inventory.NewApplyTransactionUseCase(txRunner, productRepo, warehouseRepo)
	reserveUC := inventory.NewReservationUseCase(txRunner, productRepo, warehouseRepo)
	bundleUC := inventory.NewBundleUseCase(txRunner, productRepo, bundleRepo)
	effectiveUC := inventory.NewEffectiveStockUseCase(productRepo, stockRepo, bundleRepo)
	queryUC := inventory.NewStockQueryUseCase(stockRepo, ledgerRepo, productRepo, warehouseRepo, effectiveUC)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, warehouseRepo, applyUC)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Publicador de alertas: URL vacío lo desactiva.
	var notifier alerts.Notifier
	if cfg.AMQP.URL != "" {
		amqpNotifier, err := rabbitmq.NewNotifier(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	// Cache de snapshots de alertas: Addr vacío lo desactiva.
	var alertCache alerts.AlertCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		alertCache = rediscache.NewAlertCache(rdb)
	}

	alertUC := alerts.NewReorderAlertUseCase(
		companyRepo, productRepo, categoryRepo, warehouseRepo, supplierRepo, summaryRepo,
		effectiveUC, notifier, alertCache,
		alerts.Config{
			DefaultThreshold: decimal.NewFromInt(int64(cfg.Alert.DefaultThreshold)),
			LookbackDays:     cfg.Alert.LookbackDays,
			CriticalAt:       decimal.NewFromInt(int64(cfg.Alert.CriticalAt)),
			CacheTTL:         time.Duration(cfg.Alert.CacheTTLSeconds) * time.Second,
		},
		log.Zerolog(),
	)

	// Agregador de ventas como job periódico dentro del proceso.
	salesAggregator := aggregator.NewSalesAggregator(txRunner, cfg.Aggregator.BatchSize, log.Zerolog())
	go salesAggregator.Run(ctx, time.Duration(cfg.Aggregator.IntervalSeconds)*time.Second)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		ProductUC:   productUC,
		ApplyUC:     applyUC,
		ReserveUC:   reserveUC,
		QueryUC:     queryUC,
		BundleUC:    bundleUC,
		AlertUC:     alertUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
