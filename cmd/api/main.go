package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/config"
	"github.com/sangkips/pdv-api/internal/infrastructure/database"
	"github.com/sangkips/pdv-api/internal/infrastructure/lock"
	"github.com/sangkips/pdv-api/internal/infrastructure/messaging"
	"github.com/sangkips/pdv-api/internal/presentation/http/handler"
	"github.com/sangkips/pdv-api/internal/presentation/http/middleware"
	"github.com/sangkips/pdv-api/internal/presentation/http/routes"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"github.com/sangkips/pdv-api/pkg/printer"
	"github.com/sangkips/pdv-api/pkg/tracing"
	"github.com/sangkips/pdv-api/pkg/utils"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{
		ServiceName: cfg.App.Name,
		Version:     version,
		Exporter:    cfg.Tracing.Exporter,
		Endpoint:    cfg.Tracing.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	m := metrics.New()

	// Initialize repositories
	repos, err := openStore(cfg, m)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}

	if err := repos.Tables.Provision(ctx, cfg.Tables.Count); err != nil {
		log.Fatalf("Failed to provision tables: %v", err)
	}

	if cfg.Catalog.SeedFile != "" {
		seed, err := database.LoadCatalogSeed(cfg.Catalog.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load catalog seed: %v", err)
		}
		if _, err := database.SeedCatalog(ctx, repos.Products, seed); err != nil {
			log.Printf("Warning: Failed to seed catalog: %v", err)
		}
	}

	// Settlement guard: shared across instances when redis is configured
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.URL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, "pdv:settle:")
	}

	var publisher messaging.SalePublisher = messaging.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaSalePublisher(cfg.Kafka.Brokers, cfg.Kafka.SalesTopic)
		log.Printf("Publishing settled sales to %s", cfg.Kafka.SalesTopic)
	}
	defer publisher.Close()

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Snapshots behind the table and catalog lists
	catalog := service.NewCatalogCache(repos.Products, cfg.Tables.CatalogRefreshInterval)
	tables := service.NewTableCache(repos.Tables, cfg.Tables.RefreshInterval)
	catalog.Start(ctx)
	tables.Start(ctx)
	defer catalog.Stop()
	defer tables.Stop()

	// Initialize services
	productService := service.NewProductService(repos.Products, catalog)
	tableService := service.NewTableService(repos.Tables, repos.Products, tables)
	settlementService := service.NewSettlementService(service.SettlementDeps{
		SaleRepo:    repos.Sales,
		TableRepo:   repos.Tables,
		ProductRepo: repos.Products,
		Locker:      locker,
		LockTTL:     cfg.Redis.SettlementLock,
		Publisher:   publisher,
		Metrics:     m,
		Tables:      tableService,
	})
	saleService := service.NewSaleService(repos.Sales, productService)
	reportService := service.NewReportService(repos.Sales, productService, cfg.Report.TopProducts)
	userService := service.NewUserService(repos.Users)
	authService := service.NewAuthService(repos.Users, jwtManager)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, repos.Sales, repos.Users, productService, cfg.Printer.StoreName)

	loc := location(cfg.Database.Timezone)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Product: handler.NewProductHandler(productService),
		Table:   handler.NewTableHandler(tableService, settlementService),
		Sale:    handler.NewSaleHandler(saleService, settlementService, loc),
		Report:  handler.NewReportHandler(reportService, loc),
		Printer: handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.Duration) * time.Second,
	})
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repos.Idempotency,
		Metrics:         m,
		RateLimiter:     rateLimiter,
	})

	go purgeIdempotencyKeys(ctx, repos)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           otelhttp.NewHandler(router, cfg.App.Name),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s, store: %s, tables: %d", cfg.App.Env, cfg.Store.Driver, cfg.Tables.Count)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Tracing shutdown: %v", err)
	}
}

func location(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using local time: %v", name, err)
		return time.Local
	}
	return loc
}

func purgeIdempotencyKeys(ctx context.Context, repos *repositories) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repos.Idempotency.DeleteExpired(ctx)
			if err != nil {
				log.Printf("Idempotency purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Purged %d expired idempotency keys", n)
			}
		}
	}
}
