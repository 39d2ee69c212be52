package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/config"
	domainRepo "github.com/sangkips/pdv-api/internal/domain/repository"
	"github.com/sangkips/pdv-api/internal/presentation/http/handler"
	"github.com/sangkips/pdv-api/internal/presentation/http/middleware"
	"github.com/sangkips/pdv-api/pkg/metrics"
	"github.com/sangkips/pdv-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Table   *handler.TableHandler
	Sale    *handler.SaleHandler
	Report  *handler.ReportHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	// RateLimiter is created from Cfg.RateLimit when nil
	RateLimiter *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Requests:        deps.Cfg.RateLimit.Requests,
			Window:          time.Duration(deps.Cfg.RateLimit.Duration) * time.Second,
			CleanupInterval: 5 * time.Minute,
			EntryTTL:        10 * time.Minute,
		})
	}

	// Any device on the floor may use the API; a session token only names
	// the staff member recorded on sales.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.OptionalAuthMiddleware(deps.JWTManager))
	v1.Use(rateLimiter.Middleware())
	{
		registerSessionRoutes(v1, h, deps)
		registerCatalogRoutes(v1, h)
		registerTableRoutes(v1, h)
		registerSaleRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerSessionRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.POST("/session", h.Auth.Login)
	rg.GET("/session", middleware.AuthMiddleware(deps.JWTManager), h.Auth.Me)

	users := rg.Group("/users")
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Save)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", h.Product.Create)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerTableRoutes(rg *gin.RouterGroup, h *Handlers) {
	tables := rg.Group("/tables")
	{
		tables.GET("", h.Table.List)
		tables.GET("/:id", h.Table.Get)
		tables.POST("/:id/items", h.Table.AddItem)
		tables.DELETE("/:id/items/:product_id", h.Table.RemoveItem)
		tables.POST("/:id/settle", h.Table.Settle)
		tables.POST("/:id/clear", h.Table.Clear)
		tables.PUT("/:id/order", h.Table.SaveOrder)
	}
}

func registerSaleRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.POST("/direct-sales",
		middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}),
		h.Sale.CreateDirect,
	)

	sales := rg.Group("/sales")
	{
		sales.GET("", h.Sale.List)
		sales.GET("/export", h.Sale.Export)
		sales.GET("/:id", h.Sale.Get)
		sales.POST("/:id/receipt", h.Printer.PrintReceipt)
	}

	rg.GET("/reports/summary", h.Report.Summary)
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
	}
}
