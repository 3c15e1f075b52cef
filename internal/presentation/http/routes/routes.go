package routes

import (
	"time"

	"github.com/dukahub/dukapos-api/internal/config"
	"github.com/dukahub/dukapos-api/internal/domain/entity"
	domainRepo "github.com/dukahub/dukapos-api/internal/domain/repository"
	"github.com/dukahub/dukapos-api/internal/presentation/http/handler"
	"github.com/dukahub/dukapos-api/internal/presentation/http/middleware"
	"github.com/dukahub/dukapos-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Location    *handler.LocationHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Transaction *handler.TransactionHandler
	Customer    *handler.CustomerHandler
	Supplier    *handler.SupplierHandler
	Dashboard   *handler.DashboardHandler
	User        *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	LocationRepo    domainRepo.LocationRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		registerProtectedRoutes(protected, h)

		// Location-scoped routes carry the store context resolved from the
		// X-Location-ID header or the access token
		scoped := protected.Group("")
		scoped.Use(middleware.LocationMiddleware(deps.LocationRepo))

		// Per-location rate limiter
		rateLimiter := middleware.NewLocationRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		scoped.Use(rateLimiter.Middleware())

		registerScopedRoutes(scoped, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

// registerProtectedRoutes registers routes that need a user but no store
// location: profile, staff and location administration.
func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.POST("/auth/register", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Locations (Admin)
	locations := protected.Group("/locations")
	locations.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		locations.GET("", h.Location.List)
		locations.POST("", h.Location.Create)
		locations.GET("/:id", h.Location.Get)
		locations.PUT("/:id", h.Location.Update)
		locations.DELETE("/:id", h.Location.Delete)
	}

	// Users (Admin)
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerScopedRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Dashboard
	scoped.GET("/dashboard", h.Dashboard.GetStats)
	scoped.GET("/dashboard/hourly", h.Dashboard.GetHourlySales)

	// Products
	registerProductRoutes(scoped, h)

	// Categories
	registerCategoryRoutes(scoped, h)

	// Transactions
	registerTransactionRoutes(scoped, h, deps)

	// Customers
	registerCustomerRoutes(scoped, h)

	// Suppliers
	registerSupplierRoutes(scoped, h)
}

func registerProductRoutes(scoped *gin.RouterGroup, h *Handlers) {
	products := scoped.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/barcode/:code", h.Product.GetByBarcode)
		products.GET("/:slug", h.Product.Get)

		// Catalog mutations need manager rights
		manage := products.Group("")
		manage.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
		{
			manage.POST("", h.Product.Create)
			manage.PUT("/:slug", h.Product.Update)
			manage.DELETE("/:slug", h.Product.Delete)
		}
	}

	// Stock operations address products by ID
	inventory := scoped.Group("/inventory")
	inventory.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		inventory.POST("/:id/restock", h.Product.Restock)
		inventory.POST("/:id/adjust", h.Product.AdjustStock)
		inventory.GET("/:id/movements", h.Product.GetStockMovements)
	}
}

func registerCategoryRoutes(scoped *gin.RouterGroup, h *Handlers) {
	categories := scoped.Group("/categories")
	{
		categories.GET("", h.Category.List)

		manage := categories.Group("")
		manage.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
		{
			manage.POST("", h.Category.Create)
			manage.PUT("/:id", h.Category.Update)
			manage.DELETE("/:id", h.Category.Delete)
		}
	}
}

func registerTransactionRoutes(scoped *gin.RouterGroup, h *Handlers, deps *Deps) {
	transactions := scoped.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		// Sale submission carries optional idempotency on top of the
		// client_tx_id replay check so retried syncs never double-record
		transactions.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Transaction.Create)
		transactions.GET("/receipt/:number", h.Transaction.GetByReceipt)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.POST("/:id/void", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Transaction.Void)
	}
}

func registerCustomerRoutes(scoped *gin.RouterGroup, h *Handlers) {
	customers := scoped.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Customer.Delete)
		customers.POST("/:id/payments", h.Customer.RecordPayment)
		customers.GET("/:id/credit-ledger", h.Customer.GetCreditLedger)
	}
}

func registerSupplierRoutes(scoped *gin.RouterGroup, h *Handlers) {
	suppliers := scoped.Group("/suppliers")
	suppliers.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}
