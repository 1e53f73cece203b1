package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/config"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/internal/presentation/http/handler"
	"github.com/sangkips/oscr-register/internal/presentation/http/middleware"
	"github.com/sangkips/oscr-register/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Register *handler.RegisterHandler
	Bill     *handler.BillHandler
	Catalog  *handler.CatalogHandler
	Tax      *handler.TaxHandler
	User     *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.OperatorRateLimiter
	Now             func() time.Time
}

// NewRateLimiter builds the per-operator limiter from the configured
// requests per duration in seconds
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.OperatorRateLimiter {
	return middleware.NewOperatorRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(cfg.Duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
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

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.GetProfile)

	registerRegisterRoutes(protected, h, deps)
	registerBillRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerTaxRoutes(protected, h)
	registerUserRoutes(protected, h)
}

func registerRegisterRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		Now:  deps.Now,
	})

	registers := protected.Group("/registers/:register")
	{
		registers.GET("", h.Register.Current)
		registers.POST("/items", h.Register.AddItem)
		registers.POST("/extras", h.Register.AddExtra)
		registers.POST("/variation", h.Register.SetVariation)
		registers.POST("/promo", h.Register.SetPromo)
		registers.POST("/vat/toggle", h.Register.ToggleVAT)
		registers.PUT("/staff", h.Register.SetStaffConsumer)
		registers.DELETE("/staff", h.Register.ClearStaffConsumer)
		registers.PUT("/free-promotion", h.Register.SetFreePromotion)
		registers.DELETE("/free-promotion", h.Register.ClearFreePromotion)
		registers.PUT("/to-go", h.Register.SetToGo)
		registers.DELETE("/to-go", h.Register.ClearToGo)
		registers.POST("/undo", h.Register.Undo)
		registers.POST("/close", idempotent, h.Register.Close)
		registers.POST("/new", h.Register.New)
		registers.POST("/load/:bill", h.Register.Load)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers) {
	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.ForDay)
		bills.GET("/open", h.Bill.Open)
		bills.GET("/totals", h.Bill.Totals)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	manager := middleware.RequireRole(enum.UserRoleManager.String())

	catalog := protected.Group("/catalog")
	{
		catalog.GET("/items", h.Catalog.ListSalesItems)
		catalog.POST("/items", manager, h.Catalog.CreateSalesItem)
		catalog.GET("/offers", h.Catalog.ListOffers)
		catalog.POST("/offers", manager, h.Catalog.CreateOffer)
		catalog.POST("/offers/:id/price", manager, h.Catalog.ReplacePrice)
		catalog.POST("/offers/:id/archive", manager, h.Catalog.Archive)
		catalog.GET("/offers/:id/history", h.Catalog.History)
	}
}

func registerTaxRoutes(protected *gin.RouterGroup, h *Handlers) {
	taxes := protected.Group("/taxes")
	{
		taxes.GET("", h.Tax.List)
		taxes.GET("/:usage/history", h.Tax.History)
		taxes.POST("/:usage/rate", middleware.RequireRole(enum.UserRoleManager.String()), h.Tax.ReplaceRate)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	manager := middleware.RequireRole(enum.UserRoleManager.String())

	users := protected.Group("/users")
	{
		users.GET("", h.User.List)
		users.POST("", manager, h.User.Create)
		users.PUT("/:id", manager, h.User.Update)
		users.POST("/:id/archive", manager, h.User.Archive)
		users.GET("/:id/history", manager, h.User.History)
	}
}
