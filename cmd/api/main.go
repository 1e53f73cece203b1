package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/config"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/internal/infrastructure/database"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/internal/presentation/http/handler"
	"github.com/sangkips/oscr-register/internal/presentation/http/middleware"
	"github.com/sangkips/oscr-register/internal/presentation/http/routes"
	"github.com/sangkips/oscr-register/pkg/utils"
)

type repositories struct {
	bills       domainRepo.BillRepository
	salesItems  domainRepo.SalesItemRepository
	offers      domainRepo.OfferRepository
	taxes       domainRepo.TaxRepository
	users       domainRepo.UserRepository
	idempotency domainRepo.IdempotencyRepository
}

func openRepositories(cfg *config.Config) repositories {
	if cfg.UsesMemoryStorage() {
		log.Println("Using in-memory storage; bills are lost on restart")
		store := memory.NewStore()
		return repositories{
			bills:       memory.NewBillRepository(store),
			salesItems:  memory.NewSalesItemRepository(store),
			offers:      memory.NewOfferRepository(store),
			taxes:       memory.NewTaxRepository(store),
			users:       memory.NewUserRepository(store),
			idempotency: memory.NewIdempotencyRepository(store),
		}
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	return repositories{
		bills:       repository.NewBillRepository(db),
		salesItems:  repository.NewSalesItemRepository(db),
		offers:      repository.NewOfferRepository(db),
		taxes:       repository.NewTaxRepository(db),
		users:       repository.NewUserRepository(db),
		idempotency: repository.NewIdempotencyRepository(db),
	}
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := openRepositories(cfg)
	clock := service.SystemClock{}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize services
	taxService := service.NewTaxService(repos.taxes, clock)
	userService := service.NewUserService(repos.users, clock)
	catalogService := service.NewCatalogService(repos.salesItems, repos.offers, clock, cfg.Register.Currency)
	authService := service.NewAuthService(repos.users, jwtManager, clock)
	billService := service.NewBillService(
		repos.bills,
		taxService,
		service.NewContextUserProvider(repos.users),
		clock,
	)

	if err := database.Bootstrap(ctx, &cfg.Register, taxService, userService); err != nil {
		log.Fatalf("Failed to bootstrap register data: %v", err)
	}

	registry := service.NewSessionRegistry(func(s *service.Session) {
		s.Subscribe(service.LogBillChanges(s.RegisterID))
	})

	go middleware.PurgeExpiredKeys(ctx, repos.idempotency, time.Hour)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Register: handler.NewRegisterHandler(registry, billService, catalogService, userService),
		Bill:     handler.NewBillHandler(billService, time.Local),
		Catalog:  handler.NewCatalogHandler(catalogService, clock),
		Tax:      handler.NewTaxHandler(taxService, clock),
		User:     handler.NewUserHandler(userService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repos.idempotency,
		RateLimiter:     rateLimiter,
		Now:             clock.Now,
	})

	log.Printf("Starting %s server on port %s...", cfg.App.Name, cfg.App.Port)
	log.Printf("Environment: %s, storage: %s, currency: %s", cfg.App.Env, cfg.Register.Storage, cfg.Register.Currency)

	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
