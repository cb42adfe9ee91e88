package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/andar-inc/andar/internal/application/billing/credentials"
	billingUsecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	subscriptionUsecases "github.com/andar-inc/andar/internal/application/subscription/usecases"
	"github.com/andar-inc/andar/internal/infrastructure/auth"
	"github.com/andar-inc/andar/internal/infrastructure/cache"
	"github.com/andar-inc/andar/internal/infrastructure/config"
	"github.com/andar-inc/andar/internal/infrastructure/mercadopago"
	"github.com/andar-inc/andar/internal/infrastructure/permission"
	"github.com/andar-inc/andar/internal/infrastructure/repository"
	"github.com/andar-inc/andar/internal/interfaces/http/handlers"
	"github.com/andar-inc/andar/internal/interfaces/http/middleware"
	"github.com/andar-inc/andar/internal/shared/logger"
)

// Router wires repositories, use cases, and handlers into a gin engine.
type Router struct {
	engine              *gin.Engine
	webhookHandler      *handlers.WebhookHandler
	subscriptionHandler *handlers.SubscriptionHandler
	planHandler         *handlers.PlanHandler
	authMiddleware      *middleware.AuthMiddleware
}

func NewRouter(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log logger.Interface) (*Router, error) {
	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	planRepo := repository.NewPlanRepository(db, log)
	paymentRepo := repository.NewPaymentRepository(db, log)
	bookingRepo := repository.NewBookingRepository(db, log)
	upgradeAttemptRepo := repository.NewUpgradeAttemptRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)
	publisherCredentialRepo := repository.NewPublisherCredentialRepository(db, log)

	providerClient := mercadopago.NewClient(&cfg.MercadoPago, log)
	resolver := credentials.NewResolver(credentials.CredentialSet{
		MarketplaceToken:   cfg.MercadoPago.MarketplaceToken,
		SubscriptionsToken: cfg.MercadoPago.SubscriptionsToken,
	}, publisherCredentialRepo, log)

	enforcer, err := permission.NewEnforcer(db, cfg.Permission.ModelPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	entitlementSync := permission.NewEntitlementSync(subscriptionRepo, userRepo, enforcer, log)

	var userCache billingUsecases.UserCacheInvalidator
	if redisClient != nil {
		userCache = cache.NewUserCache(redisClient, log)
	}

	processNotificationUC := billingUsecases.NewProcessNotificationUseCase(
		providerClient,
		resolver,
		subscriptionRepo,
		paymentRepo,
		bookingRepo,
		entitlementSync,
		userCache,
		log,
	)

	createSubscriptionUC := subscriptionUsecases.NewCreateSubscriptionUseCase(
		subscriptionRepo,
		planRepo,
		userRepo,
		providerClient,
		resolver,
		cfg.MercadoPago.BackURL,
		log,
	)
	verifySubscriptionUC := subscriptionUsecases.NewVerifySubscriptionUseCase(
		subscriptionRepo,
		providerClient,
		resolver,
		processNotificationUC,
		log,
	)
	upgradePlanUC := subscriptionUsecases.NewUpgradePlanUseCase(
		subscriptionRepo,
		planRepo,
		upgradeAttemptRepo,
		createSubscriptionUC,
		verifySubscriptionUC,
		providerClient,
		resolver,
		log,
	)
	listPlansUC := subscriptionUsecases.NewListPlansUseCase(planRepo, log)

	jwtService := auth.NewJWTService(
		cfg.Auth.JWT.Secret,
		cfg.Auth.JWT.AccessExpMinutes,
		cfg.Auth.JWT.RefreshExpDays,
	)

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine:              engine,
		webhookHandler:      handlers.NewWebhookHandler(processNotificationUC, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(createSubscriptionUC, upgradePlanUC, verifySubscriptionUC, log),
		planHandler:         handlers.NewPlanHandler(listPlansUC, log),
		authMiddleware:      middleware.NewAuthMiddleware(jwtService, log),
	}, nil
}

// SetupRoutes registers the HTTP surface.
func (r *Router) SetupRoutes() {
	api := r.engine.Group("/api")

	// Webhooks carry no bearer token; authenticity comes from fetching
	// authoritative state back from the provider, not from the request.
	webhooks := api.Group("/webhooks")
	{
		webhooks.POST("/mercadopago", r.webhookHandler.HandleMercadoPago)
	}

	api.GET("/plans", r.planHandler.ListPlans)

	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(r.authMiddleware.RequireAuth())
	{
		subscriptions.POST("", r.subscriptionHandler.CreateSubscription)
		subscriptions.POST("/change-plan", r.subscriptionHandler.ChangePlan)
		subscriptions.POST("/verify", r.subscriptionHandler.VerifySubscription)
	}
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
