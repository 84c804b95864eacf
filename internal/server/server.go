package server

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/matchpoint-app/matchpoint/internal/config"
	"github.com/matchpoint-app/matchpoint/internal/domain"
	"github.com/matchpoint-app/matchpoint/internal/handler"
	"github.com/matchpoint-app/matchpoint/internal/middleware"
	"github.com/matchpoint-app/matchpoint/internal/notification"
	"github.com/matchpoint-app/matchpoint/internal/repository"
	"github.com/matchpoint-app/matchpoint/internal/service"
	"github.com/matchpoint-app/matchpoint/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// idempotencyTTL bounds replay of mutating requests with the same
// correlation id
const idempotencyTTL = 10 * time.Minute

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	Messaging   notification.MessagingClient // nil disables push
	Files       domain.FileRepository        // nil disables uploads
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Repositories
	pkgRepo := repository.NewMongoPackageRepository(deps.MongoDB)
	svcRepo := repository.NewMongoServiceRepository(deps.MongoDB)
	orderRepo := repository.NewMongoOrderRepository(deps.MongoDB)
	purchasedRepo := repository.NewMongoPurchasedPackageRepository(deps.MongoDB)
	tournamentRepo := repository.NewMongoTournamentRepository(deps.MongoDB)
	registrationRepo := repository.NewMongoRegistrationRepository(deps.MongoDB)
	fixtureRepo := repository.NewMongoFixtureRepository(deps.MongoDB)
	miniAppRepo := repository.NewMongoMiniAppRepository(deps.MongoDB)
	tokenRepo := repository.NewMongoDeviceTokenRepository(deps.MongoDB)
	catalogCache := repository.NewRedisCatalogCache(deps.RedisClient)

	// Push notifications are optional; services treat a nil notifier as a no-op
	var notifier *notification.FCMNotifier
	var pushNotifier service.PushNotifier
	if deps.Messaging != nil {
		notifier = notification.NewFCMNotifier(deps.Messaging, tokenRepo)
		pushNotifier = notifier
	} else {
		log.Println("[Server] Push notifications disabled (no messaging client)")
	}

	// Services
	paymentProvider := service.NewPaymentProvider(deps.Config.Payment)
	packageService := service.NewPackageService(pkgRepo, svcRepo, catalogCache)
	orderService := service.NewOrderService(orderRepo, pkgRepo, purchasedRepo, paymentProvider, pushNotifier, deps.Config.Payment)
	tournamentService := service.NewTournamentService(tournamentRepo, registrationRepo, fixtureRepo, pushNotifier)

	// Handlers
	packageHandler := handler.NewPackageHandler(packageService, purchasedRepo)
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(orderService, orderRepo, deps.Config.Payment.APIKey)
	tournamentHandler := handler.NewTournamentHandler(tournamentService)
	miniAppHandler := handler.NewMiniAppHandler(miniAppRepo)

	app := fiber.New(fiber.Config{
		AppName:      "MatchPoint API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID, X-Client-Platform",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "matchpoint",
		})
	})

	v1 := app.Group("/v1")
	authRequired := middleware.VerifyAccessToken(deps.Config.JWT.Secret)
	adminOnly := middleware.AuthorizeRole(domain.RoleAdmin)
	idempotent := middleware.IdempotencyMiddleware(deps.RedisClient, idempotencyTTL)

	// Payment callback (public, HMAC verified inside the handler)
	v1.Post("/payments/callback", idempotent, webhookHandler.PaymentCallback)

	// Package catalog: public reads, admin writes
	v1.Get("/packages", packageHandler.List)
	v1.Get("/packages/:id", packageHandler.Get)
	v1.Get("/services", packageHandler.ListServices)

	adminCatalog := v1.Group("/admin", authRequired, adminOnly)
	adminCatalog.Post("/packages", packageHandler.Create)
	adminCatalog.Patch("/packages/:id", packageHandler.Update)
	adminCatalog.Delete("/packages/:id", packageHandler.Delete)
	adminCatalog.Post("/services", packageHandler.CreateService)
	adminCatalog.Get("/orders", orderHandler.ListAdmin)
	adminCatalog.Patch("/orders/:id/status", orderHandler.SetStatus)
	adminCatalog.Delete("/orders/:id", orderHandler.Delete)
	adminCatalog.Post("/mini-apps", miniAppHandler.Create)
	adminCatalog.Patch("/mini-apps/:id", miniAppHandler.Update)
	adminCatalog.Delete("/mini-apps/:id", miniAppHandler.Delete)

	// Orders (authenticated user)
	orders := v1.Group("/orders", authRequired)
	orders.Post("/", idempotent, orderHandler.Create)
	orders.Post("/upgrade", idempotent, orderHandler.Upgrade)
	orders.Post("/renew", idempotent, orderHandler.Renew)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)

	v1.Get("/purchased-packages", authRequired, packageHandler.ListPurchased)

	// Tournaments
	v1.Get("/tournaments", tournamentHandler.List)

	tournaments := v1.Group("/tournaments", authRequired)
	tournaments.Post("/", tournamentHandler.Create)
	tournaments.Get("/mine", tournamentHandler.ListMine)
	tournaments.Get("/:id", tournamentHandler.Get)
	tournaments.Post("/:id/publish", tournamentHandler.Publish)

	tournaments.Post("/:id/applications", tournamentHandler.Apply)
	tournaments.Get("/:id/applications/me", tournamentHandler.GetMyApplication)
	tournaments.Delete("/:id/applications/me", tournamentHandler.CancelApplication)
	tournaments.Get("/:id/applications", tournamentHandler.ListApplicants)
	tournaments.Post("/:id/applications/finalize", tournamentHandler.FinalizeApplicants)
	tournaments.Post("/:id/applications/:userId/approve", tournamentHandler.ApproveApplicant)
	tournaments.Post("/:id/applications/:userId/reject", tournamentHandler.RejectApplicant)

	tournaments.Get("/:id/participants", tournamentHandler.ListParticipants)
	tournaments.Get("/:id/invitations", tournamentHandler.ListInvitations)
	tournaments.Post("/:id/invitations/accept", tournamentHandler.AcceptInvitation)
	tournaments.Post("/:id/invitations/reject", tournamentHandler.RejectInvitation)

	tournaments.Post("/:id/fixture/generate", tournamentHandler.GenerateFixture)
	tournaments.Put("/:id/fixture", tournamentHandler.SaveFixture)
	tournaments.Get("/:id/fixture", tournamentHandler.GetFixture)
	tournaments.Delete("/:id/fixture", tournamentHandler.ResetFixture)

	// Mini-app catalog (public reads)
	v1.Get("/mini-apps", miniAppHandler.List)
	v1.Get("/mini-apps/:id", miniAppHandler.Get)

	// File uploads
	if deps.Files != nil {
		uploadHandler := handler.NewUploadHandler(service.NewUploadService(deps.Files))
		v1.Post("/files", authRequired, uploadHandler.Upload)
	} else {
		log.Println("[Server] File uploads disabled (no storage backend)")
	}

	// Push token registration
	if notifier != nil {
		notificationHandler := handler.NewNotificationHandler(notifier)
		v1.Post("/notifications/tokens", authRequired, notificationHandler.RegisterToken)
	}

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
