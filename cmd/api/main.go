package main

import (
	"context"
	"fmt"
	"log"

	common_api "store-console/internal/common/api"
	"store-console/internal/config"
	"store-console/internal/database"
	"store-console/internal/features/advpermission"
	"store-console/internal/features/audit"
	"store-console/internal/features/export"
	"store-console/internal/features/option"
	"store-console/internal/features/role"
	"store-console/internal/features/system"
	"store-console/internal/logger"
	"store-console/internal/middleware"
	"store-console/pkg/utils"

	_ "store-console/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	// Resolve the tenant from the X-Store-Tenant header
	app.Use(middleware.TenantMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// @title           Store Console API
// @version         1.0
// @description     Multi-tenant storefront admin console with role permission configuration.

// @contact.name    API Support
// @contact.email   support@swagger.io

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			audit.NewAuditRepository,
			role.NewRoleRepository,
			option.NewSourceRepository,
			advpermission.NewSchemaRepository,
			advpermission.NewPolicyRepository,

			// External option service client
			option.NewUpstream,

			audit.NewAuditService,
			role.NewRoleService,
			option.NewOptionService,
			advpermission.NewAdvPermissionService,
			export.NewExportService,

			// Editor sessions and the policy event hub
			advpermission.NewSessionRegistry,
			system.NewPolicyHub,

			// Interface Adapters to satisfy Fx
			func(h *system.PolicyHub) advpermission.PolicyNotifier { return h },
			func(r advpermission.PolicyRepository) role.PolicyCleanup { return r },

			// Initialize Controller
			role.NewRoleController,
			audit.NewAuditController,
			option.NewOptionController,
			advpermission.NewAdvPermissionController,
			export.NewExportController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(role.NewRoleApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(option.NewOptionApi),
			AsRoute(advpermission.NewAdvPermissionApi),
			AsRoute(export.NewExportApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			option.RegisterRefresher,
		),
	)

	app.Run()
}
