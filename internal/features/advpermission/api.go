package advpermission

import (
	"store-console/internal/config"
	"store-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AdvPermissionApi struct {
	Controller *AdvPermissionController
	config     *config.Config
}

func NewAdvPermissionApi(controller *AdvPermissionController, config *config.Config) *AdvPermissionApi {
	return &AdvPermissionApi{
		Controller: controller,
		config:     config,
	}
}

func (a *AdvPermissionApi) Setup(app *fiber.App) {
	adv := app.Group("/api/advanced-permissions", middleware.AuthMiddleware(a.config.SkipAuth))

	adv.Get("/:roleId/schema", a.Controller.GetSchema)
	adv.Get("/:roleId", a.Controller.ListPolicies)
	adv.Post("/:roleId", a.Controller.SavePolicy)
	adv.Delete("/sessions/:sessionId", a.Controller.CloseSession)

	schemas := app.Group("/api/permission-schemas", middleware.AuthMiddleware(a.config.SkipAuth))

	schemas.Get("/", a.Controller.ListSchemas)
	schemas.Put("/", a.Controller.UpsertSchema)
}
