package role

import (
	"store-console/internal/config"
	"store-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	Controller *RoleController
	config     *config.Config
}

func NewRoleApi(controller *RoleController, config *config.Config) *RoleApi {
	return &RoleApi{
		Controller: controller,
		config:     config,
	}
}

func (a *RoleApi) Setup(app *fiber.App) {
	roles := app.Group("/api/roles", middleware.AuthMiddleware(a.config.SkipAuth))

	roles.Get("/", a.Controller.ListRoles)
	roles.Post("/", a.Controller.CreateRole)
	roles.Get("/:id", a.Controller.GetRole)
	roles.Put("/:id", a.Controller.UpdateRole)
	roles.Delete("/:id", a.Controller.DeleteRole)
}
