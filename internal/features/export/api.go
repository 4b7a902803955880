package export

import (
	"store-console/internal/config"
	"store-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	Controller *ExportController
	config     *config.Config
}

func NewExportApi(controller *ExportController, config *config.Config) *ExportApi {
	return &ExportApi{
		Controller: controller,
		config:     config,
	}
}

func (a *ExportApi) Setup(app *fiber.App) {
	app.Get("/api/roles/:id/policy/export", middleware.AuthMiddleware(a.config.SkipAuth), a.Controller.ExportRolePolicy)
}
