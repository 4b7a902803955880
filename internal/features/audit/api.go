package audit

import (
	"store-console/internal/config"
	"store-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	Controller *AuditController
	config     *config.Config
}

func NewAuditApi(controller *AuditController, config *config.Config) *AuditApi {
	return &AuditApi{
		Controller: controller,
		config:     config,
	}
}

func (a *AuditApi) Setup(app *fiber.App) {
	api := app.Group("/api", middleware.AuthMiddleware(a.config.SkipAuth))

	api.Get("/audit-logs", a.Controller.ListLogs)
}
