package option

import (
	"store-console/internal/config"
	"store-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OptionApi struct {
	Controller *OptionController
	config     *config.Config
}

func NewOptionApi(controller *OptionController, config *config.Config) *OptionApi {
	return &OptionApi{
		Controller: controller,
		config:     config,
	}
}

func (a *OptionApi) Setup(app *fiber.App) {
	api := app.Group("/api", middleware.AuthMiddleware(a.config.SkipAuth))

	api.Get("/options", a.Controller.ResolveOptions)

	sources := api.Group("/option-sources")
	sources.Get("/", a.Controller.ListSources)
	sources.Post("/", a.Controller.CreateSource)
	sources.Delete("/:id", a.Controller.DeleteSource)
}
