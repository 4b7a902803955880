package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature api so main can register them
// as an fx group.
type Route interface {
	Setup(app *fiber.App)
}
