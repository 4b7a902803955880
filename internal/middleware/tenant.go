package middleware

import (
	"context"

	common_models "store-console/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// TenantMiddleware extracts the X-Store-Tenant header and makes the
// tenant id available on both fiber locals and the request context, so
// services and repositories can scope every query.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get("X-Store-Tenant")
		if tenantID == "" {
			tenantID = "default"
		}

		c.Locals("tenant_id", tenantID)
		ctx := context.WithValue(c.UserContext(), common_models.TenantIDKey, tenantID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
