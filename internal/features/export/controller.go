package export

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	Service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{
		Service: service,
	}
}

// ExportRolePolicy godoc
// @Summary      Export a role's effective policy
// @Tags         export
// @Produce      application/octet-stream
// @Param        id     path  string true  "Role ID"
// @Param        format query string false "xlsx or csv" default(xlsx)
// @Success      200 {file} file
// @Failure      400 {string} string "Unsupported format"
// @Router       /api/roles/{id}/policy/export [get]
func (ctrl *ExportController) ExportRolePolicy(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportRolePolicy(c.UserContext(), c.Params("id"), c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}
