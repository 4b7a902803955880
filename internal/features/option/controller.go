package option

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type OptionController struct {
	OptionService OptionService
}

func NewOptionController(optionService OptionService) *OptionController {
	return &OptionController{
		OptionService: optionService,
	}
}

// ResolveOptions godoc
// @Summary      Resolve dropdown options for condition keys
// @Description  Batched lookup: one request resolves every distinct condition key of an editor load cycle
// @Tags         options
// @Produce      json
// @Param        keys query string true "Comma-joined condition keys"
// @Success      200  {object} map[string]interface{}
// @Failure      502  {string} string "Option lookup failed"
// @Router       /api/options [get]
func (ctrl *OptionController) ResolveOptions(c *fiber.Ctx) error {
	raw := c.Query("keys")

	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}

	options, err := ctrl.OptionService.ResolveOptions(c.UserContext(), keys)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"conditions": options,
	})
}

// CreateSource godoc
// @Summary      Create a dropdown source
// @Description  Register a static, table-backed, or script-backed option source for condition keys
// @Tags         options
// @Accept       json
// @Produce      json
// @Param        source body DropdownSource true "Dropdown source"
// @Success      201  {object} DropdownSource
// @Failure      400  {string} string "Invalid request body"
// @Router       /api/option-sources [post]
func (ctrl *OptionController) CreateSource(c *fiber.Ctx) error {
	var source DropdownSource
	if err := c.BodyParser(&source); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := ctrl.OptionService.CreateSource(c.UserContext(), &source)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListSources godoc
// @Summary      List dropdown sources
// @Tags         options
// @Produce      json
// @Success      200  {array} DropdownSource
// @Router       /api/option-sources [get]
func (ctrl *OptionController) ListSources(c *fiber.Ctx) error {
	sources, err := ctrl.OptionService.ListSources(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sources)
}

// DeleteSource godoc
// @Summary      Delete a dropdown source
// @Tags         options
// @Produce      json
// @Param        id path string true "Source ID"
// @Success      200  {object} map[string]string
// @Router       /api/option-sources/{id} [delete]
func (ctrl *OptionController) DeleteSource(c *fiber.Ctx) error {
	if err := ctrl.OptionService.DeleteSource(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Dropdown source deleted successfully",
	})
}
