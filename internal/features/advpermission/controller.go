package advpermission

import (
	"store-console/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type AdvPermissionController struct {
	Service AdvPermissionService
}

func NewAdvPermissionController(service AdvPermissionService) *AdvPermissionController {
	return &AdvPermissionController{
		Service: service,
	}
}

// GetSchema godoc
// @Summary      Open the advanced permission editor for a role
// @Description  Returns the module/feature schema with the role's saved selections restored and condition dropdowns resolved.
// @Tags         advanced-permissions
// @Produce      json
// @Param        roleId  path  string true  "Role ID"
// @Param        module  query string true  "Module key"
// @Param        feature query string true  "Feature key"
// @Success      200 {object} SchemaResponse
// @Failure      404 {string} string "Schema not found"
// @Router       /api/advanced-permissions/{roleId}/schema [get]
func (ctrl *AdvPermissionController) GetSchema(c *fiber.Ctx) error {
	moduleKey := c.Query("module")
	featureKey := c.Query("feature")
	if moduleKey == "" || featureKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "module and feature query parameters are required",
		})
	}

	ownerID := ""
	if claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims); ok {
		ownerID = claims.UserID
	}

	resp, err := ctrl.Service.GetSchema(c.UserContext(), c.Params("roleId"), moduleKey, featureKey, ownerID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(resp)
}

// SavePolicy godoc
// @Summary      Save a role's advanced permissions
// @Description  Recompiles the submitted selection state server-side and persists the result. An empty selection is a no-op.
// @Tags         advanced-permissions
// @Accept       json
// @Produce      json
// @Param        roleId path string true "Role ID"
// @Param        X-Editor-Session header string false "Editor session ID"
// @Param        payload body SavePolicyRequest true "Selection state"
// @Success      200 {object} SaveResult
// @Failure      400 {string} string "Invalid request body"
// @Router       /api/advanced-permissions/{roleId} [post]
func (ctrl *AdvPermissionController) SavePolicy(c *fiber.Ctx) error {
	var req SavePolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ModuleKey == "" || req.FeatureKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "moduleKey and featureKey are required",
		})
	}

	result, err := ctrl.Service.SavePolicy(c.UserContext(), c.Params("roleId"), c.Get("X-Editor-Session"), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

// ListPolicies godoc
// @Summary      List a role's saved policies
// @Tags         advanced-permissions
// @Produce      json
// @Param        roleId path string true "Role ID"
// @Success      200 {array} RolePolicy
// @Router       /api/advanced-permissions/{roleId} [get]
func (ctrl *AdvPermissionController) ListPolicies(c *fiber.Ctx) error {
	policies, err := ctrl.Service.ListPolicies(c.UserContext(), c.Params("roleId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if policies == nil {
		policies = []RolePolicy{}
	}

	return c.JSON(policies)
}

// CloseSession godoc
// @Summary      Close an editor session
// @Tags         advanced-permissions
// @Param        sessionId path string true "Session ID"
// @Success      204 {string} string ""
// @Router       /api/advanced-permissions/sessions/{sessionId} [delete]
func (ctrl *AdvPermissionController) CloseSession(c *fiber.Ctx) error {
	ctrl.Service.CloseSession(c.Params("sessionId"))
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertSchema godoc
// @Summary      Create or replace a module/feature permission schema
// @Tags         advanced-permissions
// @Accept       json
// @Produce      json
// @Param        schema body PermissionSchema true "Schema definition"
// @Success      200 {object} PermissionSchema
// @Failure      400 {string} string "Invalid request body"
// @Router       /api/permission-schemas [put]
func (ctrl *AdvPermissionController) UpsertSchema(c *fiber.Ctx) error {
	var schema PermissionSchema
	if err := c.BodyParser(&schema); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if schema.ModuleKey == "" || schema.FeatureKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "moduleKey and featureKey are required",
		})
	}

	if err := ctrl.Service.UpsertSchema(c.UserContext(), &schema); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(schema)
}

// ListSchemas godoc
// @Summary      List permission schemas
// @Tags         advanced-permissions
// @Produce      json
// @Success      200 {array} PermissionSchema
// @Router       /api/permission-schemas [get]
func (ctrl *AdvPermissionController) ListSchemas(c *fiber.Ctx) error {
	schemas, err := ctrl.Service.ListSchemas(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if schemas == nil {
		schemas = []PermissionSchema{}
	}

	return c.JSON(schemas)
}
