package advpermission

import (
	"time"

	"store-console/pkg/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PermissionSchema is the per-module/feature schema definition the
// advanced editor renders: components, special actions, and data-access
// conditions, stored without any role-specific checked state.
type PermissionSchema struct {
	ID                        primitive.ObjectID           `json:"id" bson:"_id,omitempty"`
	TenantID                  string                       `json:"tenant_id" bson:"tenant_id"`
	ModuleKey                 string                       `json:"moduleKey" bson:"module_key"`
	FeatureKey                string                       `json:"featureKey" bson:"feature_key"`
	ModuleName                string                       `json:"moduleName" bson:"module_name"`
	FeatureName               string                       `json:"featureName" bson:"feature_name"`
	Components                []policy.Component           `json:"components" bson:"components"`
	SpecialActions            []policy.SpecialAction       `json:"specialActions" bson:"special_actions"`
	DataAccessConditions      []policy.DataAccessCondition `json:"dataAccessConditions" bson:"data_access_conditions"`
	PermissionsWithConditions []policy.Permission          `json:"permissionsWithConditions" bson:"permissions_with_conditions"`
	CreatedAt                 time.Time                    `json:"created_at" bson:"created_at"`
	UpdatedAt                 time.Time                    `json:"updated_at" bson:"updated_at"`
}

// RolePolicy is the persisted outcome of one editor save: the compiled
// wire-format policy plus the raw selection state it was compiled from.
// The raw state is kept so the next editor open can restore checked
// flags and selected values without re-deriving them from the compiled
// form.
type RolePolicy struct {
	ID         primitive.ObjectID          `json:"id" bson:"_id,omitempty"`
	TenantID   string                      `json:"tenant_id" bson:"tenant_id"`
	RoleID     primitive.ObjectID          `json:"role_id" bson:"role_id"`
	ModuleKey  string                      `json:"moduleKey" bson:"module_key"`
	FeatureKey string                      `json:"featureKey" bson:"feature_key"`
	Compiled   []policy.CompiledPermission `json:"formattedPermissions" bson:"compiled"`
	RawState   policy.Bundle               `json:"rawState" bson:"raw_state"`
	CreatedAt  time.Time                   `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at" bson:"updated_at"`
}

// SavePolicyRequest is the outbound payload of the hosting screen: the
// compiled list plus the raw UI state. The server recompiles from the
// raw state rather than trusting the client's formattedPermissions.
type SavePolicyRequest struct {
	ModuleKey                 string                       `json:"moduleKey"`
	FeatureKey                string                       `json:"featureKey"`
	FormattedPermissions      []policy.CompiledPermission  `json:"formattedPermissions"`
	Components                []policy.Component           `json:"components"`
	SpecialActions            []policy.SpecialAction       `json:"specialActions"`
	DataAccessConditions      []policy.DataAccessCondition `json:"dataAccessConditions"`
	PermissionsWithConditions []policy.Permission          `json:"permissionsWithConditions"`
}

// SaveResult reports what a save did. Saved is false when the selection
// compiled to nothing, which callers treat as "no change".
type SaveResult struct {
	Saved    bool                        `json:"saved"`
	Compiled []policy.CompiledPermission `json:"formattedPermissions"`
}

// SchemaResponse is the rendering-ready editor state, with saved
// selections restored and condition dropdowns resolved, plus the
// session handle the dialog uses until it closes. OptionError is set
// when the batched dropdown resolution failed: the state stays
// editable with empty option lists and the dialog shows one error for
// the whole lookup.
type SchemaResponse struct {
	SessionID   string       `json:"sessionId"`
	State       policy.State `json:"state"`
	OptionError string       `json:"optionError,omitempty"`
}
