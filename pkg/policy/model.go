package policy

// Well-known permission keys. The wire names are fixed by the backend
// contract and must not change.
const (
	KeyVisibleComponents = "visible_components"
	KeySpecialActions    = "special_actions"
)

// ValueAll is the reserved selected-value token meaning "every option for
// this condition". It is stored like any other selected value; only the
// presentation layer collapses it to an "All X" label.
const ValueAll = "all"

// Component is a togglable UI element owned by a permission (a visible
// tab or section of the console).
type Component struct {
	ID            string `json:"id" bson:"id"`
	Name          string `json:"name" bson:"name"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`
	PermissionKey string `json:"permissionKey" bson:"permission_key"`
	Checked       bool   `json:"checked" bson:"checked"`
}

// SpecialAction is a non-CRUD capability a role may be granted
// (e.g. "publish", "approve", "export_report").
type SpecialAction struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
	Checked      bool   `json:"checked" bson:"checked"`
	PermissionID int    `json:"permissionId,omitempty" bson:"permission_id,omitempty"`
	Key          string `json:"key,omitempty" bson:"key,omitempty"`
}

// DataAccessCondition is a named filter dimension (region, department, ...)
// restricting which records a role may see. ConditionKey is the join key
// shared with ConditionDropdown and with every permission that embeds a
// condition for the same dimension.
type DataAccessCondition struct {
	ConditionKey   string   `json:"conditionKey" bson:"condition_key"`
	Name           string   `json:"name" bson:"name"`
	Description    string   `json:"description,omitempty" bson:"description,omitempty"`
	SelectedValues []string `json:"value,omitempty" bson:"value,omitempty"`
	DropdownSource string   `json:"dropdownSource,omitempty" bson:"dropdown_source,omitempty"`
}

// Option is one selectable entry of a condition dropdown.
type Option struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// ConditionDropdown is the presentable form of a condition. Options are
// populated asynchronously by the option resolver and start empty.
type ConditionDropdown struct {
	ConditionKey   string   `json:"conditionKey" bson:"condition_key"`
	Name           string   `json:"name" bson:"name"`
	Description    string   `json:"description,omitempty" bson:"description,omitempty"`
	SelectedValues []string `json:"selectedValues" bson:"selected_values"`
	Options        []Option `json:"options" bson:"options"`
}

// Permission is the unit the backend persists. Conditions reference the
// shared condition set by key; the state machine keeps the embedded
// copies in sync with the dropdowns.
type Permission struct {
	ID            int                   `json:"id" bson:"id"`
	PermissionKey string                `json:"permissionKey" bson:"permission_key"`
	Name          string                `json:"name" bson:"name"`
	Description   string                `json:"description,omitempty" bson:"description,omitempty"`
	IsActive      bool                  `json:"isActive" bson:"is_active"`
	Conditions    []DataAccessCondition `json:"conditions,omitempty" bson:"conditions,omitempty"`
}

// CompiledComponent is the rich component reference emitted for checked
// components.
type CompiledComponent struct {
	ComponentKey string `json:"componentKey" bson:"component_key"`
	IsActive     bool   `json:"isActive" bson:"is_active"`
}

// CompiledCondition is a condition with at least one selected value,
// ready for the backend.
type CompiledCondition struct {
	ConditionKey string   `json:"conditionKey" bson:"condition_key"`
	Values       []string `json:"values" bson:"values"`
	IsActive     bool     `json:"isActive" bson:"is_active"`
}

// CompiledPermission is the wire-format output of Compile. Components
// carries either a plain key list or a []CompiledComponent; the rich
// form wins whenever any component is checked.
type CompiledPermission struct {
	PermissionKey string              `json:"permissionKey" bson:"permission_key"`
	IsActive      bool                `json:"isActive" bson:"is_active"`
	Components    interface{}         `json:"components,omitempty" bson:"components,omitempty"`
	Actions       []int               `json:"actions,omitempty" bson:"actions,omitempty"`
	Conditions    []CompiledCondition `json:"conditions,omitempty" bson:"conditions,omitempty"`
}

// Bundle is the server-provided permission schema for one module/feature
// pair, with checked/selected flags reflecting the role's persisted
// configuration.
type Bundle struct {
	ModuleKey                 string                `json:"moduleKey" bson:"module_key"`
	FeatureKey                string                `json:"featureKey" bson:"feature_key"`
	ModuleName                string                `json:"moduleName" bson:"module_name"`
	FeatureName               string                `json:"featureName" bson:"feature_name"`
	Components                []Component           `json:"components" bson:"components"`
	SpecialActions            []SpecialAction       `json:"specialActions" bson:"special_actions"`
	DataAccessConditions      []DataAccessCondition `json:"dataAccessConditions" bson:"data_access_conditions"`
	PermissionsWithConditions []Permission          `json:"permissionsWithConditions" bson:"permissions_with_conditions"`
}

// State is the engine's normalized selection state for one open editor.
// It is owned by a single editor session; all transitions return a new
// State and never mutate the receiver.
type State struct {
	ModuleKey         string                       `json:"moduleKey"`
	FeatureKey        string                       `json:"featureKey"`
	ModuleName        string                       `json:"moduleName"`
	FeatureName       string                       `json:"featureName"`
	ShowAllComponents bool                         `json:"showAllComponents"`
	Components        []Component                  `json:"components"`
	SpecialActions    []SpecialAction              `json:"specialActions"`
	Conditions        []DataAccessCondition        `json:"dataAccessConditions"`
	Permissions       []Permission                 `json:"permissionsWithConditions"`
	Dropdowns         map[string]ConditionDropdown `json:"dropdowns"`
}
