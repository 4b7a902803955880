package advpermission

import (
	"context"
	"fmt"

	common_models "store-console/internal/common/models"
	"store-console/internal/features/audit"
	"store-console/internal/features/option"
	"store-console/pkg/policy"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PolicyNotifier is told when a role's compiled policy changed so
// connected consoles can refresh. The websocket hub implements it.
type PolicyNotifier interface {
	PolicyUpdated(roleID, moduleKey, featureKey string)
}

type AdvPermissionService interface {
	GetSchema(ctx context.Context, roleID, moduleKey, featureKey, ownerID string) (*SchemaResponse, error)
	SavePolicy(ctx context.Context, roleID, sessionID string, req *SavePolicyRequest) (*SaveResult, error)
	ListPolicies(ctx context.Context, roleID string) ([]RolePolicy, error)
	UpsertSchema(ctx context.Context, schema *PermissionSchema) error
	ListSchemas(ctx context.Context) ([]PermissionSchema, error)
	CloseSession(sessionID string)
}

type AdvPermissionServiceImpl struct {
	schemas  SchemaRepository
	policies PolicyRepository
	options  option.OptionService
	audit    audit.AuditService
	sessions *SessionRegistry
	notifier PolicyNotifier
	logger   *zap.Logger
}

func NewAdvPermissionService(
	schemas SchemaRepository,
	policies PolicyRepository,
	options option.OptionService,
	auditService audit.AuditService,
	sessions *SessionRegistry,
	notifier PolicyNotifier,
	logger *zap.Logger,
) AdvPermissionService {
	return &AdvPermissionServiceImpl{
		schemas:  schemas,
		policies: policies,
		options:  options,
		audit:    auditService,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
	}
}

// GetSchema opens an editor: it loads the module/feature schema,
// restores the role's saved selections onto it, resolves the condition
// dropdown options in one batch, and registers a session for the
// dialog.
func (s *AdvPermissionServiceImpl) GetSchema(ctx context.Context, roleID, moduleKey, featureKey, ownerID string) (*SchemaResponse, error) {
	schema, err := s.schemas.FindSchema(ctx, moduleKey, featureKey)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, fmt.Errorf("no permission schema for %s/%s", moduleKey, featureKey)
	}

	bundle := bundleFromSchema(schema)

	saved, err := s.policies.FindPolicy(ctx, roleID, moduleKey, featureKey)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		bundle = mergeSaved(bundle, saved.RawState)
	}

	state := policy.Load(bundle)

	optionError := ""
	resolved, err := s.options.ResolveOptions(ctx, state.ConditionKeys())
	if err != nil {
		// The editor still opens; dropdowns render empty and the
		// response tells the dialog the lookup failed as a whole.
		s.logger.Warn("condition option resolution failed",
			zap.String("moduleKey", moduleKey),
			zap.String("featureKey", featureKey),
			zap.Error(err))
		resolved = map[string][]policy.Option{}
		optionError = "failed to load condition options"
	}
	state = state.ApplyOptions(resolved)

	session := s.sessions.Open(ownerID, roleID, moduleKey, featureKey)

	return &SchemaResponse{
		SessionID:   session.ID,
		State:       state,
		OptionError: optionError,
	}, nil
}

// SavePolicy recompiles the submitted raw state server-side and stores
// the result. The client's formattedPermissions are ignored. An empty
// compilation means nothing was selected and nothing is persisted.
func (s *AdvPermissionServiceImpl) SavePolicy(ctx context.Context, roleID, sessionID string, req *SavePolicyRequest) (*SaveResult, error) {
	if sessionID != "" {
		session, ok := s.sessions.Get(sessionID)
		if !ok {
			return nil, fmt.Errorf("editor session not found")
		}
		if session.RoleID != roleID {
			return nil, fmt.Errorf("editor session does not match role")
		}
	}

	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return nil, err
	}

	bundle := policy.Bundle{
		ModuleKey:                 req.ModuleKey,
		FeatureKey:                req.FeatureKey,
		Components:                req.Components,
		SpecialActions:            req.SpecialActions,
		DataAccessConditions:      req.DataAccessConditions,
		PermissionsWithConditions: req.PermissionsWithConditions,
	}

	state := policy.Load(bundle)
	compiled := policy.Compile(state)
	if len(compiled) == 0 {
		return &SaveResult{Saved: false, Compiled: []policy.CompiledPermission{}}, nil
	}

	rp := &RolePolicy{
		RoleID:     oid,
		ModuleKey:  req.ModuleKey,
		FeatureKey: req.FeatureKey,
		Compiled:   compiled,
		RawState:   bundle,
	}

	if err := s.policies.ReplacePolicy(ctx, rp); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"policy": {
			Old: nil,
			New: fmt.Sprintf("%s/%s: %d permissions", req.ModuleKey, req.FeatureKey, len(compiled)),
		},
	}
	if err := s.audit.LogChange(ctx, common_models.AuditActionPolicy, "advanced-permissions", roleID, changes); err != nil {
		s.logger.Warn("failed to audit policy save", zap.String("roleId", roleID), zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.PolicyUpdated(roleID, req.ModuleKey, req.FeatureKey)
	}

	return &SaveResult{Saved: true, Compiled: compiled}, nil
}

func (s *AdvPermissionServiceImpl) ListPolicies(ctx context.Context, roleID string) ([]RolePolicy, error) {
	return s.policies.ListPoliciesForRole(ctx, roleID)
}

func (s *AdvPermissionServiceImpl) UpsertSchema(ctx context.Context, schema *PermissionSchema) error {
	return s.schemas.UpsertSchema(ctx, schema)
}

func (s *AdvPermissionServiceImpl) ListSchemas(ctx context.Context) ([]PermissionSchema, error) {
	return s.schemas.ListSchemas(ctx)
}

func (s *AdvPermissionServiceImpl) CloseSession(sessionID string) {
	s.sessions.Close(sessionID)
}

func bundleFromSchema(schema *PermissionSchema) policy.Bundle {
	return policy.Bundle{
		ModuleKey:                 schema.ModuleKey,
		FeatureKey:                schema.FeatureKey,
		ModuleName:                schema.ModuleName,
		FeatureName:               schema.FeatureName,
		Components:                schema.Components,
		SpecialActions:            schema.SpecialActions,
		DataAccessConditions:      schema.DataAccessConditions,
		PermissionsWithConditions: schema.PermissionsWithConditions,
	}
}

// mergeSaved restores a previously saved selection onto the current
// schema definition. Matching is by id and condition key so entries
// added or removed from the schema since the save are handled: new
// entries start unchecked, vanished ones are dropped.
func mergeSaved(bundle policy.Bundle, saved policy.Bundle) policy.Bundle {
	checkedComponents := make(map[string]bool, len(saved.Components))
	for _, c := range saved.Components {
		checkedComponents[c.ID] = c.Checked
	}
	for i := range bundle.Components {
		if checked, ok := checkedComponents[bundle.Components[i].ID]; ok {
			bundle.Components[i].Checked = checked
		}
	}

	checkedActions := make(map[string]bool, len(saved.SpecialActions))
	for _, a := range saved.SpecialActions {
		checkedActions[a.ID] = a.Checked
	}
	for i := range bundle.SpecialActions {
		if checked, ok := checkedActions[bundle.SpecialActions[i].ID]; ok {
			bundle.SpecialActions[i].Checked = checked
		}
	}

	savedValues := make(map[string][]string, len(saved.DataAccessConditions))
	for _, c := range saved.DataAccessConditions {
		savedValues[c.ConditionKey] = c.SelectedValues
	}
	for i := range bundle.DataAccessConditions {
		if values, ok := savedValues[bundle.DataAccessConditions[i].ConditionKey]; ok {
			bundle.DataAccessConditions[i].SelectedValues = append([]string(nil), values...)
		}
	}
	for i := range bundle.PermissionsWithConditions {
		for j := range bundle.PermissionsWithConditions[i].Conditions {
			key := bundle.PermissionsWithConditions[i].Conditions[j].ConditionKey
			if values, ok := savedValues[key]; ok {
				bundle.PermissionsWithConditions[i].Conditions[j].SelectedValues = append([]string(nil), values...)
			}
		}
	}

	return bundle
}
