package role

import (
	"context"
	"fmt"
	"time"

	common_models "store-console/internal/common/models"
	"store-console/internal/features/audit"
)

type RoleService interface {
	CreateRole(ctx context.Context, role *Role) (*Role, error)
	GetRoleByID(ctx context.Context, id string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)
	UpdateRole(ctx context.Context, id string, role *Role) error
	DeleteRole(ctx context.Context, id string) error
}

// PolicyCleanup removes a role's stored policies when the role goes
// away, so orphaned grants never survive the role.
type PolicyCleanup interface {
	DeletePoliciesForRole(ctx context.Context, roleID string) error
}

type RoleServiceImpl struct {
	RoleRepo      RoleRepository
	AuditService  audit.AuditService
	PolicyCleanup PolicyCleanup
}

func NewRoleService(roleRepo RoleRepository, auditService audit.AuditService, policyCleanup PolicyCleanup) RoleService {
	return &RoleServiceImpl{
		RoleRepo:      roleRepo,
		AuditService:  auditService,
		PolicyCleanup: policyCleanup,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, role *Role) (*Role, error) {
	if existing, err := s.RoleRepo.FindByName(ctx, role.Name); err == nil && existing != nil {
		return nil, fmt.Errorf("role %q already exists", role.Name)
	}

	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "role", role.ID.Hex(), map[string]common_models.Change{
		"name": {New: role.Name},
	})

	return role, nil
}

func (s *RoleServiceImpl) GetRoleByID(ctx context.Context, id string) (*Role, error) {
	return s.RoleRepo.FindByID(ctx, id)
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id string, role *Role) error {
	role.UpdatedAt = time.Now()

	if err := s.RoleRepo.Update(ctx, id, role); err != nil {
		return err
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "role", id, map[string]common_models.Change{
		"name": {New: role.Name},
	})

	return nil
}

func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id string) error {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if role.IsSystem {
		return fmt.Errorf("cannot delete system role")
	}

	if err := s.RoleRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.PolicyCleanup != nil {
		if err := s.PolicyCleanup.DeletePoliciesForRole(ctx, id); err != nil {
			return fmt.Errorf("role deleted but policy cleanup failed: %w", err)
		}
	}

	_ = s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "role", id, map[string]common_models.Change{
		"name": {Old: role.Name},
	})

	return nil
}
