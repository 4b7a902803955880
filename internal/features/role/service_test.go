package role

import (
	"context"
	"testing"

	common_models "store-console/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockRoleRepo struct {
	Roles   map[string]*Role
	Deleted []string
}

func newMockRoleRepo() *MockRoleRepo {
	return &MockRoleRepo{Roles: make(map[string]*Role)}
}

func (m *MockRoleRepo) Create(ctx context.Context, role *Role) error {
	if role.ID.IsZero() {
		role.ID = primitive.NewObjectID()
	}
	m.Roles[role.ID.Hex()] = role
	return nil
}

func (m *MockRoleRepo) FindByID(ctx context.Context, id string) (*Role, error) {
	role, ok := m.Roles[id]
	if !ok {
		return nil, context.Canceled
	}
	return role, nil
}

func (m *MockRoleRepo) FindByName(ctx context.Context, name string) (*Role, error) {
	for _, role := range m.Roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (m *MockRoleRepo) List(ctx context.Context) ([]Role, error) {
	var roles []Role
	for _, role := range m.Roles {
		roles = append(roles, *role)
	}
	return roles, nil
}

func (m *MockRoleRepo) Update(ctx context.Context, id string, role *Role) error {
	m.Roles[id] = role
	return nil
}

func (m *MockRoleRepo) Delete(ctx context.Context, id string) error {
	delete(m.Roles, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

type MockAudit struct{}

func (m *MockAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (m *MockAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

type MockCleanup struct {
	Cleaned []string
}

func (m *MockCleanup) DeletePoliciesForRole(ctx context.Context, roleID string) error {
	m.Cleaned = append(m.Cleaned, roleID)
	return nil
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewRoleService(repo, &MockAudit{}, &MockCleanup{})

	if _, err := svc.CreateRole(context.Background(), &Role{Name: "Support Agent"}); err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	if _, err := svc.CreateRole(context.Background(), &Role{Name: "Support Agent"}); err == nil {
		t.Fatal("expected an error for a duplicate role name")
	}
}

func TestDeleteRoleGuardsSystemRoles(t *testing.T) {
	repo := newMockRoleRepo()
	svc := NewRoleService(repo, &MockAudit{}, &MockCleanup{})

	created, err := svc.CreateRole(context.Background(), &Role{Name: "Administrator", IsSystem: true})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	if err := svc.DeleteRole(context.Background(), created.ID.Hex()); err == nil {
		t.Fatal("expected deletion of a system role to fail")
	}
	if len(repo.Deleted) != 0 {
		t.Error("system role was deleted")
	}
}

func TestDeleteRolePurgesPolicies(t *testing.T) {
	repo := newMockRoleRepo()
	cleanup := &MockCleanup{}
	svc := NewRoleService(repo, &MockAudit{}, cleanup)

	created, err := svc.CreateRole(context.Background(), &Role{Name: "Store Manager"})
	if err != nil {
		t.Fatalf("CreateRole: %v", err)
	}

	id := created.ID.Hex()
	if err := svc.DeleteRole(context.Background(), id); err != nil {
		t.Fatalf("DeleteRole: %v", err)
	}
	if len(cleanup.Cleaned) != 1 || cleanup.Cleaned[0] != id {
		t.Errorf("policy cleanup calls = %v, want [%s]", cleanup.Cleaned, id)
	}
}
