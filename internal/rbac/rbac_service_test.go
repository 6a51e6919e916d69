package rbac_test

import (
	"context"
	"errors"
	"testing"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/rbac"
	"pharmacy-hr/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	rows []rbac.RolePermissionRow
	err  error
}

func (f *fakeRepo) ListRolePermissions(ctx context.Context) ([]rbac.RolePermissionRow, error) {
	return f.rows, f.err
}

func (f *fakeRepo) UpsertRolePermissions(ctx context.Context, rows []rbac.RolePermissionRow) error {
	f.rows = append(f.rows, rows...)
	return f.err
}

func newService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	svc := rbac.NewService(repo, enforcer)
	assert.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestRBACService_DefaultPolicy(t *testing.T) {
	svc := newService(t, &fakeRepo{})

	tests := []struct {
		role, resource, action string
		want                   bool
	}{
		{"staff", "work_log", "create", true},
		{"staff", "work_log", "review", false},
		{"staff", "payroll", "read", false},
		{"manager", "work_log", "create", true},
		{"manager", "work_log", "review", true},
		{"manager", "profile", "invite", false},
		{"admin", "work_log", "submit", true},
		{"admin", "profile", "invite", true},
		{"owner", "work_log", "read", false},
	}

	for _, tt := range tests {
		allowed, err := svc.Enforce(domain.EnforceRequest{Role: tt.role, Resource: tt.resource, Action: tt.action})
		assert.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s:%s", tt.role, tt.resource, tt.action)
	}
}

func TestRBACService_LoadFromRepository(t *testing.T) {
	svc := newService(t, &fakeRepo{rows: []rbac.RolePermissionRow{
		{Role: "staff", Resource: "work_log", Action: "read"},
	}})

	allowed, err := svc.Enforce(domain.EnforceRequest{Role: "admin", Resource: "work_log", Action: "read"})
	assert.NoError(t, err)
	assert.True(t, allowed)

	denied, err := svc.Enforce(domain.EnforceRequest{Role: "admin", Resource: "profile", Action: "invite"})
	assert.NoError(t, err)
	assert.False(t, denied)
}

func TestRBACService_LoadError(t *testing.T) {
	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	svc := rbac.NewService(&fakeRepo{err: errors.New("db down")}, enforcer)
	assert.EqualError(t, svc.Load(context.Background()), "db down")
}

func TestRBACService_PermissionsIncludeInherited(t *testing.T) {
	svc := newService(t, &fakeRepo{})

	perms, err := svc.Permissions("manager")
	assert.NoError(t, err)

	has := func(resource, action string) bool {
		for _, p := range perms {
			if p.Resource == resource && p.Action == action {
				return true
			}
		}
		return false
	}
	assert.True(t, has("work_log", "review"))
	assert.True(t, has("work_log", "submit"))
	assert.False(t, has("profile", "invite"))
}
