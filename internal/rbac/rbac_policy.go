package rbac

import "pharmacy-hr/internal/domain"

type RolePermissionRow struct {
	Role     string `gorm:"column:role;type:varchar(20);primaryKey"`
	Resource string `gorm:"column:resource;type:varchar(50);primaryKey"`
	Action   string `gorm:"column:action;type:varchar(50);primaryKey"`
}

func (RolePermissionRow) TableName() string {
	return "role_permissions"
}

// RoleInheritance lists child -> parent: a manager can do everything staff can.
var RoleInheritance = [][2]domain.Role{
	{domain.RoleManager, domain.RoleStaff},
	{domain.RoleAdmin, domain.RoleManager},
}

// DefaultPermissions is what seed writes and what Load falls back to on an empty table.
var DefaultPermissions = []RolePermissionRow{
	{Role: "staff", Resource: "work_log", Action: "read"},
	{Role: "staff", Resource: "work_log", Action: "create"},
	{Role: "staff", Resource: "work_log", Action: "update"},
	{Role: "staff", Resource: "work_log", Action: "delete"},
	{Role: "staff", Resource: "work_log", Action: "submit"},
	{Role: "staff", Resource: "payroll", Action: "read_own"},
	{Role: "staff", Resource: "profile", Action: "read_own"},

	{Role: "manager", Resource: "work_log", Action: "review"},
	{Role: "manager", Resource: "payroll", Action: "read"},
	{Role: "manager", Resource: "payroll", Action: "export"},
	{Role: "manager", Resource: "profile", Action: "read"},
	{Role: "manager", Resource: "profile", Action: "update"},

	{Role: "admin", Resource: "profile", Action: "invite"},
	{Role: "admin", Resource: "rbac", Action: "read"},
}
