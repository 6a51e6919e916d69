package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}

// IsReviewer reports whether the role may approve or reject work logs.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleManager
}

// Actor is the authenticated caller handed to every business operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) IsReviewer() bool {
	return a.Role.IsReviewer()
}

func (a Actor) Is(userID uuid.UUID) bool {
	return a.ID == userID
}

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
