package model

import "github.com/google/uuid"

type Role string

const (
	RoleSales Role = "SALES"
	RoleAdmin Role = "ADMIN"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsSales() bool {
	return p.Role == RoleSales
}
