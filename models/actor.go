package models

import "strings"

// Role is the privilege level carried in the caller's token.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim value onto a Role. Unknown values fall back to GUEST.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// Actor identifies the caller of a booking operation.
type Actor struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
