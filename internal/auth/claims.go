package auth

import "clubaereo/bitacora/internal/constants"

// UserClaims is what the rest of the system knows about the caller.
type UserClaims interface {
	UserID() string
	Role() string
	Source() string
}

type JWTClaims struct {
	UserUUID  string
	RoleValue constants.UserRole
}

func (c *JWTClaims) UserID() string { return c.UserUUID }
func (c *JWTClaims) Role() string   { return string(c.RoleValue) }
func (c *JWTClaims) Source() string { return "JWT" }
