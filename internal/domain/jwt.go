package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AccessClaims represents the custom JWT claims issued by the auth service
type AccessClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
