package types

import (
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	Role UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}
