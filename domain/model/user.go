package model

import "github.com/golang-jwt/jwt"

// UserClaims is the JWT payload issued by the auth backend; Subject is the user id.
type UserClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.StandardClaims
}
