package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload embedded in issued access tokens.
type JWTClaims struct {
	UserID   int64  `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
