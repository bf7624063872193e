package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the JWT payload for authenticated users
type UserClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
