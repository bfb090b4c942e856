package models

import "github.com/golang-jwt/jwt/v5"

const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// OperatorClaims are the claims carried by tokens accepted on the admin API.
// Tokens are minted by the dashboard backend; this service only verifies them.
type OperatorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
