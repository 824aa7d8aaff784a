package security

import "github.com/golang-jwt/jwt/v5"

// UserClaims 平台签发的 Token 中携带的身份信息
type UserClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
