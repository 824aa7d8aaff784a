package middleware

import (
	"Courier/internal/api/config"
	"Courier/internal/pkg/consts"
	"Courier/internal/pkg/response"
	"Courier/internal/pkg/security"
	"context"
	log "log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

// RevokedTokenStore 已注销 Token 的签名名单，未命中时返回空串
type RevokedTokenStore interface {
	GetValue(ctx context.Context, key string) (string, error)
}

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware(cfg config.JWTConfig, revoked RevokedTokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		signature, err := security.ExtractSignature(tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 缺失或格式错误")
			c.Abort()
			return
		}

		value, err := revoked.GetValue(c.Request.Context(), consts.RevokedTokenKey+signature)
		if err != nil {
			log.ErrorContext(c.Request.Context(), "check revoked token failed", "err", err)
			response.Fail(c, response.InternalServerError, "未知错误")
			c.Abort()
			return
		}
		if value != "" {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		claims, err := security.ValidateToken(cfg, tokenString)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		userID, err := gocql.ParseUUID(claims.UserID)
		if err != nil {
			response.Fail(c, response.Unauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(RoleKey, claims.Role)

		c.Next()
	}
}
