package middleware

import (
	"net/http"
	"strings"

	"Outbreak/internal/shared/security"
	"Outbreak/internal/shared/transport"

	"github.com/gin-gonic/gin"
)

const ctxKeySubject = "auth.subject"

// Auth 校验 Authorization: Bearer <jwt>。secret 为空时放行所有请求。
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			_ = c.Error(security.ErrTokenMissing)
			c.AbortWithStatusJSON(http.StatusUnauthorized, transport.Envelope{Code: transport.Unauthorized, Msg: "missing token"})
			return
		}
		claims, err := security.ParseToken(secret, token)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, transport.Envelope{Code: transport.Unauthorized, Msg: "invalid token"})
			return
		}
		c.Set(ctxKeySubject, claims.Subject)
		c.Next()
	}
}

// Subject 返回 Auth 校验通过后 token 里的 subject。
func Subject(c *gin.Context) string {
	return c.GetString(ctxKeySubject)
}
