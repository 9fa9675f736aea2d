package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/caseforge/casechat/internal/auth"
	"github.com/caseforge/casechat/internal/common"
)

const (
	RequestIDHeader = "X-Request-ID"
	RoleKey         = "auth_role"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[recovery] panic: %v", r)
				common.Fail(c, http.StatusInternalServerError, 50000, "internal error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// AuthRequired admits any valid gate token and records its role.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := auth.ParseToken(bearerToken(c), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		c.Set(RoleKey, role)
		c.Next()
	}
}

// AdminRequired admits only tokens issued by the admin gate.
func AdminRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := auth.ParseToken(bearerToken(c), secret)
		if err != nil || role != auth.RoleAdmin {
			common.Fail(c, http.StatusUnauthorized, 40102, "admin access required")
			c.Abort()
			return
		}
		c.Set(RoleKey, role)
		c.Next()
	}
}
