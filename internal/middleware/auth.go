package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/IT22889256/PAF/internal/logger"
	"github.com/IT22889256/PAF/internal/requestdata"
	"github.com/IT22889256/PAF/internal/services"
)

// RequireAuth verifies the bearer token and stashes the caller's identity
// in the request context. EventSource cannot set headers, so the SSE
// endpoints pass the token as a query parameter instead.
func RequireAuth(auth services.AuthService, log *logger.Logger) gin.HandlerFunc {
	mlog := log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing bearer token",
			}})
			return
		}

		rd, err := auth.VerifyToken(tokenString)
		if err != nil {
			mlog.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "invalid or expired token",
			}})
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(c.Query("token"))
}
