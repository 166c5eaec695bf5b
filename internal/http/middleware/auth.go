package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tdobson/snowy-sub000/internal/pkg/logger"
	"github.com/tdobson/snowy-sub000/internal/services"
)

const (
	ContextUserIDKey     = "user_id"
	ContextInstanceIDKey = "instance_id"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		identity, err := am.authService.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextInstanceIDKey, identity.InstanceID)
		c.Next()
	}
}

// CallerIdentity reads the authenticated ids set by RequireAuth. The bool
// is false on routes that skipped the middleware.
func CallerIdentity(c *gin.Context) (userID, instanceID uuid.UUID, ok bool) {
	uVal, uOK := c.Get(ContextUserIDKey)
	iVal, iOK := c.Get(ContextInstanceIDKey)
	if !uOK || !iOK {
		return uuid.Nil, uuid.Nil, false
	}
	userID, uOK = uVal.(uuid.UUID)
	instanceID, iOK = iVal.(uuid.UUID)
	return userID, instanceID, uOK && iOK
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	return ""
}
