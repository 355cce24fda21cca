package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/pkg/auth"
)

const (
	UserIDKey = "userID"
	TokenKey  = "token"
)

// AuthMiddleware требует действительный JWT (Authorization: Bearer)
func AuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.Blacklist, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}
		if !verify(c, jwtManager, blacklist, token, log) {
			return
		}
		c.Next()
	}
}

// IdentityMiddleware - необязательная идентификация для WebSocket.
// Без токена (или без настроенного JWT) запрос проходит анонимно и
// идентичностью станет id соединения. Неверный токен отклоняется.
func IdentityMiddleware(jwtManager *auth.JWTManager, blacklist auth.Blacklist, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtManager == nil {
			c.Next()
			return
		}
		token := auth.ExtractToken(c.Request)
		if token == "" {
			c.Next()
			return
		}
		if !verify(c, jwtManager, blacklist, token, log) {
			return
		}
		c.Next()
	}
}

func verify(c *gin.Context, jwtManager *auth.JWTManager, blacklist auth.Blacklist, token string, log *slog.Logger) bool {
	// Проверяем, не в черном списке ли токен
	if blacklist != nil {
		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			log.Error("Blacklist lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token check unavailable"})
			return false
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is blacklisted"})
			return false
		}
	}

	claims, err := jwtManager.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return false
	}

	c.Set(UserIDKey, claims.Subject)
	c.Set(TokenKey, token)
	return true
}

// UserID возвращает идентичность, установленную middleware
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
