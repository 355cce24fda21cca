package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/pkg/auth"
)

type AuthHandler struct {
	jwtManager *auth.JWTManager
	blacklist  auth.Blacklist
}

func NewAuthHandler(jwtMgr *auth.JWTManager, blacklist auth.Blacklist) *AuthHandler {
	return &AuthHandler{jwtManager: jwtMgr, blacklist: blacklist}
}

// Logout ставит токен в черный список до истечения. Маршрут закрыт AuthMiddleware.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken := c.GetString(middleware.TokenKey)
	if rawToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := h.blacklist.Revoke(c.Request.Context(), rawToken, time.Until(exp)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
		return
	}

	c.Status(http.StatusOK)
}

// Refresh выдает новый токен на тот же subject. Старый токен отзывается,
// если настроен черный список.
func (h *AuthHandler) Refresh(c *gin.Context) {
	rawToken := c.GetString(middleware.TokenKey)
	userID := middleware.UserID(c)
	if rawToken == "" || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	token, err := h.jwtManager.Generate(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	if h.blacklist != nil {
		exp, err := h.jwtManager.Expiry(rawToken)
		if err == nil {
			err = h.blacklist.Revoke(c.Request.Context(), rawToken, time.Until(exp))
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not revoke token"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": time.Now().Add(h.jwtManager.Duration()),
	})
}
