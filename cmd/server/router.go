package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/voxus/internal/handlers"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/pkg/auth"
)

type routes struct {
	rooms     *handlers.RoomHandler
	archive   *handlers.HTTPMessageHandler
	ws        *handlers.WebSocketHandler
	auth      *handlers.AuthHandler
	jwt       *auth.JWTManager
	blacklist auth.Blacklist
	log       *slog.Logger
}

func APIEndpoints(r *gin.Engine, rt routes) {
	// Auth endpoints
	if rt.auth != nil {
		authGroup := r.Group("/auth")
		{
			authGroup.POST("/refresh", middleware.AuthMiddleware(rt.jwt, rt.blacklist, rt.log), rt.auth.Refresh)
			if rt.blacklist != nil {
				authGroup.POST("/logout", middleware.AuthMiddleware(rt.jwt, rt.blacklist, rt.log), rt.auth.Logout)
			}
		}
	}

	// API endpoints
	api := r.Group("/api")
	{
		api.GET("/health", rt.rooms.Health)
		api.GET("/rooms", rt.rooms.ListRooms)
		api.GET("/rooms/:id/messages", rt.rooms.GetRecentMessages)
		api.GET("/rooms/:id/archive", rt.archive.GetArchive)
	}

	r.GET("/ws", middleware.IdentityMiddleware(rt.jwt, rt.blacklist, rt.log), rt.ws.HandleWebSocket)
}
