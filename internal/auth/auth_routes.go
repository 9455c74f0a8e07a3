package auth

import (
	"go-slms/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Tight per-IP limit on the credential endpoints
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		authGroup.POST("/refresh", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Refresh)
		authGroup.POST("/change-password", middleware.AuthMiddleware(), handler.ChangePassword)
	}
}
