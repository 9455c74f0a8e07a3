package notification

import (
	"go-slms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.List)
		notifications.GET("/unread-count", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.UnreadCount)
		notifications.POST("", middleware.RBACAuthorize(rbacService, "notification", "create"), handler.Create)
		notifications.PUT("/read-all", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkAllRead)
		notifications.PUT("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkRead)
		notifications.PUT("/:id/unread", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkUnread)
	}
}
