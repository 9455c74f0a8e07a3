package calendarevent

import (
	"go-slms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	events := r.Group("/calendar-events")
	events.Use(middleware.AuthMiddleware())
	{
		events.GET("", middleware.RBACAuthorize(rbacService, "calendar_event", "read"), handler.GetAll)
		events.GET("/:id", middleware.RBACAuthorize(rbacService, "calendar_event", "read"), handler.GetById)
		events.POST("", middleware.RBACAuthorize(rbacService, "calendar_event", "create"), handler.Create)
		events.PUT("/:id", middleware.RBACAuthorize(rbacService, "calendar_event", "update"), handler.Update)
		events.DELETE("/:id", middleware.RBACAuthorize(rbacService, "calendar_event", "delete"), handler.Delete)
	}
}
