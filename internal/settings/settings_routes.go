package settings

import (
	"go-slms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	group := r.Group("/settings")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.GetAll)
		group.GET("/:key", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.Get)
		group.PUT("", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.Set)
		group.DELETE("/:key", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.Delete)
	}
}
