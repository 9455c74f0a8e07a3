package balance

import (
	"go-slms/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/me", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetMine)
		balances.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "balance", "read_any"), handler.GetByEmployee)
	}

	entitlements := r.Group("/entitlements")
	entitlements.Use(middleware.AuthMiddleware())
	{
		entitlements.GET("/employee/:id", middleware.RBACAuthorize(rbacService, "entitlement", "read"), handler.GetEntitlements)
		entitlements.POST("", middleware.RBACAuthorize(rbacService, "entitlement", "create"), handler.SetEntitlement)
		entitlements.DELETE("/:id", middleware.RBACAuthorize(rbacService, "entitlement", "delete"), handler.DeleteEntitlement)
	}
}
