package rbac

import (
	"pharmacy-hr/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, service Service) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.POST("/enforce", middleware.RBACAuthorize(service, "rbac", "read"), handler.Enforce)
		group.GET("/permissions", handler.ListPermissions)
	}
}
