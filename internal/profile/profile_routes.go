package profile

import (
	"pharmacy-hr/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
) {
	profiles := r.Group("/profiles")
	profiles.Use(auth)
	{
		profiles.GET("/me", middleware.RBACAuthorize(rbacService, "profile", "read_own"), handler.GetMe)
		profiles.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetAll,
		)
		profiles.GET("/:id", middleware.RBACAuthorize(rbacService, "profile", "read_own"), handler.GetByID)
		profiles.PATCH("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.Update,
		)
	}

	admin := r.Group("/admin")
	admin.Use(auth)
	{
		admin.POST("/invite",
			middleware.RateLimitByUser(0.1, 3),
			middleware.RBACAuthorize(rbacService, "profile", "invite"),
			handler.Invite,
		)
	}
}
