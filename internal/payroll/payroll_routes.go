package payroll

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
	payroll := r.Group("/payroll")
	payroll.Use(auth)
	{
		payroll.GET("/me", middleware.RBACAuthorize(rbacService, "payroll", "read_own"), handler.GetMine)
		payroll.GET("/me/statement.pdf",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "payroll", "read_own"),
			handler.DownloadStatement,
		)
		payroll.GET("/users/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByUser)
		payroll.GET("/export.xlsx",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "payroll", "export"),
			handler.Export,
		)
	}
}
