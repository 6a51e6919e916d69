package auth

import (
	"pharmacy-hr/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.GET("/me", auth, middleware.RateLimitByUser(2, 5), handler.Me)
		group.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		group.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		group.POST("/logout", handler.Logout)
		group.POST("/accept-invite", middleware.RateLimitByIP(0.1, 3), handler.AcceptInvite)
	}
}
