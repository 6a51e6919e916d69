package worklog

import (
	"pharmacy-hr/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	rbacService middleware.RBACService,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	logs := r.Group("/work-logs")
	logs.Use(auth)
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "work_log", "read"), handler.ListMine)
		// harus sebelum /:id
		logs.GET("/review", middleware.RBACAuthorize(rbacService, "work_log", "review"), handler.ListForReview)
		if redisClient != nil {
			logs.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "work_log", "create"),
				handler.Create,
			)
		} else {
			logs.POST("", middleware.RBACAuthorize(rbacService, "work_log", "create"), handler.Create)
		}
		logs.GET("/:id", middleware.RBACAuthorize(rbacService, "work_log", "read"), handler.GetByID)
		logs.PUT("/:id", middleware.RBACAuthorize(rbacService, "work_log", "update"), handler.Update)
		logs.DELETE("/:id", middleware.RBACAuthorize(rbacService, "work_log", "delete"), handler.Delete)
		logs.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "work_log", "submit"), handler.Submit)
		logs.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "work_log", "review"), handler.Approve)
		logs.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "work_log", "review"), handler.Reject)
	}
}
