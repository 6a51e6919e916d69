package middleware

import (
	"pharmacy-hr/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying request_id, method and route.
// Mount it after RequestID. user_id and role are added once AuthMiddleware has run.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = contextutil.GetRequestID(c.Request.Context())
		}

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
		}
		if uid := c.GetString("user_id"); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if role := c.GetString("role"); role != "" {
			fields = append(fields, zap.String("role", role))
		}

		// logger ini dipakai sepanjang request
		ctx := contextutil.WithLogger(c.Request.Context(), logger.With(fields...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
