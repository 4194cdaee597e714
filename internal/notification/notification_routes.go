package notification

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("",
			middleware.RateLimitByCaller(3, 10),
			handler.List,
		)
		notifications.POST("/dispatch",
			middleware.RateLimitByCaller(0.2, 2),
			handler.Dispatch,
		)
		notifications.POST("/sweep",
			middleware.RateLimitByCaller(0.1, 1),
			handler.Sweep,
		)
	}
}
