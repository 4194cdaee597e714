package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	runs := r.Group("/payroll")
	{
		generate := []gin.HandlerFunc{middleware.RateLimitByCaller(0.2, 2)}
		approve := []gin.HandlerFunc{middleware.RateLimitByCaller(0.2, 2)}
		if redisClient != nil {
			generate = append(generate, middleware.Idempotency(redisClient))
			approve = append(approve, middleware.Idempotency(redisClient))
		}
		runs.POST("/generate", append(generate, handler.Generate)...)
		runs.POST("/approve", append(approve, handler.Approve)...)
	}

	payslips := r.Group("/payslips")
	{
		payslips.GET("",
			middleware.RateLimitByCaller(3, 10),
			handler.List,
		)
		payslips.GET("/:code/:year/:month",
			middleware.RateLimitByCaller(3, 10),
			handler.Get,
		)
		payslips.GET("/:code/:year/:month/document",
			middleware.RateLimitByCaller(1, 3),
			handler.Document,
		)
	}
}
