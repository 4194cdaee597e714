package deduction

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	deductions := r.Group("/deductions")
	{
		deductions.GET("",
			middleware.RateLimitByCaller(3, 10),
			handler.GetAll,
		)
		deductions.GET("/:code",
			middleware.RateLimitByCaller(3, 10),
			handler.GetByCode,
		)
		deductions.POST("",
			middleware.RateLimitByCaller(0.5, 2),
			handler.Create,
		)
		deductions.PUT("/:code",
			middleware.RateLimitByCaller(0.5, 2),
			handler.Update,
		)
		deductions.DELETE("/:code",
			middleware.RateLimitByCaller(0.1, 1),
			handler.Delete,
		)
	}
}
