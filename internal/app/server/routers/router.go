package routers

import (
	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/server/handlers/shipping"
	"oip/dprate/internal/app/server/middlewares"
	"oip/dprate/pkg/logger"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	rateHandler *shipping.RateHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.RequestID())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "dprate",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		rates := v1.Group("/shipping")
		{
			rates.GET("/countries", rateHandler.Countries)
			rates.POST("/calculate", rateHandler.Calculate)
			rates.POST("/cache/refresh", rateHandler.RefreshCache)
			rates.DELETE("/cache", rateHandler.ClearCache)

			// 异步任务，配置了任务队列才开放
			if rateHandler.JobsEnabled() {
				rates.POST("/jobs", rateHandler.SubmitCalculateJob)
				rates.POST("/jobs/refresh", rateHandler.SubmitRefreshJob)
			}
		}
	}

	return r
}
