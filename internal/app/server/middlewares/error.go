package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oip/dprate/internal/app/pkg/ginx"
	"oip/dprate/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// 捕获 panic；handler 通过 c.Error 上报且未写响应的错误按 errorutil 分类输出
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "[HTTP] panic: %v", r)
				c.Abort()
				ginx.InternalError(c, "internal server error")
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			ginx.FromError(c, err)
			return
		}
		if len(c.Errors) > 0 && c.Writer.Status() >= http.StatusInternalServerError {
			log.Errorf(c.Request.Context(), "[HTTP] request failed: %v", c.Errors.Last().Err)
		}
	}
}
