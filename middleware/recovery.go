package middleware

import (
	"startup-tycoon/apperror"
	"startup-tycoon/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery panic 转成统一的错误返回。panic 出来的是 *apperror.Error 时按其类型返回
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err, ok := r.(error)
			if !ok {
				err = apperror.Internal("internal server error")
			}
			status := apperror.HTTPStatus(err)
			logger.Error("请求 panic",
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", r),
				zap.Stack("stack"))
			c.AbortWithStatusJSON(status, dto.Response{
				Code:    status,
				Message: apperror.PublicMessage(err),
				Data:    nil,
			})
		}()
		c.Next()
	}
}
