package controller

import (
	"net/http"

	"startup-tycoon/apperror"
	"startup-tycoon/dto"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

var errInvalidParams = apperror.BadRequest("Invalid request parameters")

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// fail HTTP 状态码与 envelope 中的 code 一致，内部错误不把细节返回给客户端
func (ctl *Controller) fail(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		ctl.logger.Error("请求处理失败",
			zap.String("path", c.FullPath()),
			zap.String("room_id", c.Param("roomID")),
			zap.Error(err))
	}
	c.JSON(status, dto.Response{
		Code:    status,
		Message: apperror.PublicMessage(err),
		Data:    nil,
	})
}

// bind 参数可以放在 query 里，也可以放在 JSON body 里，body 中的字段覆盖 query
func bind(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return errInvalidParams
	}
	if c.ContentType() == binding.MIMEJSON && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(obj); err != nil {
			return errInvalidParams
		}
	}
	return nil
}
