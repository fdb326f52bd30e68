package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HansTydecks/fast-lessonplan/pkg/response"
)

// codeInvalidParams 请求参数校验失败
const codeInvalidParams = 20001

// MustBindJSON 绑定并校验 JSON 请求体。
// 失败时写入 400（超出大小限制时 413）响应并返回 false，调用方应直接 return。
func MustBindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidParams, "参数校验失败", err.Error())
		return false
	}
	return true
}

// MustBindQuery 绑定并校验查询参数。
func MustBindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidParams, "参数校验失败", err.Error())
		return false
	}
	return true
}

// RequestID 中间件注入的请求追踪 ID，不存在时为空串
func RequestID(c *gin.Context) string {
	v, exists := c.Get("request_id")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

// internalError 500，附带请求 ID 便于对照日志
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	if rid := RequestID(c); rid != "" {
		response.ErrorWithDetails(c, http.StatusInternalServerError, 50000, "服务器内部错误", "request_id="+rid)
		return
	}
	response.InternalError(c)
}
