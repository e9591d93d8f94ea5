package resp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 统一响应格式 {code, message, data}
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	CodeOK       = 0
	CodeInternal = 1000
	CodeNotFound = 1001
	CodeBadParam = 1002
	CodeConflict = 1003
)

var codeMessage = map[int]string{
	CodeOK:       "ok",
	CodeInternal: "internal_error",
	CodeNotFound: "not_found",
	CodeBadParam: "bad_parameter",
	CodeConflict: "conflict",
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{Code: CodeOK, Message: codeMessage[CodeOK], Data: data})
}

// Err 带业务码的错误响应；msg 为空时用码的默认文案
func Err(c *gin.Context, code int, msg string) {
	if msg == "" {
		msg = codeMessage[code]
	}
	c.JSON(httpStatusFromCode(code), Body{Code: code, Message: msg})
}

func httpStatusFromCode(code int) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeBadParam:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
