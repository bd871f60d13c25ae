package responses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any, message string) {
	c.JSON(statusCode, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, statusCode int, err error, message string) {
	resp := APIResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// AbortFail is Fail for middlewares: later handlers are skipped.
func AbortFail(c *gin.Context, statusCode int, err error, message string) {
	Fail(c, statusCode, err, message)
	c.Abort()
}

// FailPage renders the HTML error page.
func FailPage(c *gin.Context, statusCode int, err error, message string) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	c.HTML(statusCode, "error.tmpl", gin.H{
		"title":   http.StatusText(statusCode),
		"status":  statusCode,
		"message": message,
		"error":   detail,
	})
}
