package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cantonlink/route-engine/internal/domain"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func ErrorWithCode(c *gin.Context, status int, code, err string) {
	c.JSON(status, Response{
		Success: false,
		Code:    code,
		Error:   err,
	})
}

// RoutingError renders a routing failure with its canonical code and the
// HTTP status the code maps onto.
func RoutingError(c *gin.Context, rerr *domain.RoutingError) {
	ErrorWithCode(c, rerr.HTTPStatus(), rerr.Code, rerr.Message)
}

func BadRequest(c *gin.Context, err string) {
	ErrorWithCode(c, http.StatusBadRequest, domain.CodeValidation, err)
}

func InternalError(c *gin.Context, err string) {
	ErrorWithCode(c, http.StatusInternalServerError, domain.CodeInternalError, err)
}

func NotFound(c *gin.Context, err string) {
	Error(c, http.StatusNotFound, err)
}
