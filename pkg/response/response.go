package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope used for errors and operational endpoints. The
// public contract payloads (/, /items, /predict) are written unwrapped.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

func UnprocessableEntity(c echo.Context, message string) error {
	return Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message)
}

func InternalError(c echo.Context, message string) error {
	return Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// ServiceUnavailable reports a failed readiness check with its details.
func ServiceUnavailable(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusServiceUnavailable, Response{
		Success: false,
		Data:    data,
		Error: &ErrorInfo{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "one or more dependencies are unhealthy",
		},
	})
}

// CodeFor maps an HTTP status to the envelope's error code.
func CodeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}
