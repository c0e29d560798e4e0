package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-editor/pkg/models"
	"resume-editor/pkg/utils"
)

// RequestValidation middleware tags every request with an ID and caps the
// request body at maxBodySize bytes (uploads are the largest payload).
func RequestValidation(maxBodySize int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			if c.Request().ContentLength > maxBodySize {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}

			return next(c)
		}
	}
}
