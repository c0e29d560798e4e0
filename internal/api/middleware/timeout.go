package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SelectiveTimeoutConfig applies a short timeout to most endpoints and a
// longer one to routes that wait on the parser backend (upload and save).
func SelectiveTimeoutConfig(defaultTimeout, backendTimeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		short := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: defaultTimeout})(next)
		long := middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: backendTimeout})(next)

		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasSuffix(path, "/upload") || strings.HasSuffix(path, "/save") {
				return long(c)
			}
			return short(c)
		}
	}
}
