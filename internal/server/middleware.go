package server

import (
	"github.com/labstack/echo/v4"
	"github.com/pratikbuilds/account-socket/internal/platform/correlation"
)

// requestIDContext copies the request id assigned by the RequestID middleware
// into the request context, where the logging handler picks it up. Must run
// after the RequestID middleware.
func requestIDContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		ctx := correlation.WithID(c.Request().Context(), id)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
