package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"washpos/internal/server/session"
)

// APIKey returns a middleware enforcing the project API key header.
// The key identifies the terminal installation, not the user.
func APIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !session.SecureCompare(c.Request().Header.Get("apikey"), key) {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": echo.Map{
						"tag":     "invalid-apikey",
						"message": "Invalid API key.",
					},
				})
			}
			return next(c)
		}
	}
}
