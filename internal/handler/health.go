package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness. Kept unauthenticated so load balancers can
// probe it.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
