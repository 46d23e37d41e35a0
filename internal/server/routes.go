package server

import (
	"net/http"

	"orderbot/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, catalogH *handler.CatalogHandler, orderH *handler.OrderHandler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	catalogH.RegisterRoutes(e)
	orderH.RegisterRoutes(e)
}
