package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liliqgyurova/toolplanner/internal/ratings"
)

type RatingsHandler struct {
	Cache *ratings.Cache
}

func (h *RatingsHandler) Register(g *echo.Group) {
	g.POST("/refresh", h.refresh)
	g.GET("/health", h.health)
}

func (h *RatingsHandler) refresh(c echo.Context) error {
	ok, count := h.Cache.Refresh(c.Request().Context())
	if ok {
		ratingsRefreshes.WithLabelValues("success").Inc()
	} else {
		ratingsRefreshes.WithLabelValues("failure").Inc()
	}
	return c.JSON(http.StatusOK, RefreshResponse{OK: ok, Count: count})
}

func (h *RatingsHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Cache.Health())
}
