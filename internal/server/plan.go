package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/liliqgyurova/toolplanner/internal/engine"
	"github.com/liliqgyurova/toolplanner/provider/groq"
)

// Planner is the plan-building dependency of the HTTP handler.
type Planner interface {
	GeneratePlan(ctx context.Context, goal, model string) (engine.Plan, string, error)
}

type PlanHandler struct {
	Engine Planner
}

func (h *PlanHandler) Register(g *echo.Group) {
	g.POST("/plan", h.plan)
}

func (h *PlanHandler) plan(c echo.Context) error {
	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	goal := strings.TrimSpace(req.UserGoal)
	if goal == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_goal is required")
	}
	// model comes from the query string; a body value wins when both are set
	model := req.Model
	if model == "" {
		model = c.QueryParam("model")
	}
	if model != "" && !groq.IsSupportedModel(model) {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported model: "+model)
	}

	t0 := time.Now()
	plan, strategy, err := h.Engine.GeneratePlan(c.Request().Context(), goal, model)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	planDuration.Observe(time.Since(t0).Seconds())
	planRequests.WithLabelValues(strategy).Inc()
	return c.JSON(http.StatusOK, plan)
}
