package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"

	"github.com/liliqgyurova/toolplanner/internal/catalog"
	"github.com/liliqgyurova/toolplanner/internal/engine"
	"github.com/liliqgyurova/toolplanner/internal/store"
)

// capabilityLabels maps official capability tags to human-readable category
// names. The translations table can override these per language.
var capabilityLabels = map[string]string{
	engine.CapTextSummarize:    "Summarization",
	engine.CapTextExplain:      "Writing & Ideation",
	engine.CapTextEdit:         "Text Editing",
	engine.CapImageGenerate:    "Image Generation",
	engine.CapImageEdit:        "Image Editing",
	engine.CapVideoGenerate:    "Video Generation",
	engine.CapVideoEdit:        "Video Editing",
	engine.CapAudioTranscribe:  "Transcription",
	engine.CapVoiceGenerate:    "Voice Generation",
	engine.CapSlideGenerate:    "Presentations",
	engine.CapDocReadPDF:       "Document Analysis",
	engine.CapResearchWeb:      "Research",
	engine.CapAutomateWorkflow: "Automation",
	engine.CapIntegrations:     "Integrations",
}

type ToolsHandler struct {
	Store  *store.Store
	Search *catalog.SearchIndex
	Logger *log.Logger
	// OnChange is invoked after a catalog mutation so indices can rebuild.
	OnChange func(ctx context.Context) error
}

func (h *ToolsHandler) Register(g *echo.Group, authMW echo.MiddlewareFunc) {
	g.GET("", h.list)
	g.GET("/search", h.search)
	g.GET("/categories", h.categories)
	g.POST("", h.create, authMW)
}

func (h *ToolsHandler) list(c echo.Context) error {
	ctx := c.Request().Context()
	if tag := strings.TrimSpace(c.QueryParam("tag")); tag != "" {
		tools, err := h.Store.ListToolsByTag(ctx, tag)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, tools)
	}
	tools, err := h.Store.ListAllTools(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tools)
}

func (h *ToolsHandler) search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	k := 10
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be 1..50")
		}
		k = n
	}
	hits, err := h.Search.Search(c.Request().Context(), q, k)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hits == nil {
		hits = []catalog.Hit{}
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *ToolsHandler) categories(c echo.Context) error {
	labels := capabilityLabels
	if lang := strings.TrimSpace(c.QueryParam("lang")); lang != "" {
		overrides, err := h.Store.Translations(c.Request().Context(), lang)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if len(overrides) > 0 {
			merged := make(map[string]string, len(labels))
			for k, v := range labels {
				merged[k] = v
			}
			for k, v := range overrides {
				if _, ok := merged[k]; ok {
					merged[k] = v
				}
			}
			labels = merged
		}
	}
	type category struct {
		Tag   string `json:"tag"`
		Label string `json:"label"`
	}
	out := make([]category, 0, len(engine.CapabilityVocabulary))
	for _, tag := range engine.CapabilityVocabulary {
		out = append(out, category{Tag: tag, Label: labels[tag]})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ToolsHandler) create(c echo.Context) error {
	var t engine.ToolRecord
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(t.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	id, err := h.Store.CreateTool(c.Request().Context(), t)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return echo.NewHTTPError(http.StatusConflict, "tool already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if h.OnChange != nil {
		// index rebuild failure should not fail the write
		if err := h.OnChange(c.Request().Context()); err != nil && h.Logger != nil {
			h.Logger.Printf("index rebuild after tool create failed: %v", err)
		}
	}
	t.ID = id
	return c.JSON(http.StatusCreated, t)
}
