package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/liliqgyurova/toolplanner/config"
	"github.com/liliqgyurova/toolplanner/internal/auth"
	"github.com/liliqgyurova/toolplanner/internal/catalog"
	"github.com/liliqgyurova/toolplanner/internal/engine"
	"github.com/liliqgyurova/toolplanner/internal/ratings"
	"github.com/liliqgyurova/toolplanner/internal/store"
	"github.com/liliqgyurova/toolplanner/provider"
)

// Run wires the full service and blocks serving HTTP on addr.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	httpLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		httpLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()
	dsn, err := cfg.Storage.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate("file://migrations", dsn, "up", 0); err != nil {
		httpLogger.Printf("migrations: %v", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	engLogger := log.New(log.Writer(), "[ENGINE] ", log.LstdFlags)

	var stepProvider engine.StepProvider
	if sp, err := provider.NewStepProvider(cfg.LLM); err != nil {
		if !errors.Is(err, provider.ErrNoCredentials) {
			return err
		}
		engLogger.Printf("no LLM credentials, generative plans use the deterministic fallback")
	} else {
		stepProvider = sp
	}
	newEmbedder := func() (engine.Embedder, error) {
		return provider.NewEmbeddingProvider(cfg.Embedding)
	}

	ratingsLogger := log.New(log.Writer(), "[RATINGS] ", log.LstdFlags)
	var rendered ratings.Fetcher
	if cfg.Ratings.RenderFallback {
		rendered = &ratings.RenderedFetcher{URL: cfg.Ratings.URL, Timeout: cfg.Ratings.Timeout() * 4}
	}
	cache := ratings.NewCache(ratings.Options{
		Enabled:   cfg.Ratings.Enabled,
		TTL:       cfg.Ratings.TTL(),
		FailRetry: cfg.Ratings.FailRetry(),
		Timeout:   cfg.Ratings.Timeout(),
	}, ratings.NewHTTPFetcher(cfg.Ratings.URL, cfg.Ratings.Timeout()), rendered, ratingsLogger)

	eng := engine.New(st, newEmbedder, cache, stepProvider, engLogger)
	if err := eng.RebuildIndices(ctx); err != nil {
		// the indices rebuild lazily on first plan request
		engLogger.Printf("eager index build failed: %v", err)
	}

	search, err := catalog.NewSearchIndex()
	if err != nil {
		return err
	}
	rebuildSearch := func(ctx context.Context) error {
		tools, err := st.ListAllTools(ctx)
		if err != nil {
			return err
		}
		return search.Rebuild(tools)
	}
	if err := rebuildSearch(ctx); err != nil {
		engLogger.Printf("search index build failed: %v", err)
	}

	secret, err := auth.LoadJWTSecret(cfg)
	if err != nil {
		return err
	}
	authMW := auth.EchoAuthMiddleware(secret)

	api := e.Group("/api")
	(&AuthHandler{Store: st, Secret: secret}).Register(api.Group("/auth"))
	(&PlanHandler{Engine: eng}).Register(api)
	(&RatingsHandler{Cache: cache}).Register(api.Group("/ratings"))
	(&ToolsHandler{
		Store:  st,
		Search: search,
		Logger: engLogger,
		OnChange: func(ctx context.Context) error {
			if err := eng.RebuildIndices(ctx); err != nil {
				return err
			}
			return rebuildSearch(ctx)
		},
	}).Register(api.Group("/tools"), authMW)

	if cfg.Scheduler.Enabled {
		raddr := cfg.Storage.Redis.Addr()
		if raddr == "" {
			return fmt.Errorf("scheduler enabled but redis not configured (storage.redis.host/port)")
		}
		rdb := redis.NewClient(&redis.Options{Addr: raddr, Password: cfg.Storage.Redis.Pass, DB: cfg.Storage.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", raddr, err)
		}
		sched := &Scheduler{
			Rdb:         rdb,
			Logger:      log.New(log.Writer(), "[SCHED] ", log.LstdFlags),
			RefreshCron: cfg.Scheduler.RefreshCron,
			RebuildCron: cfg.Scheduler.RebuildCron,
			Refresh: func(ctx context.Context) {
				ok, _ := cache.Refresh(ctx)
				if ok {
					ratingsRefreshes.WithLabelValues("success").Inc()
				} else {
					ratingsRefreshes.WithLabelValues("failure").Inc()
				}
			},
			Rebuild: func(ctx context.Context) error {
				if err := eng.RebuildIndices(ctx); err != nil {
					return err
				}
				return rebuildSearch(ctx)
			},
			Stop: make(chan struct{}),
		}
		sched.Start()
	}

	if addr == "" {
		addr = cfg.Server.Listen
		if addr != "" && addr[0] != ':' {
			addr = ":" + addr
		}
		if addr == "" {
			addr = ":10002"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
