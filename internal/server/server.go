package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	"github.com/mocksmith/mocksmith/internal/config"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	"github.com/mocksmith/mocksmith/internal/observability"
	obsmiddleware "github.com/mocksmith/mocksmith/internal/observability/logger"
	obsmetrics "github.com/mocksmith/mocksmith/internal/observability/metrics"
	obstracing "github.com/mocksmith/mocksmith/internal/observability/tracing"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, node *snowflake.Node) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		RequestID:       func() string { return node.Generate().String() },
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, node *snowflake.Node) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, node)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	apiKeySvc   apikeydomain.Service
	quotaSvc    quotadomain.Service
	generateSvc generatedomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	APIKeySvc   apikeydomain.Service
	QuotaSvc    quotadomain.Service
	GenerateSvc generatedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		apiKeySvc:   p.APIKeySvc,
		quotaSvc:    p.QuotaSvc,
		generateSvc: p.GenerateSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/generate", s.CallerContext(), s.Generate)
	v1.GET("/usage", s.CallerContext(), s.GetUsage)

	// Key management is driven by the external account surface, which
	// identifies the account out of band.
	keys := v1.Group("/api-keys", s.AccountRequired())
	{
		keys.GET("", s.ListAPIKeys)
		keys.POST("", s.CreateAPIKey)
		keys.DELETE("/:id", s.RevokeAPIKey)
	}
}
