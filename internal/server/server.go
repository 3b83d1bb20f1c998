package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playlistlab/pairwise/internal/config"
	"github.com/playlistlab/pairwise/internal/corpus"
	"github.com/playlistlab/pairwise/internal/observability"
	obslogger "github.com/playlistlab/pairwise/internal/observability/logger"
	obsmetrics "github.com/playlistlab/pairwise/internal/observability/metrics"
	obstracing "github.com/playlistlab/pairwise/internal/observability/tracing"
	"github.com/playlistlab/pairwise/internal/rating"
	ratingdomain "github.com/playlistlab/pairwise/internal/rating/domain"
	"github.com/playlistlab/pairwise/internal/song"
	songdomain "github.com/playlistlab/pairwise/internal/song/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	song.Module,
	rating.Module,
	corpus.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

type Params struct {
	fx.In

	Cfg       config.Config
	Log       *zap.Logger
	SongSvc   songdomain.Service
	RatingSvc ratingdomain.Service
	Syncer    *corpus.Syncer
}

type Server struct {
	cfg       config.Config
	log       *zap.Logger
	songSvc   songdomain.Service
	ratingSvc ratingdomain.Service
	syncer    *corpus.Syncer
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:       p.Cfg,
		log:       p.Log.Named("http.server"),
		songSvc:   p.SongSvc,
		ratingSvc: p.RatingSvc,
		syncer:    p.Syncer,
	}
}

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
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

func registerRoutes(r *gin.Engine, s *Server) {
	r.GET("/songs/random", s.RandomSongs)
	r.POST("/ratings", s.CreateRating)
	r.GET("/ratings/export", s.ExportRatings)
	r.POST("/admin/sync", s.RunSync)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
