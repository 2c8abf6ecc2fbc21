package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
	"github.com/stayware/foliopost/internal/clock"
	"github.com/stayware/foliopost/internal/config"
	ledgerservice "github.com/stayware/foliopost/internal/ledger/service"
	"github.com/stayware/foliopost/internal/observability"
	obslogger "github.com/stayware/foliopost/internal/observability/logger"
	obsmetrics "github.com/stayware/foliopost/internal/observability/metrics"
	obstracing "github.com/stayware/foliopost/internal/observability/tracing"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
	transferdomain "github.com/stayware/foliopost/internal/transfer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

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

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	Clock clock.Clock

	TaxRuleSvc    taxruledomain.Service
	AccountMapSvc accountmapdomain.Service
	PostingSvc    postingdomain.Service
	PostingRepo   postingdomain.Repository
	TransferSvc   transferdomain.Service
	Builder       *ledgerservice.Builder
	Policy        postingdomain.PolicySource
}

// Server wires the HTTP surface over the posting core. Handlers stay
// thin: bind, call the service, map the error.
type Server struct {
	engine *gin.Engine
	cfg    config.Config
	clock  clock.Clock

	taxRuleSvc    taxruledomain.Service
	accountMapSvc accountmapdomain.Service
	postingSvc    postingdomain.Service
	postingRepo   postingdomain.Repository
	transferSvc   transferdomain.Service
	builder       *ledgerservice.Builder
	policy        postingdomain.PolicySource
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		clock:         p.Clock,
		taxRuleSvc:    p.TaxRuleSvc,
		accountMapSvc: p.AccountMapSvc,
		postingSvc:    p.PostingSvc,
		postingRepo:   p.PostingRepo,
		transferSvc:   p.TransferSvc,
		builder:       p.Builder,
		policy:        p.Policy,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	outlets := v1.Group("/outlets/:outlet_id")
	outlets.GET("/tax-rules", s.ListTaxRules)
	outlets.POST("/tax-rules", s.CreateTaxRule)
	outlets.PATCH("/tax-rules/:id", s.UpdateTaxRule)
	outlets.DELETE("/tax-rules/:id", s.DeleteTaxRule)
	outlets.GET("/account-map", s.GetAccountMap)
	outlets.PUT("/account-map", s.PutAccountMap)

	v1.POST("/calculations/preview", s.PreviewCalculation)
	v1.POST("/postings", s.CreatePosting)
	v1.GET("/postings/runs", s.ListPostingRuns)
	v1.POST("/transfers", s.CreateTransfer)
}
