// Package http wires the gin router and HTTP server for the audit API.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/application/reporting"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/http/handlers"
	"github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Service        appaudit.AnalysisService
	Exporter       *reporting.Exporter
	Logger         logging.Logger
	Version        string
	AllowedOrigins []string
	HealthCheckers []handlers.HealthChecker

	// MetricsGatherer serves /metrics; nil uses the default registry.
	MetricsGatherer prometheus.Gatherer

	// Mode is gin's run mode, from config.ServerConfig.Mode.
	Mode string
}

// NewRouter assembles the full HTTP surface: middleware chain, versioned API
// group, health probes and the metrics endpoint.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	handlers.NewHealthHandler(cfg.Version, cfg.HealthCheckers...).RegisterRoutes(r)

	gatherer := cfg.MetricsGatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	handlers.NewAuditHandler(cfg.Service).RegisterRoutes(api)
	handlers.NewReportHandler(cfg.Service, cfg.Exporter).RegisterRoutes(api)

	return r
}
