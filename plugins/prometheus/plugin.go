package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"

	"github.com/gohornet/tipsel/core/app"
	"github.com/gohornet/tipsel/pkg/database"
	"github.com/gohornet/tipsel/pkg/metrics"
	"github.com/gohornet/tipsel/pkg/node"
	"github.com/gohornet/tipsel/pkg/shutdown"
	"github.com/gohornet/tipsel/pkg/tipselect"
)

// RouteMetrics is the route for getting the prometheus metrics.
// GET returns metrics.
const (
	RouteMetrics = "/metrics"
)

func init() {
	Plugin = &node.Plugin{
		Status: node.Disabled,
		Pluggable: node.Pluggable{
			Name:      "Prometheus",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	Plugin *node.Plugin
	deps   dependencies

	registry = prometheus.NewRegistry()
	collects []func()
)

type dependencies struct {
	dig.In
	AppInfo         *app.AppInfo
	NodeConfig      *configuration.Configuration `name:"nodeConfig"`
	Database        *database.Database
	DatabaseMetrics *metrics.DatabaseMetrics
	TipSelMetrics   *metrics.TipSelMetrics
	TipPool         *tipselect.TipPool
	PrometheusEcho  *echo.Echo `name:"prometheusEcho"`
}

func provide(c *dig.Container) {

	type depsOut struct {
		dig.Out
		PrometheusEcho *echo.Echo `name:"prometheusEcho"`
	}

	if err := c.Provide(func() depsOut {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())
		return depsOut{
			PrometheusEcho: e,
		}
	}); err != nil {
		Plugin.LogPanic(err)
	}
}

func configure() {
	configureInfo()

	if deps.NodeConfig.Bool(CfgPrometheusDatabase) {
		configureDatabase()
	}
	if deps.NodeConfig.Bool(CfgPrometheusTipSel) {
		configureTipSelection()
	}
	if deps.NodeConfig.Bool(CfgPrometheusGoMetrics) {
		registry.MustRegister(collectors.NewGoCollector())
	}
	if deps.NodeConfig.Bool(CfgPrometheusProcessMetrics) {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
}

func addCollect(collect func()) {
	collects = append(collects, collect)
}

func metricsHandler() http.Handler {
	handler := promhttp.HandlerFor(
		registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
	if deps.NodeConfig.Bool(CfgPrometheusPromhttpMetrics) {
		handler = promhttp.InstrumentMetricHandler(registry, handler)
	}
	return handler
}

func run() {
	Plugin.LogInfo("Starting Prometheus exporter ...")

	handler := metricsHandler()

	deps.PrometheusEcho.GET(RouteMetrics, func(c echo.Context) error {
		for _, collect := range collects {
			collect()
		}
		handler.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	})

	if err := Plugin.Daemon().BackgroundWorker("Prometheus exporter", func(ctx context.Context) {
		Plugin.LogInfo("Starting Prometheus exporter ... done")

		bindAddr := deps.NodeConfig.String(CfgPrometheusBindAddress)

		go func() {
			Plugin.LogInfof("You can now access the Prometheus exporter using: http://%s%s", bindAddr, RouteMetrics)
			if err := deps.PrometheusEcho.Start(bindAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				Plugin.LogWarnf("Stopped Prometheus exporter due to an error (%s)", err)
			}
		}()

		<-ctx.Done()
		Plugin.LogInfo("Stopping Prometheus exporter ...")

		shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCtxCancel()

		if err := deps.PrometheusEcho.Shutdown(shutdownCtx); err != nil {
			Plugin.LogWarnf("%s", err)
		}
		Plugin.LogInfo("Stopping Prometheus exporter ... done")
	}, shutdown.PriorityPrometheus); err != nil {
		Plugin.LogPanicf("failed to start worker: %s", err)
	}
}
