package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
)

var appInfo *prometheus.GaugeVec

func configureInfo() {
	appInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "iota",
			Subsystem: "node",
			Name:      "app_info",
			Help:      "Node software name and version.",
		},
		[]string{"name", "version"},
	)
	appInfo.WithLabelValues(deps.AppInfo.Name, deps.AppInfo.Version).Set(1)

	registry.MustRegister(appInfo)
}
