package main

import (
	"github.com/gohornet/tipsel/core/app"
	"github.com/gohornet/tipsel/core/database"
	"github.com/gohornet/tipsel/core/gracefulshutdown"
	"github.com/gohornet/tipsel/core/tipselection"
	"github.com/gohornet/tipsel/pkg/node"
	"github.com/gohornet/tipsel/plugins/prometheus"
)

func main() {
	node.Run(
		node.WithInitPlugin(app.InitPlugin),
		node.WithCorePlugins(
			gracefulshutdown.CorePlugin,
			database.CorePlugin,
			tipselection.CorePlugin,
		),
		node.WithPlugins(
			prometheus.Plugin,
		),
	)
}
