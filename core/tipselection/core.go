package tipselection

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/iotaledger/hive.go/configuration"
	"github.com/iotaledger/hive.go/events"
	"github.com/iotaledger/hive.go/logger"
	"github.com/iotaledger/hive.go/timeutil"

	"github.com/gohornet/tipsel/pkg/common"
	"github.com/gohornet/tipsel/pkg/dag"
	"github.com/gohornet/tipsel/pkg/ledger"
	"github.com/gohornet/tipsel/pkg/metrics"
	"github.com/gohornet/tipsel/pkg/model/hornet"
	"github.com/gohornet/tipsel/pkg/model/storage"
	"github.com/gohornet/tipsel/pkg/node"
	"github.com/gohornet/tipsel/pkg/shutdown"
	"github.com/gohornet/tipsel/pkg/tipselect"
)

func init() {
	CorePlugin = &node.CorePlugin{
		Pluggable: node.Pluggable{
			Name:      "TipSel",
			DepsFunc:  func(cDeps dependencies) { deps = cDeps },
			Params:    params,
			Provide:   provide,
			Configure: configure,
			Run:       run,
		},
	}
}

var (
	CorePlugin *node.CorePlugin
	deps       dependencies

	onTransactionSolid   *events.Closure
	onEntryPointSelected *events.Closure
)

type dependencies struct {
	dig.In
	NodeConfig         *configuration.Configuration `name:"nodeConfig"`
	Storage            *storage.Storage
	LedgerService      *ledger.Service
	TipPool            *tipselect.TipPool
	EntryPointSelector *tipselect.CumulativeWeightThresholdEntryPointSelector
	TipSelMetrics      *metrics.TipSelMetrics
}

func provide(c *dig.Container) {

	if err := c.Provide(func() *metrics.TipSelMetrics {
		return &metrics.TipSelMetrics{}
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	type tipPoolDeps struct {
		dig.In
		NodeConfig *configuration.Configuration `name:"nodeConfig"`
		Storage    *storage.Storage
	}

	if err := c.Provide(func(deps tipPoolDeps) *tipselect.TipPool {
		return tipselect.NewTipPool(
			deps.Storage,
			uint32(deps.NodeConfig.Int(CfgTipSelTipPoolMaxApprovers)),
			deps.NodeConfig.Duration(CfgTipSelTipPoolMaxReferencedTipAge),
		)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(deps tipPoolDeps) *tipselect.HeaviestTipSelector {
		return tipselect.NewHeaviestTipSelector(deps.Storage, deps.NodeConfig.Int(CfgTipSelHeaviestTipMaxPastConeSize))
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	if err := c.Provide(func(tipPool *tipselect.TipPool, heaviestTipSelector *tipselect.HeaviestTipSelector) *tipselect.SolidTipSelector {
		return tipselect.NewSolidTipSelector(tipPool, heaviestTipSelector)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}

	type selectorDeps struct {
		dig.In
		NodeConfig       *configuration.Configuration `name:"nodeConfig"`
		Storage          *storage.Storage
		SolidTipSelector *tipselect.SolidTipSelector
		TipSelMetrics    *metrics.TipSelMetrics
	}

	if err := c.Provide(func(deps selectorDeps) *tipselect.CumulativeWeightThresholdEntryPointSelector {
		return tipselect.NewCumulativeWeightThresholdEntryPointSelector(
			deps.Storage,
			deps.NodeConfig.Int(CfgTipSelEntryPointThreshold),
			deps.NodeConfig.Int(CfgTipSelEntryPointMaxFutureSetSize),
			deps.SolidTipSelector,
			dag.NewTailFinder(deps.Storage),
			tipselect.WithLogger(logger.NewLogger("EntryPoint")),
			tipselect.WithMetrics(deps.TipSelMetrics),
		)
	}); err != nil {
		CorePlugin.LogPanic(err)
	}
}

func configure() {

	loaded, err := deps.TipPool.LoadTips(deps.Storage)
	if err != nil {
		CorePlugin.LogPanicf("loading tips failed: %s", err)
	}
	CorePlugin.LogInfof("Loaded %d tips into the tip pool", loaded)

	CorePlugin.LogInfof("Entry point threshold: %d, max subtangle size: %d",
		deps.EntryPointSelector.Threshold(), deps.EntryPointSelector.MaxSubtangleSize())

	configureEvents()
}

func run() {

	if err := CorePlugin.Daemon().BackgroundWorker("TipPool[Events]", func(ctx context.Context) {
		attachEvents()
		<-ctx.Done()
		detachEvents()
	}, shutdown.PriorityTipPool); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}

	if err := CorePlugin.Daemon().BackgroundWorker("EntryPoint selection", func(ctx context.Context) {
		ticker := timeutil.NewTicker(selectEntryPoint, deps.NodeConfig.Duration(CfgTipSelEntryPointInterval), ctx)
		ticker.WaitForGracefulShutdown()
	}, shutdown.PriorityEntryPointSelection); err != nil {
		CorePlugin.LogPanicf("failed to start worker: %s", err)
	}
}

func configureEvents() {

	onTransactionSolid = events.NewClosure(func(txHash hornet.Hash) {
		if err := deps.TipPool.AddTip(txHash); err != nil {
			if errors.Is(err, tipselect.ErrTipNotTail) || errors.Is(err, tipselect.ErrTipNotSolid) {
				return
			}
			CorePlugin.LogWarnf("adding tip %s failed: %s", txHash.Trytes(), err)
		}
	})

	onEntryPointSelected = events.NewClosure(func(stats *tipselect.EntryPointStats) {
		CorePlugin.LogDebugf("entry point %s selected, weight: %d, steps: %d, probes: %d, took: %v",
			stats.EntryPoint.Trytes(), stats.Weight, stats.Steps, stats.WeightProbes, stats.Duration.Truncate(time.Microsecond))
	})
}

func attachEvents() {
	deps.Storage.Events.TransactionSolid.Attach(onTransactionSolid)
	deps.EntryPointSelector.Events.EntryPointSelected.Attach(onEntryPointSelected)
}

func detachEvents() {
	deps.Storage.Events.TransactionSolid.Detach(onTransactionSolid)
	deps.EntryPointSelector.Events.EntryPointSelected.Detach(onEntryPointSelected)
}

func selectEntryPoint() {

	entryPoint, err := deps.EntryPointSelector.EntryPoint()
	if err != nil {
		var criticalErr common.CriticalError
		if errors.As(err, &criticalErr) {
			CorePlugin.LogErrorf("entry point selection failed: %s", err)
			return
		}
		CorePlugin.LogWarnf("entry point selection failed: %s", err)
		return
	}

	if !deps.NodeConfig.Bool(CfgTipSelEntryPointValidateTips) {
		CorePlugin.LogInfof("Entry point: %s", entryPoint.Trytes())
		return
	}

	validTips, tipsCount, err := validateTips()
	if err != nil {
		CorePlugin.LogWarnf("validating tips failed: %s", err)
		return
	}

	CorePlugin.LogInfof("Entry point: %s, valid tips: %d/%d", entryPoint.Trytes(), validTips, tipsCount)
}

// validateTips checks all tips of the pool with a single walk validator,
// so every accepted tip is consistent with the ones accepted before.
func validateTips() (int, int, error) {

	approved := map[string]struct{}{
		hornet.NullHashBytes.ToMapKey(): {},
	}
	diff := make(map[string]int64)

	walkValidator := tipselect.NewWalkValidator(CorePlugin.Logger(), deps.Storage, deps.LedgerService, approved, diff, deps.TipSelMetrics)

	tips := deps.TipPool.Tips()
	validTips := 0
	for _, tip := range tips {
		valid, err := walkValidator.IsValid(tip)
		if err != nil {
			return 0, len(tips), err
		}
		if valid {
			validTips++
		}
	}

	return validTips, len(tips), nil
}
