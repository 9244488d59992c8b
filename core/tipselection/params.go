package tipselection

import (
	"time"

	flag "github.com/spf13/pflag"

	"github.com/gohornet/tipsel/pkg/node"
)

const (
	// the cumulative weight an entry point must reach
	CfgTipSelEntryPointThreshold = "tipsel.entryPoint.threshold"
	// the maximum amount of approvers counted by a single cumulative weight calculation
	CfgTipSelEntryPointMaxFutureSetSize = "tipsel.entryPoint.maxFutureSetSize"
	// the interval in which a new entry point is selected
	CfgTipSelEntryPointInterval = "tipsel.entryPoint.interval"
	// whether the tips of the pool are checked against the ledger after every entry point selection
	CfgTipSelEntryPointValidateTips = "tipsel.entryPoint.validateTips"
	// the maximum amount of transactions traversed per tip to find the heaviest tip
	CfgTipSelHeaviestTipMaxPastConeSize = "tipsel.heaviestTip.maxPastConeSize"
	// the maximum amount of references by other transactions before a tip is removed from the pool
	CfgTipSelTipPoolMaxApprovers = "tipsel.tipPool.maxApprovers"
	// the maximum time a tip remains in the pool after it was referenced by the first transaction
	CfgTipSelTipPoolMaxReferencedTipAge = "tipsel.tipPool.maxReferencedTipAge"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.Int(CfgTipSelEntryPointThreshold, 1000, "the cumulative weight an entry point must reach")
			fs.Int(CfgTipSelEntryPointMaxFutureSetSize, 5000, "the maximum amount of approvers counted by a single cumulative weight calculation")
			fs.Duration(CfgTipSelEntryPointInterval, 10*time.Second, "the interval in which a new entry point is selected")
			fs.Bool(CfgTipSelEntryPointValidateTips, true, "whether the tips of the pool are checked against the ledger after every entry point selection")
			fs.Int(CfgTipSelHeaviestTipMaxPastConeSize, 100000, "the maximum amount of transactions traversed per tip to find the heaviest tip")
			fs.Uint32(CfgTipSelTipPoolMaxApprovers, 2, "the maximum amount of references by other transactions before a tip is removed from the pool")
			fs.Duration(CfgTipSelTipPoolMaxReferencedTipAge, 3*time.Second, "the maximum time a tip remains in the pool after it was referenced by the first transaction")
			return fs
		}(),
	},
	Masked: nil,
}
