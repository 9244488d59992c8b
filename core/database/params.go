package database

import (
	flag "github.com/spf13/pflag"

	"github.com/gohornet/tipsel/pkg/database"
	"github.com/gohornet/tipsel/pkg/node"
)

const (
	// the used database engine (pebble/mapdb)
	CfgDatabaseEngine = "db.engine"
	// the path to the database folder
	CfgDatabasePath = "db.path"
	// ignore the check for corrupted databases (should only be used for debug reasons)
	CfgDatabaseDebug = "db.debug"
	// the path to the initial ledger state file, only imported into an empty ledger
	CfgDatabaseLedgerFilePath = "db.ledgerFilePath"
)

var params = &node.PluginParams{
	Params: map[string]*flag.FlagSet{
		"nodeConfig": func() *flag.FlagSet {
			fs := flag.NewFlagSet("", flag.ContinueOnError)
			fs.String(CfgDatabaseEngine, string(database.EngineMapDB), "the used database engine (pebble/mapdb)")
			fs.String(CfgDatabasePath, "tangledb", "the path to the database folder")
			fs.Bool(CfgDatabaseDebug, false, "ignore the check for corrupted databases (should only be used for debug reasons)")
			fs.String(CfgDatabaseLedgerFilePath, "", "the path to the initial ledger state file, only imported into an empty ledger")
			return fs
		}(),
	},
	Masked: nil,
}
