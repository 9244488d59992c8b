package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/tipsel/pkg/metrics"
)

func TestDatabaseEngine(t *testing.T) {

	engine, err := DatabaseEngine("Pebble")
	require.NoError(t, err)
	require.Equal(t, EnginePebble, engine)

	engine, err = DatabaseEngine("mapdb", EnginePebble, EngineMapDB)
	require.NoError(t, err)
	require.Equal(t, EngineMapDB, engine)

	_, err = DatabaseEngine("rocksdb")
	require.Error(t, err)

	_, err = DatabaseEngine("mapdb", EnginePebble)
	require.Error(t, err)
}

func TestCheckDatabaseEngine(t *testing.T) {

	dbPath := filepath.Join(t.TempDir(), "tangle")

	// mapdb never touches the disk
	engine, err := CheckDatabaseEngine(dbPath, true, EngineMapDB)
	require.NoError(t, err)
	require.Equal(t, EngineMapDB, engine)

	_, err = CheckDatabaseEngine(dbPath, false)
	require.Error(t, err)

	_, err = CheckDatabaseEngine(dbPath, true)
	require.Error(t, err)

	engine, err = CheckDatabaseEngine(dbPath, true, EnginePebble)
	require.NoError(t, err)
	require.Equal(t, EnginePebble, engine)

	_, err = os.Stat(filepath.Join(dbPath, "dbinfo"))
	require.NoError(t, err)

	engine, err = CheckDatabaseEngine(dbPath, false)
	require.NoError(t, err)
	require.Equal(t, EnginePebble, engine)

	engine, err = LoadDatabaseEngineFromFile(filepath.Join(dbPath, "dbinfo"))
	require.NoError(t, err)
	require.Equal(t, EnginePebble, engine)

	// the engine in the info file does not match the configuration
	otherPath := filepath.Join(t.TempDir(), "other")
	require.NoError(t, storeDatabaseInfoToFile(filepath.Join(otherPath, "dbinfo"), EngineMapDB))
	_, err = CheckDatabaseEngine(otherPath, false, EnginePebble)
	require.Error(t, err)
}

func TestOpenDatabase(t *testing.T) {

	dbPath := filepath.Join(t.TempDir(), "tangle")
	databaseMetrics := &metrics.DatabaseMetrics{}

	db, err := OpenDatabase(nil, dbPath, true, databaseMetrics, false, EnginePebble)
	require.NoError(t, err)
	require.Equal(t, EnginePebble, db.Engine())
	require.True(t, db.CompactionSupported())
	require.False(t, db.CompactionRunning())

	require.NoError(t, db.KVStore().Set([]byte("key"), []byte("value")))
	require.NoError(t, db.KVStore().Flush())
	require.NoError(t, db.KVStore().Close())

	exists, err := DatabaseExists(dbPath)
	require.NoError(t, err)
	require.True(t, exists)

	db, err = OpenDatabase(nil, dbPath, false, databaseMetrics, false)
	require.NoError(t, err)

	value, err := db.KVStore().Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
	require.NoError(t, db.KVStore().Close())

	memDB := NewMapDBDatabase(nil, databaseMetrics)
	require.Equal(t, EngineMapDB, memDB.Engine())
	require.False(t, memDB.CompactionSupported())
}
