// Package testdb builds throwaway in-memory stores for tests.
package testdb

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/noteful/noteful/internal/db"
)

var storeCounter atomic.Int64

// NewStoreInMemory creates an in-memory Store with the full schema applied.
// Each call yields a fully isolated database, so parallel tests never share
// state.
func NewStoreInMemory() (*db.Store, error) {
	// A named shared-cache database keeps all pool connections on the same
	// in-memory instance; the counter keeps separate calls isolated.
	name := fmt.Sprintf("testdb-%d", storeCounter.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	sqlDB, err := sql.Open(db.SQLiteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(10)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping in-memory database: %w", err)
	}

	if err := applyFastSQLitePragmas(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("apply fast SQLite pragmas: %w", err)
	}

	if _, err := sqlDB.Exec(db.Schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("initialize in-memory schema: %w", err)
	}

	return db.NewStoreFromSQL(sqlDB), nil
}

func applyFastSQLitePragmas(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=MEMORY",
		"PRAGMA synchronous=OFF",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}
	return nil
}
