// Stores accepted events in a local SQLite table
package sqlite

import (
	"database/sql"
	"fmt"
	"svclog/internal/global"

	_ "modernc.org/sqlite"
)

const createTable = `CREATE TABLE IF NOT EXISTS service_calls (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	service        TEXT    NOT NULL,
	parent         TEXT    NOT NULL,
	pid            INTEGER NOT NULL,
	execution      TEXT    NOT NULL,
	transaction_id TEXT    NOT NULL,
	start_us       INTEGER NOT NULL,
	end_us         INTEGER NOT NULL,
	pending_us     INTEGER NOT NULL,
	code           TEXT    NOT NULL,
	call_order     TEXT    NOT NULL,
	logged_at      DATETIME DEFAULT CURRENT_TIMESTAMP
)`

const createIndex = `CREATE INDEX IF NOT EXISTS idx_service_calls_service ON service_calls(service)`

const insertCall = `INSERT INTO service_calls
	(service, parent, pid, execution, transaction_id, start_us, end_us, pending_us, code, call_order)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Creates new sqlite output module. Returns nil nil if no path.
func NewOutput(namespace []string, path string) (module *OutModule, err error) {
	if path == "" {
		return
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		err = fmt.Errorf("failed opening sqlite database %q: %w", path, err)
		return
	}
	// Single writer
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", global.DefaultSQLiteBusyTimeout.Milliseconds()),
	}
	for _, statement := range append(pragmas, createTable, createIndex) {
		_, err = db.Exec(statement)
		if err != nil {
			db.Close()
			err = fmt.Errorf("failed preparing sqlite database (%s): %w", statement, err)
			return
		}
	}

	insert, err := db.Prepare(insertCall)
	if err != nil {
		db.Close()
		err = fmt.Errorf("failed preparing sqlite insert: %w", err)
		return
	}

	module = &OutModule{
		Namespace: append(append([]string{}, namespace...), global.NSoSQLite),
		path:      path,
		db:        db,
		insert:    insert,
		Metrics:   &MetricStorage{},
	}
	return
}

func (mod *OutModule) Name() (name string) {
	name = "sqlite"
	return
}

// Gracefully stops module
func (mod *OutModule) Shutdown() (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()

	if mod.db == nil {
		return
	}
	mod.insert.Close()
	err = mod.db.Close()
	mod.db = nil
	mod.insert = nil
	return
}
