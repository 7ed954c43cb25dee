package sqlite

import (
	"database/sql"
	"sync"
	"sync/atomic"
)

type OutModule struct {
	Namespace []string
	path      string
	mu        sync.Mutex
	db        *sql.DB
	insert    *sql.Stmt
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Inserted atomic.Uint64
	Failures atomic.Uint64
}
