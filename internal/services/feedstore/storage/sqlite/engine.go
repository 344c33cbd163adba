package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	sqlitemigrate "github.com/louisbranch/feedstore/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage"
	_ "modernc.org/sqlite"
)

const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)"

// UnitOfWork is a body scheduled on the engine's serial context.
type UnitOfWork func(ctx context.Context, unit *Unit)

// Engine owns the SQLite handle and the serial context every read and write runs on.
//
// Units of work submitted through [Engine.Perform] run one at a time, in
// submission order, on a single worker goroutine. Submission never blocks.
type Engine struct {
	path  string
	sqlDB *sql.DB

	mu      sync.Mutex
	pending []UnitOfWork
	closing bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// OpenEngine opens the SQLite file at path and applies the schema rooted at
// schemaName inside schemas.
//
// Returns [storage.ErrSchemaNotFound] when the schema root is missing and a
// [*storage.StoreLoadError] when the database cannot be opened or migrated.
func OpenEngine(path string, schemas fs.FS, schemaName string) (*Engine, error) {
	if _, err := sqlitemigrate.ListMigrations(schemas, schemaName); err != nil {
		if errors.Is(err, sqlitemigrate.ErrNoMigrations) {
			return nil, fmt.Errorf("%w: %q", storage.ErrSchemaNotFound, schemaName)
		}
		return nil, &storage.StoreLoadError{Path: path, Err: err}
	}

	if strings.TrimSpace(path) == "" {
		return nil, &storage.StoreLoadError{Err: errors.New("storage path is required")}
	}
	cleanPath := filepath.Clean(path)

	sqlDB, err := sql.Open("sqlite", cleanPath+dsnPragmas)
	if err != nil {
		return nil, &storage.StoreLoadError{Path: cleanPath, Err: fmt.Errorf("open sqlite db: %w", err)}
	}
	// All units share one connection; per-connection pragmas apply to every unit.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, &storage.StoreLoadError{Path: cleanPath, Err: fmt.Errorf("ping sqlite db: %w", err)}
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, schemas, schemaName); err != nil {
		_ = sqlDB.Close()
		return nil, &storage.StoreLoadError{Path: cleanPath, Err: fmt.Errorf("apply schema %q: %w", schemaName, err)}
	}

	engine := &Engine{
		path:  cleanPath,
		sqlDB: sqlDB,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go engine.run()
	return engine, nil
}

// Path returns the cleaned database path.
func (e *Engine) Path() string {
	if e == nil {
		return ""
	}
	return e.path
}

// Perform schedules work on the serial context and returns immediately.
func (e *Engine) Perform(work UnitOfWork) error {
	if e == nil {
		return storage.ErrClosed
	}
	if work == nil {
		return errors.New("unit of work is required")
	}

	e.mu.Lock()
	if e.closing {
		e.mu.Unlock()
		return storage.ErrClosed
	}
	e.pending = append(e.pending, work)
	e.mu.Unlock()

	e.signal()
	return nil
}

// Close stops accepting work, runs everything already submitted and closes
// the database. Safe to call more than once.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closing = true
		e.mu.Unlock()
		e.signal()

		<-e.done
		e.closeErr = e.sqlDB.Close()
	})
	return e.closeErr
}

func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		work, ok := e.next()
		if !ok {
			return
		}
		e.execute(work)
	}
}

// next blocks until a unit is pending. It reports false once the engine is
// closing and the queue is drained.
func (e *Engine) next() (UnitOfWork, bool) {
	e.mu.Lock()
	for len(e.pending) == 0 {
		if e.closing {
			e.mu.Unlock()
			return nil, false
		}
		e.mu.Unlock()
		<-e.wake
		e.mu.Lock()
	}
	work := e.pending[0]
	e.pending[0] = nil
	e.pending = e.pending[1:]
	e.mu.Unlock()
	return work, true
}

func (e *Engine) execute(work UnitOfWork) {
	unit := &Unit{sqlDB: e.sqlDB}
	defer unit.rollback()
	work(context.Background(), unit)
}

// Unit is the transaction scope of one unit of work.
//
// The transaction begins on first use. Anything not committed when the unit
// of work returns is rolled back.
type Unit struct {
	sqlDB *sql.DB
	tx    *sql.Tx
}

// Tx returns the unit's transaction, beginning it if needed.
func (u *Unit) Tx(ctx context.Context) (*sql.Tx, error) {
	if u.tx != nil {
		return u.tx, nil
	}
	tx, err := u.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	u.tx = tx
	return tx, nil
}

// Commit durably persists the unit's pending changes.
func (u *Unit) Commit() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return &storage.PersistenceError{Op: "commit", Err: classify(err)}
	}
	return nil
}

func (u *Unit) rollback() {
	if u.tx == nil {
		return
	}
	_ = u.tx.Rollback()
	u.tx = nil
}
