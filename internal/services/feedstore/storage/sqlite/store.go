// Package sqlite provides a SQLite-backed feed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage/sqlite/migrations"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	tracerName = "github.com/louisbranch/feedstore/internal/services/feedstore/storage/sqlite"

	// cacheSlot is the only key the feed_cache table accepts.
	cacheSlot = 1

	opRetrieve = "retrieve"
	opInsert   = "insert"
	opDelete   = "delete"
)

// Store persists the single feed cache snapshot in SQLite.
type Store struct {
	engine *Engine
	tracer trace.Tracer
}

// Open opens a SQLite feed store at path with the embedded feed cache schema.
func Open(path string) (*Store, error) {
	return OpenWithSchema(path, migrations.FS, migrations.FeedStoreSchema)
}

// OpenWithSchema opens a SQLite feed store using the schema rooted at
// schemaName inside schemas.
func OpenWithSchema(path string, schemas fs.FS, schemaName string) (*Store, error) {
	engine, err := OpenEngine(path, schemas, schemaName)
	if err != nil {
		return nil, err
	}
	return NewStore(engine), nil
}

// NewStore builds a store on an open engine. The store owns the engine.
func NewStore(engine *Engine) *Store {
	return &Store{
		engine: engine,
		tracer: otel.Tracer(tracerName),
	}
}

// Close waits for submitted operations and closes the database.
func (s *Store) Close() error {
	if s == nil || s.engine == nil {
		return nil
	}
	return s.engine.Close()
}

// Retrieve loads the cached feed. The completion receives nil when empty.
func (s *Store) Retrieve(completion storage.RetrievalCompletion) {
	var cache *storage.CachedFeed
	s.submit(opRetrieve, func(ctx context.Context, unit *Unit) error {
		found, err := findCache(ctx, unit)
		cache = found
		return err
	}, func(err error) {
		if completion != nil {
			completion(cache, err)
		}
	})
}

// Insert replaces the cached feed with feed and timestamp.
func (s *Store) Insert(feed []storage.FeedImage, timestamp time.Time, completion storage.InsertionCompletion) {
	feed = slices.Clone(feed)
	s.submit(opInsert, func(ctx context.Context, unit *Unit) error {
		return replaceCache(ctx, unit, feed, timestamp)
	}, func(err error) {
		if completion != nil {
			completion(err)
		}
	})
}

// DeleteCachedFeed empties the cache slot. Deleting an empty cache succeeds.
func (s *Store) DeleteCachedFeed(completion storage.DeletionCompletion) {
	s.submit(opDelete, func(ctx context.Context, unit *Unit) error {
		if err := deleteCache(ctx, unit, opDelete); err != nil {
			return err
		}
		return unit.Commit()
	}, func(err error) {
		if completion != nil {
			completion(err)
		}
	})
}

// submit runs body on the serial context inside a span, then reports to done.
// When the engine no longer accepts work, done runs on its own goroutine.
func (s *Store) submit(op string, body func(context.Context, *Unit) error, done func(error)) {
	var engine *Engine
	if s != nil {
		engine = s.engine
	}
	err := engine.Perform(func(ctx context.Context, unit *Unit) {
		ctx, span := s.tracer.Start(ctx, "feedstore."+op, trace.WithAttributes(
			attribute.String("feedstore.operation", op),
		))
		err := body(ctx, unit)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		done(err)
	})
	if err != nil {
		go done(err)
	}
}

func findCache(ctx context.Context, unit *Unit) (*storage.CachedFeed, error) {
	tx, err := unit.Tx(ctx)
	if err != nil {
		return nil, &storage.ReadError{Err: err}
	}

	var seconds, nanos int64
	err = tx.QueryRowContext(
		ctx,
		`SELECT timestamp_unix, timestamp_nanos FROM feed_cache WHERE id = ?`,
		cacheSlot,
	).Scan(&seconds, &nanos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &storage.ReadError{Err: fmt.Errorf("query feed cache: %w", err)}
	}

	rows, err := tx.QueryContext(
		ctx,
		`SELECT id, description, location, url
		   FROM feed_images
		  WHERE cache_id = ?
		  ORDER BY position ASC`,
		cacheSlot,
	)
	if err != nil {
		return nil, &storage.ReadError{Err: fmt.Errorf("query feed images: %w", err)}
	}
	defer rows.Close()

	feed := make([]storage.FeedImage, 0)
	for rows.Next() {
		var (
			rawID       string
			description sql.NullString
			location    sql.NullString
			image       storage.FeedImage
		)
		if err := rows.Scan(&rawID, &description, &location, &image.URL); err != nil {
			return nil, &storage.ReadError{Err: fmt.Errorf("scan feed image: %w", err)}
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, &storage.ReadError{Err: fmt.Errorf("parse feed image id %q: %w", rawID, err)}
		}
		image.ID = id
		image.Description = fromNullString(description)
		image.Location = fromNullString(location)
		feed = append(feed, image)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.ReadError{Err: fmt.Errorf("query feed images: %w", err)}
	}

	return &storage.CachedFeed{
		Feed:      feed,
		Timestamp: fromUnix(seconds, nanos),
	}, nil
}

func replaceCache(ctx context.Context, unit *Unit, feed []storage.FeedImage, timestamp time.Time) error {
	if err := storage.ValidateFeed(feed); err != nil {
		return &storage.PersistenceError{Op: opInsert, Err: err}
	}
	if err := deleteCache(ctx, unit, opInsert); err != nil {
		return err
	}

	tx, err := unit.Tx(ctx)
	if err != nil {
		return &storage.PersistenceError{Op: opInsert, Err: err}
	}

	seconds, nanos := toUnix(timestamp)
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO feed_cache (id, timestamp_unix, timestamp_nanos) VALUES (?, ?, ?)`,
		cacheSlot,
		seconds,
		nanos,
	); err != nil {
		return &storage.PersistenceError{Op: opInsert, Err: fmt.Errorf("insert feed cache: %w", classify(err))}
	}

	for position, image := range feed {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO feed_images (cache_id, position, id, description, location, url)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			cacheSlot,
			position,
			image.ID.String(),
			toNullString(image.Description),
			toNullString(image.Location),
			image.URL,
		); err != nil {
			return &storage.PersistenceError{Op: opInsert, Err: fmt.Errorf("insert feed image %d: %w", position, classify(err))}
		}
	}

	return unit.Commit()
}

// deleteCache removes the cache row and its images when present.
// Images are deleted explicitly; the foreign key cascade is a backstop.
func deleteCache(ctx context.Context, unit *Unit, op string) error {
	tx, err := unit.Tx(ctx)
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}

	var found int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM feed_cache WHERE id = ?`, cacheSlot).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: fmt.Errorf("find feed cache: %w", err)}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_images WHERE cache_id = ?`, cacheSlot); err != nil {
		return &storage.PersistenceError{Op: op, Err: fmt.Errorf("delete feed images: %w", classify(err))}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_cache WHERE id = ?`, cacheSlot); err != nil {
		return &storage.PersistenceError{Op: op, Err: fmt.Errorf("delete feed cache: %w", classify(err))}
	}
	return nil
}

// classify tags driver errors the caller can act on with a storage sentinel.
func classify(err error) error {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3lib.SQLITE_CONSTRAINT:
		return fmt.Errorf("%w: %w", storage.ErrConstraint, err)
	case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
		return fmt.Errorf("%w: %w", storage.ErrBusy, err)
	default:
		return err
	}
}

func toUnix(value time.Time) (int64, int64) {
	return value.Unix(), int64(value.Nanosecond())
}

func fromUnix(seconds, nanos int64) time.Time {
	return time.Unix(seconds, nanos).UTC()
}

func toNullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func fromNullString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	text := value.String
	return &text
}

var _ storage.FeedStore = (*Store)(nil)
