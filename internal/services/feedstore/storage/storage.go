// Package storage defines persistence contracts for the feed image cache.
package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FeedImage stores one cached feed image record.
type FeedImage struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         string
}

// CachedFeed is the single persisted cache snapshot.
type CachedFeed struct {
	Feed      []FeedImage
	Timestamp time.Time
}

// RetrievalCompletion receives the cached feed, or nil when the cache is empty.
type RetrievalCompletion func(cache *CachedFeed, err error)

// InsertionCompletion receives nil once the new feed is committed.
type InsertionCompletion func(err error)

// DeletionCompletion receives nil once the cache slot is empty.
type DeletionCompletion func(err error)

// FeedStore persists a single feed cache snapshot.
//
// Every method returns immediately and invokes its completion exactly once,
// asynchronously, after the effect is committed or has definitively failed.
// Calls are applied in submission order.
type FeedStore interface {
	Retrieve(completion RetrievalCompletion)
	Insert(feed []FeedImage, timestamp time.Time, completion InsertionCompletion)
	DeleteCachedFeed(completion DeletionCompletion)
}

// ValidateFeed reports the first image that cannot be persisted.
func ValidateFeed(feed []FeedImage) error {
	for i, image := range feed {
		if image.ID == uuid.Nil {
			return fmt.Errorf("%w: image %d: id is required", ErrInvalidImage, i)
		}
		raw := strings.TrimSpace(image.URL)
		if raw == "" {
			return fmt.Errorf("%w: image %d: url is required", ErrInvalidImage, i)
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("%w: image %d: %v", ErrInvalidImage, i, err)
		}
	}
	return nil
}

// StringPtr returns a pointer to value, for optional image fields.
func StringPtr(value string) *string {
	return &value
}

var (
	// ErrSchemaNotFound indicates the named schema is missing from the schema bundle.
	ErrSchemaNotFound = errors.New("schema not found")
	// ErrClosed indicates an operation was submitted after the store was closed.
	ErrClosed = errors.New("feed store closed")
	// ErrInvalidImage indicates a feed image is missing a required field.
	ErrInvalidImage = errors.New("invalid feed image")
	// ErrConstraint indicates the database rejected a write through a schema constraint.
	ErrConstraint = errors.New("feed cache constraint violated")
	// ErrBusy indicates the database file was locked by another writer.
	ErrBusy = errors.New("feed cache busy")
)

// StoreLoadError reports that the durable store at Path could not be opened.
type StoreLoadError struct {
	Path string
	Err  error
}

func (e *StoreLoadError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return fmt.Sprintf("load feed store: %v", e.Err)
	}
	return fmt.Sprintf("load feed store %s: %v", e.Path, e.Err)
}

func (e *StoreLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReadError reports a failed cache query. Store state is unchanged.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("read feed cache: %v", e.Err)
}

func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PersistenceError reports a failed insert, delete or commit.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op == "" {
		return fmt.Sprintf("persist feed cache: %v", e.Err)
	}
	return fmt.Sprintf("persist feed cache (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
