// Package errors provides structured domain errors for the gRPC boundary.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeFeedInvalidPayload Code = "FEED_INVALID_PAYLOAD"
	CodeFeedInvalidImage   Code = "FEED_INVALID_IMAGE"

	// Storage errors
	CodeFeedCacheRead    Code = "FEED_CACHE_READ_FAILED"
	CodeFeedCachePersist Code = "FEED_CACHE_PERSIST_FAILED"
	CodeFeedCacheBusy    Code = "FEED_CACHE_BUSY"
	CodeFeedStoreClosed  Code = "FEED_STORE_CLOSED"
	CodeFeedStoreLoad    Code = "FEED_STORE_LOAD_FAILED"
	CodeSchemaNotFound   Code = "SCHEMA_NOT_FOUND"

	// Request lifecycle
	CodeCanceled         Code = "CANCELED"
	CodeDeadlineExceeded Code = "DEADLINE_EXCEEDED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeFeedInvalidPayload,
		CodeFeedInvalidImage:
		return codes.InvalidArgument

	// Unavailable - the store cannot serve right now; callers may retry
	case CodeFeedCacheRead,
		CodeFeedCacheBusy,
		CodeFeedStoreClosed:
		return codes.Unavailable

	// Aborted - the write was rolled back
	case CodeFeedCachePersist:
		return codes.Aborted

	case CodeCanceled:
		return codes.Canceled
	case CodeDeadlineExceeded:
		return codes.DeadlineExceeded

	default:
		return codes.Internal
	}
}
