// Package feedstore exposes the feed cache store over gRPC.
package feedstore

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/feedstore/internal/platform/errors"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service exposes feedstore.v1 gRPC operations.
//
// Each call submits one store operation and waits for its completion or for
// the request context to end. A write whose caller gives up still runs once
// submitted.
type Service struct {
	UnimplementedFeedStoreServiceServer
	store storage.FeedStore
}

// NewService creates a feed cache service backed by store.
func NewService(store storage.FeedStore) *Service {
	return &Service{store: store}
}

type retrieval struct {
	cache *storage.CachedFeed
	err   error
}

// RetrieveFeed returns the cached feed, or {"found": false} when empty.
func (s *Service) RetrieveFeed(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "feed store is not configured")
	}

	done := make(chan retrieval, 1)
	s.store.Retrieve(func(cache *storage.CachedFeed, err error) {
		done <- retrieval{cache: cache, err: err}
	})
	result, err := await(ctx, done)
	if err != nil {
		return nil, err
	}
	if result.err != nil {
		return nil, storeStatus(ctx, "retrieve feed", result.err)
	}

	out, err := FeedToStruct(result.cache)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode feed: %v", err)
	}
	return out, nil
}

// InsertFeed replaces the cached feed with the payload's images and timestamp.
func (s *Service) InsertFeed(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "feed store is not configured")
	}
	cache, err := FeedFromStruct(in)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeFeedInvalidPayload, "decode insert feed request", err).ToGRPCStatus(apperrors.LocaleFromContext(ctx))
	}

	done := make(chan error, 1)
	s.store.Insert(cache.Feed, cache.Timestamp, func(err error) {
		done <- err
	})
	if err := awaitErr(ctx, done, "insert feed"); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

// DeleteCachedFeed empties the cache. Deleting an empty cache succeeds.
func (s *Service) DeleteCachedFeed(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if s == nil || s.store == nil {
		return nil, status.Error(codes.Internal, "feed store is not configured")
	}

	done := make(chan error, 1)
	s.store.DeleteCachedFeed(func(err error) {
		done <- err
	})
	if err := awaitErr(ctx, done, "delete cached feed"); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func await[T any](ctx context.Context, done <-chan T) (T, error) {
	select {
	case result := <-done:
		return result, nil
	case <-ctx.Done():
		var zero T
		return zero, storeStatus(ctx, "await feed store", ctx.Err())
	}
}

func awaitErr(ctx context.Context, done <-chan error, message string) error {
	storeErr, err := await(ctx, done)
	if err != nil {
		return err
	}
	if storeErr != nil {
		return storeStatus(ctx, message, storeErr)
	}
	return nil
}

// storeStatus maps a store failure onto a gRPC status carrying the domain code
// and a message in the caller's locale.
func storeStatus(ctx context.Context, message string, err error) error {
	code := apperrors.CodeUnknown
	var metadata map[string]string

	var (
		readErr    *storage.ReadError
		persistErr *storage.PersistenceError
	)
	switch {
	case errors.Is(err, context.Canceled):
		code = apperrors.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		code = apperrors.CodeDeadlineExceeded
	case errors.Is(err, storage.ErrInvalidImage):
		code = apperrors.CodeFeedInvalidImage
	case errors.Is(err, storage.ErrClosed):
		code = apperrors.CodeFeedStoreClosed
	case errors.Is(err, storage.ErrBusy):
		code = apperrors.CodeFeedCacheBusy
	case errors.As(err, &readErr):
		code = apperrors.CodeFeedCacheRead
	case errors.As(err, &persistErr):
		code = apperrors.CodeFeedCachePersist
		metadata = map[string]string{"operation": persistErr.Op}
	}

	appErr := apperrors.Wrap(code, message, err)
	if metadata != nil {
		appErr = appErr.WithMetadata(metadata)
	}
	return appErr.ToGRPCStatus(apperrors.LocaleFromContext(ctx))
}
