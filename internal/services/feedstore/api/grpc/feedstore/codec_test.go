package feedstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFeedToStructEmptyCache(t *testing.T) {
	out, err := FeedToStruct(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if found := out.GetFields()[fieldFound].GetBoolValue(); found {
		t.Fatal("expected found = false")
	}
	if _, ok := out.GetFields()[fieldImages]; ok {
		t.Fatal("expected no images for an empty cache")
	}
}

func TestFeedStructRoundTripKeepsOrderAndOptionalFields(t *testing.T) {
	timestamp := time.Date(2026, time.March, 4, 10, 30, 15, 123456789, time.UTC)
	feed := []storage.FeedImage{
		{ID: uuid.New(), Description: storage.StringPtr("harbor"), Location: storage.StringPtr("Lisbon"), URL: "https://example.com/1.png"},
		{ID: uuid.New(), URL: "https://example.com/2.png"},
		{ID: uuid.New(), Description: storage.StringPtr(""), URL: "https://example.com/3.png"},
	}

	encoded, err := FeedToStruct(&storage.CachedFeed{Feed: feed, Timestamp: timestamp})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !encoded.GetFields()[fieldFound].GetBoolValue() {
		t.Fatal("expected found = true")
	}

	decoded, err := FeedFromStruct(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Timestamp.Equal(timestamp) {
		t.Fatalf("timestamp = %v, want %v", decoded.Timestamp, timestamp)
	}
	if diff := cmp.Diff(feed, decoded.Feed); diff != "" {
		t.Fatalf("feed mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertRequestDecodesBack(t *testing.T) {
	timestamp := time.Date(2026, time.January, 1, 0, 0, 0, 1, time.FixedZone("UTC+2", 2*60*60))
	feed := []storage.FeedImage{{ID: uuid.New(), URL: "https://example.com/a.png"}}

	req, err := InsertRequest(feed, timestamp)
	if err != nil {
		t.Fatalf("build insert request: %v", err)
	}
	decoded, err := FeedFromStruct(req)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !decoded.Timestamp.Equal(timestamp) {
		t.Fatalf("timestamp = %v, want %v", decoded.Timestamp, timestamp)
	}
	if diff := cmp.Diff(feed, decoded.Feed); diff != "" {
		t.Fatalf("feed mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedFromStructAllowsMissingImages(t *testing.T) {
	in, err := structpb.NewStruct(map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z"})
	if err != nil {
		t.Fatalf("build payload: %v", err)
	}
	decoded, err := FeedFromStruct(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Feed) != 0 {
		t.Fatalf("feed length = %d, want 0", len(decoded.Feed))
	}
}

func TestFeedFromStructRejectsMalformedPayloads(t *testing.T) {
	validImage := map[string]any{fieldID: uuid.NewString(), fieldURL: "https://example.com/a.png"}

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "missing timestamp", payload: map[string]any{fieldImages: []any{}}},
		{name: "numeric timestamp", payload: map[string]any{fieldTimestamp: 12}},
		{name: "unparseable timestamp", payload: map[string]any{fieldTimestamp: "yesterday"}},
		{name: "images not a list", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: "a.png"}},
		{name: "image not an object", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: []any{"a.png"}}},
		{name: "image missing id", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: []any{
			map[string]any{fieldURL: "https://example.com/a.png"},
		}}},
		{name: "image bad id", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: []any{
			validImage,
			map[string]any{fieldID: "not-a-uuid", fieldURL: "https://example.com/b.png"},
		}}},
		{name: "image missing url", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: []any{
			map[string]any{fieldID: uuid.NewString()},
		}}},
		{name: "numeric description", payload: map[string]any{fieldTimestamp: "2026-01-02T03:04:05Z", fieldImages: []any{
			map[string]any{fieldID: uuid.NewString(), fieldURL: "https://example.com/a.png", fieldDescription: 3},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := structpb.NewStruct(tc.payload)
			if err != nil {
				t.Fatalf("build payload: %v", err)
			}
			if _, err := FeedFromStruct(in); !errors.Is(err, errInvalidPayload) {
				t.Fatalf("decode error = %v, want %v", err, errInvalidPayload)
			}
		})
	}

	if _, err := FeedFromStruct(nil); !errors.Is(err, errInvalidPayload) {
		t.Fatalf("decode nil error = %v, want %v", err, errInvalidPayload)
	}
}
