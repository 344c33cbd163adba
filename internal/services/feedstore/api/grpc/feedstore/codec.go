package feedstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/feedstore/internal/services/feedstore/storage"
	"google.golang.org/protobuf/types/known/structpb"
)

// Struct field names of the feed payload.
const (
	fieldFound       = "found"
	fieldTimestamp   = "timestamp"
	fieldImages      = "images"
	fieldID          = "id"
	fieldDescription = "description"
	fieldLocation    = "location"
	fieldURL         = "url"
)

var errInvalidPayload = errors.New("invalid feed payload")

// FeedToStruct encodes a retrieval result. A nil cache encodes as
// {"found": false}.
func FeedToStruct(cache *storage.CachedFeed) (*structpb.Struct, error) {
	if cache == nil {
		return structpb.NewStruct(map[string]any{fieldFound: false})
	}
	return structpb.NewStruct(map[string]any{
		fieldFound:     true,
		fieldTimestamp: cache.Timestamp.UTC().Format(time.RFC3339Nano),
		fieldImages:    imagesToList(cache.Feed),
	})
}

// InsertRequest builds the InsertFeed payload for feed and timestamp.
func InsertRequest(feed []storage.FeedImage, timestamp time.Time) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		fieldTimestamp: timestamp.UTC().Format(time.RFC3339Nano),
		fieldImages:    imagesToList(feed),
	})
}

func imagesToList(feed []storage.FeedImage) []any {
	images := make([]any, 0, len(feed))
	for _, image := range feed {
		images = append(images, map[string]any{
			fieldID:          image.ID.String(),
			fieldDescription: optionalValue(image.Description),
			fieldLocation:    optionalValue(image.Location),
			fieldURL:         image.URL,
		})
	}
	return images
}

func optionalValue(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

// FeedFromStruct decodes a feed payload. The "found" field is ignored.
// Image content rules are left to the store.
func FeedFromStruct(in *structpb.Struct) (*storage.CachedFeed, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: payload is required", errInvalidPayload)
	}
	fields := in.GetFields()

	rawTimestamp, ok := fields[fieldTimestamp].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%w: timestamp must be an RFC 3339 string", errInvalidPayload)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rawTimestamp.StringValue))
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", errInvalidPayload, err)
	}

	cache := &storage.CachedFeed{Timestamp: timestamp, Feed: []storage.FeedImage{}}
	rawImages, present := fields[fieldImages]
	if !present || isNull(rawImages) {
		return cache, nil
	}
	list := rawImages.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: images must be a list", errInvalidPayload)
	}
	for index, value := range list.GetValues() {
		image, err := imageFromValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", errInvalidPayload, index, err)
		}
		cache.Feed = append(cache.Feed, image)
	}
	return cache, nil
}

func imageFromValue(value *structpb.Value) (storage.FeedImage, error) {
	object := value.GetStructValue()
	if object == nil {
		return storage.FeedImage{}, errors.New("must be an object")
	}
	fields := object.GetFields()

	rawID, err := requiredString(fields, fieldID)
	if err != nil {
		return storage.FeedImage{}, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return storage.FeedImage{}, fmt.Errorf("id: %v", err)
	}
	url, err := requiredString(fields, fieldURL)
	if err != nil {
		return storage.FeedImage{}, err
	}
	description, err := optionalString(fields, fieldDescription)
	if err != nil {
		return storage.FeedImage{}, err
	}
	location, err := optionalString(fields, fieldLocation)
	if err != nil {
		return storage.FeedImage{}, err
	}
	return storage.FeedImage{
		ID:          id,
		Description: description,
		Location:    location,
		URL:         url,
	}, nil
}

func requiredString(fields map[string]*structpb.Value, name string) (string, error) {
	kind, ok := fields[name].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return kind.StringValue, nil
}

func optionalString(fields map[string]*structpb.Value, name string) (*string, error) {
	value, present := fields[name]
	if !present || isNull(value) {
		return nil, nil
	}
	kind, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, fmt.Errorf("%s must be a string or null", name)
	}
	return storage.StringPtr(kind.StringValue), nil
}

func isNull(value *structpb.Value) bool {
	if value == nil {
		return true
	}
	_, null := value.GetKind().(*structpb.Value_NullValue)
	return null || value.GetKind() == nil
}
