package domain

import "context"

type Geocoder interface {
	ForwardGeocode(ctx context.Context, city string) ([]GeoCity, error)
}

type LocationSearcher interface {
	SearchLocations(ctx context.Context, query string) ([]Region, error)
}

type HistoryRepository interface {
	InsertSearch(ctx context.Context, rec SearchRecord) error
	ListSearches(ctx context.Context, sessionID string, limit int) ([]SearchRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Replier delivers outbound messages for one conversation.
type Replier interface {
	Send(ctx context.Context, m Message) error
}
