package geocoding

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"hotel_finder/internal/adapters/rapidapi"
	"hotel_finder/internal/domain"
)

// Client is the forward geocoding provider.
type Client struct {
	api    *rapidapi.Client
	locale string
}

func New(api *rapidapi.Client, locale string) *Client {
	if locale == "" {
		locale = "en_US"
	}
	return &Client{api: api, locale: locale}
}

// ForwardGeocode returns city candidates in provider order. An unknown
// city yields an empty list, not an error.
func (c *Client) ForwardGeocode(ctx context.Context, city string) ([]domain.GeoCity, error) {
	params := url.Values{"city": {city}, "accept-language": {c.locale}}
	var raw []map[string]any
	if err := c.api.Get(ctx, "/v1/forward", params, &raw); err != nil {
		if errors.Is(err, rapidapi.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]domain.GeoCity, 0, len(raw))
	for _, m := range raw {
		if gc, ok := mapCity(m); ok {
			out = append(out, gc)
		}
	}
	return out, nil
}

// mapCity reads one place. display_name is "City, Region, ..., Country".
func mapCity(m map[string]any) (domain.GeoCity, bool) {
	id := rapidapi.String(m, "place_id", "osm_id")
	display := rapidapi.String(m, "display_name")
	if id == "" || display == "" {
		return domain.GeoCity{}, false
	}
	parts := strings.Split(display, ",")
	name := strings.TrimSpace(parts[0])
	country := strings.TrimSpace(parts[len(parts)-1])

	lat, okLat := rapidapi.Float(m, "lat")
	lon, okLon := rapidapi.Float(m, "lon")
	if !okLat || !okLon {
		return domain.GeoCity{}, false
	}
	imp, _ := rapidapi.Float(m, "importance")

	return domain.GeoCity{
		ID:         domain.GeoPlaceID(id),
		Name:       name,
		Country:    country,
		Coords:     domain.Coordinates{Lat: lat, Lon: lon},
		Importance: imp,
	}, true
}
