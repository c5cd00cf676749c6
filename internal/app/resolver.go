package app

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/biter777/countries"
	"github.com/rs/zerolog"

	"hotel_finder/internal/domain"
)

// Resolver turns free-text city names into a destination the property
// provider can search. Each call hits both providers.
type Resolver struct {
	geo       domain.Geocoder
	locations domain.LocationSearcher
	countries domain.CountryTable
	log       zerolog.Logger
}

func NewResolver(geo domain.Geocoder, locations domain.LocationSearcher, table domain.CountryTable, log zerolog.Logger) *Resolver {
	return &Resolver{geo: geo, locations: locations, countries: table, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, cityText string) (domain.ResolvedCity, error) {
	city, err := r.geocode(ctx, cityText)
	if err != nil {
		return domain.ResolvedCity{}, err
	}
	ci, err := r.country(city)
	if err != nil {
		return domain.ResolvedCity{}, err
	}
	region, err := r.region(ctx, city)
	if err != nil {
		return domain.ResolvedCity{}, err
	}
	r.log.Debug().
		Str("city", city.Name).
		Str("country", ci.Code).
		Str("region", string(region.ID)).
		Msg("city resolved")
	return domain.ResolvedCity{City: city, Country: ci, Region: region}, nil
}

// geocode picks the candidate with the lowest importance score.
func (r *Resolver) geocode(ctx context.Context, text string) (domain.GeoCity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.GeoCity{}, domain.ErrCityNotFound
	}
	cands, err := r.geo.ForwardGeocode(ctx, text)
	if err != nil {
		return domain.GeoCity{}, fmt.Errorf("geocode %q: %w", text, err)
	}
	if len(cands) == 0 {
		return domain.GeoCity{}, fmt.Errorf("geocode %q: %w", text, domain.ErrCityNotFound)
	}
	sorted := slices.Clone(cands)
	slices.SortStableFunc(sorted, func(a, b domain.GeoCity) int {
		switch {
		case a.Importance < b.Importance:
			return -1
		case a.Importance > b.Importance:
			return 1
		}
		return 0
	})
	return sorted[0], nil
}

func (r *Resolver) country(city domain.GeoCity) (domain.CountryInfo, error) {
	code := CountryCode(city.Country)
	if code == "" {
		return domain.CountryInfo{}, fmt.Errorf("country %q: %w", city.Country, domain.ErrCityCountryNotSupported)
	}
	ci, ok := r.countries.Lookup(code)
	if !ok {
		return domain.CountryInfo{}, fmt.Errorf("country %s: %w", code, domain.ErrCityCountryNotSupported)
	}
	return ci, nil
}

// region finds the city in the property provider's own namespace.
func (r *Resolver) region(ctx context.Context, city domain.GeoCity) (domain.Region, error) {
	found, err := r.locations.SearchLocations(ctx, city.Name)
	if err != nil {
		return domain.Region{}, fmt.Errorf("search locations %q: %w", city.Name, err)
	}
	var cities []domain.Region
	for _, reg := range found {
		if reg.Kind == domain.KindCity {
			cities = append(cities, reg)
		}
	}
	switch len(cities) {
	case 0:
		r.log.Warn().Str("city", city.Name).Str("place", string(city.ID)).
			Msg("geocoded city unknown to property provider")
		return domain.Region{}, fmt.Errorf("search locations %q: %w", city.Name, domain.ErrCityNotFound)
	case 1:
		return cities[0], nil
	}
	for _, reg := range cities {
		if reg.Name == city.Name {
			return reg, nil
		}
	}
	return domain.Region{}, fmt.Errorf("search locations %q: %d candidates: %w", city.Name, len(cities), domain.ErrAmbiguousCity)
}

// CountryCode maps a free-form country name to its ISO 3166-1 alpha-2 code,
// or "" when the name is unknown.
func CountryCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	c := countries.ByName(name)
	if c == countries.Unknown {
		return ""
	}
	return c.Alpha2()
}
