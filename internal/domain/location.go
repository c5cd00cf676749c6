package domain

import "strings"

// GeoPlaceID identifies a place in the geocoding provider's namespace.
type GeoPlaceID string

// RegionID identifies a location in the property provider's namespace.
// It is the only identifier the property search accepts.
type RegionID string

type LocationKind string

const (
	KindCity         LocationKind = "CITY"
	KindHotel        LocationKind = "HOTEL"
	KindNeighborhood LocationKind = "NEIGHBORHOOD"
	KindPOI          LocationKind = "POI"
	KindAirport      LocationKind = "AIRPORT"
	KindMultiRegion  LocationKind = "MULTIREGION"
)

func ParseLocationKind(s string) (LocationKind, bool) {
	switch k := LocationKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindCity, KindHotel, KindNeighborhood, KindPOI, KindAirport, KindMultiRegion:
		return k, true
	}
	return "", false
}

type Coordinates struct{ Lat, Lon float64 }

// GeoCity is a city candidate returned by the geocoder.
// Lower Importance means a better match.
type GeoCity struct {
	ID         GeoPlaceID
	Name       string
	Country    string
	Coords     Coordinates
	Importance float64
}

// Region is a location as the property provider knows it.
type Region struct {
	ID     RegionID
	Name   string
	Kind   LocationKind
	Coords Coordinates
}

// ResolvedCity joins both providers' view of one city by display name.
type ResolvedCity struct {
	City    GeoCity
	Country CountryInfo
	Region  Region
}

type CountryInfo struct {
	Code   string // ISO 3166-1 alpha-2
	SiteID int64
	TPID   int64
	EAPID  *int64
}

// CountryTable is the read-only set of countries the property provider serves.
// Build it once with NewCountryTable and share it freely between goroutines.
type CountryTable struct {
	byCode map[string]CountryInfo
}

func NewCountryTable(items []CountryInfo) CountryTable {
	m := make(map[string]CountryInfo, len(items))
	for _, it := range items {
		code := strings.ToUpper(strings.TrimSpace(it.Code))
		if code == "" {
			continue
		}
		it.Code = code
		m[code] = it
	}
	return CountryTable{byCode: m}
}

func (t CountryTable) Lookup(code string) (CountryInfo, bool) {
	ci, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ci, ok
}

func (t CountryTable) Len() int { return len(t.byCode) }
