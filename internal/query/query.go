// Package query builds property-search requests in the provider's shape.
//
// Build is a pure function of its inputs: no validation, no I/O. Criteria are
// expected to be validated by the dialog before they reach it.
package query

import (
	"time"

	"hotel_finder/internal/domain"
)

type Sort string

const (
	SortPriceLowToHigh Sort = "PRICE_LOW_TO_HIGH"
	SortPriceRelevant  Sort = "PRICE_RELEVANT"
	SortReview         Sort = "REVIEW"
	SortDistance       Sort = "DISTANCE"
	SortPropertyClass  Sort = "PROPERTY_CLASS"
	SortRecommended    Sort = "RECOMMENDED"
)

// SortFor maps a ranking to the provider sort that pre-selects candidates
// for it. The provider truncates its list to the requested size before local
// ranking, so the pre-selection decides which hotels can appear at all:
// PROPERTY_CLASS for highprice may leave out pricier lower-class hotels and
// DISTANCE for bestdeal may leave out cheaper hotels further out. The final
// order is always applied locally.
func SortFor(r domain.RankingFunction) Sort {
	switch r {
	case domain.RankHighPrice:
		return SortPropertyClass
	case domain.RankBestDeal:
		return SortDistance
	default:
		return SortPriceLowToHigh
	}
}

// Destination is one of RegionDestination or CoordinatesDestination.
type Destination interface{ isDestination() }

type RegionDestination struct{ ID domain.RegionID }

// CoordinatesDestination narrows a region search around a point. The
// provider rejects it without a RegionDestination alongside.
type CoordinatesDestination struct{ Lat, Lon float64 }

func (RegionDestination) isDestination()      {}
func (CoordinatesDestination) isDestination() {}

// Filter is one of PriceFilter or RatingFilter.
type Filter interface{ isFilter() }

type PriceFilter struct{ Min, Max float64 }

type GuestRating int

const (
	RatingGood      GuestRating = 35 // 7+
	RatingVeryGood  GuestRating = 40 // 8+
	RatingWonderful GuestRating = 45 // 9+
)

type RatingFilter struct{ Rating GuestRating }

func (PriceFilter) isFilter()  {}
func (RatingFilter) isFilter() {}

type Checkpoint struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func CheckpointOf(t time.Time) Checkpoint {
	return Checkpoint{Day: t.Day(), Month: int(t.Month()), Year: t.Year()}
}

type Room struct {
	Adults       int
	ChildrenAges []int
}

var DefaultRooms = []Room{{Adults: 1}}

type PropertySearch struct {
	Currency     string
	Locale       string
	SiteID       *int64
	EAPID        *int64
	Destinations []Destination
	CheckIn      Checkpoint
	CheckOut     Checkpoint
	Rooms        []Room
	Offset       int
	Limit        int
	Sort         Sort
	Filters      []Filter
}

type Options struct {
	Currency string
	Locale   string
	Rooms    []Room // DefaultRooms when empty
	Offset   int
	Limit    int // criteria.ResultCount when zero
	// PinCentre adds the geocoded city centre as a coordinates destination.
	PinCentre bool
	Filters   []Filter
}

// Build assembles the request for dest from c. Calling it twice with equal
// arguments yields equal requests.
func Build(dest domain.ResolvedCity, c domain.SearchCriteria, opts Options) PropertySearch {
	ps := PropertySearch{
		Currency:     orDefault(opts.Currency, "USD"),
		Locale:       orDefault(opts.Locale, "en_US"),
		Destinations: []Destination{RegionDestination{ID: dest.Region.ID}},
		CheckIn:      CheckpointOf(c.CheckIn),
		CheckOut:     CheckpointOf(c.CheckOut),
		Offset:       opts.Offset,
		Limit:        opts.Limit,
		Sort:         SortFor(c.Ranking),
	}
	if ps.Limit == 0 {
		ps.Limit = c.ResultCount
	}
	if dest.Country.Code != "" {
		site := dest.Country.SiteID
		ps.SiteID = &site
		if e := dest.Country.EAPID; e != nil {
			eapid := *e
			ps.EAPID = &eapid
		}
	}
	if opts.PinCentre {
		ps.Destinations = append(ps.Destinations, CoordinatesDestination{
			Lat: dest.City.Coords.Lat,
			Lon: dest.City.Coords.Lon,
		})
	}

	rooms := opts.Rooms
	if len(rooms) == 0 {
		rooms = DefaultRooms
	}
	ps.Rooms = make([]Room, len(rooms))
	for i, r := range rooms {
		ps.Rooms[i] = Room{Adults: r.Adults, ChildrenAges: append([]int(nil), r.ChildrenAges...)}
	}

	ps.Filters = append(ps.Filters, PriceFilter{Min: c.Price.Min, Max: c.Price.Max})
	ps.Filters = append(ps.Filters, opts.Filters...)
	return ps
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
