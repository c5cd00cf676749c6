package query

import (
	"encoding/json"
	"errors"
	"strconv"
)

var ErrNoRegion = errors.New("query: region destination is required")

type wireSearch struct {
	Currency             string          `json:"currency"`
	EAPID                *int64          `json:"eapid,omitempty"`
	Locale               string          `json:"locale"`
	SiteID               *int64          `json:"siteId,omitempty"`
	Destination          wireDestination `json:"destination"`
	CheckInDate          Checkpoint      `json:"checkInDate"`
	CheckOutDate         Checkpoint      `json:"checkOutDate"`
	Rooms                []wireRoom      `json:"rooms"`
	ResultsStartingIndex int             `json:"resultsStartingIndex"`
	ResultsSize          int             `json:"resultsSize"`
	Sort                 Sort            `json:"sort"`
	Filters              wireFilters     `json:"filters"`
}

type wireDestination struct {
	RegionID    string      `json:"regionId"`
	Coordinates *wireCoords `json:"coordinates,omitempty"`
}

type wireCoords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type wireRoom struct {
	Adults   int         `json:"adults"`
	Children []wireChild `json:"children,omitempty"`
}

type wireChild struct {
	Age int `json:"age"`
}

type wireFilters struct {
	Price       *wirePrice `json:"price,omitempty"`
	GuestRating string     `json:"guestRating,omitempty"`
}

type wirePrice struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// MarshalJSON renders the provider payload. Field order is fixed, so equal
// searches always encode to identical bytes. When a variant repeats, the
// first occurrence wins.
func (ps PropertySearch) MarshalJSON() ([]byte, error) {
	w := wireSearch{
		Currency:             ps.Currency,
		EAPID:                ps.EAPID,
		Locale:               ps.Locale,
		SiteID:               ps.SiteID,
		CheckInDate:          ps.CheckIn,
		CheckOutDate:         ps.CheckOut,
		ResultsStartingIndex: ps.Offset,
		ResultsSize:          ps.Limit,
		Sort:                 ps.Sort,
	}

	haveRegion := false
	for _, d := range ps.Destinations {
		switch d := d.(type) {
		case RegionDestination:
			if !haveRegion {
				w.Destination.RegionID = string(d.ID)
				haveRegion = true
			}
		case CoordinatesDestination:
			if w.Destination.Coordinates == nil {
				w.Destination.Coordinates = &wireCoords{Latitude: d.Lat, Longitude: d.Lon}
			}
		}
	}
	if !haveRegion || w.Destination.RegionID == "" {
		return nil, ErrNoRegion
	}

	w.Rooms = make([]wireRoom, 0, len(ps.Rooms))
	for _, r := range ps.Rooms {
		wr := wireRoom{Adults: r.Adults}
		for _, age := range r.ChildrenAges {
			wr.Children = append(wr.Children, wireChild{Age: age})
		}
		w.Rooms = append(w.Rooms, wr)
	}

	for _, f := range ps.Filters {
		switch f := f.(type) {
		case PriceFilter:
			if w.Filters.Price == nil {
				w.Filters.Price = &wirePrice{Max: f.Max, Min: f.Min}
			}
		case RatingFilter:
			if w.Filters.GuestRating == "" {
				w.Filters.GuestRating = strconv.Itoa(int(f.Rating))
			}
		}
	}

	return json.Marshal(w)
}
